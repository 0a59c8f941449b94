package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// TicketStore encapsulates ticket persistence. Lookups return pgx.ErrNoRows
// when no ticket matches; callers translate that to their own not-found
// semantics.
type TicketStore interface {
	LookupByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	LookupByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	Save(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	PostNote(ctx context.Context, ticketID int64, title, body, format string) error
}

type ticketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore instantiates the store.
func NewTicketStore(pool *pgxpool.Pool) TicketStore {
	return &ticketStore{pool: pool}
}

const ticketColumns = `id, number, subject, department_id, topic_id, status_id, sla_id,
       staff_id, team_id, parent_id, due_date,
       (due_date IS NOT NULL AND due_date < NOW() AND closed_at IS NULL) AS overdue,
       created_at, updated_at, closed_at`

func (r *ticketStore) LookupByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketStore) LookupByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketStore) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Subject,
		&ticket.DepartmentID,
		&ticket.TopicID,
		&ticket.StatusID,
		&ticket.SLAID,
		&ticket.StaffID,
		&ticket.TeamID,
		&ticket.ParentID,
		&ticket.DueDate,
		&ticket.Overdue,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketStore) Save(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET subject=$1, department_id=$2, topic_id=$3, status_id=$4,
            sla_id=$5, staff_id=$6, team_id=$7, parent_id=$8, due_date=$9,
            closed_at=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.DepartmentID,
		ticket.TopicID,
		ticket.StatusID,
		ticket.SLAID,
		ticket.StaffID,
		ticket.TeamID,
		ticket.ParentID,
		ticket.DueDate,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketStore) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketStore) PostNote(ctx context.Context, ticketID int64, title, body, format string) error {
	const query = `
        INSERT INTO ticket_notes (ticket_id, title, body, format)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query, ticketID, title, body, format)
	return err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Number,
			&ticket.Subject,
			&ticket.DepartmentID,
			&ticket.TopicID,
			&ticket.StatusID,
			&ticket.SLAID,
			&ticket.StaffID,
			&ticket.TeamID,
			&ticket.ParentID,
			&ticket.DueDate,
			&ticket.Overdue,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
