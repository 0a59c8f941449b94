package subticket

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// pgStore is the pgx-backed relationship store over the ticket_links table.
// The table carries a uniqueness constraint on child_id; the manager still
// checks link state first so conflicts surface with proper semantics.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPGStore builds the postgres relationship store. Returns nil when no
// pool is configured; callers treat a nil store as an absent capability.
func NewPGStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		return nil
	}
	return &pgStore{pool: pool}
}

func (s *pgStore) IsActive(ctx context.Context) bool {
	return s.pool.Ping(ctx) == nil
}

func (s *pgStore) GetParent(ctx context.Context, child *domain.Ticket) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.number, t.subject, t.department_id, t.topic_id, t.status_id, t.sla_id,
               t.staff_id, t.team_id, t.parent_id, t.due_date,
               (t.due_date IS NOT NULL AND t.due_date < NOW() AND t.closed_at IS NULL) AS overdue,
               t.created_at, t.updated_at, t.closed_at
        FROM ticket_links l
        JOIN tickets t ON t.id = l.parent_id
        WHERE l.child_id = $1`
	var parent domain.Ticket
	err := s.pool.QueryRow(ctx, query, child.ID).Scan(
		&parent.ID,
		&parent.Number,
		&parent.Subject,
		&parent.DepartmentID,
		&parent.TopicID,
		&parent.StatusID,
		&parent.SLAID,
		&parent.StaffID,
		&parent.TeamID,
		&parent.ParentID,
		&parent.DueDate,
		&parent.Overdue,
		&parent.CreatedAt,
		&parent.UpdatedAt,
		&parent.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &parent, nil
}

func (s *pgStore) GetChildren(ctx context.Context, parent *domain.Ticket) ([]int64, error) {
	const query = `SELECT child_id FROM ticket_links WHERE parent_id=$1 ORDER BY child_id`
	rows, err := s.pool.Query(ctx, query, parent.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *pgStore) CreateLink(ctx context.Context, parent, child *domain.Ticket) error {
	const query = `INSERT INTO ticket_links (parent_id, child_id) VALUES ($1,$2)`
	_, err := s.pool.Exec(ctx, query, parent.ID, child.ID)
	return err
}

func (s *pgStore) RemoveLink(ctx context.Context, child *domain.Ticket) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM ticket_links WHERE child_id=$1`, child.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
