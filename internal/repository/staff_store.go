package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// StaffStore handles staff member lookups. GetByUsername accepts either the
// login username or the email address; identity resolution is owned by the
// store, not by callers.
type StaffStore interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetByUsername(ctx context.Context, username string) (*domain.StaffMember, error)
	ListAll(ctx context.Context) ([]domain.StaffMember, error)
}

type staffStore struct {
	pool *pgxpool.Pool
}

// NewStaffStore instantiates the store.
func NewStaffStore(pool *pgxpool.Pool) StaffStore {
	return &staffStore{pool: pool}
}

const staffColumns = `id, name, username, email, password_hash, role, department_id, team_id, active_flag, created_at, updated_at`

func (r *staffStore) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffStore) GetByUsername(ctx context.Context, username string) (*domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE LOWER(username)=LOWER($1) OR LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, username)
}

func (r *staffStore) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Username,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.DepartmentID,
		&staff.TeamID,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffStore) ListAll(ctx context.Context) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffMember
	for rows.Next() {
		var staff domain.StaffMember
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Username,
			&staff.Email,
			&staff.PasswordHash,
			&staff.Role,
			&staff.DepartmentID,
			&staff.TeamID,
			&staff.Active,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}
