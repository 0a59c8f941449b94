package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// TopicStore manages help topic lookups.
type TopicStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Topic, error)
	ListAll(ctx context.Context) ([]domain.Topic, error)
}

// StatusStore manages ticket status lookups.
type StatusStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	ListAll(ctx context.Context) ([]domain.Status, error)
}

// SLAStore manages SLA lookups.
type SLAStore interface {
	GetByID(ctx context.Context, id int64) (*domain.SLA, error)
	ListAll(ctx context.Context) ([]domain.SLA, error)
}

type topicStore struct {
	pool *pgxpool.Pool
}

// NewTopicStore builds the store.
func NewTopicStore(pool *pgxpool.Pool) TopicStore {
	return &topicStore{pool: pool}
}

func (r *topicStore) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	const query = `SELECT id, name, is_active, created_at, updated_at FROM topics WHERE id=$1`
	var topic domain.Topic
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&topic.ID, &topic.Name, &topic.IsActive, &topic.CreatedAt, &topic.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicStore) ListAll(ctx context.Context) ([]domain.Topic, error) {
	const query = `SELECT id, name, is_active, created_at, updated_at FROM topics ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Topic
	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.IsActive, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, topic)
	}
	return result, rows.Err()
}

type statusStore struct {
	pool *pgxpool.Pool
}

// NewStatusStore builds the store.
func NewStatusStore(pool *pgxpool.Pool) StatusStore {
	return &statusStore{pool: pool}
}

func (r *statusStore) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	const query = `SELECT id, name FROM statuses WHERE id=$1`
	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status.ID, &status.Name); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusStore) ListAll(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT id, name FROM statuses ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

type slaStore struct {
	pool *pgxpool.Pool
}

// NewSLAStore builds the store.
func NewSLAStore(pool *pgxpool.Pool) SLAStore {
	return &slaStore{pool: pool}
}

func (r *slaStore) GetByID(ctx context.Context, id int64) (*domain.SLA, error) {
	const query = `SELECT id, name, grace_hours, is_active, created_at, updated_at FROM slas WHERE id=$1`
	var sla domain.SLA
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&sla.ID, &sla.Name, &sla.GraceHours, &sla.IsActive, &sla.CreatedAt, &sla.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sla, nil
}

func (r *slaStore) ListAll(ctx context.Context) ([]domain.SLA, error) {
	const query = `SELECT id, name, grace_hours, is_active, created_at, updated_at FROM slas ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLA
	for rows.Next() {
		var sla domain.SLA
		if err := rows.Scan(&sla.ID, &sla.Name, &sla.GraceHours, &sla.IsActive, &sla.CreatedAt, &sla.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, sla)
	}
	return result, rows.Err()
}
