package domain

import "time"

// Topic categorizes tickets by help topic.
type Topic struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status is a ticket lifecycle state. Statuses have no active/inactive
// concept: every stored status is usable.
type Status struct {
	ID   int64
	Name string
}

// SLA defines a service-level agreement attachable to a ticket.
type SLA struct {
	ID         int64
	Name       string
	GraceHours int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Team groups staff members inside a department.
type Team struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
