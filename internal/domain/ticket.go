package domain

import "time"

// Ticket is the aggregate for support requests. The internal numeric ID is
// the storage key; Number is the public-facing reference and the preferred
// lookup key everywhere in this service.
type Ticket struct {
	ID           int64
	Number       string
	Subject      string
	DepartmentID int64
	TopicID      *int64
	StatusID     int64
	SLAID        *int64
	StaffID      *int64
	TeamID       *int64
	ParentID     *int64
	DueDate      *time.Time
	Overdue      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ClosedAt     *time.Time
}

// IsChild reports whether the ticket is linked under a parent.
func (t *Ticket) IsChild() bool {
	return t.ParentID != nil
}

// IsClosed reports whether the ticket carries a close timestamp.
func (t *Ticket) IsClosed() bool {
	return t.ClosedAt != nil
}

// IsOverdue returns the store-owned overdue flag. The predicate is computed
// by the ticket store, never recomputed here.
func (t *Ticket) IsOverdue() bool {
	return t.Overdue
}
