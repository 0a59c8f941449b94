package dto

import (
	"time"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/resolver"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UpdateTicketRequest carries the optional field references. Absent fields
// are left untouched.
type UpdateTicketRequest struct {
	Subject    *string      `json:"subject"`
	Department *string      `json:"department"`
	Topic      *string      `json:"topic"`
	Status     *string      `json:"status"`
	SLA        *string      `json:"sla"`
	Staff      *string      `json:"staff"`
	Parent     *string      `json:"parent"`
	DueDate    *string      `json:"due_date"`
	Note       *NoteRequest `json:"note"`
}

// NoteRequest describes the optional note attached on update.
type NoteRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Format string `json:"format"`
}

// LinkRequest names the child to link under a parent.
type LinkRequest struct {
	Child string `json:"child"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	Subject      string     `json:"subject"`
	DepartmentID int64      `json:"department_id"`
	TopicID      *int64     `json:"topic_id"`
	StatusID     int64      `json:"status_id"`
	SLAID        *int64     `json:"sla_id"`
	StaffID      *int64     `json:"staff_id"`
	TeamID       *int64     `json:"team_id"`
	ParentID     *int64     `json:"parent_id"`
	DueDate      *string    `json:"due_date"`
	Overdue      bool       `json:"overdue"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ClosedAt     *time.Time `json:"closed_at"`
}

// FromTicket maps a domain ticket to its response form.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           ticket.ID,
		Number:       ticket.Number,
		Subject:      ticket.Subject,
		DepartmentID: ticket.DepartmentID,
		TopicID:      ticket.TopicID,
		StatusID:     ticket.StatusID,
		SLAID:        ticket.SLAID,
		StaffID:      ticket.StaffID,
		TeamID:       ticket.TeamID,
		ParentID:     ticket.ParentID,
		Overdue:      ticket.IsOverdue(),
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		ClosedAt:     ticket.ClosedAt,
	}
	if ticket.DueDate != nil {
		due := ticket.DueDate.Format(resolver.DueDateLayout)
		resp.DueDate = &due
	}
	return resp
}
