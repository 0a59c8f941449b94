package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketUpdated     EventType = "ticket_updated"
	EventTicketDeleted     EventType = "ticket_deleted"
	EventSubticketLinked   EventType = "subticket_linked"
	EventSubticketUnlinked EventType = "subticket_unlinked"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	StaffID   int64  `json:"staff_id"`
	StaffName string `json:"staff_name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	Number        string   `json:"number"`
	ChangedFields []string `json:"changed_fields"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Number string `json:"number"`
}

// SubticketLinkedPayload payload.
type SubticketLinkedPayload struct {
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
}

// SubticketUnlinkedPayload payload.
type SubticketUnlinkedPayload struct {
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
}
