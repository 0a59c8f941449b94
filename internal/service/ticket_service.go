package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/resolver"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates single-ticket read, update, and delete with
// field-level validation through the entity resolver.
type TicketService struct {
	tickets    repository.TicketStore
	resolver   *resolver.Resolver
	perms      *auth.Checker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketStore repository.TicketStore
	Resolver    *resolver.Resolver
	Checker     *auth.Checker
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NoteInput describes the optional note attached on update.
type NoteInput struct {
	Title  string
	Body   string
	Format string
}

// UpdateInput carries client-supplied field references. Nil fields are left
// untouched; non-nil fields are resolved and validated before any write.
type UpdateInput struct {
	Subject    *string
	Department *string
	Topic      *string
	Status     *string
	SLA        *string
	Staff      *string
	Parent     *string
	DueDate    *string
	Note       *NoteInput
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketStore,
		resolver:   deps.Resolver,
		perms:      deps.Checker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// GetTicket fetches a ticket by public number or internal ID.
func (s *TicketService) GetTicket(ctx context.Context, cred *auth.Credential, ref string) (*domain.Ticket, error) {
	if err := s.perms.Require(cred, auth.PermReadTickets, "ticket "+ref); err != nil {
		return nil, err
	}
	return s.lookup(ctx, ref)
}

// UpdateTicket resolves every supplied field, applies the changes, and saves
// through the ticket store. The note attachment is a side effect: its
// failure is logged, never fatal to the update.
func (s *TicketService) UpdateTicket(ctx context.Context, cred *auth.Credential, ref string, input UpdateInput) (*domain.Ticket, error) {
	if err := s.perms.Require(cred, auth.PermUpdateTickets, "ticket "+ref); err != nil {
		return nil, err
	}
	ticket, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}

	var changed []string

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewInvalidInput("subject cannot be empty", nil)
		}
		ticket.Subject = subject
		changed = append(changed, "subject")
	}
	if input.Department != nil {
		id, err := s.resolver.ResolveDepartment(ctx, *input.Department)
		if err != nil {
			return nil, err
		}
		ticket.DepartmentID = id
		changed = append(changed, "department")
	}
	if input.Topic != nil {
		id, err := s.resolver.ResolveTopic(ctx, *input.Topic)
		if err != nil {
			return nil, err
		}
		ticket.TopicID = &id
		changed = append(changed, "topic")
	}
	if input.Status != nil {
		id, err := s.resolver.ResolveStatus(ctx, *input.Status)
		if err != nil {
			return nil, err
		}
		ticket.StatusID = id
		changed = append(changed, "status")
	}
	if input.SLA != nil {
		id, err := s.resolver.ResolveSLA(ctx, *input.SLA)
		if err != nil {
			return nil, err
		}
		ticket.SLAID = &id
		changed = append(changed, "sla")
	}
	if input.Staff != nil {
		id, err := s.resolver.ResolveStaff(ctx, *input.Staff)
		if err != nil {
			return nil, err
		}
		ticket.StaffID = &id
		changed = append(changed, "staff")
	}
	if input.Parent != nil {
		if strings.TrimSpace(*input.Parent) == "" {
			ticket.ParentID = nil
		} else {
			id, err := s.resolver.ResolveParentTicket(ctx, *input.Parent)
			if err != nil {
				return nil, err
			}
			if id == ticket.ID {
				return nil, apperrors.NewInvalidInput("a ticket cannot be its own parent", nil)
			}
			ticket.ParentID = &id
		}
		changed = append(changed, "parent")
	}
	if input.DueDate != nil {
		due, err := s.resolver.ResolveDueDate(input.DueDate)
		if err != nil {
			return nil, err
		}
		ticket.DueDate = due
		changed = append(changed, "due_date")
	}

	var noteFormat string
	if input.Note != nil {
		format, err := s.resolver.ResolveMessageFormat(input.Note.Format)
		if err != nil {
			return nil, err
		}
		noteFormat = format
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
		}
		s.logger.Error("ticket save failed",
			zap.Int64("ticket_id", ticket.ID),
			zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	if input.Note != nil {
		if err := s.tickets.PostNote(ctx, ticket.ID, input.Note.Title, input.Note.Body, noteFormat); err != nil {
			s.logger.Warn("note attachment failed",
				zap.Int64("ticket_id", ticket.ID),
				zap.Error(err))
		}
	}

	s.publish(ctx, cred, events.EventTicketUpdated, ticket.ID, events.TicketUpdatedPayload{
		Number:        ticket.Number,
		ChangedFields: changed,
	})
	return ticket, nil
}

// DeleteTicket removes a ticket from the store.
func (s *TicketService) DeleteTicket(ctx context.Context, cred *auth.Credential, ref string) error {
	if err := s.perms.Require(cred, auth.PermDeleteTickets, "ticket "+ref); err != nil {
		return err
	}
	ticket, err := s.lookup(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
		}
		s.logger.Error("ticket delete failed",
			zap.Int64("ticket_id", ticket.ID),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, cred, events.EventTicketDeleted, ticket.ID, events.TicketDeletedPayload{
		Number: ticket.Number,
	})
	return nil
}

// lookup resolves a client reference number-first with numeric-ID fallback.
func (s *TicketService) lookup(ctx context.Context, ref string) (*domain.Ticket, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return nil, apperrors.NewInvalidInput("ticket reference required", nil)
	}
	ticket, err := s.tickets.LookupByNumber(ctx, trimmed)
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	id, convErr := parseTicketID(trimmed)
	if convErr != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
	}
	ticket, err = s.tickets.LookupByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, cred *auth.Credential, eventType events.EventType, ticketID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     events.Actor{StaffID: cred.StaffID, StaffName: cred.StaffName},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
