package subticket

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// Summary is the formatted ticket summary returned by subticket queries.
type Summary struct {
	ID         int64  `json:"id"`
	Number     string `json:"number"`
	Subject    string `json:"subject"`
	StatusName string `json:"status"`
}

// Manager enforces the subticket tree invariants: at most one parent per
// ticket, no self-links, no nesting beyond one level. The relationship store
// holds the edges; the ticket store mirrors them in the parent_id field.
// The two writes are not transactional, so callers verify with GetParent or
// GetList after a link or unlink.
type Manager struct {
	store      Store
	tickets    repository.TicketStore
	statuses   repository.StatusStore
	perms      *auth.Checker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// Dependencies bundles manager collaborators. Store may be nil when the
// relationship plugin is not installed.
type Dependencies struct {
	Store       Store
	TicketStore repository.TicketStore
	StatusStore repository.StatusStore
	Checker     *auth.Checker
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewManager constructs the manager.
func NewManager(deps Dependencies) *Manager {
	return &Manager{
		store:      deps.Store,
		tickets:    deps.TicketStore,
		statuses:   deps.StatusStore,
		perms:      deps.Checker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// handle returns the relationship store when present and active. Absent and
// inactive collapse into the same Unavailable condition.
func (m *Manager) handle(ctx context.Context) (Store, error) {
	if m.store == nil || !m.store.IsActive(ctx) {
		return nil, apperrors.NewUnavailable("subticket support not available")
	}
	return m.store, nil
}

// CreateLink links child under parent.
func (m *Manager) CreateLink(ctx context.Context, cred *auth.Credential, parentID, childID int64) error {
	if parentID <= 0 || childID <= 0 {
		return apperrors.NewInvalidInput("ticket ids must be positive", nil)
	}
	if parentID == childID {
		return apperrors.NewInvalidInput("a ticket cannot be its own parent", map[string]any{"ticket_id": parentID})
	}
	if err := m.perms.Require(cred, auth.PermManageSubtickets, fmt.Sprintf("ticket %d", childID)); err != nil {
		return err
	}
	store, err := m.handle(ctx)
	if err != nil {
		return err
	}

	parent, err := m.lookupTicket(ctx, parentID, "parent ticket")
	if err != nil {
		return err
	}
	child, err := m.lookupTicket(ctx, childID, "child ticket")
	if err != nil {
		return err
	}
	if err := m.authorizeDepartment(cred, parent); err != nil {
		return err
	}
	if err := m.authorizeDepartment(cred, child); err != nil {
		return err
	}

	existing, err := store.GetParent(ctx, child)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.NewConflict("ticket already has a parent", map[string]any{
			"child_id":  child.ID,
			"parent_id": existing.ID,
		})
	}

	if err := store.CreateLink(ctx, parent, child); err != nil {
		return err
	}

	child.ParentID = &parent.ID
	if err := m.tickets.Save(ctx, child); err != nil {
		m.logger.Error("link recorded but ticket save failed",
			zap.Int64("parent_id", parent.ID),
			zap.Int64("child_id", child.ID),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	m.publish(ctx, cred, events.EventSubticketLinked, child.ID, events.SubticketLinkedPayload{
		ParentID: parent.ID,
		ChildID:  child.ID,
	})
	return nil
}

// UnlinkChild removes the child's link to its parent.
func (m *Manager) UnlinkChild(ctx context.Context, cred *auth.Credential, childID int64) error {
	if childID <= 0 {
		return apperrors.NewInvalidInput("ticket id must be positive", nil)
	}
	if err := m.perms.Require(cred, auth.PermManageSubtickets, fmt.Sprintf("ticket %d", childID)); err != nil {
		return err
	}
	store, err := m.handle(ctx)
	if err != nil {
		return err
	}

	child, err := m.lookupTicket(ctx, childID, "child ticket")
	if err != nil {
		return err
	}
	if err := m.authorizeDepartment(cred, child); err != nil {
		return err
	}

	parent, err := store.GetParent(ctx, child)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperrors.NewNotFound("parent link", map[string]any{"child_id": child.ID})
	}

	if err := store.RemoveLink(ctx, child); err != nil {
		return err
	}

	child.ParentID = nil
	if err := m.tickets.Save(ctx, child); err != nil {
		m.logger.Error("link removed but ticket save failed",
			zap.Int64("child_id", child.ID),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	m.publish(ctx, cred, events.EventSubticketUnlinked, child.ID, events.SubticketUnlinkedPayload{
		ParentID: parent.ID,
		ChildID:  child.ID,
	})
	return nil
}

// GetParent returns the child's parent summary, or nil when the child is
// legitimately unlinked.
func (m *Manager) GetParent(ctx context.Context, cred *auth.Credential, childID int64) (*Summary, error) {
	if childID <= 0 {
		return nil, apperrors.NewInvalidInput("ticket id must be positive", nil)
	}
	if err := m.perms.Require(cred, auth.PermManageSubtickets, fmt.Sprintf("ticket %d", childID)); err != nil {
		return nil, err
	}
	store, err := m.handle(ctx)
	if err != nil {
		return nil, err
	}

	child, err := m.lookupTicket(ctx, childID, "ticket")
	if err != nil {
		return nil, err
	}
	if err := m.authorizeDepartment(cred, child); err != nil {
		return nil, err
	}

	parent, err := store.GetParent(ctx, child)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	summary := m.summarize(ctx, parent)
	return &summary, nil
}

// GetList returns summaries of the parent's linked children, in store order.
// Children the ticket store no longer knows are skipped.
func (m *Manager) GetList(ctx context.Context, cred *auth.Credential, parentID int64) ([]Summary, error) {
	if parentID <= 0 {
		return nil, apperrors.NewInvalidInput("ticket id must be positive", nil)
	}
	if err := m.perms.Require(cred, auth.PermManageSubtickets, fmt.Sprintf("ticket %d", parentID)); err != nil {
		return nil, err
	}
	store, err := m.handle(ctx)
	if err != nil {
		return nil, err
	}

	parent, err := m.lookupTicket(ctx, parentID, "ticket")
	if err != nil {
		return nil, err
	}
	if err := m.authorizeDepartment(cred, parent); err != nil {
		return nil, err
	}

	childIDs, err := store.GetChildren(ctx, parent)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(childIDs))
	for _, id := range childIDs {
		child, err := m.tickets.LookupByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				m.logger.Debug("skipping orphaned subticket reference",
					zap.Int64("parent_id", parent.ID),
					zap.Int64("child_id", id))
				continue
			}
			return nil, err
		}
		summaries = append(summaries, m.summarize(ctx, child))
	}
	return summaries, nil
}

// ResolveTicketRef maps a client reference to an internal ID, preferring the
// public number over the numeric ID.
func (m *Manager) ResolveTicketRef(ctx context.Context, ref string) (int64, error) {
	ticket, err := m.tickets.LookupByNumber(ctx, ref)
	if err == nil {
		return ticket.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	id, convErr := strconv.ParseInt(ref, 10, 64)
	if convErr != nil || id <= 0 {
		return 0, apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
	}
	ticket, err = m.tickets.LookupByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFound("ticket", map[string]any{"ref": ref})
		}
		return 0, err
	}
	return ticket.ID, nil
}

func (m *Manager) lookupTicket(ctx context.Context, id int64, label string) (*domain.Ticket, error) {
	ticket, err := m.tickets.LookupByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(label, map[string]any{"ticket_id": id})
		}
		return nil, err
	}
	return ticket, nil
}

// authorizeDepartment applies the department restriction hook. Credentials
// without a restriction are granted; the restriction-matching policy beyond
// set membership is still open.
func (m *Manager) authorizeDepartment(cred *auth.Credential, ticket *domain.Ticket) error {
	if cred.CanAccessDepartment(ticket.DepartmentID) {
		return nil
	}
	return apperrors.NewForbidden(fmt.Sprintf("cannot manage subtickets on tickets in department %d", ticket.DepartmentID))
}

func (m *Manager) summarize(ctx context.Context, ticket *domain.Ticket) Summary {
	statusName := "Unknown"
	if status, err := m.statuses.GetByID(ctx, ticket.StatusID); err == nil {
		statusName = status.Name
	}
	return Summary{
		ID:         ticket.ID,
		Number:     ticket.Number,
		Subject:    ticket.Subject,
		StatusName: statusName,
	}
}

func (m *Manager) publish(ctx context.Context, cred *auth.Credential, eventType events.EventType, ticketID int64, payload any) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     events.Actor{StaffID: cred.StaffID, StaffName: cred.StaffName},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
