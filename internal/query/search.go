// Package query composes filter, sort, and pagination criteria over the
// ticket store and aggregates ticket statistics.
package query

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/resolver"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	SortCreated = "created"
	SortUpdated = "updated"
	SortNumber  = "number"
)

// Criteria is the ephemeral search input. Status and Department are raw
// client references resolved through the entity resolver before filtering.
type Criteria struct {
	Subject    string
	Status     string
	Department string
	Limit      int
	Offset     int
	Sort       string
}

// Normalize clamps pagination and falls back to the default sort on unknown
// values. Unknown sort fields never error.
func (c Criteria) Normalize() Criteria {
	if c.Limit <= 0 {
		c.Limit = defaultLimit
	}
	if c.Limit > maxLimit {
		c.Limit = maxLimit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	switch c.Sort {
	case SortCreated, SortUpdated, SortNumber:
	default:
		c.Sort = SortCreated
	}
	return c
}

// TicketSummary is the lightweight search result record. Thread and message
// bodies are deliberately excluded.
type TicketSummary struct {
	ID           int64      `json:"id"`
	Number       string     `json:"number"`
	Subject      string     `json:"subject"`
	StatusID     int64      `json:"status_id"`
	DepartmentID int64      `json:"department_id"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Engine runs searches and statistics over the ticket store.
type Engine struct {
	tickets     repository.TicketStore
	departments repository.DepartmentStore
	staff       repository.StaffStore
	resolver    *resolver.Resolver
	perms       *auth.Checker
	cache       *SnapshotCache
	logger      *zap.Logger
}

// Dependencies bundles engine collaborators. Cache may be nil.
type Dependencies struct {
	TicketStore     repository.TicketStore
	DepartmentStore repository.DepartmentStore
	StaffStore      repository.StaffStore
	Resolver        *resolver.Resolver
	Checker         *auth.Checker
	Cache           *SnapshotCache
	Logger          *zap.Logger
}

// NewEngine constructs the engine.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{
		tickets:     deps.TicketStore,
		departments: deps.DepartmentStore,
		staff:       deps.StaffStore,
		resolver:    deps.Resolver,
		perms:       deps.Checker,
		cache:       deps.Cache,
		logger:      deps.Logger,
	}
}

// Search filters, sorts, and paginates tickets. Filters are AND-combined;
// pagination applies after filtering and sorting.
func (e *Engine) Search(ctx context.Context, cred *auth.Credential, criteria Criteria) ([]TicketSummary, error) {
	if err := e.perms.Require(cred, auth.PermSearchTickets, "tickets"); err != nil {
		return nil, err
	}
	criteria = criteria.Normalize()

	var statusID, departmentID *int64
	if strings.TrimSpace(criteria.Status) != "" {
		id, err := e.resolver.ResolveStatus(ctx, criteria.Status)
		if err != nil {
			return nil, err
		}
		statusID = &id
	}
	if strings.TrimSpace(criteria.Department) != "" {
		id, err := e.resolver.ResolveDepartment(ctx, criteria.Department)
		if err != nil {
			return nil, err
		}
		departmentID = &id
	}

	tickets, err := e.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	subject := strings.ToLower(strings.TrimSpace(criteria.Subject))
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if subject != "" && !strings.Contains(strings.ToLower(ticket.Subject), subject) {
			continue
		}
		if statusID != nil && ticket.StatusID != *statusID {
			continue
		}
		if departmentID != nil && ticket.DepartmentID != *departmentID {
			continue
		}
		filtered = append(filtered, ticket)
	}

	sortTickets(filtered, criteria.Sort)
	page := paginate(filtered, criteria.Limit, criteria.Offset)

	summaries := make([]TicketSummary, 0, len(page))
	for _, ticket := range page {
		summaries = append(summaries, TicketSummary{
			ID:           ticket.ID,
			Number:       ticket.Number,
			Subject:      ticket.Subject,
			StatusID:     ticket.StatusID,
			DepartmentID: ticket.DepartmentID,
			DueDate:      ticket.DueDate,
			CreatedAt:    ticket.CreatedAt,
			UpdatedAt:    ticket.UpdatedAt,
		})
	}
	return summaries, nil
}

// sortTickets orders created/updated newest-first and number ascending.
func sortTickets(tickets []domain.Ticket, field string) {
	switch field {
	case SortUpdated:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt)
		})
	case SortNumber:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].Number < tickets[j].Number
		})
	default:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		})
	}
}

func paginate(tickets []domain.Ticket, limit, offset int) []domain.Ticket {
	if offset >= len(tickets) {
		return nil
	}
	end := offset + limit
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[offset:end]
}
