// Package subticket enforces the parent/child tree invariants over an
// external relationship store and orchestrates link, unlink, and query
// operations against it.
package subticket

import (
	"context"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// Store is the relationship-store plugin contract. The store owns the
// child→parent edges; the manager owns the invariants.
type Store interface {
	// IsActive reports whether the plugin capability is usable.
	IsActive(ctx context.Context) bool
	// GetParent returns the child's parent ticket, or nil when unlinked.
	GetParent(ctx context.Context, child *domain.Ticket) (*domain.Ticket, error)
	// GetChildren returns the internal IDs of the parent's linked children.
	GetChildren(ctx context.Context, parent *domain.Ticket) ([]int64, error)
	// CreateLink records a child→parent edge.
	CreateLink(ctx context.Context, parent, child *domain.Ticket) error
	// RemoveLink deletes the child's edge.
	RemoveLink(ctx context.Context, child *domain.Ticket) error
}
