// Package resolver turns loosely-typed client references (numeric ID, name,
// or hierarchical path) into verified internal identifiers.
package resolver

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// DueDateLayout is the normalized due date representation.
const DueDateLayout = "2006-01-02 15:04:05"

// dueDateLayouts are the accepted ISO-8601 input forms, tried in order.
var dueDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Resolver validates cross-references against the external stores. All
// methods are pure lookups; none mutate state.
type Resolver struct {
	departments repository.DepartmentStore
	topics      repository.TopicStore
	statuses    repository.StatusStore
	slas        repository.SLAStore
	staff       repository.StaffStore
	tickets     repository.TicketStore
}

// Dependencies bundles the stores the resolver consults.
type Dependencies struct {
	DepartmentStore repository.DepartmentStore
	TopicStore      repository.TopicStore
	StatusStore     repository.StatusStore
	SLAStore        repository.SLAStore
	StaffStore      repository.StaffStore
	TicketStore     repository.TicketStore
}

// New constructs the resolver.
func New(deps Dependencies) *Resolver {
	return &Resolver{
		departments: deps.DepartmentStore,
		topics:      deps.TopicStore,
		statuses:    deps.StatusStore,
		slas:        deps.SLAStore,
		staff:       deps.StaffStore,
		tickets:     deps.TicketStore,
	}
}

// ResolveDepartment resolves a department reference. Accepted forms: a
// numeric ID, a `/`-delimited path walked from a root department, or a plain
// name matched case-insensitively. The resolved department must exist and be
// active.
func (r *Resolver) ResolveDepartment(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("department reference required", nil)
	}

	var deptID int64
	switch {
	case isNumeric(trimmed):
		id, err := parsePositiveID(trimmed, "department")
		if err != nil {
			return 0, err
		}
		deptID = id
	case strings.Contains(trimmed, "/"):
		id, err := r.resolveDepartmentPath(ctx, trimmed)
		if err != nil {
			return 0, err
		}
		deptID = id
	default:
		dept, err := r.departments.GetByName(ctx, trimmed)
		if err != nil {
			return 0, notFoundOnNoRows(err, "department")
		}
		deptID = dept.ID
	}

	dept, err := r.departments.GetByID(ctx, deptID)
	if err != nil {
		return 0, notFoundOnNoRows(err, "department")
	}
	if !dept.IsActive {
		return 0, apperrors.NewInvalidInput("department is inactive", map[string]any{"department_id": dept.ID})
	}
	return dept.ID, nil
}

// resolveDepartmentPath walks a `/`-delimited chain of department names. The
// first segment must name a root department; each subsequent segment must be
// a direct child of the previous match. Any miss fails the whole resolution.
func (r *Resolver) resolveDepartmentPath(ctx context.Context, path string) (int64, error) {
	segments := strings.Split(path, "/")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
		if segments[i] == "" {
			return 0, apperrors.NewInvalidInput("empty segment in department path", map[string]any{"path": path})
		}
	}

	all, err := r.departments.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	current := findDepartment(all, segments[0], nil)
	if current == nil {
		return 0, apperrors.NewNotFound("department", map[string]any{"path": path, "segment": segments[0]})
	}
	for _, segment := range segments[1:] {
		next := findDepartment(all, segment, &current.ID)
		if next == nil {
			return 0, apperrors.NewNotFound("department", map[string]any{"path": path, "segment": segment})
		}
		current = next
	}
	return current.ID, nil
}

func findDepartment(all []domain.Department, name string, parentID *int64) *domain.Department {
	for i := range all {
		dept := &all[i]
		if !strings.EqualFold(dept.Name, name) {
			continue
		}
		if parentID == nil {
			if dept.ParentID == nil {
				return dept
			}
			continue
		}
		if dept.ParentID != nil && *dept.ParentID == *parentID {
			return dept
		}
	}
	return nil
}

// ResolveTopic resolves a help topic by ID or name. Name resolution tries an
// exact match before a case-insensitive scan.
func (r *Resolver) ResolveTopic(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("topic reference required", nil)
	}

	var topicID int64
	if isNumeric(trimmed) {
		id, err := parsePositiveID(trimmed, "topic")
		if err != nil {
			return 0, err
		}
		topicID = id
	} else {
		all, err := r.topics.ListAll(ctx)
		if err != nil {
			return 0, err
		}
		found := false
		for _, topic := range all {
			if topic.Name == trimmed {
				topicID = topic.ID
				found = true
				break
			}
		}
		if !found {
			for _, topic := range all {
				if strings.EqualFold(topic.Name, trimmed) {
					topicID = topic.ID
					found = true
					break
				}
			}
		}
		if !found {
			return 0, apperrors.NewNotFound("topic", map[string]any{"name": trimmed})
		}
	}

	topic, err := r.topics.GetByID(ctx, topicID)
	if err != nil {
		return 0, notFoundOnNoRows(err, "topic")
	}
	if !topic.IsActive {
		return 0, apperrors.NewInvalidInput("topic is inactive", map[string]any{"topic_id": topic.ID})
	}
	return topic.ID, nil
}

// ResolveSLA resolves an SLA by ID or name, mirroring topic resolution.
func (r *Resolver) ResolveSLA(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("sla reference required", nil)
	}

	var slaID int64
	if isNumeric(trimmed) {
		id, err := parsePositiveID(trimmed, "sla")
		if err != nil {
			return 0, err
		}
		slaID = id
	} else {
		all, err := r.slas.ListAll(ctx)
		if err != nil {
			return 0, err
		}
		found := false
		for _, sla := range all {
			if sla.Name == trimmed {
				slaID = sla.ID
				found = true
				break
			}
		}
		if !found {
			for _, sla := range all {
				if strings.EqualFold(sla.Name, trimmed) {
					slaID = sla.ID
					found = true
					break
				}
			}
		}
		if !found {
			return 0, apperrors.NewNotFound("sla", map[string]any{"name": trimmed})
		}
	}

	sla, err := r.slas.GetByID(ctx, slaID)
	if err != nil {
		return 0, notFoundOnNoRows(err, "sla")
	}
	if !sla.IsActive {
		return 0, apperrors.NewInvalidInput("sla is inactive", map[string]any{"sla_id": sla.ID})
	}
	return sla.ID, nil
}

// ResolveStatus resolves a ticket status by ID or name. Name resolution is a
// case-insensitive linear scan; statuses have no active concept.
func (r *Resolver) ResolveStatus(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("status reference required", nil)
	}

	if isNumeric(trimmed) {
		id, err := parsePositiveID(trimmed, "status")
		if err != nil {
			return 0, err
		}
		status, err := r.statuses.GetByID(ctx, id)
		if err != nil {
			return 0, notFoundOnNoRows(err, "status")
		}
		return status.ID, nil
	}

	all, err := r.statuses.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, status := range all {
		if strings.EqualFold(status.Name, trimmed) {
			return status.ID, nil
		}
	}
	return 0, apperrors.NewNotFound("status", map[string]any{"name": trimmed})
}

// ResolveStaff resolves a staff member by ID, username, or email. The store
// owns identity resolution; this only verifies the member is active.
func (r *Resolver) ResolveStaff(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("staff reference required", nil)
	}

	var staff *domain.StaffMember
	var err error
	if isNumeric(trimmed) {
		id, idErr := parsePositiveID(trimmed, "staff")
		if idErr != nil {
			return 0, idErr
		}
		staff, err = r.staff.GetByID(ctx, id)
	} else {
		staff, err = r.staff.GetByUsername(ctx, trimmed)
	}
	if err != nil {
		return 0, notFoundOnNoRows(err, "staff")
	}
	if !staff.Active {
		return 0, apperrors.NewInvalidInput("staff member is inactive", map[string]any{"staff_id": staff.ID})
	}
	return staff.ID, nil
}

// ResolveParentTicket resolves a prospective parent ticket, preferring the
// public number over the internal ID. The resolved ticket must not itself be
// a child: subtickets nest one level only.
func (r *Resolver) ResolveParentTicket(ctx context.Context, value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, apperrors.NewInvalidInput("parent ticket reference required", nil)
	}

	ticket, err := r.tickets.LookupByNumber(ctx, trimmed)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		if !isNumeric(trimmed) {
			return 0, apperrors.NewNotFound("parent ticket", map[string]any{"ref": trimmed})
		}
		id, idErr := parsePositiveID(trimmed, "parent ticket")
		if idErr != nil {
			return 0, idErr
		}
		ticket, err = r.tickets.LookupByID(ctx, id)
		if err != nil {
			return 0, notFoundOnNoRows(err, "parent ticket")
		}
	}
	if ticket.IsChild() {
		return 0, apperrors.NewInvalidInput("ticket is already a subticket and cannot be a parent", map[string]any{"ticket_id": ticket.ID})
	}
	return ticket.ID, nil
}

// ResolveDueDate parses a client-supplied due date. Nil, empty, or
// whitespace-only input clears the due date. Accepted forms: date-only,
// local datetime, datetime with offset. The result is truncated to second
// precision to match the normalized representation.
func (r *Resolver) ResolveDueDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			normalized := parsed.Truncate(time.Second)
			return &normalized, nil
		}
	}
	return nil, apperrors.NewInvalidInput("unparsable due date", map[string]any{"value": trimmed})
}

// ResolveMessageFormat maps a client-supplied format to its canonical name.
func (r *Resolver) ResolveMessageFormat(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "markdown", "md":
		return "markdown", nil
	case "text", "plain", "txt":
		return "text", nil
	case "html":
		return "html", nil
	case "":
		return "", apperrors.NewInvalidInput("message format required", nil)
	default:
		return "", apperrors.NewInvalidInput("unrecognized message format", map[string]any{"value": value})
	}
}

func isNumeric(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func parsePositiveID(value, resource string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidInput("invalid "+resource+" id", map[string]any{"value": value})
	}
	return id, nil
}

func notFoundOnNoRows(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
