package resolver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

type fakeDepartmentStore struct {
	departments []domain.Department
}

func (f *fakeDepartmentStore) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	for i := range f.departments {
		if f.departments[i].ID == id {
			return &f.departments[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentStore) GetByName(_ context.Context, name string) (*domain.Department, error) {
	for i := range f.departments {
		if strings.EqualFold(f.departments[i].Name, name) {
			return &f.departments[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentStore) ListAll(_ context.Context) ([]domain.Department, error) {
	return f.departments, nil
}

type fakeTopicStore struct {
	topics []domain.Topic
}

func (f *fakeTopicStore) GetByID(_ context.Context, id int64) (*domain.Topic, error) {
	for i := range f.topics {
		if f.topics[i].ID == id {
			return &f.topics[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTopicStore) ListAll(_ context.Context) ([]domain.Topic, error) {
	return f.topics, nil
}

type fakeStatusStore struct {
	statuses []domain.Status
}

func (f *fakeStatusStore) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	for i := range f.statuses {
		if f.statuses[i].ID == id {
			return &f.statuses[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStatusStore) ListAll(_ context.Context) ([]domain.Status, error) {
	return f.statuses, nil
}

type fakeSLAStore struct {
	slas []domain.SLA
}

func (f *fakeSLAStore) GetByID(_ context.Context, id int64) (*domain.SLA, error) {
	for i := range f.slas {
		if f.slas[i].ID == id {
			return &f.slas[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSLAStore) ListAll(_ context.Context) ([]domain.SLA, error) {
	return f.slas, nil
}

type fakeStaffStore struct {
	staff []domain.StaffMember
}

func (f *fakeStaffStore) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	for i := range f.staff {
		if f.staff[i].ID == id {
			return &f.staff[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffStore) GetByUsername(_ context.Context, username string) (*domain.StaffMember, error) {
	for i := range f.staff {
		if strings.EqualFold(f.staff[i].Username, username) || strings.EqualFold(f.staff[i].Email, username) {
			return &f.staff[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffStore) ListAll(_ context.Context) ([]domain.StaffMember, error) {
	return f.staff, nil
}

type fakeTicketStore struct {
	tickets []domain.Ticket
}

func (f *fakeTicketStore) LookupByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].Number == number {
			return &f.tickets[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketStore) LookupByID(_ context.Context, id int64) (*domain.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			return &f.tickets[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketStore) ListAll(_ context.Context) ([]domain.Ticket, error) {
	return f.tickets, nil
}

func (f *fakeTicketStore) Save(_ context.Context, _ *domain.Ticket) error   { return nil }
func (f *fakeTicketStore) Delete(_ context.Context, _ int64) error          { return nil }
func (f *fakeTicketStore) PostNote(_ context.Context, _ int64, _, _, _ string) error {
	return nil
}

func newTestResolver() *Resolver {
	three := int64(3)
	one := int64(1)
	hundred := int64(100)
	return New(Dependencies{
		DepartmentStore: &fakeDepartmentStore{departments: []domain.Department{
			{ID: 1, Name: "Development", IsActive: true},
			{ID: 2, Name: "Support", IsActive: true},
			{ID: 3, Name: "Platform", ParentID: &one, IsActive: true},
			{ID: 4, Name: "Archive", IsActive: false},
			{ID: 5, Name: "Billing", ParentID: &three, IsActive: true},
		}},
		TopicStore: &fakeTopicStore{topics: []domain.Topic{
			{ID: 1, Name: "Billing", IsActive: true},
			{ID: 2, Name: "billing", IsActive: true},
			{ID: 3, Name: "Outage", IsActive: false},
		}},
		StatusStore: &fakeStatusStore{statuses: []domain.Status{
			{ID: 1, Name: "Open"},
			{ID: 2, Name: "Closed"},
		}},
		SLAStore: &fakeSLAStore{slas: []domain.SLA{
			{ID: 1, Name: "Default", IsActive: true},
			{ID: 2, Name: "Premium", IsActive: false},
		}},
		StaffStore: &fakeStaffStore{staff: []domain.StaffMember{
			{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com", Active: true},
			{ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com", Active: false},
		}},
		TicketStore: &fakeTicketStore{tickets: []domain.Ticket{
			{ID: 1, Number: "100200", DepartmentID: 1},
			{ID: 2, Number: "100201", DepartmentID: 1, ParentID: &hundred},
			{ID: 3, Number: "4", DepartmentID: 2},
			{ID: 4, Number: "999999", DepartmentID: 2},
		}},
	})
}

func TestResolveDepartmentByID(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveDepartment(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// Resolving an already-valid ID is idempotent.
	again, err := r.ResolveDepartment(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestResolveDepartmentByName(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveDepartment(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = r.ResolveDepartment(ctx, "Nonexistent")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveDepartmentPath(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveDepartment(ctx, "Development / Platform")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	// Case-insensitive at every segment.
	id, err = r.ResolveDepartment(ctx, "development / PLATFORM / billing")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = r.ResolveDepartment(ctx, "Development / Nonexistent")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Billing exists but only as a grandchild; no segment skipping.
	_, err = r.ResolveDepartment(ctx, "Development / Billing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// The first segment must be a root department.
	_, err = r.ResolveDepartment(ctx, "Platform / Billing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveDepartmentInactive(t *testing.T) {
	r := newTestResolver()

	_, err := r.ResolveDepartment(context.Background(), "Archive")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveDepartmentInvalidID(t *testing.T) {
	r := newTestResolver()

	_, err := r.ResolveDepartment(context.Background(), "-5")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveTopicExactMatchWins(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	// "billing" matches topic 2 exactly even though topic 1 matches
	// case-insensitively first.
	id, err := r.ResolveTopic(ctx, "billing")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	// No exact match: the case-insensitive scan picks the first hit.
	id, err = r.ResolveTopic(ctx, "BILLING")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestResolveTopicInactive(t *testing.T) {
	r := newTestResolver()

	_, err := r.ResolveTopic(context.Background(), "Outage")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveSLA(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveSLA(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = r.ResolveSLA(ctx, "Premium")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveStatus(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveStatus(ctx, "open")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = r.ResolveStatus(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = r.ResolveStatus(ctx, "42")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = r.ResolveStatus(ctx, "pending")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveStaff(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	id, err := r.ResolveStaff(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = r.ResolveStaff(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = r.ResolveStaff(ctx, "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	_, err = r.ResolveStaff(ctx, "carol")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveParentTicketNumberFirst(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	// "4" is both a ticket number (ID 3) and an internal ID (ticket 4);
	// the number wins.
	id, err := r.ResolveParentTicket(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	// Falls back to the internal ID when no number matches.
	id, err = r.ResolveParentTicket(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = r.ResolveParentTicket(ctx, "555555")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveParentTicketRejectsChild(t *testing.T) {
	r := newTestResolver()

	_, err := r.ResolveParentTicket(context.Background(), "100201")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveDueDate(t *testing.T) {
	r := newTestResolver()

	due, err := r.ResolveDueDate(nil)
	require.NoError(t, err)
	assert.Nil(t, due)

	empty := "   "
	due, err = r.ResolveDueDate(&empty)
	require.NoError(t, err)
	assert.Nil(t, due)

	cases := map[string]string{
		"2024-03-05":                "2024-03-05 00:00:00",
		"2024-03-05 14:30:00":       "2024-03-05 14:30:00",
		"2024-03-05T14:30:00":       "2024-03-05 14:30:00",
		"2024-03-05T14:30:00+02:00": "2024-03-05 14:30:00",
	}
	for input, want := range cases {
		value := input
		due, err = r.ResolveDueDate(&value)
		require.NoError(t, err, input)
		require.NotNil(t, due, input)
		assert.Equal(t, want, due.Format(DueDateLayout), input)
	}

	bogus := "next tuesday"
	_, err = r.ResolveDueDate(&bogus)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestResolveDueDateSecondPrecision(t *testing.T) {
	r := newTestResolver()

	value := "2024-03-05T14:30:00+02:00"
	due, err := r.ResolveDueDate(&value)
	require.NoError(t, err)
	assert.Equal(t, 0, due.Nanosecond())
	assert.True(t, due.Equal(time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC)))
}

func TestResolveMessageFormat(t *testing.T) {
	r := newTestResolver()

	cases := map[string]string{
		"markdown": "markdown",
		"MD":       "markdown",
		"text":     "text",
		"Plain":    "text",
		"txt":      "text",
		"html":     "html",
	}
	for input, want := range cases {
		got, err := r.ResolveMessageFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := r.ResolveMessageFormat("")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))

	_, err = r.ResolveMessageFormat("rtf")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}
