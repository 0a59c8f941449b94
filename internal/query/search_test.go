package query

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/resolver"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

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

func (f *fakeTicketStore) Save(_ context.Context, _ *domain.Ticket) error { return nil }
func (f *fakeTicketStore) Delete(_ context.Context, _ int64) error        { return nil }
func (f *fakeTicketStore) PostNote(_ context.Context, _ int64, _, _, _ string) error {
	return nil
}

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
		if strings.EqualFold(f.staff[i].Username, username) {
			return &f.staff[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffStore) ListAll(_ context.Context) ([]domain.StaffMember, error) {
	return f.staff, nil
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 12, 0, 0, 0, time.UTC)
}

func searchCred() *auth.Credential {
	return &auth.Credential{StaffID: 1, StaffName: "alice", CanSearchTickets: true}
}

func newSearchEngine(tickets []domain.Ticket) *Engine {
	departmentStore := &fakeDepartmentStore{departments: []domain.Department{
		{ID: 1, Name: "Development", IsActive: true},
		{ID: 2, Name: "Support", IsActive: true},
	}}
	statusStore := &fakeStatusStore{statuses: []domain.Status{
		{ID: 1, Name: "Open"},
		{ID: 2, Name: "Closed"},
	}}
	return NewEngine(Dependencies{
		TicketStore:     &fakeTicketStore{tickets: tickets},
		DepartmentStore: departmentStore,
		StaffStore:      &fakeStaffStore{},
		Resolver: resolver.New(resolver.Dependencies{
			DepartmentStore: departmentStore,
			StatusStore:     statusStore,
		}),
		Checker: auth.NewChecker(),
		Logger:  zap.NewNop(),
	})
}

func searchFixtureTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: 1, Number: "100203", Subject: "Printer offline", StatusID: 1, DepartmentID: 1, CreatedAt: day(3), UpdatedAt: day(3)},
		{ID: 2, Number: "100201", Subject: "VPN access request", StatusID: 1, DepartmentID: 2, CreatedAt: day(1), UpdatedAt: day(5)},
		{ID: 3, Number: "100202", Subject: "Printer toner low", StatusID: 2, DepartmentID: 1, CreatedAt: day(2), UpdatedAt: day(4)},
	}
}

func TestNormalizeCriteria(t *testing.T) {
	cases := []struct {
		name string
		in   Criteria
		want Criteria
	}{
		{"zero limit", Criteria{}, Criteria{Limit: 20, Sort: "created"}},
		{"negative limit", Criteria{Limit: -5, Offset: -3}, Criteria{Limit: 20, Sort: "created"}},
		{"limit clamped", Criteria{Limit: 150}, Criteria{Limit: 100, Sort: "created"}},
		{"limit kept", Criteria{Limit: 37, Offset: 10, Sort: "number"}, Criteria{Limit: 37, Offset: 10, Sort: "number"}},
		{"unknown sort", Criteria{Limit: 5, Sort: "bogus"}, Criteria{Limit: 5, Sort: "created"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestSearchDefaultSort(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())

	results, err := engine.Search(context.Background(), searchCred(), Criteria{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Newest creation first.
	assert.Equal(t, int64(1), results[0].ID)
	assert.Equal(t, int64(3), results[1].ID)
	assert.Equal(t, int64(2), results[2].ID)
}

func TestSearchSortVariants(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())
	ctx := context.Background()
	cred := searchCred()

	results, err := engine.Search(ctx, cred, Criteria{Sort: SortUpdated})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(2), results[0].ID)

	results, err = engine.Search(ctx, cred, Criteria{Sort: SortNumber})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "100201", results[0].Number)
	assert.Equal(t, "100202", results[1].Number)
	assert.Equal(t, "100203", results[2].Number)
}

func TestSearchFiltersCombine(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())
	ctx := context.Background()
	cred := searchCred()

	results, err := engine.Search(ctx, cred, Criteria{Subject: "printer"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Status by name, case-insensitive, AND-combined with the subject.
	results, err = engine.Search(ctx, cred, Criteria{Subject: "printer", Status: "open"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)

	results, err = engine.Search(ctx, cred, Criteria{Department: "Support"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].ID)

	results, err = engine.Search(ctx, cred, Criteria{Subject: "printer", Department: "Support"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUnknownFilterValue(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())

	_, err := engine.Search(context.Background(), searchCred(), Criteria{Status: "pending"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSearchPagination(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())
	ctx := context.Background()
	cred := searchCred()

	results, err := engine.Search(ctx, cred, Criteria{Limit: 2, Sort: SortNumber})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "100201", results[0].Number)

	results, err = engine.Search(ctx, cred, Criteria{Limit: 2, Offset: 2, Sort: SortNumber})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100203", results[0].Number)

	results, err = engine.Search(ctx, cred, Criteria{Limit: 2, Offset: 10, Sort: SortNumber})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchPermission(t *testing.T) {
	engine := newSearchEngine(searchFixtureTickets())
	ctx := context.Background()

	// Read implies search through the fallback chain.
	readOnly := &auth.Credential{StaffID: 2, CanReadTickets: true}
	_, err := engine.Search(ctx, readOnly, Criteria{})
	require.NoError(t, err)

	denied := &auth.Credential{StaffID: 3, CanCreateTickets: true}
	_, err = engine.Search(ctx, denied, Criteria{})
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	assert.Equal(t, "cannot search tickets", err.(*apperrors.DomainError).Message)

	_, err = engine.Search(ctx, nil, Criteria{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
