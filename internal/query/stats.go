package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// Counts holds the open/closed/overdue tallies shared by every bucket.
type Counts struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Closed  int `json:"closed"`
	Overdue int `json:"overdue"`
}

func (c *Counts) add(ticket *domain.Ticket) {
	c.Total++
	if ticket.IsClosed() {
		c.Closed++
	} else {
		c.Open++
	}
	if ticket.IsOverdue() {
		c.Overdue++
	}
}

// DepartmentStats is a per-department bucket.
type DepartmentStats struct {
	Name string `json:"name"`
	Counts
}

// StaffStats is a per-staff bucket with a nested per-department breakdown.
type StaffStats struct {
	Name string `json:"name"`
	Counts
	Departments []DepartmentStats `json:"departments"`
}

// Snapshot is the computed statistics result. It is never stored; the redis
// cache holds it only briefly.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Counts
	Departments []DepartmentStats `json:"departments"`
	Staff       []StaffStats      `json:"staff"`
}

// Stats computes (or serves from cache) the statistics snapshot.
func (e *Engine) Stats(ctx context.Context, cred *auth.Credential) (*Snapshot, error) {
	if err := e.perms.Require(cred, auth.PermReadStats, "tickets"); err != nil {
		return nil, err
	}

	if snapshot, ok := e.cache.Get(ctx); ok {
		return snapshot, nil
	}

	tickets, err := e.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := e.departments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := e.staff.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.aggregate(tickets, departments, staff)
	if err != nil {
		return nil, err
	}

	e.cache.Set(ctx, snapshot)
	return snapshot, nil
}

// aggregate performs the single-pass count. A malformed record can only
// surface as a panic in the loop body; that is caught, logged, and masked as
// an internal failure so store detail never leaks.
func (e *Engine) aggregate(tickets []domain.Ticket, departments []domain.Department, staff []domain.StaffMember) (snapshot *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("stats aggregation failed",
				zap.Int("ticket_count", len(tickets)),
				zap.Any("panic", r))
			snapshot = nil
			err = apperrors.NewInternalError(fmt.Errorf("stats aggregation: %v", r))
		}
	}()

	deptNames := make(map[int64]string, len(departments))
	for _, dept := range departments {
		deptNames[dept.ID] = dept.Name
	}
	staffByID := make(map[int64]*domain.StaffMember, len(staff))
	for i := range staff {
		staffByID[staff[i].ID] = &staff[i]
	}

	snapshot = &Snapshot{GeneratedAt: time.Now()}
	deptBuckets := make(map[int64]*DepartmentStats)
	staffBuckets := make(map[int64]*StaffStats)
	staffDeptBuckets := make(map[int64]map[int64]*DepartmentStats)

	for i := range tickets {
		ticket := &tickets[i]
		snapshot.Counts.add(ticket)

		deptName, deptKnown := deptNames[ticket.DepartmentID]
		if !deptKnown {
			// Unresolvable department: counted globally, excluded from
			// both breakdowns.
			continue
		}

		bucket := deptBuckets[ticket.DepartmentID]
		if bucket == nil {
			bucket = &DepartmentStats{Name: deptName}
			deptBuckets[ticket.DepartmentID] = bucket
		}
		bucket.add(ticket)

		if ticket.StaffID == nil {
			continue
		}
		member, ok := staffByID[*ticket.StaffID]
		if !ok || !member.Active {
			continue
		}

		sb := staffBuckets[member.ID]
		if sb == nil {
			sb = &StaffStats{Name: member.Name}
			staffBuckets[member.ID] = sb
			staffDeptBuckets[member.ID] = make(map[int64]*DepartmentStats)
		}
		sb.add(ticket)

		sdb := staffDeptBuckets[member.ID][ticket.DepartmentID]
		if sdb == nil {
			sdb = &DepartmentStats{Name: deptName}
			staffDeptBuckets[member.ID][ticket.DepartmentID] = sdb
		}
		sdb.add(ticket)
	}

	snapshot.Departments = sortedDepartmentStats(deptBuckets)
	snapshot.Staff = make([]StaffStats, 0, len(staffBuckets))
	for id, sb := range staffBuckets {
		sb.Departments = sortedDepartmentStats(staffDeptBuckets[id])
		snapshot.Staff = append(snapshot.Staff, *sb)
	}
	sort.Slice(snapshot.Staff, func(i, j int) bool {
		return snapshot.Staff[i].Name < snapshot.Staff[j].Name
	})
	return snapshot, nil
}

func sortedDepartmentStats(buckets map[int64]*DepartmentStats) []DepartmentStats {
	result := make([]DepartmentStats, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}
