package domain

import "time"

// Department represents an organizational unit. Departments nest: a nil
// ParentID marks a root department, and a `/`-delimited path names a chain
// of departments from a root down to a leaf.
type Department struct {
	ID        int64
	Name      string
	ParentID  *int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
