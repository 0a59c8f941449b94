package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAgent    StaffRole = "AGENT"
	StaffRoleTeamLead StaffRole = "TEAM_LEAD"
	StaffRoleAdmin    StaffRole = "ADMIN"
)

// StaffMember models a support agent or administrator.
type StaffMember struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Role         StaffRole
	DepartmentID *int64
	TeamID       *int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
