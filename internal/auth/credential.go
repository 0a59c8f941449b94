package auth

import "github.com/helpdesk-kit/helpdesk-service/internal/domain"

// Credential is the caller's authenticated identity: one boolean flag per
// enumerated permission plus an optional department restriction. The
// credential store owns the lifecycle; this service only reads flags.
type Credential struct {
	StaffID   int64
	StaffName string

	CanCreateTickets    bool
	CanUpdateTickets    bool
	CanReadTickets      bool
	CanSearchTickets    bool
	CanDeleteTickets    bool
	CanReadStats        bool
	CanManageSubtickets bool

	// Departments restricts the credential to the listed department IDs.
	// Empty means unrestricted.
	Departments []int64
}

// Allows reports whether the credential's own flag for the permission is
// set. Fallback resolution lives in the Checker, not here.
func (c *Credential) Allows(p Permission) bool {
	if c == nil {
		return false
	}
	switch p {
	case PermCreateTickets:
		return c.CanCreateTickets
	case PermUpdateTickets:
		return c.CanUpdateTickets
	case PermReadTickets:
		return c.CanReadTickets
	case PermSearchTickets:
		return c.CanSearchTickets
	case PermDeleteTickets:
		return c.CanDeleteTickets
	case PermReadStats:
		return c.CanReadStats
	case PermManageSubtickets:
		return c.CanManageSubtickets
	default:
		return false
	}
}

// CanAccessDepartment applies the department restriction. A credential with
// no restriction set has access to every department; the precise matching
// policy beyond membership is still open, see DESIGN.md.
func (c *Credential) CanAccessDepartment(departmentID int64) bool {
	if c == nil {
		return false
	}
	if len(c.Departments) == 0 {
		return true
	}
	for _, id := range c.Departments {
		if id == departmentID {
			return true
		}
	}
	return false
}

// CredentialFor derives the permission flags for a staff member from its
// role. Admins hold every flag; team leads manage subtickets and search;
// agents read and search only.
func CredentialFor(staff *domain.StaffMember) *Credential {
	cred := &Credential{
		StaffID:   staff.ID,
		StaffName: staff.Name,
	}
	switch staff.Role {
	case domain.StaffRoleAdmin:
		cred.CanCreateTickets = true
		cred.CanUpdateTickets = true
		cred.CanReadTickets = true
		cred.CanSearchTickets = true
		cred.CanDeleteTickets = true
		cred.CanReadStats = true
		cred.CanManageSubtickets = true
	case domain.StaffRoleTeamLead:
		cred.CanCreateTickets = true
		cred.CanUpdateTickets = true
		cred.CanReadTickets = true
		cred.CanReadStats = true
		cred.CanManageSubtickets = true
	case domain.StaffRoleAgent:
		cred.CanReadTickets = true
		cred.CanUpdateTickets = true
	}
	if staff.Role != domain.StaffRoleAdmin && staff.DepartmentID != nil {
		cred.Departments = []int64{*staff.DepartmentID}
	}
	return cred
}

// PermissionList returns the permissions whose flags are set, for token
// claims serialization.
func (c *Credential) PermissionList() []Permission {
	granted := make([]Permission, 0, len(AllPermissions))
	for _, p := range AllPermissions {
		if c.Allows(p) {
			granted = append(granted, p)
		}
	}
	return granted
}

// CredentialFromPermissions rebuilds a credential from serialized claims.
func CredentialFromPermissions(staffID int64, staffName string, perms []Permission, departments []int64) *Credential {
	cred := &Credential{
		StaffID:     staffID,
		StaffName:   staffName,
		Departments: departments,
	}
	for _, p := range perms {
		switch p {
		case PermCreateTickets:
			cred.CanCreateTickets = true
		case PermUpdateTickets:
			cred.CanUpdateTickets = true
		case PermReadTickets:
			cred.CanReadTickets = true
		case PermSearchTickets:
			cred.CanSearchTickets = true
		case PermDeleteTickets:
			cred.CanDeleteTickets = true
		case PermReadStats:
			cred.CanReadStats = true
		case PermManageSubtickets:
			cred.CanManageSubtickets = true
		}
	}
	return cred
}
