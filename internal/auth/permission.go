package auth

// Permission enumerates the fixed capability vocabulary.
type Permission string

const (
	PermCreateTickets    Permission = "tickets.create"
	PermUpdateTickets    Permission = "tickets.update"
	PermReadTickets      Permission = "tickets.read"
	PermSearchTickets    Permission = "tickets.search"
	PermDeleteTickets    Permission = "tickets.delete"
	PermReadStats        Permission = "tickets.stats"
	PermManageSubtickets Permission = "tickets.subtickets"
)

// AllPermissions lists the full vocabulary.
var AllPermissions = []Permission{
	PermCreateTickets,
	PermUpdateTickets,
	PermReadTickets,
	PermSearchTickets,
	PermDeleteTickets,
	PermReadStats,
	PermManageSubtickets,
}

// fallbacks maps a permission to the secondary permission that also
// satisfies a check when the primary flag is unset. The graph is acyclic;
// resolution follows chains of arbitrary depth.
var fallbacks = map[Permission]Permission{
	PermSearchTickets: PermReadTickets,
	PermReadStats:     PermReadTickets,
}

// verbs provides the canonical denial verb per permission, used to build
// "cannot <verb> <context>" messages.
var verbs = map[Permission]string{
	PermCreateTickets:    "create",
	PermUpdateTickets:    "update",
	PermReadTickets:      "read",
	PermSearchTickets:    "search",
	PermDeleteTickets:    "delete",
	PermReadStats:        "view stats for",
	PermManageSubtickets: "manage subtickets on",
}

// Fallback returns the secondary permission, if any.
func (p Permission) Fallback() (Permission, bool) {
	fb, ok := fallbacks[p]
	return fb, ok
}

// Verb returns the denial verb for the permission.
func (p Permission) Verb() string {
	if v, ok := verbs[p]; ok {
		return v
	}
	return "access"
}
