package auth

import (
	"fmt"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

// Checker evaluates whether a credential holds a capability, resolving
// fallback chains. Stateless: a pure function of credential plus the static
// permission table.
type Checker struct{}

// NewChecker constructs the checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Has reports whether the credential satisfies the permission, directly or
// through its fallback chain.
func (ch *Checker) Has(cred *Credential, perm Permission) bool {
	if cred.Allows(perm) {
		return true
	}
	if fallback, ok := perm.Fallback(); ok {
		return ch.Has(cred, fallback)
	}
	return false
}

// HasAny reports whether the credential satisfies at least one permission.
func (ch *Checker) HasAny(cred *Credential, perms ...Permission) bool {
	for _, p := range perms {
		if ch.Has(cred, p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the credential satisfies every permission.
func (ch *Checker) HasAll(cred *Credential, perms ...Permission) bool {
	for _, p := range perms {
		if !ch.Has(cred, p) {
			return false
		}
	}
	return true
}

// Require fails with a Forbidden error when the credential does not satisfy
// the permission. The message follows the permission's canonical
// "cannot <verb> <context>" template.
func (ch *Checker) Require(cred *Credential, perm Permission, context string) error {
	if cred == nil {
		return apperrors.NewUnauthorized("credential required")
	}
	if ch.Has(cred, perm) {
		return nil
	}
	return apperrors.NewForbidden(fmt.Sprintf("cannot %s %s", perm.Verb(), context))
}
