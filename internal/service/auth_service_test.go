package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	dept := int64(1)
	staff := &fakeStaffStore{staff: []domain.StaffMember{
		{ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com", PasswordHash: hash, Role: domain.StaffRoleTeamLead, DepartmentID: &dept, Active: true},
		{ID: 2, Name: "Bob", Username: "bob", Email: "bob@example.com", PasswordHash: hash, Role: domain.StaffRoleAgent, Active: false},
	}}
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 5
	return NewAuthService(cfg, staff)
}

func TestLoginIssuesCredentialToken(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	cred, token, expiresAt, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.True(t, cred.CanManageSubtickets)
	assert.False(t, cred.CanDeleteTickets)
	assert.Equal(t, []int64{1}, cred.Departments)
	assert.False(t, expiresAt.IsZero())

	// The token round-trips into the same credential.
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	rebuilt := auth.CredentialFromPermissions(claims.StaffID, claims.StaffName, claims.Permissions, claims.Departments)
	assert.Equal(t, cred, rebuilt)
}

func TestLoginByEmail(t *testing.T) {
	svc := newAuthFixture(t)

	cred, _, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cred.StaffID)
}

func TestLoginRejections(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, _, err := svc.Login(ctx, "alice", "wrong")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, _, _, err = svc.Login(ctx, "nobody", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	// Correct password, inactive account.
	_, _, _, err = svc.Login(ctx, "bob", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
