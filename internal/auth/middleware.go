package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/helpdesk-kit/helpdesk-service/pkg/util"
)

const credentialKey = "auth_credential"

// AuthMiddleware validates bearer tokens and materializes credentials.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	cred := CredentialFromPermissions(claims.StaffID, claims.StaffName, claims.Permissions, claims.Departments)
	c.Locals(credentialKey, cred)
	return c.Next()
}

// CredentialFromContext retrieves the authenticated credential.
func CredentialFromContext(c *fiber.Ctx) (*Credential, bool) {
	val := c.Locals(credentialKey)
	if val == nil {
		return nil, false
	}
	cred, ok := val.(*Credential)
	return cred, ok
}
