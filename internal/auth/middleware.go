package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller and its live dashboard.
type Principal struct {
	Token   domain.Token
	Viewer  domain.Viewer
	Session *dashboard.Session
}

// SessionResolver opens or reuses the dashboard session of a bearer token.
type SessionResolver interface {
	Session(ctx context.Context, token string) (*dashboard.Session, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenVerifier
	sessions SessionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenVerifier, sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	// fasthttp reuses the header buffer once the request ends; sessions outlive it.
	raw := utils.CopyString(strings.TrimSpace(parts[1]))
	token, err := m.tokens.Verify(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	session, err := m.sessions.Session(c.UserContext(), token.Raw)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeUpstream) && apperrors.ToDomainError(err).HTTPStatus == fiber.StatusUnauthorized {
			return apperrors.NewUnauthorized("token rejected by helpdesk api")
		}
		return err
	}
	viewer := session.Viewer()
	if viewer.ID != "" && viewer.ID != token.SubjectID {
		return apperrors.NewUnauthorized("token subject mismatch")
	}

	c.Locals(principalKey, &Principal{Token: token, Viewer: viewer, Session: session})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
