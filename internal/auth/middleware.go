package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

// AdminMiddleware gates admin routes behind a bearer token. When no
// admin password hash is configured the service keeps the original
// open-admin behavior and the middleware passes everything through.
type AdminMiddleware struct {
	tokens  *TokenManager
	enabled bool
}

// NewAdminMiddleware constructs middleware.
func NewAdminMiddleware(tokens *TokenManager, enabled bool) *AdminMiddleware {
	return &AdminMiddleware{tokens: tokens, enabled: enabled}
}

// Enabled reports whether admin authentication is enforced.
func (m *AdminMiddleware) Enabled() bool {
	return m.enabled
}

// Handle enforces authentication for admin routes.
func (m *AdminMiddleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

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
	if claims.Subject != AdminSubject {
		return apperrors.NewUnauthorized("unknown subject")
	}
	return c.Next()
}
