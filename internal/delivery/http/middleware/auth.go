package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/pkg/jwt"
)

const CtxUsernameKey = "username"

type AuthMiddleware struct {
	jwt jwt.Service
}

// NewAuthMiddleware returns a middleware that lets every request through
// when jwtSvc is nil.
func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.jwt != nil
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !m.Enabled() {
			return c.Next()
		}

		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUsernameKey, claims.Username)
		return c.Next()
	}
}

// RequireSelf rejects a write that targets another member's data. Requests
// that passed through a disabled auth middleware carry no username and are
// allowed.
func RequireSelf(c fiber.Ctx, username string) error {
	actor, ok := c.Locals(CtxUsernameKey).(string)
	if !ok || actor == "" {
		return nil
	}
	if actor != strings.TrimSpace(username) {
		return NewAppError(fiber.StatusForbidden, "Cannot modify another user's data", nil, nil)
	}
	return nil
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
