package middleware

import (
	"strings"

	"github.com/flayve23/flayve-oficial/internal/constants"
	"github.com/flayve23/flayve-oficial/internal/model"
	"github.com/flayve23/flayve-oficial/pkg/authtoken"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Auth resolves the bearer token into an Identity and stores it in the
// request locals. Banned users never get past this point.
func Auth(verifier authtoken.Verifier, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthenticated(c)
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			return unauthenticated(c)
		}

		if identity.Role == string(model.RoleBanned) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":    constants.ErrCodeForbidden,
				"message": constants.GetErrorMessage(constants.ErrCodeForbidden),
			})
		}

		c.Locals(identityKey, identity)

		return c.Next()
	}
}

// RequireRole guards a route group to the listed roles. Must run after Auth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := Identity(c)
		for _, role := range roles {
			if identity.Role == string(role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"code":    constants.ErrCodeForbidden,
			"message": constants.GetErrorMessage(constants.ErrCodeForbidden),
		})
	}
}

// Identity returns the authenticated caller. Zero value when Auth did not run.
func Identity(c *fiber.Ctx) authtoken.Identity {
	identity, _ := c.Locals(identityKey).(authtoken.Identity)
	return identity
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    constants.ErrCodeUnauthenticated,
		"message": constants.GetErrorMessage(constants.ErrCodeUnauthenticated),
	})
}
