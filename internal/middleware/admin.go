package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/affipay/payout-api/internal/auth"
	"github.com/affipay/payout-api/internal/identity"
)

const adminUserKey = "admin_user"

// AdminOnly authenticates the bearer token and requires the resolved user to
// carry the admin capability. The authorized user record is stored in Locals
// under the key read by AdminUser.
func AdminOnly(authorizer *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(http.StatusUnprocessableEntity, "authorization header is required")
		}

		user, err := authorizer.RequireAdmin(c.UserContext(), header)
		if err != nil {
			return fiber.NewError(authStatus(err), err.Error())
		}

		c.Locals(adminUserKey, user)
		return c.Next()
	}
}

// AdminUser returns the user stored by AdminOnly for the current request.
func AdminUser(c *fiber.Ctx) (identity.User, bool) {
	user, ok := c.Locals(adminUserKey).(identity.User)
	return user, ok
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrMissingSubject), errors.Is(err, auth.ErrNotAdmin):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
