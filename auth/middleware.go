package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"

	"ehotels/apperr"
	"ehotels/model"
	"ehotels/storage"
)

const (
	LocalsAccountID = "accountID"
	LocalsRole      = "accountRole"
)

// Require is the authorization gate: it extracts the bearer token, verifies
// it, resolves the caller's role and rejects the request unless the role is
// one of the allowed ones. The account id and role are stored in the request
// locals for the handler.
func Require(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return apperr.JWTUndefined()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.JWTUndefined()
		}

		userID, err := VerifyToken(parts[1])
		if err != nil {
			return err
		}

		var account model.Account
		if err := storage.DB.First(&account, userID).Error; err != nil {
			return apperr.Unauthorized()
		}

		if len(roles) > 0 && !slices.Contains(roles, account.Role) {
			return apperr.Unauthorized()
		}

		c.Locals(LocalsAccountID, account.ID)
		c.Locals(LocalsRole, account.Role)
		return c.Next()
	}
}

// AccountID returns the authenticated caller's account id set by Require.
func AccountID(c fiber.Ctx) uint {
	id, _ := c.Locals(LocalsAccountID).(uint)
	return id
}

// Role returns the authenticated caller's role set by Require.
func Role(c fiber.Ctx) string {
	role, _ := c.Locals(LocalsRole).(string)
	return role
}
