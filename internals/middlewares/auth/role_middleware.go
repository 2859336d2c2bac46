// internals/middlewares/auth/role_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"

	"absensiku_backend/internals/constants"
)

// RequireRoles: jalan setelah AuthMiddleware, menolak role di luar daftar.
func RequireRoles(featureName string, allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if _, ok := allowedSet[role]; ok {
			return c.Next()
		}

		msg := "❌ Role Anda tidak boleh mengakses fitur " + featureName + "."
		switch {
		case contains(allowed, constants.RoleTeacher) && len(allowed) == 1:
			msg = constants.RoleErrorTeacher(featureName)
		case contains(allowed, constants.RoleStudent) && len(allowed) == 1:
			msg = constants.RoleErrorStudent(featureName)
		}
		return fiber.NewError(fiber.StatusForbidden, msg)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
