// internals/helpers/token_claims.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Ambil user_id (uuid guru/akun) dari c.Locals("user_id").
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
	return id, nil
}

// GetTeacherIDFromToken: alias semantik — route guru sudah dijaga
// RequireRoles, jadi user_id di sini adalah id guru.
func GetTeacherIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return GetUserIDFromToken(c)
}

// Ambil roll_no siswa dari claim token.
func GetRollNoFromToken(c *fiber.Ctx) (string, error) {
	v := c.Locals("roll_no")
	if v == nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Token tidak memuat roll number")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Token tidak memuat roll number")
	}
	return strings.TrimSpace(s), nil
}
