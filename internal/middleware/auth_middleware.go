package middleware

import (
	"strings"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token, resolves its subject against the
// user table and stores the user record in the request context. Every failure
// mode (missing, malformed, expired, unknown subject) yields a 401.
func RequireAuth(userRepo repository.UserRepository, jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1], jwtSecret)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by RequireAuth, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}

// RequireAdmin gates admin-only routes. Authorization failures are 403,
// distinct from the 401s of RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return c.Status(403).JSON(fiber.Map{"error": "Not authorized as an admin"})
		}
		return c.Next()
	}
}

// RequireSeller gates farmer/supplier routes; admins pass.
func RequireSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsSeller() {
			return c.Status(403).JSON(fiber.Map{"error": "Not authorized as a seller"})
		}
		return c.Next()
	}
}

// RequireStaff gates secretariat routes; admins pass.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff() {
			return c.Status(403).JSON(fiber.Map{"error": "Not authorized as staff"})
		}
		return c.Next()
	}
}
