package handler

import (
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewUserHandler(authService service.AuthService, userService service.UserService) *UserHandler {
	return &UserHandler{authService: authService, userService: userService}
}

// Register handles user registration
// POST /api/users
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(resp)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles authentication
// POST /api/users/login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}

	resp, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

// GetProfile returns the authenticated user's profile
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	resp, err := h.userService.GetProfile(user.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// UpdateProfile applies self-service profile edits
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	resp, err := h.userService.UpdateProfile(user.ID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// ListUsers returns all users (government ids masked)
// GET /api/users (admin)
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(users)
}

// GetUser returns one user (government id masked)
// GET /api/users/:id (admin)
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	resp, err := h.userService.GetUserByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// UpdateUser applies admin role/verification edits
// PUT /api/users/:id (admin)
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.userService.AdminUpdateUser(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// DeleteUser removes a user
// DELETE /api/users/:id (admin)
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.userService.DeleteUser(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed"})
}

type UnmaskRequest struct {
	UserID uuid.UUID `json:"userId"`
}

// UnmaskGovtID discloses a plaintext government id after persisting an audit
// record. The audit write happens inside the service; a failed write aborts
// the disclosure.
// POST /api/users/unmask-id (staff/admin)
func (h *UserHandler) UnmaskGovtID(c *fiber.Ctx) error {
	var req UnmaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.UserID == uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "userId is required"})
	}

	viewer := middleware.CurrentUser(c)
	govtID, err := h.userService.UnmaskGovtID(viewer, req.UserID, c.IP(), c.Get("User-Agent"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"govtId": govtID})
}

// ListAuditLogs returns the unmask audit trail, newest first
// GET /api/users/audit-logs (admin)
func (h *UserHandler) ListAuditLogs(c *fiber.Ctx) error {
	logs, err := h.userService.GetAuditLogs()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(logs)
}
