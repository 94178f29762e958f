package handler

import (
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type KnowledgeHandler struct {
	knowledgeService service.KnowledgeService
}

func NewKnowledgeHandler(knowledgeService service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledgeService: knowledgeService}
}

// ListPosts returns all knowledge posts
// GET /api/knowledge
func (h *KnowledgeHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.knowledgeService.GetPosts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(posts)
}

// GetPost returns one knowledge post with comments
// GET /api/knowledge/:id
func (h *KnowledgeHandler) GetPost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	post, err := h.knowledgeService.GetPostByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// CreatePost creates a post; an empty body seeds a sample one
// POST /api/knowledge (admin)
func (h *KnowledgeHandler) CreatePost(c *fiber.Ctx) error {
	var req service.KnowledgePostRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	user := middleware.CurrentUser(c)
	post, err := h.knowledgeService.CreatePost(user, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(post)
}

// UpdatePost edits a post
// PUT /api/knowledge/:id (admin)
func (h *KnowledgeHandler) UpdatePost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	var req service.KnowledgePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	post, err := h.knowledgeService.UpdatePost(id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post
// DELETE /api/knowledge/:id (admin)
func (h *KnowledgeHandler) DeletePost(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	if err := h.knowledgeService.DeletePost(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post removed"})
}

type CommentRequest struct {
	Text string `json:"text"`
}

// CreateComment appends a comment to a post
// POST /api/knowledge/:id/comments (auth)
func (h *KnowledgeHandler) CreateComment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	if err := h.knowledgeService.AddComment(user, id, req.Text); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Comment added"})
}
