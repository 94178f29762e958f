package handler

import (
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts returns the catalog, optionally filtered by keyword
// GET /api/products?keyword=
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetProducts(c.Query("keyword"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetProduct returns one listing with its reviews
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// ListMyProducts returns the caller's own listings
// GET /api/products/my-products (seller)
func (h *ProductHandler) ListMyProducts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	products, err := h.productService.GetSellerProducts(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// CreateProduct creates a listing; an empty body seeds a sample one
// POST /api/products (seller)
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	user := middleware.CurrentUser(c)
	product, err := h.productService.CreateProduct(user, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(product)
}

// UpdateProduct edits a listing (owner or admin)
// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	product, err := h.productService.UpdateProduct(user, id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct removes a listing (owner or admin)
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	user := middleware.CurrentUser(c)
	if err := h.productService.DeleteProduct(user, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product removed"})
}

// CreateReview appends a review
// POST /api/products/:id/reviews (auth)
func (h *ProductHandler) CreateReview(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	if err := h.productService.AddReview(user, id, &req); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Review added"})
}
