package handler

import (
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder creates an order from the cart snapshot
// POST /api/orders (auth)
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	order, err := h.orderService.Create(user, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(order)
}

// ListMyOrders returns the caller's orders, newest first
// GET /api/orders/myorders (auth)
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.orderService.MyOrders(user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// ListOrders returns every order, newest first
// GET /api/orders (admin)
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.AllOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// ListMySales returns orders containing the caller's products
// GET /api/orders/my-sales (seller)
func (h *OrderHandler) ListMySales(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	orders, err := h.orderService.MySales(user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetOrder returns one order
// GET /api/orders/:id (auth)
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// PayOrder records a payment confirmation on the caller's order
// PUT /api/orders/:id/pay (auth)
func (h *OrderHandler) PayOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var conf service.PaymentConfirmation
	if err := c.BodyParser(&conf); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	order, err := h.orderService.Pay(user, id, &conf)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// ShipOrder marks an order shipped (admin or owning seller)
// PUT /api/orders/:id/ship
func (h *OrderHandler) ShipOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	user := middleware.CurrentUser(c)
	order, err := h.orderService.Ship(user, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// DeliverOrder marks an order delivered (admin, buyer, or owning seller)
// PUT /api/orders/:id/deliver
func (h *OrderHandler) DeliverOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	user := middleware.CurrentUser(c)
	order, err := h.orderService.Deliver(user, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}
