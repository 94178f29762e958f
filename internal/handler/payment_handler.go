package handler

import (
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreateGatewayOrderRequest struct {
	Amount float64 `json:"amount"`
}

// CreateGatewayOrder registers a checkout amount with the payment provider
// POST /api/razorpay/order (auth)
func (h *PaymentHandler) CreateGatewayOrder(c *fiber.Ctx) error {
	var req CreateGatewayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Amount <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Amount must be positive"})
	}

	order, err := h.paymentService.CreateGatewayOrder(req.Amount)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(order)
}

// VerifyPayment checks the gateway signature and settles the order
// POST /api/razorpay/verify (auth)
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req service.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user := middleware.CurrentUser(c)
	order, err := h.paymentService.VerifyPayment(user, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment verified successfully", "order": order})
}

// GetKey exposes the public key id for the client checkout widget
// GET /api/razorpay/key
func (h *PaymentHandler) GetKey(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"key": h.paymentService.KeyID()})
}
