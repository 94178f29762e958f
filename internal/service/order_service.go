package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoOrderItems      = errors.New("no order items")
	ErrInsufficientStock = repository.ErrInsufficientStock
	ErrPurchaseForbidden = errors.New("only verified farmers or suppliers can purchase agricultural products")
	ErrNotOrderOwner     = errors.New("not authorized to update this order")
	ErrNotOrderSeller    = errors.New("not authorized to fulfill this order")
)

const (
	PaymentMethodCOD = "COD"

	taxRate           = 0.05
	freeShippingAbove = 1000.0
	flatShippingPrice = 50.0
)

type OrderService interface {
	Create(buyer *model.User, req *CreateOrderRequest) (*model.Order, error)
	GetByID(id uuid.UUID) (*model.Order, error)
	MyOrders(userID uuid.UUID) ([]model.Order, error)
	AllOrders() ([]model.Order, error)
	MySales(seller *model.User) ([]model.Order, error)
	Pay(caller *model.User, orderID uuid.UUID, conf *PaymentConfirmation) (*model.Order, error)
	Ship(caller *model.User, orderID uuid.UUID) (*model.Order, error)
	Deliver(caller *model.User, orderID uuid.UUID) (*model.Order, error)
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest `json:"order_items"`
	ShippingAddress model.Address      `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// PaymentConfirmation is the gateway payload recorded on a paid order.
type PaymentConfirmation struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	hub         *ws.Hub
	logger      *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, hub *ws.Hub, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		hub:         hub,
		logger:      logger,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotals derives the price breakdown from snapshotted line items.
// Client-sent totals are never trusted.
func ComputeTotals(items []model.OrderItem) (itemsPrice, taxPrice, shippingPrice, totalPrice float64) {
	for _, item := range items {
		itemsPrice += item.Price * float64(item.Qty)
	}
	itemsPrice = round2(itemsPrice)

	if itemsPrice < freeShippingAbove {
		shippingPrice = flatShippingPrice
	}
	taxPrice = round2(itemsPrice * taxRate)
	totalPrice = round2(itemsPrice + taxPrice + shippingPrice)
	return
}

// Create snapshots cart items from the product table, recomputes the totals
// server-side and reserves stock via guarded decrements, all in one transaction.
func (s *orderService) Create(buyer *model.User, req *CreateOrderRequest) (*model.Order, error) {
	if !buyer.IsAdmin() {
		if !buyer.IsSeller() || !buyer.IsVerified {
			return nil, ErrPurchaseForbidden
		}
	}

	if len(req.OrderItems) == 0 {
		return nil, ErrNoOrderItems
	}

	lines := make([]repository.ReservationLine, 0, len(req.OrderItems))
	for _, line := range req.OrderItems {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("invalid quantity for product %s", line.ProductID)
		}
		lines = append(lines, repository.ReservationLine{ProductID: line.ProductID, Qty: line.Qty})
	}

	order, err := s.orderRepo.Checkout(lines, func(items []model.OrderItem) *model.Order {
		itemsPrice, taxPrice, shippingPrice, totalPrice := ComputeTotals(items)
		return &model.Order{
			UserID:          buyer.ID,
			OrderItems:      items,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			ItemsPrice:      itemsPrice,
			TaxPrice:        taxPrice,
			ShippingPrice:   shippingPrice,
			TotalPrice:      totalPrice,
			Status:          model.OrderPending,
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("buyer_id", buyer.ID.String()),
		zap.Float64("total", order.TotalPrice))

	s.hub.Publish(ws.EventOrderCreated, map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalPrice,
	})

	return order, nil
}

func (s *orderService) GetByID(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) MyOrders(userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindByUser(userID)
}

func (s *orderService) AllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) MySales(seller *model.User) ([]model.Order, error) {
	productIDs, err := s.productRepo.SellerProductIDs(seller.ID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindByProducts(productIDs)
}

// Pay marks the caller's own order paid with the gateway confirmation.
// Admins may settle any order.
func (s *orderService) Pay(caller *model.User, orderID uuid.UUID, conf *PaymentConfirmation) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if order.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotOrderOwner
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = model.PaymentResult{
		PaymentID:    conf.ID,
		Status:       conf.Status,
		UpdateTime:   conf.UpdateTime,
		EmailAddress: conf.EmailAddress,
	}

	if err := s.orderRepo.UpdateVersioned(order); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventOrderPaid, map[string]interface{}{"order_id": order.ID})

	return order, nil
}

// Ship requires the caller to be admin or a seller owning at least one
// product referenced by the order's line items.
func (s *orderService) Ship(caller *model.User, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if !caller.IsAdmin() {
		owns, err := s.sellerOwnsOrderItem(caller.ID, order)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrNotOrderSeller
		}
	}

	order.Status = model.OrderShipped

	if err := s.orderRepo.UpdateVersioned(order); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventOrderShipped, map[string]interface{}{"order_id": order.ID})

	return order, nil
}

// Deliver may be performed by the admin, the buyer, or a seller owning a line
// item. Delivering a COD order settles it: cash changes hands at the door, so
// a synthesized payment result is recorded and isPaid is forced true.
func (s *orderService) Deliver(caller *model.User, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if order.UserID != caller.ID && !caller.IsAdmin() {
		owns, err := s.sellerOwnsOrderItem(caller.ID, order)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrNotOrderSeller
		}
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = model.OrderDelivered

	if order.PaymentMethod == PaymentMethodCOD && !order.IsPaid {
		email := "COD"
		if order.User != nil && order.User.Email != "" {
			email = order.User.Email
		}
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = model.PaymentResult{
			PaymentID:    fmt.Sprintf("COD_%d", now.UnixMilli()),
			Status:       "Completed",
			UpdateTime:   fmt.Sprintf("%d", now.UnixMilli()),
			EmailAddress: email,
		}
	}

	if err := s.orderRepo.UpdateVersioned(order); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventOrderDelivered, map[string]interface{}{"order_id": order.ID})

	return order, nil
}

func (s *orderService) sellerOwnsOrderItem(sellerID uuid.UUID, order *model.Order) (bool, error) {
	productIDs, err := s.productRepo.SellerProductIDs(sellerID)
	if err != nil {
		return false, err
	}
	return order.ContainsProductOf(productIDs), nil
}
