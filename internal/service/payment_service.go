package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/internal/ws"

	"go.uber.org/zap"

	"github.com/google/uuid"
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrGatewayFailure     = errors.New("something went wrong with the payment gateway")
)

const gatewayBaseURL = "https://api.razorpay.com/v1"

type PaymentService interface {
	CreateGatewayOrder(amount float64) (*GatewayOrder, error)
	VerifyPayment(caller *model.User, req *VerifyPaymentRequest) (*model.Order, error)
	KeyID() string
}

// GatewayOrder is the provider-side order handed to the client checkout.
type GatewayOrder struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpay_signature"`
	OrderID           uuid.UUID `json:"orderId"`
}

type paymentService struct {
	orderRepo repository.OrderRepository
	keyID     string
	keySecret string
	mock      bool
	client    *http.Client
	hub       *ws.Hub
	logger    *zap.Logger
}

// NewPaymentService wires the gateway client. The mock flag comes from
// config.MockPayments; when set, no HTTP call or signature check ever runs.
func NewPaymentService(orderRepo repository.OrderRepository, keyID, keySecret string, mock bool, hub *ws.Hub, logger *zap.Logger) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		keyID:     keyID,
		keySecret: keySecret,
		mock:      mock,
		client:    &http.Client{Timeout: 15 * time.Second},
		hub:       hub,
		logger:    logger,
	}
}

func (s *paymentService) KeyID() string {
	return s.keyID
}

// CreateGatewayOrder registers the checkout amount with the provider. Amounts
// are converted to the smallest currency unit (paise).
func (s *paymentService) CreateGatewayOrder(amount float64) (*GatewayOrder, error) {
	paise := int64(math.Round(amount * 100))

	if s.mock {
		return &GatewayOrder{
			ID:       fmt.Sprintf("order_mock_%d", time.Now().UnixMilli()),
			Currency: "INR",
			Amount:   paise,
		}, nil
	}

	body, _ := json.Marshal(map[string]interface{}{
		"amount":   paise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_order_%d", time.Now().UnixMilli()),
	})

	req, err := http.NewRequest(http.MethodPost, gatewayBaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ErrGatewayFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("gateway order creation failed", zap.Int("status", resp.StatusCode))
		return nil, ErrGatewayFailure
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, ErrGatewayFailure
	}
	return &order, nil
}

// VerifyPayment checks the gateway signature and marks the order paid. In mock
// mode the signature is not checked and the order is settled unconditionally.
func (s *paymentService) VerifyPayment(caller *model.User, req *VerifyPaymentRequest) (*model.Order, error) {
	if !s.mock {
		expected := SignPayment(req.RazorpayOrderID, req.RazorpayPaymentID, s.keySecret)
		if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
			return nil, ErrVerificationFailed
		}
	}

	order, err := s.orderRepo.FindByID(req.OrderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	if order.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotOrderOwner
	}

	paymentID := req.RazorpayPaymentID
	if paymentID == "" {
		paymentID = "mock_payment_id"
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = model.PaymentResult{
		PaymentID:    paymentID,
		Status:       "COMPLETED",
		UpdateTime:   fmt.Sprintf("%d", now.UnixMilli()),
		EmailAddress: caller.Email,
	}

	if err := s.orderRepo.UpdateVersioned(order); err != nil {
		return nil, err
	}

	s.logger.Info("payment verified",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", paymentID),
		zap.Bool("mock", s.mock))

	s.hub.Publish(ws.EventOrderPaid, map[string]interface{}{"order_id": order.ID})

	return order, nil
}

// SignPayment computes the expected gateway signature:
// hex(HMAC-SHA256("{gateway_order_id}|{gateway_payment_id}", secret)).
func SignPayment(gatewayOrderID, gatewayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
