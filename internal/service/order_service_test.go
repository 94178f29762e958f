package service

import (
	"strings"
	"testing"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrderService(orders *fakeOrderRepo, products *fakeProductRepo) OrderService {
	orders.products = products
	return NewOrderService(orders, products, nil, zap.NewNop())
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []model.OrderItem
		wantItems    float64
		wantTax      float64
		wantShipping float64
		wantTotal    float64
	}{
		{
			name:         "below free shipping threshold",
			items:        []model.OrderItem{{Price: 100, Qty: 2}},
			wantItems:    200,
			wantTax:      10,
			wantShipping: 50,
			wantTotal:    260,
		},
		{
			name:         "at free shipping threshold",
			items:        []model.OrderItem{{Price: 500, Qty: 2}},
			wantItems:    1000,
			wantTax:      50,
			wantShipping: 0,
			wantTotal:    1050,
		},
		{
			name:         "mixed lines rounded to paise",
			items:        []model.OrderItem{{Price: 33.33, Qty: 3}, {Price: 10.5, Qty: 1}},
			wantItems:    110.49,
			wantTax:      5.52,
			wantShipping: 50,
			wantTotal:    166.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, tax, shipping, total := ComputeTotals(tt.items)
			assert.Equal(t, tt.wantItems, items)
			assert.Equal(t, tt.wantTax, tax)
			assert.Equal(t, tt.wantShipping, shipping)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestCreateOrder_PurchaseGate(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo(), newFakeProductRepo())

	req := &CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{ProductID: uuid.New(), Qty: 1}},
		PaymentMethod: PaymentMethodCOD,
	}

	plainUser := &model.User{Role: model.RoleUser, IsVerified: true}
	_, err := svc.Create(plainUser, req)
	assert.ErrorIs(t, err, ErrPurchaseForbidden)

	unverifiedFarmer := &model.User{Role: model.RoleFarmer}
	_, err = svc.Create(unverifiedFarmer, req)
	assert.ErrorIs(t, err, ErrPurchaseForbidden)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo(), newFakeProductRepo())

	buyer := &model.User{Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(buyer, &CreateOrderRequest{PaymentMethod: PaymentMethodCOD})
	assert.ErrorIs(t, err, ErrNoOrderItems)
}

func TestCreateOrder_SnapshotsItemsAndPersistsTotals(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	seeds := &model.Product{SellerID: uuid.New(), Name: "Hybrid Wheat Seeds", Image: "/images/wheat-seeds.jpg", Price: 450, CountInStock: 10}
	oil := &model.Product{SellerID: uuid.New(), Name: "Neem Oil", Image: "/images/neem-oil.jpg", Price: 350, CountInStock: 5}
	require.NoError(t, products.Create(seeds))
	require.NoError(t, products.Create(oil))

	buyer := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	order, err := svc.Create(buyer, &CreateOrderRequest{
		OrderItems: []OrderItemRequest{
			{ProductID: seeds.ID, Qty: 2},
			{ProductID: oil.ID, Qty: 1},
		},
		PaymentMethod: PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, order.UserID)
	assert.Equal(t, model.OrderPending, order.Status)

	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, "Hybrid Wheat Seeds", order.OrderItems[0].Name)
	assert.Equal(t, "/images/wheat-seeds.jpg", order.OrderItems[0].Image)
	assert.Equal(t, 450.0, order.OrderItems[0].Price)
	assert.Equal(t, 2, order.OrderItems[0].Qty)
	assert.Equal(t, "Neem Oil", order.OrderItems[1].Name)

	// 450*2 + 350 = 1250: free shipping, 5% tax.
	assert.Equal(t, 1250.0, order.ItemsPrice)
	assert.Equal(t, 0.0, order.ShippingPrice)
	assert.Equal(t, 62.5, order.TaxPrice)
	assert.Equal(t, 1312.5, order.TotalPrice)

	assert.Equal(t, 8, products.products[seeds.ID].CountInStock)
	assert.Equal(t, 4, products.products[oil.ID].CountInStock)

	stored, ok := orders.orders[order.ID]
	require.True(t, ok)
	assert.Equal(t, 1312.5, stored.TotalPrice)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	product := &model.Product{SellerID: uuid.New(), Name: "Sprayer", Price: 1200, CountInStock: 2}
	require.NoError(t, products.Create(product))

	buyer := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(buyer, &CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{ProductID: product.ID, Qty: 3}},
		PaymentMethod: PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, products.products[product.ID].CountInStock)
	assert.Empty(t, orders.orders)
}

func TestCreateOrder_LastUnitSoldOnce(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	product := &model.Product{SellerID: uuid.New(), Name: "Drip Kit", Price: 900, CountInStock: 1}
	require.NoError(t, products.Create(product))

	req := &CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{ProductID: product.ID, Qty: 1}},
		PaymentMethod: PaymentMethodCOD,
	}

	first := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(first, req)
	require.NoError(t, err)
	assert.Equal(t, 0, products.products[product.ID].CountInStock)

	second := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err = svc.Create(second, req)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, products.products[product.ID].CountInStock, "stock must never go negative")
	assert.Len(t, orders.orders, 1)
}

func TestCreateOrder_FailedLineReleasesEarlierReservations(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	plenty := &model.Product{SellerID: uuid.New(), Name: "Compost", Price: 80, CountInStock: 10}
	scarce := &model.Product{SellerID: uuid.New(), Name: "Sprayer", Price: 1200, CountInStock: 1}
	require.NoError(t, products.Create(plenty))
	require.NoError(t, products.Create(scarce))

	buyer := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(buyer, &CreateOrderRequest{
		OrderItems: []OrderItemRequest{
			{ProductID: plenty.ID, Qty: 4},
			{ProductID: scarce.ID, Qty: 2},
		},
		PaymentMethod: PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, products.products[plenty.ID].CountInStock)
	assert.Equal(t, 1, products.products[scarce.ID].CountInStock)
	assert.Empty(t, orders.orders)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo(), newFakeProductRepo())

	buyer := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(buyer, &CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{ProductID: uuid.New(), Qty: 1}},
		PaymentMethod: PaymentMethodCOD,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrder_NonPositiveQty(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	product := &model.Product{SellerID: uuid.New(), Name: "Compost", Price: 80, CountInStock: 10}
	require.NoError(t, products.Create(product))

	buyer := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Create(buyer, &CreateOrderRequest{
		OrderItems:    []OrderItemRequest{{ProductID: product.ID, Qty: 0}},
		PaymentMethod: PaymentMethodCOD,
	})
	assert.Error(t, err)
	assert.Equal(t, 10, products.products[product.ID].CountInStock)
}

func TestPay_OnlyBuyerOrAdmin(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	buyerID := uuid.New()
	order := orders.add(&model.Order{UserID: buyerID, Status: model.OrderPending})

	stranger := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Pay(stranger, order.ID, &PaymentConfirmation{ID: "pay_1"})
	assert.ErrorIs(t, err, ErrNotOrderOwner)
	assert.False(t, orders.orders[order.ID].IsPaid)

	buyer := &model.User{BaseModel: model.BaseModel{ID: buyerID}, Role: model.RoleFarmer, IsVerified: true}
	paid, err := svc.Pay(buyer, order.ID, &PaymentConfirmation{
		ID:           "pay_1",
		Status:       "COMPLETED",
		EmailAddress: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "pay_1", paid.PaymentResult.PaymentID)
	assert.Equal(t, "buyer@example.com", paid.PaymentResult.EmailAddress)
}

func TestPay_AdminMaySettleAnyOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	order := orders.add(&model.Order{UserID: uuid.New(), Status: model.OrderPending})

	admin := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleAdmin}
	paid, err := svc.Pay(admin, order.ID, &PaymentConfirmation{ID: "pay_admin"})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
}

func TestShip_RequiresOwningSellerOrAdmin(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	sellerID := uuid.New()
	product := &model.Product{SellerID: sellerID, Name: "Wheat Seeds", Price: 120, CountInStock: 10}
	require.NoError(t, products.Create(product))

	order := orders.add(&model.Order{
		UserID:     uuid.New(),
		Status:     model.OrderPending,
		OrderItems: []model.OrderItem{{ProductID: product.ID, Name: product.Name, Price: product.Price, Qty: 1}},
	})

	otherSeller := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleSupplier, IsVerified: true}
	_, err := svc.Ship(otherSeller, order.ID)
	assert.ErrorIs(t, err, ErrNotOrderSeller)
	assert.Equal(t, model.OrderPending, orders.orders[order.ID].Status)

	owner := &model.User{BaseModel: model.BaseModel{ID: sellerID}, Role: model.RoleFarmer, IsVerified: true}
	shipped, err := svc.Ship(owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, shipped.Status)
}

func TestDeliver_CODSettlesOrder(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	buyerID := uuid.New()
	order := orders.add(&model.Order{
		UserID:        buyerID,
		Status:        model.OrderShipped,
		PaymentMethod: PaymentMethodCOD,
	})

	buyer := &model.User{BaseModel: model.BaseModel{ID: buyerID}, Role: model.RoleFarmer, IsVerified: true}
	delivered, err := svc.Deliver(buyer, order.ID)
	require.NoError(t, err)

	assert.Equal(t, model.OrderDelivered, delivered.Status)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)

	assert.True(t, delivered.IsPaid, "cash on delivery settles at the door")
	require.NotNil(t, delivered.PaidAt)
	assert.Equal(t, "Completed", delivered.PaymentResult.Status)
	assert.True(t, strings.HasPrefix(delivered.PaymentResult.PaymentID, "COD_"))
	assert.Equal(t, "COD", delivered.PaymentResult.EmailAddress)
}

func TestDeliver_PrepaidOrderKeepsPaymentResult(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	buyerID := uuid.New()
	order := orders.add(&model.Order{
		UserID:        buyerID,
		Status:        model.OrderShipped,
		PaymentMethod: "Razorpay",
		IsPaid:        true,
		PaymentResult: model.PaymentResult{PaymentID: "pay_online", Status: "COMPLETED"},
	})

	buyer := &model.User{BaseModel: model.BaseModel{ID: buyerID}, Role: model.RoleFarmer, IsVerified: true}
	delivered, err := svc.Deliver(buyer, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "pay_online", delivered.PaymentResult.PaymentID)
	assert.Equal(t, "COMPLETED", delivered.PaymentResult.Status)
}

func TestDeliver_StrangerSellerRejected(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	order := orders.add(&model.Order{
		UserID:     uuid.New(),
		Status:     model.OrderShipped,
		OrderItems: []model.OrderItem{{ProductID: uuid.New(), Qty: 1}},
	})

	stranger := &model.User{BaseModel: model.BaseModel{ID: uuid.New()}, Role: model.RoleSupplier, IsVerified: true}
	_, err := svc.Deliver(stranger, order.ID)
	assert.ErrorIs(t, err, ErrNotOrderSeller)
}

func TestOrderLifecycle_VersionConflict(t *testing.T) {
	orders := newFakeOrderRepo()
	svc := newTestOrderService(orders, newFakeProductRepo())

	buyerID := uuid.New()
	order := orders.add(&model.Order{UserID: buyerID, Status: model.OrderPending})
	orders.versionConflict = true

	buyer := &model.User{BaseModel: model.BaseModel{ID: buyerID}, Role: model.RoleFarmer, IsVerified: true}
	_, err := svc.Pay(buyer, order.ID, &PaymentConfirmation{ID: "pay_1"})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestMySales_FiltersBySellerProducts(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	svc := newTestOrderService(orders, products)

	sellerID := uuid.New()
	mine := &model.Product{SellerID: sellerID, Name: "Organic Compost", Price: 80, CountInStock: 5}
	theirs := &model.Product{SellerID: uuid.New(), Name: "Drip Kit", Price: 900, CountInStock: 3}
	require.NoError(t, products.Create(mine))
	require.NoError(t, products.Create(theirs))

	sale := orders.add(&model.Order{
		UserID:     uuid.New(),
		OrderItems: []model.OrderItem{{ProductID: mine.ID, Qty: 2}},
	})
	orders.add(&model.Order{
		UserID:     uuid.New(),
		OrderItems: []model.OrderItem{{ProductID: theirs.ID, Qty: 1}},
	})

	seller := &model.User{BaseModel: model.BaseModel{ID: sellerID}, Role: model.RoleFarmer, IsVerified: true}
	sales, err := svc.MySales(seller)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
}

func TestOrderNotFound(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo(), newFakeProductRepo())

	admin := &model.User{Role: model.RoleAdmin}
	_, err := svc.Pay(admin, uuid.New(), &PaymentConfirmation{})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.Ship(admin, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.Deliver(admin, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
