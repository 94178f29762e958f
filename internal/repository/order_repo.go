package repository

import (
	"errors"

	"agrimart-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock remaining")

// ReservationLine is a requested quantity of one product at checkout.
type ReservationLine struct {
	ProductID uuid.UUID
	Qty       int
}

type OrderRepository interface {
	Checkout(lines []ReservationLine, build func(items []model.OrderItem) *model.Order) (*model.Order, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByUser(userID uuid.UUID) ([]model.Order, error)
	FindAll() ([]model.Order, error)
	FindByProducts(productIDs []uuid.UUID) ([]model.Order, error)
	HasPaidOrderWithProduct(userID, productID uuid.UUID) (bool, error)
	UpdateVersioned(order *model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Checkout reserves stock for every line and persists the order the build
// callback assembles from the resulting snapshots, all in one transaction.
// Each reservation is an atomic guarded decrement, so two concurrent checkouts
// can never both consume the last unit; the losing one rolls back with
// ErrInsufficientStock. A missing product surfaces gorm.ErrRecordNotFound.
func (r *orderRepo) Checkout(lines []ReservationLine, build func(items []model.OrderItem) *model.Order) (*model.Order, error) {
	var order *model.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND count_in_stock >= ?", line.ProductID, line.Qty).
				Update("count_in_stock", gorm.Expr("count_in_stock - ?", line.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&model.Product{}).
					Where("id = ?", line.ProductID).
					Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return gorm.ErrRecordNotFound
				}
				return ErrInsufficientStock
			}

			// The guarded update holds the row lock, so this snapshot read is
			// stable until commit.
			var product model.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				return err
			}
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price,
				Qty:       line.Qty,
			})
		}

		order = build(items)
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderItems").Preload("User").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("OrderItems").Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// FindByProducts returns orders containing at least one line item for the
// given products (the seller "my sales" join).
func (r *orderRepo) FindByProducts(productIDs []uuid.UUID) ([]model.Order, error) {
	if len(productIDs) == 0 {
		return []model.Order{}, nil
	}
	var orders []model.Order
	err := r.db.Preload("OrderItems").Preload("User").
		Where("id IN (?)", r.db.Model(&model.OrderItem{}).
			Select("order_id").
			Where("product_id IN ?", productIDs)).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// HasPaidOrderWithProduct reports whether the user has a paid order that
// includes the product. Drives the verified-buyer flag on reviews.
func (r *orderRepo) HasPaidOrderWithProduct(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("user_id = ? AND is_paid = ?", userID, true).
		Where("id IN (?)", r.db.Model(&model.OrderItem{}).
			Select("order_id").
			Where("product_id = ?", productID)).
		Count(&count).Error
	return count > 0, err
}

// UpdateVersioned writes the lifecycle fields conditionally on the version the
// caller read, bumping it on success.
func (r *orderRepo) UpdateVersioned(order *model.Order) error {
	current := order.Version
	order.Version = current + 1

	res := r.db.Model(order).
		Where("version = ?", current).
		Select("is_paid", "paid_at", "payment_payment_id", "payment_status",
			"payment_update_time", "payment_email_address",
			"is_delivered", "delivered_at", "status", "version").
		Updates(order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
