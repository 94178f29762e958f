package repository

import (
	"errors"

	"agrimart-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionConflict signals a lost optimistic-concurrency race: the row was
// mutated between read and conditional write.
var ErrVersionConflict = errors.New("record was modified concurrently")

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(keyword string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySeller(sellerID uuid.UUID) ([]model.Product, error)
	SellerProductIDs(sellerID uuid.UUID) ([]uuid.UUID, error)
	UpdateVersioned(product *model.Product) error
	Delete(id uuid.UUID) error
	AddReview(productID uuid.UUID, review *model.Review) error
	HasReviewBy(productID, userID uuid.UUID) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(keyword string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Reviews").Order("created_at DESC")
	if keyword != "" {
		q = q.Where("name ILIKE ?", "%"+keyword+"%")
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Reviews").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySeller(sellerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) SellerProductIDs(sellerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&model.Product{}).Where("seller_id = ?", sellerID).Pluck("id", &ids).Error
	return ids, err
}

// UpdateVersioned writes product fields conditionally on the version the
// caller read, bumping it on success.
func (r *productRepo) UpdateVersioned(product *model.Product) error {
	current := product.Version
	product.Version = current + 1

	res := r.db.Model(product).
		Where("version = ?", current).
		Select("name", "brand", "category", "description", "usage_instructions",
			"expert_tips", "image", "images", "video_url", "price", "count_in_stock", "version").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// AddReview appends a review and recomputes the derived aggregates in one
// transaction so rating and num_reviews never drift from the review rows.
func (r *productRepo) AddReview(productID uuid.UUID, review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		review.ProductID = productID
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var count int64
		var avg float64
		if err := tx.Model(&model.Review{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Review{}).Where("product_id = ?", productID).
			Select("COALESCE(AVG(rating), 0)").Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&model.Product{}).Where("id = ?", productID).
			Updates(map[string]interface{}{
				"rating":      avg,
				"num_reviews": count,
			}).Error
	})
}

func (r *productRepo) HasReviewBy(productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}
