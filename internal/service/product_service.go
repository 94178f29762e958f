package service

import (
	"errors"
	"fmt"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/internal/ws"
	"agrimart-api/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrNotProductOwner  = errors.New("not authorized to modify this product")
	ErrAlreadyReviewed  = errors.New("product already reviewed")
	ErrInvalidCategory  = errors.New("unknown product category")
	ErrSellerUnverified = errors.New("identity verification required before listing products")
)

type ProductService interface {
	GetProducts(keyword string) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetSellerProducts(sellerID uuid.UUID) ([]model.Product, error)
	CreateProduct(seller *model.User, req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(caller *model.User, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(caller *model.User, id uuid.UUID) error
	AddReview(reviewer *model.User, productID uuid.UUID, req *ReviewRequest) error
}

// CreateProductRequest may be entirely empty: the seller console posts an
// empty body to get an editable sample listing, mirroring the admin flow.
type CreateProductRequest struct {
	Name              string   `json:"name"`
	Brand             string   `json:"brand"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	UsageInstructions string   `json:"usage_instructions"`
	ExpertTips        []string `json:"expert_tips"`
	Image             string   `json:"image"`
	Images            []string `json:"images"`
	VideoURL          string   `json:"video_url"`
	Price             float64  `json:"price"`
	CountInStock      int      `json:"count_in_stock"`
}

type UpdateProductRequest struct {
	Name              string   `json:"name"`
	Brand             string   `json:"brand"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	UsageInstructions string   `json:"usage_instructions"`
	ExpertTips        []string `json:"expert_tips"`
	Image             string   `json:"image"`
	Images            []string `json:"images"`
	VideoURL          string   `json:"video_url"`
	Price             *float64 `json:"price"`
	CountInStock      *int     `json:"count_in_stock"`
	Version           int      `json:"version"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

type productService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	hub         *ws.Hub
	logger      *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, hub *ws.Hub, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		hub:         hub,
		logger:      logger,
	}
}

func (s *productService) GetProducts(keyword string) ([]model.Product, error) {
	return s.productRepo.FindAll(keyword)
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) GetSellerProducts(sellerID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindBySeller(sellerID)
}

func (s *productService) CreateProduct(seller *model.User, req *CreateProductRequest) (*model.Product, error) {
	if !seller.IsAdmin() && !seller.IsVerified {
		return nil, ErrSellerUnverified
	}

	product := &model.Product{
		SellerID:          seller.ID,
		Name:              req.Name,
		Brand:             req.Brand,
		Category:          req.Category,
		Description:       req.Description,
		UsageInstructions: req.UsageInstructions,
		ExpertTips:        req.ExpertTips,
		Image:             req.Image,
		Images:            req.Images,
		VideoURL:          req.VideoURL,
		Price:             req.Price,
		CountInStock:      req.CountInStock,
	}

	// Empty body: seed an editable sample listing.
	if product.Name == "" {
		product.Name = "Sample Product"
		product.Brand = "Sample Brand"
		product.Category = model.Categories[0]
		product.Description = "Sample description"
		product.Image = "/images/sample.jpg"
	}

	if !model.ValidCategory(product.Category) {
		return nil, ErrInvalidCategory
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", seller.ID.String()))

	return product, nil
}

func (s *productService) UpdateProduct(caller *model.User, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if product.SellerID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotProductOwner
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Brand != "" {
		product.Brand = req.Brand
	}
	if req.Category != "" {
		if !model.ValidCategory(req.Category) {
			return nil, ErrInvalidCategory
		}
		product.Category = req.Category
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.UsageInstructions != "" {
		product.UsageInstructions = req.UsageInstructions
	}
	if req.ExpertTips != nil {
		product.ExpertTips = req.ExpertTips
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.VideoURL != "" {
		product.VideoURL = req.VideoURL
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CountInStock != nil {
		product.CountInStock = *req.CountInStock
	}
	if req.Version != 0 {
		product.Version = req.Version
	}

	if err := s.productRepo.UpdateVersioned(product); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventStockUpdate, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"stock":      product.CountInStock,
		"price":      product.Price,
	})

	return product, nil
}

func (s *productService) DeleteProduct(caller *model.User, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}

	if product.SellerID != caller.ID && !caller.IsAdmin() {
		return ErrNotProductOwner
	}

	return s.productRepo.Delete(id)
}

// AddReview appends a single review per user, deriving the verified-buyer flag
// from paid order history. Aggregates are recomputed by the repository in the
// same transaction as the insert.
func (s *productService) AddReview(reviewer *model.User, productID uuid.UUID, req *ReviewRequest) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		return ErrProductNotFound
	}

	reviewed, err := s.productRepo.HasReviewBy(productID, reviewer.ID)
	if err != nil {
		return err
	}
	if reviewed {
		return ErrAlreadyReviewed
	}

	verifiedBuyer, err := s.orderRepo.HasPaidOrderWithProduct(reviewer.ID, productID)
	if err != nil {
		return err
	}

	review := &model.Review{
		UserID:          reviewer.ID,
		Name:            reviewer.Name,
		Rating:          req.Rating,
		Comment:         req.Comment,
		IsVerifiedBuyer: verifiedBuyer,
	}

	if err := s.productRepo.AddReview(productID, review); err != nil {
		return err
	}

	s.hub.Publish(ws.EventReviewAdded, map[string]interface{}{
		"product_id": productID,
		"rating":     req.Rating,
	})

	return nil
}
