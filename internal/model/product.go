package model

import "github.com/google/uuid"

// Category is the closed product taxonomy.
var Categories = []string{
	"Seeds",
	"Fertilizers",
	"Pesticides",
	"Farming Tools",
	"Fruits & Vegetables",
	"Grains & Pulses",
	"Organic Produce",
	"Livestock & Poultry",
	"Animal Feed",
	"Farm Machinery",
	"Saplings & Nursery",
}

// ValidCategory reports whether c belongs to the closed taxonomy.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Review is one buyer's rating of a product. One review per user per product.
type Review struct {
	BaseModel
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Rating          int       `gorm:"not null" json:"rating" validate:"required,gte=1,lte=5"`
	Comment         string    `gorm:"type:text;not null" json:"comment" validate:"required"`
	IsVerifiedBuyer bool      `gorm:"default:false" json:"is_verified_buyer"`
}

// Product is a listing owned by exactly one seller. Rating and NumReviews are
// derived from the review rows and recomputed whenever a review is added.
type Product struct {
	BaseModel
	SellerID uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`

	Name              string   `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Brand             string   `gorm:"type:varchar(255)" json:"brand"`
	Category          string   `gorm:"type:varchar(50);not null" json:"category"`
	Description       string   `gorm:"type:text" json:"description"`
	UsageInstructions string   `gorm:"type:text" json:"usage_instructions,omitempty"`
	ExpertTips        []string `gorm:"serializer:json" json:"expert_tips,omitempty"`

	Image    string   `gorm:"type:varchar(500)" json:"image"`
	Images   []string `gorm:"serializer:json" json:"images,omitempty"`
	VideoURL string   `gorm:"type:varchar(500)" json:"video_url,omitempty"`

	Price        float64 `gorm:"not null;default:0" json:"price"`
	CountInStock int     `gorm:"not null;default:0" json:"count_in_stock"`

	Rating     float64 `gorm:"not null;default:0" json:"rating"`
	NumReviews int     `gorm:"not null;default:0" json:"num_reviews"`
	Reviews    []Review `json:"reviews,omitempty"`

	// Optimistic concurrency token: lifecycle mutations are conditional on it.
	Version int `gorm:"not null;default:0" json:"version"`
}
