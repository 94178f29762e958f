package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agrimart-api/pkg/masking"
)

// Role is the closed set of account kinds. Verification is orthogonal:
// a farmer or supplier may exist unverified until staff approves them.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleSupplier Role = "supplier"
	RoleFarmer   Role = "farmer"
	RoleUser     Role = "user"
)

// FarmDetails describes a farmer's holding, shown on their public profile.
type FarmDetails struct {
	FarmSize  string   `json:"farm_size,omitempty"`
	CropTypes []string `gorm:"serializer:json" json:"crop_types,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Address is reused for user profiles and order shipping snapshots.
type Address struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	Landmark string `json:"landmark,omitempty"`
}

// User represents any account in the marketplace: buyers, sellers, staff, admins.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Mobile   string `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile" validate:"required"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`

	Role       Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsVerified bool   `gorm:"default:false" json:"is_verified"`
	GovtID     string `gorm:"type:varchar(16)" json:"-" validate:"govt_id"`

	Image       string      `gorm:"type:varchar(500)" json:"image,omitempty"`
	FarmDetails FarmDetails `gorm:"embedded;embeddedPrefix:farm_" json:"farm_details"`
	Address     Address     `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the provided password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) IsStaff() bool { return u.Role == RoleStaff || u.Role == RoleAdmin }

// IsSeller reports whether the user may list products and fulfill orders.
func (u *User) IsSeller() bool {
	return u.Role == RoleFarmer || u.Role == RoleSupplier || u.Role == RoleAdmin
}

// UserResponse is the serialized form of a User. The government identifier is
// always masked here; the legacy role booleans are derived from the Role enum
// for client compatibility.
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	Role        Role        `json:"role"`
	IsAdmin     bool        `json:"isAdmin"`
	IsFarmer    bool        `json:"isFarmer"`
	IsSupplier  bool        `json:"isSupplier"`
	IsStaff     bool        `json:"isStaff"`
	IsVerified  bool        `json:"isVerified"`
	GovtID      string      `json:"govtId,omitempty"`
	Image       string      `json:"image,omitempty"`
	FarmDetails FarmDetails `json:"farmDetails"`
	Address     Address     `json:"address"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToResponse converts a User to its serialized form.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Mobile:      u.Mobile,
		Role:        u.Role,
		IsAdmin:     u.Role == RoleAdmin,
		IsFarmer:    u.Role == RoleFarmer,
		IsSupplier:  u.Role == RoleSupplier,
		IsStaff:     u.Role == RoleStaff,
		IsVerified:  u.IsVerified,
		GovtID:      masking.GovtID(u.GovtID),
		Image:       u.Image,
		FarmDetails: u.FarmDetails,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}
