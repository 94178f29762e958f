package service

import (
	"errors"
	"fmt"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/pkg/jwt"
	"agrimart-api/pkg/validator"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("user already exists")
	ErrMobileExists       = errors.New("mobile number already registered")
	ErrBadAdminSecret     = errors.New("invalid admin registration secret")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(req *RegisterRequest) (*AuthResponse, error)
	Login(email, password string) (*AuthResponse, error)
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	GovtID      string `json:"govtId" validate:"govt_id"`
	IsSupplier  bool   `json:"isSupplier"`
	IsAdmin     bool   `json:"isAdmin"`
	AdminSecret string `json:"adminSecret"`
}

type AuthResponse struct {
	User  model.UserResponse `json:"user"`
	Token string             `json:"token"`
}

type authService struct {
	userRepo    repository.UserRepository
	jwtSecret   []byte
	adminSecret string
	logger      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret []byte, adminSecret string, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

// Register creates an account, inferring the role from the supplied flags:
// admin (secret-gated, auto-verified, no govt id stored), supplier (unverified),
// farmer when a govt id is present (unverified), plain user otherwise.
func (s *authService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// The secret gate runs before any persistence so a rejected admin attempt
	// leaves no user record behind.
	if req.IsAdmin && (s.adminSecret == "" || req.AdminSecret != s.adminSecret) {
		return nil, ErrBadAdminSecret
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}
	if existing, _ := s.userRepo.FindByMobile(req.Mobile); existing != nil {
		return nil, ErrMobileExists
	}

	user := &model.User{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
	}

	switch {
	case req.IsAdmin:
		user.Role = model.RoleAdmin
		user.IsVerified = true
	case req.IsSupplier:
		user.Role = model.RoleSupplier
		user.GovtID = req.GovtID
	case req.GovtID != "":
		user.Role = model.RoleFarmer
		user.GovtID = req.GovtID
	default:
		user.Role = model.RoleUser
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return s.issueToken(user)
}

func (s *authService) Login(email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *model.User) (*AuthResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}
