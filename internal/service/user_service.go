package service

import (
	"errors"
	"fmt"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
	AdminUpdateUser(id uuid.UUID, req *AdminUpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(id uuid.UUID) error
	UnmaskGovtID(viewer *model.User, targetID uuid.UUID, ip, userAgent string) (string, error)
	GetAuditLogs() ([]model.AuditLog, error)
}

type UpdateProfileRequest struct {
	Name        string             `json:"name"`
	Email       string             `json:"email" validate:"omitempty,email"`
	Mobile      string             `json:"mobile"`
	Password    string             `json:"password" validate:"omitempty,min=6"`
	Image       string             `json:"image"`
	FarmDetails *model.FarmDetails `json:"farmDetails"`
	Address     *model.Address     `json:"address"`
}

type AdminUpdateUserRequest struct {
	Name       string     `json:"name"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Role       model.Role `json:"role"`
	IsVerified *bool      `json:"isVerified"`
	GovtID     string     `json:"govtId" validate:"govt_id"`
}

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	logger    *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (s *userService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateProfile applies self-service edits. The password is rehashed only when
// a new one is supplied; other fields keep their value when omitted.
func (s *userService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
		user.Email = req.Email
	}
	if req.Mobile != "" && req.Mobile != user.Mobile {
		if existing, _ := s.userRepo.FindByMobile(req.Mobile); existing != nil {
			return nil, ErrMobileExists
		}
		user.Mobile = req.Mobile
	}
	if req.Image != "" {
		user.Image = req.Image
	}
	if req.FarmDetails != nil {
		user.FarmDetails = *req.FarmDetails
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

// AdminUpdateUser applies role and verification edits from the back office.
func (s *userService) AdminUpdateUser(id uuid.UUID, req *AdminUpdateUserRequest) (*model.UserResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		switch req.Role {
		case model.RoleAdmin, model.RoleStaff, model.RoleSupplier, model.RoleFarmer, model.RoleUser:
			user.Role = req.Role
		default:
			return nil, fmt.Errorf("unknown role %q", req.Role)
		}
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.GovtID != "" {
		user.GovtID = req.GovtID
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(id)
}

// UnmaskGovtID returns the plaintext government identifier of the target user.
// Invariant: the audit record is persisted before the value leaves this
// function; if the audit write fails the disclosure fails with it.
func (s *userService) UnmaskGovtID(viewer *model.User, targetID uuid.UUID, ip, userAgent string) (string, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return "", ErrUserNotFound
	}

	entry := &model.AuditLog{
		ViewerID:     viewer.ID,
		TargetUserID: target.ID,
		Action:       model.ActionUnmaskedID,
		IP:           ip,
		UserAgent:    userAgent,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		return "", fmt.Errorf("audit write failed, refusing disclosure: %w", err)
	}

	s.logger.Info("sensitive field unmasked",
		zap.String("viewer_id", viewer.ID.String()),
		zap.String("target_user_id", target.ID.String()))

	return target.GovtID, nil
}

func (s *userService) GetAuditLogs() ([]model.AuditLog, error) {
	return s.auditRepo.FindAll()
}
