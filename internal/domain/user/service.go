// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested user does not exist
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when the email is already registered
	ErrEmailTaken = errors.New("email already exists")
	// ErrProtectedUser is returned on attempts to delete a superadmin
	ErrProtectedUser = errors.New("cannot delete superadmin")
)

// Service handles user business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
	passwords  *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: auth.NewJWTManager(cfg),
		passwords:  auth.NewPasswordManager(cfg),
	}
}

// LoginResponse carries the issued token and the account's role
type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// RegisterRequest represents account creation data (superadmin only)
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required"`
}

// UpdateRequest represents account update data; nil fields are left as-is
type UpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *Role   `json:"role"`
}

// Login verifies credentials and issues a JWT carrying the role claim
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var u User
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}

	if err := s.passwords.VerifyPassword(password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, Role: u.Role}, nil
}

// Register creates a new back-office account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("valid role required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", result.Error)
	}

	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     req.Role,
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// List returns all accounts
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// Update edits an account
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("valid role required")
		}
		u.Role = *req.Role
	}

	if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &u, nil
}

// Delete removes an account. Superadmins cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if u.Role == RoleSuperAdmin {
		return ErrProtectedUser
	}

	if err := s.db.WithContext(ctx).Delete(&u).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
