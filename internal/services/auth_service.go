package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"greendrake/storefront/internal/auth"
	"greendrake/storefront/internal/config"
	"greendrake/storefront/internal/models"
	"greendrake/storefront/internal/utils"
)

const adminUsersCollection = "admin_users"

// IAuthService defines the interface for admin authentication.
type IAuthService interface {
	Login(ctx context.Context, email, password string) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error)
}

// authService implements IAuthService.
type authService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(database *mongo.Database, cfg *config.Config) IAuthService {
	return &authService{db: database, cfg: cfg}
}

// Login checks credentials against an active admin account. Failures are
// indistinguishable to the caller (no account enumeration).
func (s *authService) Login(ctx context.Context, email, password string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var admin models.AdminUser
	err := s.db.Collection(adminUsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &UnauthorizedError{Message: "invalid credentials"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admin user: %w", err)
	}

	if !admin.IsActive || !auth.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, &UnauthorizedError{Message: "invalid credentials"}
	}
	return &admin, nil
}

// CreateAdmin registers a new active admin account.
func (s *authService) CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	count, err := s.db.Collection(adminUsersCollection).CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if count > 0 {
		return nil, &ConflictError{Message: "admin user already exists"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &models.AdminUser{
		ID:           utils.NewSixID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.db.Collection(adminUsersCollection).InsertOne(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to insert admin user: %w", err)
	}
	return admin, nil
}
