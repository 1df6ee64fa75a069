package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/identity"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

type NewAuthUser struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UserService provisions users across the identity provider and the store.
// The two writes are sequential, not atomic.
type UserService struct {
	Store    store.Client
	Identity identity.Provider
}

// CreateAuthUser creates the identity account, then writes the profile
// keyed by the issued subject ID. When the profile write fails the identity
// account is deleted again so a retry of the whole request can succeed;
// the compensation itself is best-effort and logged when it fails too.
func (s *UserService) CreateAuthUser(ctx context.Context, user NewAuthUser) (string, error) {
	uid, err := s.Identity.CreateUser(ctx, user.Email, user.Password, user.Name)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			return "", utils.NewConflictError(fmt.Sprintf("User with email %s already exists", user.Email))
		case errors.Is(err, identity.ErrWeakPassword):
			return "", utils.NewValidationError("Password is too weak. Please use a stronger password.")
		}
		return "", fmt.Errorf("Error creating user: %w", err)
	}

	profile := map[string]any{
		"id":    uid,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
	if err := s.Store.Set(ctx, CollectionUsers, uid, profile); err != nil {
		logger := config.GetLogger()
		config.LogError(ctx, logger, "user.go", "CreateAuthUser", "profile write for "+uid, profile, err)
		if delErr := s.Identity.DeleteUser(ctx, uid); delErr != nil && !errors.Is(delErr, identity.ErrUserNotFound) {
			config.LogError(ctx, logger, "user.go", "CreateAuthUser", "rollback identity account "+uid, nil, delErr)
		}
		return "", fmt.Errorf("Error creating user: %w", err)
	}

	return uid, nil
}
