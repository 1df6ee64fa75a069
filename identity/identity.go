// Package identity wraps the external identity provider: bearer-token
// verification and account lifecycle. Firebase Auth is the production
// implementation; tests use in-package fakes.
package identity

import (
	"context"
	"errors"
)

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrWeakPassword = errors.New("password is too weak")
	ErrUserNotFound = errors.New("auth user not found")
)

// Token is the verified claim set of a bearer token.
type Token struct {
	UID   string
	Email string
}

type Provider interface {
	VerifyToken(ctx context.Context, idToken string) (*Token, error)

	// CreateUser provisions an account and returns the issued subject ID.
	// Failure modes are classified into ErrEmailExists / ErrWeakPassword;
	// anything else is a generic provider failure.
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)

	// DeleteUser removes an account. Returns ErrUserNotFound when the
	// account is already absent.
	DeleteUser(ctx context.Context, uid string) error
}
