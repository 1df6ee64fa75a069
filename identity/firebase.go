package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseProvider implements Provider on top of Firebase Auth.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*Token, error) {
	decoded, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	email, _ := decoded.Claims["email"].(string)
	return &Token{UID: decoded.UID, Email: email}, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	// Firebase enforces this server-side too, but classifying locally keeps
	// the weak-password failure distinguishable from generic SDK errors.
	if len(password) < 6 {
		return "", ErrWeakPassword
	}

	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := p.client.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return "", ErrEmailExists
	}
	if err != nil {
		return "", fmt.Errorf("create auth user: %w", err)
	}
	return record.UID, nil
}

func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	err := p.client.DeleteUser(ctx, uid)
	if auth.IsUserNotFound(err) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete auth user: %w", err)
	}
	return nil
}
