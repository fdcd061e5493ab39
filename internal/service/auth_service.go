package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shakti20/Camper/internal/model"
	"github.com/shakti20/Camper/internal/repository"
)

var (
	// ErrDuplicateUsername means the username is already registered.
	ErrDuplicateUsername = errors.New("service: username already taken")
	// ErrInvalidCredential covers both unknown users and wrong passwords,
	// indistinguishably.
	ErrInvalidCredential = errors.New("service: invalid username or password")
)

// AuthService is the identity directory: it registers users and checks
// credentials. Password hashing never leaves this type.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new user with a hashed credential.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username and password pair.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("AuthService.Authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}
