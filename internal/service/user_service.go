package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
)

type UserService struct {
	users repository.UserRepository
	cost  int
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// Create stores a new operator account with a bcrypt password hash.
func (s *UserService) Create(ctx context.Context, username, password string) (*models.User, error) {
	verr := &apperr.ValidationError{}
	if blank(username) {
		verr.Add("username", "Required")
	}
	if len(password) < 6 {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: username, PasswordHash: string(hash), CreatedAt: now()}
	if err := s.users.Create(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, apperr.Invalid("username", "Username already exists")
		}
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the account unless the username is already taken.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.Create(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// CheckPassword reports whether password matches the stored hash for username.
func (s *UserService) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil || u == nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil, nil
}
