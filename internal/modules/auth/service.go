package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lavacar/internal/domain"
	jwtsvc "lavacar/internal/pkg/jwt"
	"lavacar/internal/store"
)

// Service handles registration and login. Everything else about the session
// lifecycle (refresh, sign-out) lives with the identity provider, not here.
type Service struct {
	store store.Store
	jwt   *jwtsvc.Service
}

func NewService(st store.Store, jwt *jwtsvc.Service) *Service {
	return &Service{store: st, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, "users", &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Login returns a signed token carrying the user id.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var users []domain.User
	if err := s.store.Select(ctx, "users", &users, store.Query{
		Filters: []store.Filter{store.Eq("email", email)},
	}); err != nil {
		return "", nil, err
	}
	if len(users) == 0 {
		return "", nil, ErrInvalidCredentials
	}

	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}
