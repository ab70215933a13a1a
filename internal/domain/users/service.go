package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/validation"
	"peluqueria-canina/internal/ports/auth"
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	now    func() time.Time
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

type CreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin peluquera"`
}

type ChangePasswordInput struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=6,max=72"`
}

// Authenticate valida usuario y password. No distingue "no existe" de "password incorrecta".
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return User{}, apperr.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.Struct(in, nil); err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, apperr.Conflict("username already taken")
	} else if !apperr.IsNotFound(err) {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureAdmin crea el admin inicial si no existe. Devuelve true si lo creó.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !apperr.IsNotFound(err) {
		return false, err
	}
	if _, err := s.Create(ctx, CreateInput{Username: username, Password: password, Role: auth.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := validation.Struct(in, nil); err != nil {
		return err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, in.Current); err != nil {
		return apperr.Validation("current_password", "is incorrect")
	}
	hash, err := s.hasher.Hash(in.New)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, u.ID, hash)
}
