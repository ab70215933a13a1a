package staff

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/validation"
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Name                 string          `json:"name" validate:"required,max=100"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	IsActive             *bool           `json:"is_active"`
}

func (in Input) validate() error {
	if err := validation.Struct(in, nil); err != nil {
		return err
	}
	if in.CommissionPercentage.IsNegative() || in.CommissionPercentage.GreaterThan(hundred) {
		return apperr.Validation("commission_percentage", "must be between 0 and 100")
	}
	return nil
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]Professional, error) {
	return s.repo.List(ctx, onlyActive)
}

func (s *Service) GetProfessional(ctx context.Context, id string) (Professional, error) {
	if strings.TrimSpace(id) == "" {
		return Professional{}, apperr.NotFound("professional")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Professional, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.validate(); err != nil {
		return Professional{}, err
	}

	now := s.now().UTC()
	p := Professional{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		CommissionPercentage: in.CommissionPercentage,
		IsActive:             in.IsActive == nil || *in.IsActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Professional{}, err
	}
	return p, nil
}

// Update cambia datos y porcentaje. Las comisiones ya calculadas no se tocan.
func (s *Service) Update(ctx context.Context, id string, in Input) (Professional, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.validate(); err != nil {
		return Professional{}, err
	}

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Professional{}, err
	}
	p.Name = in.Name
	p.CommissionPercentage = in.CommissionPercentage
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Professional{}, err
	}
	return p, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	p.IsActive = false
	p.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, p)
}
