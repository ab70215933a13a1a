package notes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/validation"
)

// DogLookup lo cumple clients.Service.
type DogLookup interface {
	GetDog(ctx context.Context, id string) (clients.Dog, error)
}

type Service struct {
	repo Repository
	dogs DogLookup
	now  func() time.Time
}

func NewService(repo Repository, dogs DogLookup) *Service {
	return &Service{
		repo: repo,
		dogs: dogs,
		now:  time.Now,
	}
}

type AddInput struct {
	Text string `json:"note" validate:"required,max=4000"`
	// Date opcional; por defecto ahora.
	Date *time.Time `json:"date"`
}

func (s *Service) Add(ctx context.Context, dogID, actorID string, in AddInput) (Note, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validation.Struct(in, nil); err != nil {
		return Note{}, err
	}

	d, err := s.dogs.GetDog(ctx, dogID)
	if err != nil {
		return Note{}, err
	}
	if d.IsDeleted {
		return Note{}, apperr.NotFound("dog")
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	n := Note{
		ID:        uuid.NewString(),
		DogID:     d.ID,
		Text:      in.Text,
		Date:      date.UTC(),
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) ListByDog(ctx context.Context, dogID string, limit int) ([]Note, error) {
	if _, err := s.dogs.GetDog(ctx, dogID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByDog(ctx, dogID, limit)
}
