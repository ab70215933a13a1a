package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/validation"
)

const (
	dogSearchLimit   = 50
	ownerSearchLimit = 20
)

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

// DogInput sirve para alta y edición: el perro y los datos de su dueño en un solo form.
type DogInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Breed        string `json:"breed" validate:"max=100"`
	Notes        string `json:"notes" validate:"max=2000"`
	OwnerName    string `json:"owner_name" validate:"max=100"`
	OwnerPhone   string `json:"owner_phone" validate:"max=50"`
	OwnerAddress string `json:"owner_address" validate:"max=200"`
}

func (in DogInput) normalized() DogInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Notes = strings.TrimSpace(in.Notes)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.OwnerPhone = strings.TrimSpace(in.OwnerPhone)
	in.OwnerAddress = strings.TrimSpace(in.OwnerAddress)
	return in
}

// CreateDog da de alta un perro. Si ya hay un dueño con ese teléfono se reutiliza
// (y se actualizan su nombre y dirección); si no, se crea uno nuevo.
func (s *Service) CreateDog(ctx context.Context, in DogInput) (Dog, error) {
	in = in.normalized()
	if err := validation.Struct(in, nil); err != nil {
		return Dog{}, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return Dog{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()

	owner, err := s.upsertOwnerByPhone(ctx, tx, in, now)
	if err != nil {
		return Dog{}, err
	}

	d := Dog{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      in.Name,
		Breed:     in.Breed,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.CreateDog(ctx, d); err != nil {
		return Dog{}, err
	}
	if err := tx.Commit(); err != nil {
		return Dog{}, err
	}

	d.Owner = owner
	return d, nil
}

func (s *Service) upsertOwnerByPhone(ctx context.Context, tx Tx, in DogInput, now time.Time) (Owner, error) {
	if in.OwnerPhone != "" {
		o, err := tx.FindOwnerByPhone(ctx, in.OwnerPhone)
		switch {
		case err == nil:
			o.Name = in.OwnerName
			o.Address = in.OwnerAddress
			o.UpdatedAt = now
			if err := tx.UpdateOwner(ctx, o); err != nil {
				return Owner{}, err
			}
			return o, nil
		case !apperr.IsNotFound(err):
			return Owner{}, err
		}
	}

	o := Owner{
		ID:        uuid.NewString(),
		Name:      in.OwnerName,
		Phone:     in.OwnerPhone,
		Address:   in.OwnerAddress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.CreateOwner(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

// UpdateDog edita el perro y los datos de su dueño actual (afecta a todos sus perros).
func (s *Service) UpdateDog(ctx context.Context, id string, in DogInput) (Dog, error) {
	in = in.normalized()
	if err := validation.Struct(in, nil); err != nil {
		return Dog{}, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return Dog{}, err
	}
	defer func() { _ = tx.Rollback() }()

	d, err := tx.GetDog(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	now := s.now().UTC()
	d.Name = in.Name
	d.Breed = in.Breed
	d.Notes = in.Notes
	d.UpdatedAt = now

	d.Owner.Name = in.OwnerName
	d.Owner.Phone = in.OwnerPhone
	d.Owner.Address = in.OwnerAddress
	d.Owner.UpdatedAt = now

	if err := tx.UpdateOwner(ctx, d.Owner); err != nil {
		return Dog{}, err
	}
	if err := tx.UpdateDog(ctx, d); err != nil {
		return Dog{}, err
	}
	if err := tx.Commit(); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetDog(ctx context.Context, id string) (Dog, error) {
	if strings.TrimSpace(id) == "" {
		return Dog{}, apperr.NotFound("dog")
	}
	return s.repo.GetDog(ctx, id)
}

// ListDogs devuelve activos o, con deleted=true, la papelera.
func (s *Service) ListDogs(ctx context.Context, deleted bool) ([]Dog, error) {
	return s.repo.ListDogs(ctx, deleted)
}

// SearchDogs: q vacío lista los primeros perros activos por nombre.
func (s *Service) SearchDogs(ctx context.Context, q string) ([]Dog, error) {
	return s.repo.SearchDogs(ctx, strings.TrimSpace(q), dogSearchLimit)
}

// SearchOwners: q vacío no devuelve nada (autocompletado).
func (s *Service) SearchOwners(ctx context.Context, q string) ([]Owner, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Owner{}, nil
	}
	return s.repo.SearchOwners(ctx, q, ownerSearchLimit)
}

// OwnerWithDogs es el detalle del dueño.
type OwnerWithDogs struct {
	Owner Owner
	Dogs  []Dog
}

func (s *Service) GetOwner(ctx context.Context, id string) (OwnerWithDogs, error) {
	o, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return OwnerWithDogs{}, err
	}
	dogs, err := s.repo.ListOwnerDogs(ctx, id)
	if err != nil {
		return OwnerWithDogs{}, err
	}
	return OwnerWithDogs{Owner: o, Dogs: dogs}, nil
}

// SoftDeleteDog manda el perro a la papelera. Idempotente.
func (s *Service) SoftDeleteDog(ctx context.Context, id string) error {
	if _, err := s.repo.GetDog(ctx, id); err != nil {
		return err
	}
	return s.repo.SetDogDeleted(ctx, id, true)
}

func (s *Service) RestoreDog(ctx context.Context, id string) (Dog, error) {
	if _, err := s.repo.GetDog(ctx, id); err != nil {
		return Dog{}, err
	}
	if err := s.repo.SetDogDeleted(ctx, id, false); err != nil {
		return Dog{}, err
	}
	return s.repo.GetDog(ctx, id)
}

// PermanentDeleteDog borra definitivamente. Sólo si no tiene turnos (ni cancelados).
func (s *Service) PermanentDeleteDog(ctx context.Context, id string) error {
	if _, err := s.repo.GetDog(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.DogInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("dog has appointments; delete them first")
	}
	return s.repo.DeleteDog(ctx, id)
}

type OwnerInput struct {
	Name    string `json:"name" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=200"`
}

func (s *Service) UpdateOwner(ctx context.Context, id string, in OwnerInput) (Owner, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if err := validation.Struct(in, nil); err != nil {
		return Owner{}, err
	}

	o, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return Owner{}, err
	}
	o.Name = in.Name
	o.Phone = in.Phone
	o.Address = in.Address
	o.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateOwner(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}
