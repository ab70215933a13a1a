package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/domain/staff"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/logger"
	"peluqueria-canina/internal/platform/validation"
)

type DogLookup interface {
	GetDog(ctx context.Context, id string) (clients.Dog, error)
}

type CatalogLookup interface {
	GetService(ctx context.Context, id string) (catalog.Service, error)
	GetItems(ctx context.Context, ids []string) ([]catalog.Item, error)
}

type ProfessionalLookup interface {
	GetProfessional(ctx context.Context, id string) (staff.Professional, error)
}

// Exporter regenera el backup después de cada cambio de turnos.
type Exporter interface {
	Export(ctx context.Context) error
}

type Recorder interface {
	Booking(op, outcome string)
}

type Options struct {
	Scope      ConflictScope
	RejectPast bool
}

type Deps struct {
	Repo          Repository
	Dogs          DogLookup
	Catalog       CatalogLookup
	Professionals ProfessionalLookup

	// Opcionales.
	Exporter Exporter
	Logger   logger.Logger
	Metrics  Recorder
}

// Scheduler valida y persiste turnos rechazando superposiciones.
type Scheduler struct {
	repo    Repository
	dogs    DogLookup
	catalog CatalogLookup
	staff   ProfessionalLookup

	exporter Exporter
	log      logger.Logger
	metrics  Recorder

	opts Options
	now  func() time.Time
}

func NewScheduler(d Deps, opts Options) *Scheduler {
	if opts.Scope == "" {
		opts.Scope = ScopeDog
	}
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		repo:     d.Repo,
		dogs:     d.Dogs,
		catalog:  d.Catalog,
		staff:    d.Professionals,
		exporter: d.Exporter,
		log:      log,
		metrics:  d.Metrics,
		opts:     opts,
		now:      time.Now,
	}
}

type BookingInput struct {
	DogID           string          `json:"dog_id" validate:"required"`
	ServiceID       string          `json:"service_id" validate:"required"`
	ProfessionalID  string          `json:"professional_id" validate:"required"`
	ItemIDs         []string        `json:"item_ids"`
	StartTime       time.Time       `json:"start_time" validate:"required"`
	DurationMinutes int             `json:"duration" validate:"gte=15"`
	Description     string          `json:"description" validate:"max=200"`
	Color           string          `json:"color" validate:"max=20"`
	DiscountType    DiscountType    `json:"discount_type"`
	DiscountValue   decimal.Decimal `json:"discount_value"`
}

var bookingMessages = map[string]string{
	"duration": "minimum duration is 15 minutes",
}

// resolved es el turno armado a partir del input, listo para chequear y guardar.
type resolved struct {
	DogID          string
	DogName        string
	ServiceID      string
	ProfessionalID string
	Start          time.Time
	End            time.Time
	Description    string
	Color          string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	Lines          []Line
	Total          decimal.Decimal
	Final          decimal.Decimal
}

// resolve corre antes de abrir la transacción: las lookups usan su propia conexión.
func (s *Scheduler) resolve(ctx context.Context, in BookingInput) (resolved, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)

	if err := validation.Struct(in, bookingMessages); err != nil {
		return resolved{}, err
	}
	if err := ValidateDiscount(in.DiscountType, in.DiscountValue); err != nil {
		return resolved{}, err
	}

	dog, err := s.dogs.GetDog(ctx, in.DogID)
	if err != nil || dog.IsDeleted {
		if err != nil && !apperr.IsNotFound(err) {
			return resolved{}, err
		}
		return resolved{}, apperr.Validation("dog_id", "unknown dog")
	}

	svc, err := s.catalog.GetService(ctx, in.ServiceID)
	if err != nil || !svc.IsActive {
		if err != nil && !apperr.IsNotFound(err) {
			return resolved{}, err
		}
		return resolved{}, apperr.Validation("service_id", "unknown or inactive service")
	}

	prof, err := s.staff.GetProfessional(ctx, in.ProfessionalID)
	if err != nil || !prof.IsActive {
		if err != nil && !apperr.IsNotFound(err) {
			return resolved{}, err
		}
		return resolved{}, apperr.Validation("professional_id", "unknown or inactive professional")
	}

	items, err := s.catalog.GetItems(ctx, in.ItemIDs)
	if err != nil {
		return resolved{}, err
	}
	for _, it := range items {
		if !it.IsActive {
			return resolved{}, apperr.Validation("item_ids", "inactive item "+it.Name)
		}
	}

	start := in.StartTime.UTC().Truncate(time.Minute)
	if s.opts.RejectPast && start.Before(s.now()) {
		return resolved{}, apperr.Validation("start_time", "must not be in the past")
	}

	lines := Lines(items)
	total, final := Price(svc.BasePrice, lines, in.DiscountType, in.DiscountValue)

	return resolved{
		DogID:          dog.ID,
		DogName:        dog.Name,
		ServiceID:      svc.ID,
		ProfessionalID: prof.ID,
		Start:          start,
		End:            start.Add(time.Duration(in.DurationMinutes) * time.Minute),
		Description:    in.Description,
		Color:          in.Color,
		DiscountType:   in.DiscountType,
		DiscountValue:  in.DiscountValue,
		Lines:          lines,
		Total:          total,
		Final:          final,
	}, nil
}

func (s *Scheduler) checkOverlap(ctx context.Context, tx Tx, a Appointment) error {
	found, err := tx.FindOverlapping(ctx, OverlapQuery{
		Start:          a.StartTime,
		End:            a.EndTime,
		DogID:          a.DogID,
		ProfessionalID: a.ProfessionalID,
		Scope:          s.opts.Scope,
		ExcludeID:      a.ID,
	})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}

	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.ID)
	}
	return apperr.Conflict("schedule overlap", ids...)
}

// Create reserva un turno nuevo en estado Pendiente.
func (s *Scheduler) Create(ctx context.Context, in BookingInput) (Appointment, error) {
	a, err := s.create(ctx, in)
	s.record("create", err)
	return a, err
}

func (s *Scheduler) create(ctx context.Context, in BookingInput) (Appointment, error) {
	r, err := s.resolve(ctx, in)
	if err != nil {
		return Appointment{}, err
	}

	now := s.now().UTC()
	a := Appointment{
		ID:             uuid.NewString(),
		DogID:          r.DogID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		StartTime:      r.Start,
		EndTime:        r.End,
		Description:    r.Description,
		Color:          r.Color,
		Status:         StatusPending,
		TotalAmount:    r.Total,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		FinalPrice:     r.Final,
		Items:          r.Lines,
		CreatedAt:      now,
		UpdatedAt:      now,
		DogName:        r.DogName,
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return Appointment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.checkOverlap(ctx, tx, a); err != nil {
		return Appointment{}, err
	}
	if err := tx.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	if err := tx.Commit(); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment created", map[string]any{"appointment_id": a.ID, "dog_id": a.DogID, "start": a.StartTime})
	s.export(ctx)
	return a, nil
}

// Update reemplaza datos, horario, precio e items. Estado, pagos y comisión no cambian.
func (s *Scheduler) Update(ctx context.Context, id string, in BookingInput) (Appointment, error) {
	a, err := s.update(ctx, id, in)
	s.record("update", err)
	return a, err
}

func (s *Scheduler) update(ctx context.Context, id string, in BookingInput) (Appointment, error) {
	r, err := s.resolve(ctx, in)
	if err != nil {
		return Appointment{}, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return Appointment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := tx.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.IsDeleted {
		return Appointment{}, apperr.Conflict("appointment is cancelled; restore it first")
	}

	a.DogID = r.DogID
	a.DogName = r.DogName
	a.ServiceID = r.ServiceID
	a.ProfessionalID = r.ProfessionalID
	a.StartTime = r.Start
	a.EndTime = r.End
	a.Description = r.Description
	a.Color = r.Color
	a.TotalAmount = r.Total
	a.DiscountType = r.DiscountType
	a.DiscountValue = r.DiscountValue
	a.FinalPrice = r.Final
	a.Items = r.Lines
	a.UpdatedAt = s.now().UTC()

	if err := s.checkOverlap(ctx, tx, a); err != nil {
		return Appointment{}, err
	}
	if err := tx.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	if err := tx.Commit(); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment updated", map[string]any{"appointment_id": a.ID})
	s.export(ctx)
	return a, nil
}

func (s *Scheduler) Get(ctx context.Context, id string) (Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return Appointment{}, apperr.NotFound("appointment")
	}
	return s.repo.Get(ctx, id)
}

// ListCalendar devuelve turnos activos que tocan [from, to) como eventos.
func (s *Scheduler) ListCalendar(ctx context.Context, from, to *time.Time) ([]CalendarEvent, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, apperr.Validation("end", "must be after start")
	}
	items, err := s.repo.List(ctx, ListFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]CalendarEvent, 0, len(items))
	for _, a := range items {
		out = append(out, a.Event())
	}
	return out, nil
}

func (s *Scheduler) ListByDog(ctx context.Context, dogID string) ([]Appointment, error) {
	if _, err := s.dogs.GetDog(ctx, dogID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ListFilter{DogID: dogID})
}

func (s *Scheduler) ListDeleted(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx, ListFilter{Deleted: true})
}

// SoftDelete cancela el turno (queda en la papelera). Idempotente.
func (s *Scheduler) SoftDelete(ctx context.Context, id string) error {
	err := s.setDeleted(ctx, id, true)
	s.record("cancel", err)
	return err
}

// Restore saca el turno de la papelera si no choca con lo reservado mientras tanto.
func (s *Scheduler) Restore(ctx context.Context, id string) (Appointment, error) {
	err := s.setDeleted(ctx, id, false)
	s.record("restore", err)
	if err != nil {
		return Appointment{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Scheduler) setDeleted(ctx context.Context, id string, deleted bool) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := tx.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.IsDeleted == deleted {
		return nil
	}
	if !deleted {
		if err := s.checkOverlap(ctx, tx, a); err != nil {
			return err
		}
	}
	if err := tx.SetDeleted(ctx, id, deleted); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.log.Info("appointment deleted flag changed", map[string]any{"appointment_id": id, "deleted": deleted})
	s.export(ctx)
	return nil
}

// HardDelete borra definitivamente un turno que ya está en la papelera (con sus pagos).
func (s *Scheduler) HardDelete(ctx context.Context, id string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := tx.Get(ctx, id)
	if err != nil {
		return err
	}
	if !a.IsDeleted {
		return apperr.Conflict("only cancelled appointments can be permanently deleted")
	}
	if err := tx.Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.log.Warn("appointment permanently deleted", map[string]any{"appointment_id": id})
	return nil
}

// PurgeDeleted vacía la papelera de turnos.
func (s *Scheduler) PurgeDeleted(ctx context.Context) (int64, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	n, err := tx.PurgeDeleted(ctx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.log.Warn("deleted appointments purged", map[string]any{"count": n})
	return n, nil
}

// export corre después del commit; un fallo se loguea y no afecta al request.
func (s *Scheduler) export(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Export(ctx); err != nil {
		s.log.Error("backup export failed", map[string]any{"error": err})
	}
}

func (s *Scheduler) record(op string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case apperr.IsConflict(err):
		outcome = "conflict"
	case apperr.IsValidation(err):
		outcome = "invalid"
	case apperr.IsNotFound(err):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	s.metrics.Booking(op, outcome)
}
