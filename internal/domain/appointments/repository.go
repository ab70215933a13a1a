package appointments

import (
	"context"
	"time"
)

// ConflictScope define contra qué turnos se chequea superposición.
type ConflictScope string

const (
	ScopeDog          ConflictScope = "dog"
	ScopeProfessional ConflictScope = "professional"
	ScopeBoth         ConflictScope = "both"
)

// OverlapQuery busca turnos no borrados con start < End y end > Start
// para el perro y/o la profesional según Scope, excluyendo ExcludeID.
type OverlapQuery struct {
	Start          time.Time
	End            time.Time
	DogID          string
	ProfessionalID string
	Scope          ConflictScope
	ExcludeID      string
}

type ListFilter struct {
	Deleted bool
	DogID   string
	// Ventana [From, To): turnos que se superponen con ella.
	From *time.Time
	To   *time.Time
}

type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	Get(ctx context.Context, id string) (Appointment, error)
	// List ordena por start_time (desc si Deleted, asc si no).
	List(ctx context.Context, f ListFilter) ([]Appointment, error)
}

// Tx: todas las lecturas y escrituras de una operación van por la misma transacción.
type Tx interface {
	Commit() error
	Rollback() error

	Get(ctx context.Context, id string) (Appointment, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]Appointment, error)
	Create(ctx context.Context, a Appointment) error
	// Update reescribe el turno y reemplaza sus items.
	Update(ctx context.Context, a Appointment) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	// Delete borra el turno, sus items y sus pagos.
	Delete(ctx context.Context, id string) error
	PurgeDeleted(ctx context.Context) (int64, error)
}
