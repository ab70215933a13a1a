package clients

import "context"

type Repository interface {
	// Begin abre una transacción; el caller hace Rollback diferido y Commit al final.
	Begin(ctx context.Context) (Tx, error)

	GetDog(ctx context.Context, id string) (Dog, error)
	ListDogs(ctx context.Context, deleted bool) ([]Dog, error)
	// SearchDogs matchea nombre de perro o de dueño (case-insensitive) o ID exacto.
	SearchDogs(ctx context.Context, q string, limit int) ([]Dog, error)
	SetDogDeleted(ctx context.Context, id string, deleted bool) error
	// DogInUse indica si algún turno (aun cancelado) referencia al perro.
	DogInUse(ctx context.Context, id string) (bool, error)
	// DeleteDog borra el perro y sus notas.
	DeleteDog(ctx context.Context, id string) error

	GetOwner(ctx context.Context, id string) (Owner, error)
	UpdateOwner(ctx context.Context, o Owner) error
	SearchOwners(ctx context.Context, q string, limit int) ([]Owner, error)
	ListOwnerDogs(ctx context.Context, ownerID string) ([]Dog, error)
}

type Tx interface {
	Commit() error
	Rollback() error

	FindOwnerByPhone(ctx context.Context, phone string) (Owner, error)
	CreateOwner(ctx context.Context, o Owner) error
	UpdateOwner(ctx context.Context, o Owner) error

	GetDog(ctx context.Context, id string) (Dog, error)
	CreateDog(ctx context.Context, d Dog) error
	UpdateDog(ctx context.Context, d Dog) error
}
