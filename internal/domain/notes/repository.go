package notes

import "context"

type Repository interface {
	Create(ctx context.Context, n Note) error
	// ListByDog devuelve las notas más recientes primero.
	ListByDog(ctx context.Context, dogID string, limit int) ([]Note, error)
}
