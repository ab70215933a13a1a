package staff

import "context"

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Professional, error)
	Get(ctx context.Context, id string) (Professional, error)
	Create(ctx context.Context, p Professional) error
	Update(ctx context.Context, p Professional) error
}
