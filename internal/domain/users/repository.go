package users

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, id, hash string) error
}
