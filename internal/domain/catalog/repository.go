package catalog

import "context"

type Repository interface {
	ListCategories(ctx context.Context, onlyActive bool) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error

	ListSizes(ctx context.Context, onlyActive bool) ([]Size, error)
	GetSize(ctx context.Context, id string) (Size, error)
	CreateSize(ctx context.Context, s Size) error
	UpdateSize(ctx context.Context, s Size) error

	// ListServices ordena por categoría y tamaño (display_order).
	ListServices(ctx context.Context, onlyActive bool) ([]Service, error)
	GetService(ctx context.Context, id string) (Service, error)
	CreateService(ctx context.Context, s Service) error
	UpdateService(ctx context.Context, s Service) error
	DeleteService(ctx context.Context, id string) error
	ServiceInUse(ctx context.Context, id string) (bool, error)

	ListItems(ctx context.Context, onlyActive bool) ([]Item, error)
	GetItem(ctx context.Context, id string) (Item, error)
	// GetItems devuelve los items existentes entre ids (puede devolver menos).
	GetItems(ctx context.Context, ids []string) ([]Item, error)
	CreateItem(ctx context.Context, it Item) error
	UpdateItem(ctx context.Context, it Item) error
}
