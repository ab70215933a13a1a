package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/validation"
)

// Catalog administra categorías, tamaños, servicios e items.
// (No se llama Service para no chocar con la entidad.)
type Catalog struct {
	repo Repository
	now  func() time.Time
}

func NewCatalog(repo Repository) *Catalog {
	return &Catalog{
		repo: repo,
		now:  time.Now,
	}
}

type CategoryInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=255"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

type SizeInput struct {
	Name         string `json:"name" validate:"required,max=50"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

type ServiceInput struct {
	CategoryID      string          `json:"category_id" validate:"required"`
	SizeID          string          `json:"size_id" validate:"required"`
	Description     string          `json:"description" validate:"max=255"`
	BasePrice       decimal.Decimal `json:"base_price"`
	DurationMinutes int             `json:"duration_minutes" validate:"gte=15,lte=720"`
	IsActive        *bool           `json:"is_active"`
}

type ItemInput struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"is_active"`
}

func activeOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperr.Validation(field, "must be >= 0")
	}
	return nil
}

// --- categorías ---

func (c *Catalog) ListCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	return c.repo.ListCategories(ctx, onlyActive)
}

func (c *Catalog) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Category{}, err
	}
	cat := Category{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		DisplayOrder: in.DisplayOrder,
		IsActive:     activeOr(in.IsActive, true),
		CreatedAt:    c.now().UTC(),
	}
	if err := c.repo.CreateCategory(ctx, cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Category{}, err
	}
	cat, err := c.repo.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	cat.Name = in.Name
	cat.Description = strings.TrimSpace(in.Description)
	cat.DisplayOrder = in.DisplayOrder
	cat.IsActive = activeOr(in.IsActive, cat.IsActive)
	if err := c.repo.UpdateCategory(ctx, cat); err != nil {
		return Category{}, err
	}
	return cat, nil
}

// --- tamaños ---

func (c *Catalog) ListSizes(ctx context.Context, onlyActive bool) ([]Size, error) {
	return c.repo.ListSizes(ctx, onlyActive)
}

func (c *Catalog) CreateSize(ctx context.Context, in SizeInput) (Size, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Size{}, err
	}
	sz := Size{
		ID:           uuid.NewString(),
		Name:         in.Name,
		DisplayOrder: in.DisplayOrder,
		IsActive:     activeOr(in.IsActive, true),
		CreatedAt:    c.now().UTC(),
	}
	if err := c.repo.CreateSize(ctx, sz); err != nil {
		return Size{}, err
	}
	return sz, nil
}

func (c *Catalog) UpdateSize(ctx context.Context, id string, in SizeInput) (Size, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Size{}, err
	}
	sz, err := c.repo.GetSize(ctx, id)
	if err != nil {
		return Size{}, err
	}
	sz.Name = in.Name
	sz.DisplayOrder = in.DisplayOrder
	sz.IsActive = activeOr(in.IsActive, sz.IsActive)
	if err := c.repo.UpdateSize(ctx, sz); err != nil {
		return Size{}, err
	}
	return sz, nil
}

// --- servicios ---

func (c *Catalog) ListServices(ctx context.Context, onlyActive bool) ([]Service, error) {
	return c.repo.ListServices(ctx, onlyActive)
}

func (c *Catalog) GetService(ctx context.Context, id string) (Service, error) {
	if strings.TrimSpace(id) == "" {
		return Service{}, apperr.NotFound("service")
	}
	return c.repo.GetService(ctx, id)
}

// ListActiveGrouped devuelve categorías activas (en orden) con sus servicios activos.
// Las categorías sin servicios activos se omiten.
func (c *Catalog) ListActiveGrouped(ctx context.Context) ([]Group, error) {
	cats, err := c.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	svcs, err := c.repo.ListServices(ctx, true)
	if err != nil {
		return nil, err
	}

	byCat := map[string][]Service{}
	for _, s := range svcs {
		byCat[s.CategoryID] = append(byCat[s.CategoryID], s)
	}

	out := make([]Group, 0, len(cats))
	for _, cat := range cats {
		if len(byCat[cat.ID]) == 0 {
			continue
		}
		out = append(out, Group{Category: cat, Services: byCat[cat.ID]})
	}
	return out, nil
}

func (c *Catalog) validateService(ctx context.Context, in ServiceInput) (Category, Size, error) {
	if err := validation.Struct(in, map[string]string{
		"duration_minutes": "must be between 15 and 720 minutes",
	}); err != nil {
		return Category{}, Size{}, err
	}
	if err := nonNegative("base_price", in.BasePrice); err != nil {
		return Category{}, Size{}, err
	}

	cat, err := c.repo.GetCategory(ctx, in.CategoryID)
	if err != nil || !cat.IsActive {
		if err != nil && !apperr.IsNotFound(err) {
			return Category{}, Size{}, err
		}
		return Category{}, Size{}, apperr.Validation("category_id", "unknown or inactive category")
	}
	sz, err := c.repo.GetSize(ctx, in.SizeID)
	if err != nil || !sz.IsActive {
		if err != nil && !apperr.IsNotFound(err) {
			return Category{}, Size{}, err
		}
		return Category{}, Size{}, apperr.Validation("size_id", "unknown or inactive size")
	}
	return cat, sz, nil
}

func (c *Catalog) CreateService(ctx context.Context, in ServiceInput) (Service, error) {
	cat, sz, err := c.validateService(ctx, in)
	if err != nil {
		return Service{}, err
	}

	now := c.now().UTC()
	s := Service{
		ID:              uuid.NewString(),
		CategoryID:      cat.ID,
		SizeID:          sz.ID,
		Description:     strings.TrimSpace(in.Description),
		BasePrice:       in.BasePrice,
		DurationMinutes: in.DurationMinutes,
		IsActive:        activeOr(in.IsActive, true),
		CreatedAt:       now,
		UpdatedAt:       now,
		CategoryName:    cat.Name,
		SizeName:        sz.Name,
	}
	if err := c.repo.CreateService(ctx, s); err != nil {
		return Service{}, err
	}
	return s, nil
}

// UpdateService no recalcula turnos existentes: el precio del turno queda congelado.
func (c *Catalog) UpdateService(ctx context.Context, id string, in ServiceInput) (Service, error) {
	s, err := c.repo.GetService(ctx, id)
	if err != nil {
		return Service{}, err
	}
	cat, sz, err := c.validateService(ctx, in)
	if err != nil {
		return Service{}, err
	}

	s.CategoryID = cat.ID
	s.SizeID = sz.ID
	s.CategoryName = cat.Name
	s.SizeName = sz.Name
	s.Description = strings.TrimSpace(in.Description)
	s.BasePrice = in.BasePrice
	s.DurationMinutes = in.DurationMinutes
	s.IsActive = activeOr(in.IsActive, s.IsActive)
	s.UpdatedAt = c.now().UTC()

	if err := c.repo.UpdateService(ctx, s); err != nil {
		return Service{}, err
	}
	return s, nil
}

// DeleteService borra el servicio si ningún turno lo usa; si no, hay que desactivarlo.
func (c *Catalog) DeleteService(ctx context.Context, id string) error {
	if _, err := c.repo.GetService(ctx, id); err != nil {
		return err
	}
	inUse, err := c.repo.ServiceInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.Conflict("service is used by appointments; deactivate it instead")
	}
	return c.repo.DeleteService(ctx, id)
}

// --- items ---

func (c *Catalog) ListItems(ctx context.Context, onlyActive bool) ([]Item, error) {
	return c.repo.ListItems(ctx, onlyActive)
}

// GetItems resuelve ids de items; cualquier id desconocido es error de validación.
// Los duplicados se ignoran.
func (c *Catalog) GetItems(ctx context.Context, ids []string) ([]Item, error) {
	uniq := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return []Item{}, nil
	}

	items, err := c.repo.GetItems(ctx, uniq)
	if err != nil {
		return nil, err
	}
	if len(items) != len(uniq) {
		return nil, apperr.Validation("item_ids", "unknown item")
	}
	return items, nil
}

func (c *Catalog) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Item{}, err
	}
	if err := nonNegative("price", in.Price); err != nil {
		return Item{}, err
	}
	it := Item{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		IsActive:  activeOr(in.IsActive, true),
		CreatedAt: c.now().UTC(),
	}
	if err := c.repo.CreateItem(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (c *Catalog) UpdateItem(ctx context.Context, id string, in ItemInput) (Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in, nil); err != nil {
		return Item{}, err
	}
	if err := nonNegative("price", in.Price); err != nil {
		return Item{}, err
	}
	it, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	it.Name = in.Name
	it.Price = in.Price
	it.IsActive = activeOr(in.IsActive, it.IsActive)
	if err := c.repo.UpdateItem(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// --- desactivar (oculta de nuevos turnos sin borrar historia) ---

func (c *Catalog) DeactivateCategory(ctx context.Context, id string) error {
	cat, err := c.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	cat.IsActive = false
	return c.repo.UpdateCategory(ctx, cat)
}

func (c *Catalog) DeactivateSize(ctx context.Context, id string) error {
	sz, err := c.repo.GetSize(ctx, id)
	if err != nil {
		return err
	}
	sz.IsActive = false
	return c.repo.UpdateSize(ctx, sz)
}

func (c *Catalog) DeactivateService(ctx context.Context, id string) error {
	s, err := c.repo.GetService(ctx, id)
	if err != nil {
		return err
	}
	s.IsActive = false
	s.UpdatedAt = c.now().UTC()
	return c.repo.UpdateService(ctx, s)
}

func (c *Catalog) DeactivateItem(ctx context.Context, id string) error {
	it, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}
	it.IsActive = false
	return c.repo.UpdateItem(ctx, it)
}
