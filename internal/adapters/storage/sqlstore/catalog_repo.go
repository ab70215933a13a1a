package sqlstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peluqueria-canina/internal/domain/catalog"
)

type CatalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

var _ catalog.Repository = (*CatalogRepo)(nil)

func (r *CatalogRepo) active(ctx context.Context, onlyActive bool, column string) *gorm.DB {
	q := r.db.WithContext(ctx)
	if onlyActive {
		q = q.Where(column+" = ?", true)
	}
	return q
}

// Categorías

func (r *CatalogRepo) ListCategories(ctx context.Context, onlyActive bool) ([]catalog.Category, error) {
	var recs []CategoryRecord
	if err := r.active(ctx, onlyActive, "is_active").Order("display_order, name").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list categories")
	}
	out := make([]catalog.Category, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromCategoryRecord(rec))
	}
	return out, nil
}

func (r *CatalogRepo) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	var rec CategoryRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return catalog.Category{}, notFound(err, "category")
	}
	return fromCategoryRecord(rec), nil
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c catalog.Category) error {
	rec := toCategoryRecord(c)
	return wrap(r.db.WithContext(ctx).Create(&rec).Error, "create category")
}

func (r *CatalogRepo) UpdateCategory(ctx context.Context, c catalog.Category) error {
	res := r.db.WithContext(ctx).Model(&CategoryRecord{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":          c.Name,
		"description":   c.Description,
		"display_order": c.DisplayOrder,
		"is_active":     c.IsActive,
	})
	return mustAffect(res, "category")
}

// Tamaños

func (r *CatalogRepo) ListSizes(ctx context.Context, onlyActive bool) ([]catalog.Size, error) {
	var recs []SizeRecord
	if err := r.active(ctx, onlyActive, "is_active").Order("display_order, name").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list sizes")
	}
	out := make([]catalog.Size, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromSizeRecord(rec))
	}
	return out, nil
}

func (r *CatalogRepo) GetSize(ctx context.Context, id string) (catalog.Size, error) {
	var rec SizeRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return catalog.Size{}, notFound(err, "size")
	}
	return fromSizeRecord(rec), nil
}

func (r *CatalogRepo) CreateSize(ctx context.Context, s catalog.Size) error {
	rec := toSizeRecord(s)
	return wrap(r.db.WithContext(ctx).Create(&rec).Error, "create size")
}

func (r *CatalogRepo) UpdateSize(ctx context.Context, s catalog.Size) error {
	res := r.db.WithContext(ctx).Model(&SizeRecord{}).Where("id = ?", s.ID).Updates(map[string]any{
		"name":          s.Name,
		"display_order": s.DisplayOrder,
		"is_active":     s.IsActive,
	})
	return mustAffect(res, "size")
}

// Servicios

func (r *CatalogRepo) ListServices(ctx context.Context, onlyActive bool) ([]catalog.Service, error) {
	var recs []ServiceRecord
	err := r.active(ctx, onlyActive, "services.is_active").
		Select("services.*").
		Joins("JOIN service_categories ON service_categories.id = services.category_id").
		Joins("JOIN service_sizes ON service_sizes.id = services.size_id").
		Preload("Category").
		Preload("Size").
		Order("service_categories.display_order, service_categories.name, service_sizes.display_order, service_sizes.name").
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "list services")
	}
	out := make([]catalog.Service, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromServiceRecord(rec))
	}
	return out, nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id string) (catalog.Service, error) {
	var rec ServiceRecord
	err := r.db.WithContext(ctx).Preload("Category").Preload("Size").Where("id = ?", id).First(&rec).Error
	if err != nil {
		return catalog.Service{}, notFound(err, "service")
	}
	return fromServiceRecord(rec), nil
}

func (r *CatalogRepo) CreateService(ctx context.Context, s catalog.Service) error {
	rec := toServiceRecord(s)
	return wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error, "create service")
}

func (r *CatalogRepo) UpdateService(ctx context.Context, s catalog.Service) error {
	res := r.db.WithContext(ctx).Model(&ServiceRecord{}).Where("id = ?", s.ID).Updates(map[string]any{
		"category_id":      s.CategoryID,
		"size_id":          s.SizeID,
		"description":      s.Description,
		"base_price":       s.BasePrice,
		"duration_minutes": s.DurationMinutes,
		"is_active":        s.IsActive,
		"updated_at":       utc(s.UpdatedAt),
	})
	return mustAffect(res, "service")
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id string) error {
	return mustAffect(r.db.WithContext(ctx).Where("id = ?", id).Delete(&ServiceRecord{}), "service")
}

func (r *CatalogRepo) ServiceInUse(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&AppointmentRecord{}).Where("service_id = ?", id).Count(&n).Error; err != nil {
		return false, wrap(err, "count service appointments")
	}
	return n > 0, nil
}

// Items

func (r *CatalogRepo) ListItems(ctx context.Context, onlyActive bool) ([]catalog.Item, error) {
	var recs []ItemRecord
	if err := r.active(ctx, onlyActive, "is_active").Order("name").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list items")
	}
	return items(recs), nil
}

func (r *CatalogRepo) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	var rec ItemRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return catalog.Item{}, notFound(err, "item")
	}
	return fromItemRecord(rec), nil
}

func (r *CatalogRepo) GetItems(ctx context.Context, ids []string) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var recs []ItemRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&recs).Error; err != nil {
		return nil, wrap(err, "get items")
	}
	return items(recs), nil
}

func (r *CatalogRepo) CreateItem(ctx context.Context, it catalog.Item) error {
	rec := toItemRecord(it)
	return wrap(r.db.WithContext(ctx).Create(&rec).Error, "create item")
}

func (r *CatalogRepo) UpdateItem(ctx context.Context, it catalog.Item) error {
	res := r.db.WithContext(ctx).Model(&ItemRecord{}).Where("id = ?", it.ID).Updates(map[string]any{
		"name":      it.Name,
		"price":     it.Price,
		"is_active": it.IsActive,
	})
	return mustAffect(res, "item")
}

func items(recs []ItemRecord) []catalog.Item {
	out := make([]catalog.Item, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromItemRecord(rec))
	}
	return out
}
