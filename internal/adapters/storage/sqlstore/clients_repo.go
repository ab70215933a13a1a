package sqlstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peluqueria-canina/internal/domain/clients"
)

type ClientsRepo struct {
	db *gorm.DB
}

func NewClientsRepo(db *gorm.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

var _ clients.Repository = (*ClientsRepo)(nil)

func (r *ClientsRepo) Begin(ctx context.Context) (clients.Tx, error) {
	return begin(ctx, r.db)
}

func (r *ClientsRepo) GetDog(ctx context.Context, id string) (clients.Dog, error) {
	return getDog(r.db.WithContext(ctx), id)
}

func (r *ClientsRepo) ListDogs(ctx context.Context, deleted bool) ([]clients.Dog, error) {
	var recs []DogRecord
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_deleted = ?", deleted).
		Order("name").
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "list dogs")
	}
	return dogs(recs), nil
}

func (r *ClientsRepo) SearchDogs(ctx context.Context, q string, limit int) ([]clients.Dog, error) {
	p := likePattern(q)
	var recs []DogRecord
	err := r.db.WithContext(ctx).
		Select("dogs.*").
		Joins("JOIN owners ON owners.id = dogs.owner_id").
		Preload("Owner").
		Where("dogs.is_deleted = ?", false).
		Where(`LOWER(dogs.name) LIKE ? ESCAPE '\' OR LOWER(owners.name) LIKE ? ESCAPE '\' OR dogs.id = ?`, p, p, q).
		Order("dogs.name").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "search dogs")
	}
	return dogs(recs), nil
}

func (r *ClientsRepo) SetDogDeleted(ctx context.Context, id string, deleted bool) error {
	res := r.db.WithContext(ctx).
		Model(&DogRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": deleted, "updated_at": r.db.NowFunc()})
	return mustAffect(res, "dog")
}

func (r *ClientsRepo) DogInUse(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&AppointmentRecord{}).Where("dog_id = ?", id).Count(&n).Error
	if err != nil {
		return false, wrap(err, "count dog appointments")
	}
	return n > 0, nil
}

func (r *ClientsRepo) DeleteDog(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dog_id = ?", id).Delete(&NoteRecord{}).Error; err != nil {
			return wrap(err, "delete dog notes")
		}
		return mustAffect(tx.Where("id = ?", id).Delete(&DogRecord{}), "dog")
	})
}

func (r *ClientsRepo) GetOwner(ctx context.Context, id string) (clients.Owner, error) {
	var rec OwnerRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return clients.Owner{}, notFound(err, "owner")
	}
	return fromOwnerRecord(rec), nil
}

func (r *ClientsRepo) UpdateOwner(ctx context.Context, o clients.Owner) error {
	return updateOwner(r.db.WithContext(ctx), o)
}

func (r *ClientsRepo) SearchOwners(ctx context.Context, q string, limit int) ([]clients.Owner, error) {
	p := likePattern(q)
	var recs []OwnerRecord
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`, p, p).
		Order("name").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "search owners")
	}
	out := make([]clients.Owner, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromOwnerRecord(rec))
	}
	return out, nil
}

func (r *ClientsRepo) ListOwnerDogs(ctx context.Context, ownerID string) ([]clients.Dog, error) {
	var recs []DogRecord
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("name").
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "list owner dogs")
	}
	return dogs(recs), nil
}

// --- clients.Tx ---

func (t *txn) FindOwnerByPhone(ctx context.Context, phone string) (clients.Owner, error) {
	var rec OwnerRecord
	if err := t.conn(ctx).Where("phone = ?", phone).Order("created_at").First(&rec).Error; err != nil {
		return clients.Owner{}, notFound(err, "owner")
	}
	return fromOwnerRecord(rec), nil
}

func (t *txn) CreateOwner(ctx context.Context, o clients.Owner) error {
	rec := toOwnerRecord(o)
	return wrap(t.conn(ctx).Create(&rec).Error, "create owner")
}

func (t *txn) UpdateOwner(ctx context.Context, o clients.Owner) error {
	return updateOwner(t.conn(ctx), o)
}

func (t *txn) GetDog(ctx context.Context, id string) (clients.Dog, error) {
	return getDog(t.conn(ctx), id)
}

func (t *txn) CreateDog(ctx context.Context, d clients.Dog) error {
	rec := toDogRecord(d)
	return wrap(t.conn(ctx).Omit(clause.Associations).Create(&rec).Error, "create dog")
}

func (t *txn) UpdateDog(ctx context.Context, d clients.Dog) error {
	res := t.conn(ctx).Model(&DogRecord{}).Where("id = ?", d.ID).Updates(map[string]any{
		"owner_id":   d.OwnerID,
		"name":       d.Name,
		"breed":      d.Breed,
		"notes":      d.Notes,
		"is_deleted": d.IsDeleted,
		"updated_at": utc(d.UpdatedAt),
	})
	return mustAffect(res, "dog")
}

func getDog(db *gorm.DB, id string) (clients.Dog, error) {
	var rec DogRecord
	if err := db.Preload("Owner").Where("id = ?", id).First(&rec).Error; err != nil {
		return clients.Dog{}, notFound(err, "dog")
	}
	return fromDogRecord(rec), nil
}

func updateOwner(db *gorm.DB, o clients.Owner) error {
	res := db.Model(&OwnerRecord{}).Where("id = ?", o.ID).Updates(map[string]any{
		"name":       o.Name,
		"phone":      o.Phone,
		"address":    o.Address,
		"updated_at": utc(o.UpdatedAt),
	})
	return mustAffect(res, "owner")
}

func dogs(recs []DogRecord) []clients.Dog {
	out := make([]clients.Dog, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromDogRecord(rec))
	}
	return out
}
