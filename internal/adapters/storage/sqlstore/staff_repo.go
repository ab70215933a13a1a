package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"peluqueria-canina/internal/domain/staff"
)

type StaffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

var _ staff.Repository = (*StaffRepo)(nil)

func (r *StaffRepo) List(ctx context.Context, onlyActive bool) ([]staff.Professional, error) {
	q := r.db.WithContext(ctx).Order("name")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var recs []ProfessionalRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, wrap(err, "list professionals")
	}
	out := make([]staff.Professional, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromProfessionalRecord(rec))
	}
	return out, nil
}

func (r *StaffRepo) Get(ctx context.Context, id string) (staff.Professional, error) {
	var rec ProfessionalRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return staff.Professional{}, notFound(err, "professional")
	}
	return fromProfessionalRecord(rec), nil
}

func (r *StaffRepo) Create(ctx context.Context, p staff.Professional) error {
	rec := toProfessionalRecord(p)
	return wrap(r.db.WithContext(ctx).Create(&rec).Error, "create professional")
}

func (r *StaffRepo) Update(ctx context.Context, p staff.Professional) error {
	res := r.db.WithContext(ctx).Model(&ProfessionalRecord{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":                  p.Name,
		"commission_percentage": p.CommissionPercentage,
		"is_active":             p.IsActive,
		"updated_at":            utc(p.UpdatedAt),
	})
	return mustAffect(res, "professional")
}
