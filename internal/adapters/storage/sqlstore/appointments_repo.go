package sqlstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peluqueria-canina/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *gorm.DB
}

func NewAppointmentsRepo(db *gorm.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

var _ appointments.Repository = (*AppointmentsRepo)(nil)

func (r *AppointmentsRepo) Begin(ctx context.Context) (appointments.Tx, error) {
	return begin(ctx, r.db)
}

func (r *AppointmentsRepo) Get(ctx context.Context, id string) (appointments.Appointment, error) {
	return getAppointment(r.db.WithContext(ctx), id)
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", f.Deleted)
	if f.DogID != "" {
		q = q.Where("dog_id = ?", f.DogID)
	}
	if f.From != nil {
		q = q.Where("end_time > ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	if f.Deleted {
		q = q.Order("start_time DESC")
	} else {
		q = q.Order("start_time")
	}
	return findAppointments(q)
}

// --- appointments.Tx ---

func (t *txn) Get(ctx context.Context, id string) (appointments.Appointment, error) {
	return getAppointment(t.conn(ctx), id)
}

func (t *txn) FindOverlapping(ctx context.Context, oq appointments.OverlapQuery) ([]appointments.Appointment, error) {
	q := t.conn(ctx).
		Where("is_deleted = ?", false).
		Where("start_time < ? AND end_time > ?", oq.End.UTC(), oq.Start.UTC())

	switch oq.Scope {
	case appointments.ScopeProfessional:
		q = q.Where("professional_id = ?", oq.ProfessionalID)
	case appointments.ScopeBoth:
		q = q.Where("(dog_id = ? OR professional_id = ?)", oq.DogID, oq.ProfessionalID)
	default:
		q = q.Where("dog_id = ?", oq.DogID)
	}
	if oq.ExcludeID != "" {
		q = q.Where("id <> ?", oq.ExcludeID)
	}
	return findAppointments(q.Order("start_time"))
}

func (t *txn) Create(ctx context.Context, a appointments.Appointment) error {
	db := t.conn(ctx)
	rec := toAppointmentRecord(a)
	if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
		return wrap(err, "create appointment")
	}
	return replaceLines(db, a.ID, a.Items)
}

func (t *txn) Update(ctx context.Context, a appointments.Appointment) error {
	return saveAppointment(t.conn(ctx), a)
}

func (t *txn) SetDeleted(ctx context.Context, id string, deleted bool) error {
	db := t.conn(ctx)
	res := db.Model(&AppointmentRecord{}).Where("id = ?", id).Updates(map[string]any{
		"is_deleted": deleted,
		"updated_at": db.NowFunc(),
	})
	return mustAffect(res, "appointment")
}

func (t *txn) Delete(ctx context.Context, id string) error {
	return deleteAppointments(t.conn(ctx), []string{id})
}

func (t *txn) PurgeDeleted(ctx context.Context) (int64, error) {
	db := t.conn(ctx)
	var ids []string
	if err := db.Model(&AppointmentRecord{}).Where("is_deleted = ?", true).Pluck("id", &ids).Error; err != nil {
		return 0, wrap(err, "list deleted appointments")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := deleteAppointments(db, ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// --- helpers compartidos con el ledger ---

func getAppointment(db *gorm.DB, id string) (appointments.Appointment, error) {
	var rec AppointmentRecord
	if err := db.Preload("Dog").Where("id = ?", id).First(&rec).Error; err != nil {
		return appointments.Appointment{}, notFound(err, "appointment")
	}
	lines, err := loadLines(db, []string{rec.ID})
	if err != nil {
		return appointments.Appointment{}, err
	}
	return fromAppointmentRecord(rec, lines[rec.ID]), nil
}

func findAppointments(q *gorm.DB) ([]appointments.Appointment, error) {
	var recs []AppointmentRecord
	if err := q.Preload("Dog").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list appointments")
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	lines, err := loadLines(q.Session(&gorm.Session{NewDB: true}), ids)
	if err != nil {
		return nil, err
	}
	out := make([]appointments.Appointment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromAppointmentRecord(rec, lines[rec.ID]))
	}
	return out, nil
}

func loadLines(db *gorm.DB, ids []string) (map[string][]appointments.Line, error) {
	out := make(map[string][]appointments.Line, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []AppointmentItemRecord
	if err := db.Where("appointment_id IN ?", ids).Order("name").Find(&recs).Error; err != nil {
		return nil, wrap(err, "load appointment items")
	}
	for _, rec := range recs {
		out[rec.AppointmentID] = append(out[rec.AppointmentID], appointments.Line{
			ItemID: rec.ItemID,
			Name:   rec.Name,
			Price:  rec.Price,
		})
	}
	return out, nil
}

// saveAppointment reescribe todas las columnas del turno y reemplaza sus items.
func saveAppointment(db *gorm.DB, a appointments.Appointment) error {
	rec := toAppointmentRecord(a)
	res := db.Model(&AppointmentRecord{}).Where("id = ?", a.ID).Updates(map[string]any{
		"dog_id":            rec.DogID,
		"service_id":        rec.ServiceID,
		"professional_id":   rec.ProfessionalID,
		"start_time":        rec.StartTime,
		"end_time":          rec.EndTime,
		"description":       rec.Description,
		"color":             rec.Color,
		"status":            rec.Status,
		"is_deleted":        rec.IsDeleted,
		"total_amount":      rec.TotalAmount,
		"discount_type":     rec.DiscountType,
		"discount_value":    rec.DiscountValue,
		"final_price":       rec.FinalPrice,
		"commission_amount": rec.CommissionAmount,
		"updated_at":        db.NowFunc(),
	})
	if err := mustAffect(res, "appointment"); err != nil {
		return err
	}
	return replaceLines(db, a.ID, a.Items)
}

func replaceLines(db *gorm.DB, appointmentID string, lines []appointments.Line) error {
	if err := db.Where("appointment_id = ?", appointmentID).Delete(&AppointmentItemRecord{}).Error; err != nil {
		return wrap(err, "clear appointment items")
	}
	if len(lines) == 0 {
		return nil
	}
	recs := make([]AppointmentItemRecord, 0, len(lines))
	for _, l := range lines {
		recs = append(recs, AppointmentItemRecord{
			AppointmentID: appointmentID,
			ItemID:        l.ItemID,
			Name:          l.Name,
			Price:         l.Price,
		})
	}
	return wrap(db.Omit(clause.Associations).Create(&recs).Error, "insert appointment items")
}

// deleteAppointments borra pagos, items y turnos (en ese orden por las FKs).
func deleteAppointments(db *gorm.DB, ids []string) error {
	if err := db.Where("appointment_id IN ?", ids).Delete(&PaymentRecord{}).Error; err != nil {
		return wrap(err, "delete payments")
	}
	if err := db.Where("appointment_id IN ?", ids).Delete(&AppointmentItemRecord{}).Error; err != nil {
		return wrap(err, "delete appointment items")
	}
	return mustAffect(db.Where("id IN ?", ids).Delete(&AppointmentRecord{}), "appointment")
}
