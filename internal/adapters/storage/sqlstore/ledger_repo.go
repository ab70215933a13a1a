package sqlstore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/domain/checkout"
)

// LedgerRepo persiste pagos y el estado de cobro de los turnos.
type LedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

var _ checkout.Repository = (*LedgerRepo)(nil)

func (r *LedgerRepo) Begin(ctx context.Context) (checkout.Tx, error) {
	return begin(ctx, r.db)
}

func (r *LedgerRepo) GetAppointment(ctx context.Context, id string) (appointments.Appointment, error) {
	return getAppointment(r.db.WithContext(ctx), id)
}

func (r *LedgerRepo) GetPayment(ctx context.Context, id string) (checkout.Payment, error) {
	return getPayment(r.db.WithContext(ctx), id)
}

func (r *LedgerRepo) ListPayments(ctx context.Context, appointmentID string) ([]checkout.Payment, error) {
	return listPayments(r.db.WithContext(ctx), appointmentID)
}

func (r *LedgerRepo) ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]checkout.Payment, error) {
	var recs []PaymentRecord
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("date DESC").
		Find(&recs).Error
	if err != nil {
		return nil, wrap(err, "list payments between")
	}
	return payments(recs), nil
}

func (r *LedgerRepo) ListCollectedEndingBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND is_deleted = ?", string(appointments.StatusCollected), false).
		Where("end_time >= ? AND end_time < ?", from.UTC(), to.UTC()).
		Order("end_time")
	return findAppointments(q)
}

// --- checkout.Tx ---

func (t *txn) GetAppointment(ctx context.Context, id string) (appointments.Appointment, error) {
	return getAppointment(t.conn(ctx), id)
}

func (t *txn) SaveAppointment(ctx context.Context, a appointments.Appointment) error {
	return saveAppointment(t.conn(ctx), a)
}

func (t *txn) CommissionPercentage(ctx context.Context, professionalID string) (decimal.Decimal, error) {
	var rec ProfessionalRecord
	if err := t.conn(ctx).Where("id = ?", professionalID).First(&rec).Error; err != nil {
		return decimal.Zero, notFound(err, "professional")
	}
	return rec.CommissionPercentage, nil
}

func (t *txn) AddPayment(ctx context.Context, p checkout.Payment) error {
	rec := toPaymentRecord(p)
	return wrap(t.conn(ctx).Omit(clause.Associations).Create(&rec).Error, "create payment")
}

func (t *txn) GetPayment(ctx context.Context, id string) (checkout.Payment, error) {
	return getPayment(t.conn(ctx), id)
}

func (t *txn) DeletePayment(ctx context.Context, id string) error {
	return mustAffect(t.conn(ctx).Where("id = ?", id).Delete(&PaymentRecord{}), "payment")
}

func (t *txn) ListPayments(ctx context.Context, appointmentID string) ([]checkout.Payment, error) {
	return listPayments(t.conn(ctx), appointmentID)
}

func getPayment(db *gorm.DB, id string) (checkout.Payment, error) {
	var rec PaymentRecord
	if err := db.Where("id = ?", id).First(&rec).Error; err != nil {
		return checkout.Payment{}, notFound(err, "payment")
	}
	return fromPaymentRecord(rec), nil
}

func listPayments(db *gorm.DB, appointmentID string) ([]checkout.Payment, error) {
	var recs []PaymentRecord
	if err := db.Where("appointment_id = ?", appointmentID).Order("date").Find(&recs).Error; err != nil {
		return nil, wrap(err, "list payments")
	}
	return payments(recs), nil
}

func payments(recs []PaymentRecord) []checkout.Payment {
	out := make([]checkout.Payment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromPaymentRecord(rec))
	}
	return out
}
