package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
)

type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetAppointment(ctx context.Context, id string) (appointments.Appointment, error)
	GetPayment(ctx context.Context, id string) (Payment, error)
	// ListPayments ordena por fecha ascendente.
	ListPayments(ctx context.Context, appointmentID string) ([]Payment, error)
	// ListPaymentsBetween: pagos con date en [from, to), más recientes primero.
	ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]Payment, error)
	// ListCollectedEndingBetween: turnos Cobrado no borrados con end_time en [from, to).
	ListCollectedEndingBetween(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
}

type Tx interface {
	Commit() error
	Rollback() error

	GetAppointment(ctx context.Context, id string) (appointments.Appointment, error)
	// SaveAppointment persiste precio, items, estado y comisión.
	SaveAppointment(ctx context.Context, a appointments.Appointment) error
	CommissionPercentage(ctx context.Context, professionalID string) (decimal.Decimal, error)

	AddPayment(ctx context.Context, p Payment) error
	GetPayment(ctx context.Context, id string) (Payment, error)
	DeletePayment(ctx context.Context, id string) error
	ListPayments(ctx context.Context, appointmentID string) ([]Payment, error)
}
