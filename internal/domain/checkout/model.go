package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
)

type Method string

const (
	MethodCash        Method = "Efectivo"
	MethodTransfer    Method = "Transferencia"
	MethodDebit       Method = "Debito"
	MethodCredit      Method = "Credito"
	MethodMercadoPago Method = "MercadoPago"
)

type Type string

const (
	TypeDeposit    Type = "Seña"
	TypeSettlement Type = "Pago"
)

// Payment es un asiento del ledger. Nunca se modifica: se agrega o se borra.
type Payment struct {
	ID            string
	AppointmentID string
	Amount        decimal.Decimal
	Date          time.Time
	Method        Method
	Type          Type
	Notes         string
	CreatedBy     string
}

// Summary es el estado de cuenta de un turno.
type Summary struct {
	Appointment appointments.Appointment
	Payments    []Payment
	Paid        decimal.Decimal
	Balance     decimal.Decimal
}

// DailyReport es la caja del día.
type DailyReport struct {
	Day time.Time

	Settlements      []Payment
	Deposits         []Payment
	TotalSettlements decimal.Decimal
	TotalDeposits    decimal.Decimal
	// TotalCash es todo lo que entró a caja (pagos + señas).
	TotalCash decimal.Decimal
	ByMethod  map[Method]decimal.Decimal

	Collected        []appointments.Appointment
	TotalCommissions decimal.Decimal
}
