package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/platform/apperr"
	"peluqueria-canina/internal/platform/logger"
	"peluqueria-canina/internal/platform/validation"
)

type Recorder interface {
	Payment(op, paymentType string)
}

type Deps struct {
	Repo    Repository
	Catalog appointments.CatalogLookup

	Logger   logger.Logger
	Metrics  Recorder
	Location *time.Location
}

// Ledger registra señas y pagos contra el precio final del turno
// y deriva estado y comisión del saldo.
type Ledger struct {
	repo    Repository
	catalog appointments.CatalogLookup
	log     logger.Logger
	metrics Recorder
	loc     *time.Location
	now     func() time.Time
}

func NewLedger(d Deps) *Ledger {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Ledger{
		repo:    d.Repo,
		catalog: d.Catalog,
		log:     log,
		metrics: d.Metrics,
		loc:     loc,
		now:     time.Now,
	}
}

type PaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
	Method Method          `json:"payment_method" validate:"required,oneof=Efectivo Transferencia Debito Credito MercadoPago"`
	Type   Type            `json:"payment_type" validate:"required,oneof=Seña Pago"`
	Notes  string          `json:"notes" validate:"max=500"`

	// Revisión de lo realizado (opcional). nil = no tocar.
	FinalPrice *decimal.Decimal `json:"final_price"`
	ServiceID  *string          `json:"service_id"`
	ItemIDs    *[]string        `json:"item_ids"`
}

func (in PaymentInput) validate() error {
	if err := validation.Struct(in, nil); err != nil {
		return err
	}
	if !in.Amount.IsPositive() {
		return apperr.Validation("amount", "must be > 0")
	}
	if in.FinalPrice != nil && in.FinalPrice.IsNegative() {
		return apperr.Validation("final_price", "must be >= 0")
	}
	return nil
}

// revision es el servicio/items recalculados desde el catálogo, si se pidieron.
type revision struct {
	serviceID string
	lines     []appointments.Line
	total     decimal.Decimal
	final     decimal.Decimal
}

func (l *Ledger) resolveRevision(ctx context.Context, cur appointments.Appointment, in PaymentInput) (*revision, error) {
	if in.ServiceID == nil && in.ItemIDs == nil {
		return nil, nil
	}
	if l.catalog == nil {
		return nil, apperr.Validation("service_id", "catalog revision not available")
	}

	serviceID := cur.ServiceID
	if in.ServiceID != nil {
		serviceID = strings.TrimSpace(*in.ServiceID)
	}
	itemIDs := cur.ItemIDs()
	if in.ItemIDs != nil {
		itemIDs = *in.ItemIDs
	}

	svc, err := l.catalog.GetService(ctx, serviceID)
	if err != nil || !svc.IsActive {
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.Validation("service_id", "unknown or inactive service")
	}
	items, err := l.catalog.GetItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if !it.IsActive {
			return nil, apperr.Validation("item_ids", "inactive item "+it.Name)
		}
	}

	lines := appointments.Lines(items)
	total, final := appointments.Price(svc.BasePrice, lines, cur.DiscountType, cur.DiscountValue)
	return &revision{serviceID: svc.ID, lines: lines, total: total, final: final}, nil
}

// RecordPayment agrega un pago (y aplica la revisión de precio/items si vino)
// y recalcula estado y comisión dentro de la misma transacción.
func (l *Ledger) RecordPayment(ctx context.Context, appointmentID, actorID string, in PaymentInput) (appointments.Appointment, Payment, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := in.validate(); err != nil {
		return appointments.Appointment{}, Payment{}, err
	}

	// Lectura previa fuera de la tx: el catálogo usa su propia conexión.
	cur, err := l.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return appointments.Appointment{}, Payment{}, err
	}
	rev, err := l.resolveRevision(ctx, cur, in)
	if err != nil {
		return appointments.Appointment{}, Payment{}, err
	}

	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return appointments.Appointment{}, Payment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a, err := tx.GetAppointment(ctx, appointmentID)
	if err != nil {
		return appointments.Appointment{}, Payment{}, err
	}
	if a.IsDeleted {
		return appointments.Appointment{}, Payment{}, apperr.Conflict("appointment is cancelled")
	}

	if rev != nil {
		a.ServiceID = rev.serviceID
		a.Items = rev.lines
		a.TotalAmount = rev.total
		a.FinalPrice = rev.final
	}
	if in.FinalPrice != nil {
		a.TotalAmount = *in.FinalPrice
		a.FinalPrice = *in.FinalPrice
	}

	now := l.now().UTC()
	p := Payment{
		ID:            uuid.NewString(),
		AppointmentID: a.ID,
		Amount:        in.Amount,
		Date:          now,
		Method:        in.Method,
		Type:          in.Type,
		Notes:         in.Notes,
		CreatedBy:     actorID,
	}
	if err := tx.AddPayment(ctx, p); err != nil {
		return appointments.Appointment{}, Payment{}, err
	}

	if err := l.reconcile(ctx, tx, &a); err != nil {
		return appointments.Appointment{}, Payment{}, err
	}
	a.UpdatedAt = now
	if err := tx.SaveAppointment(ctx, a); err != nil {
		return appointments.Appointment{}, Payment{}, err
	}
	if err := tx.Commit(); err != nil {
		return appointments.Appointment{}, Payment{}, err
	}

	if l.metrics != nil {
		l.metrics.Payment("record", string(p.Type))
	}
	l.log.Info("payment recorded", map[string]any{
		"appointment_id": a.ID,
		"payment_id":     p.ID,
		"amount":         p.Amount.String(),
		"type":           string(p.Type),
		"status":         string(a.Status),
	})
	return a, p, nil
}

// DeletePayment borra el pago y recalcula desde los pagos que quedan.
func (l *Ledger) DeletePayment(ctx context.Context, paymentID string) (appointments.Appointment, error) {
	tx, err := l.repo.Begin(ctx)
	if err != nil {
		return appointments.Appointment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p, err := tx.GetPayment(ctx, paymentID)
	if err != nil {
		return appointments.Appointment{}, err
	}
	if err := tx.DeletePayment(ctx, p.ID); err != nil {
		return appointments.Appointment{}, err
	}

	a, err := tx.GetAppointment(ctx, p.AppointmentID)
	if err != nil {
		return appointments.Appointment{}, err
	}
	if err := l.reconcile(ctx, tx, &a); err != nil {
		return appointments.Appointment{}, err
	}
	a.UpdatedAt = l.now().UTC()
	if err := tx.SaveAppointment(ctx, a); err != nil {
		return appointments.Appointment{}, err
	}
	if err := tx.Commit(); err != nil {
		return appointments.Appointment{}, err
	}

	if l.metrics != nil {
		l.metrics.Payment("delete", string(p.Type))
	}
	l.log.Info("payment deleted", map[string]any{
		"appointment_id": a.ID,
		"payment_id":     p.ID,
		"status":         string(a.Status),
	})
	return a, nil
}

// reconcile relee los pagos dentro de la tx (ya incluye el alta/baja recién hecha)
// y deja estado y comisión consistentes con el saldo.
func (l *Ledger) reconcile(ctx context.Context, tx Tx, a *appointments.Appointment) error {
	payments, err := tx.ListPayments(ctx, a.ID)
	if err != nil {
		return err
	}
	a.Status = DeriveStatus(a.FinalPrice, payments)

	pct := decimal.Zero
	if a.Status == appointments.StatusCollected {
		pct, err = tx.CommissionPercentage(ctx, a.ProfessionalID)
		if err != nil {
			return err
		}
	}
	a.CommissionAmount = Commission(a.Status, a.FinalPrice, pct)
	return nil
}

func (l *Ledger) Summary(ctx context.Context, appointmentID string) (Summary, error) {
	a, err := l.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return Summary{}, err
	}
	payments, err := l.repo.ListPayments(ctx, a.ID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Appointment: a,
		Payments:    payments,
		Paid:        Paid(payments),
		Balance:     Balance(a.FinalPrice, payments),
	}, nil
}

// DailyReport arma la caja del día calendario (en la zona configurada) que contiene day.
func (l *Ledger) DailyReport(ctx context.Context, day time.Time) (DailyReport, error) {
	if day.IsZero() {
		day = l.now()
	}
	d := day.In(l.loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, l.loc)
	to := from.AddDate(0, 0, 1)

	payments, err := l.repo.ListPaymentsBetween(ctx, from, to)
	if err != nil {
		return DailyReport{}, err
	}
	collected, err := l.repo.ListCollectedEndingBetween(ctx, from, to)
	if err != nil {
		return DailyReport{}, err
	}

	rep := DailyReport{
		Day:              from,
		Settlements:      []Payment{},
		Deposits:         []Payment{},
		TotalSettlements: decimal.Zero,
		TotalDeposits:    decimal.Zero,
		ByMethod:         map[Method]decimal.Decimal{},
		Collected:        collected,
		TotalCommissions: decimal.Zero,
	}
	for _, p := range payments {
		switch p.Type {
		case TypeSettlement:
			rep.Settlements = append(rep.Settlements, p)
			rep.TotalSettlements = rep.TotalSettlements.Add(p.Amount)
		case TypeDeposit:
			rep.Deposits = append(rep.Deposits, p)
			rep.TotalDeposits = rep.TotalDeposits.Add(p.Amount)
		}
		rep.ByMethod[p.Method] = rep.ByMethod[p.Method].Add(p.Amount)
	}
	rep.TotalCash = rep.TotalSettlements.Add(rep.TotalDeposits)

	for _, a := range collected {
		rep.TotalCommissions = rep.TotalCommissions.Add(a.CommissionAmount)
	}
	return rep, nil
}
