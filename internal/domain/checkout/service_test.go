package checkout

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/platform/apperr"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	appts    map[string]appointments.Appointment
	payments map[string]Payment
	pcts     map[string]decimal.Decimal
}

func newTestRepo() *testRepo {
	return &testRepo{
		appts:    map[string]appointments.Appointment{},
		payments: map[string]Payment{},
		pcts:     map[string]decimal.Decimal{},
	}
}

func (r *testRepo) Begin(context.Context) (Tx, error) { return &testTx{r}, nil }

func (r *testRepo) GetAppointment(_ context.Context, id string) (appointments.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return appointments.Appointment{}, apperr.NotFound("appointment")
	}
	return a, nil
}

func (r *testRepo) GetPayment(_ context.Context, id string) (Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return Payment{}, apperr.NotFound("payment")
	}
	return p, nil
}

func (r *testRepo) ListPayments(_ context.Context, appointmentID string) ([]Payment, error) {
	out := []Payment{}
	for _, p := range r.payments {
		if p.AppointmentID == appointmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *testRepo) ListPaymentsBetween(_ context.Context, from, to time.Time) ([]Payment, error) {
	out := []Payment{}
	for _, p := range r.payments {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *testRepo) ListCollectedEndingBetween(_ context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	out := []appointments.Appointment{}
	for _, a := range r.appts {
		if a.Status == appointments.StatusCollected && !a.IsDeleted && !a.EndTime.Before(from) && a.EndTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type testTx struct{ repo *testRepo }

func (t *testTx) Commit() error   { return nil }
func (t *testTx) Rollback() error { return nil }

func (t *testTx) GetAppointment(ctx context.Context, id string) (appointments.Appointment, error) {
	return t.repo.GetAppointment(ctx, id)
}

func (t *testTx) SaveAppointment(_ context.Context, a appointments.Appointment) error {
	t.repo.appts[a.ID] = a
	return nil
}

func (t *testTx) CommissionPercentage(_ context.Context, professionalID string) (decimal.Decimal, error) {
	pct, ok := t.repo.pcts[professionalID]
	if !ok {
		return decimal.Zero, apperr.NotFound("professional")
	}
	return pct, nil
}

func (t *testTx) AddPayment(_ context.Context, p Payment) error {
	t.repo.payments[p.ID] = p
	return nil
}

func (t *testTx) GetPayment(ctx context.Context, id string) (Payment, error) {
	return t.repo.GetPayment(ctx, id)
}

func (t *testTx) DeletePayment(_ context.Context, id string) error {
	delete(t.repo.payments, id)
	return nil
}

func (t *testTx) ListPayments(ctx context.Context, appointmentID string) ([]Payment, error) {
	return t.repo.ListPayments(ctx, appointmentID)
}

type testCatalog struct{}

func (testCatalog) GetService(_ context.Context, id string) (catalog.Service, error) {
	switch id {
	case "svc-1":
		return catalog.Service{ID: id, BasePrice: amount(20000), IsActive: true}, nil
	case "svc-big":
		return catalog.Service{ID: id, BasePrice: amount(30000), IsActive: true}, nil
	}
	return catalog.Service{}, apperr.NotFound("service")
}

func (testCatalog) GetItems(_ context.Context, ids []string) ([]catalog.Item, error) {
	out := []catalog.Item{}
	for _, id := range ids {
		out = append(out, catalog.Item{ID: id, Name: id, Price: amount(500), IsActive: true})
	}
	return out, nil
}

type paymentsSeen map[string]int

func (p paymentsSeen) Payment(op, paymentType string) { p[op+":"+paymentType]++ }

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestLedger() (*Ledger, *testRepo, paymentsSeen) {
	repo := newTestRepo()
	repo.pcts["prof-1"] = amount(50)
	repo.appts["appt-1"] = appointments.Appointment{
		ID:             "appt-1",
		DogID:          "dog-1",
		ServiceID:      "svc-1",
		ProfessionalID: "prof-1",
		StartTime:      today.Add(10 * time.Hour),
		EndTime:        today.Add(11 * time.Hour),
		Status:         appointments.StatusPending,
		TotalAmount:    amount(20000),
		FinalPrice:     amount(20000),
	}
	seen := paymentsSeen{}
	l := NewLedger(Deps{Repo: repo, Catalog: testCatalog{}, Metrics: seen})

	// Reloj que avanza un minuto por llamada: pagos con fechas distintas.
	tick := today.Add(12 * time.Hour)
	l.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return l, repo, seen
}

func pay(v int64, typ Type) PaymentInput {
	return PaymentInput{Amount: amount(v), Method: MethodCash, Type: typ}
}

// -------------------------
// Tests
// -------------------------

func TestRecordPayment_DepositThenSettlement(t *testing.T) {
	l, _, seen := newTestLedger()
	ctx := context.Background()

	a, p, err := l.RecordPayment(ctx, "appt-1", "user-1", pay(5000, TypeDeposit))
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusDeposited, a.Status)
	assert.True(t, a.CommissionAmount.IsZero())
	assert.Equal(t, "user-1", p.CreatedBy)

	sum, err := l.Summary(ctx, "appt-1")
	require.NoError(t, err)
	assert.True(t, amount(15000).Equal(sum.Balance))
	assert.True(t, amount(5000).Equal(sum.Paid))

	a, _, err = l.RecordPayment(ctx, "appt-1", "user-1", pay(15000, TypeSettlement))
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCollected, a.Status)
	assert.True(t, amount(10000).Equal(a.CommissionAmount))

	assert.Equal(t, 1, seen["record:Seña"])
	assert.Equal(t, 1, seen["record:Pago"])
}

func TestRecordPayment_FullPaymentCollects(t *testing.T) {
	l, _, _ := newTestLedger()
	a, _, err := l.RecordPayment(context.Background(), "appt-1", "u", pay(20000, TypeSettlement))
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusCollected, a.Status)
}

func TestRecordPayment_Validation(t *testing.T) {
	l, _, _ := newTestLedger()
	ctx := context.Background()

	for name, in := range map[string]PaymentInput{
		"zero amount":     pay(0, TypeDeposit),
		"negative amount": pay(-10, TypeDeposit),
		"bad type":        {Amount: amount(1), Method: MethodCash, Type: "Propina"},
		"bad method":      {Amount: amount(1), Method: "Cheque", Type: TypeDeposit},
	} {
		_, _, err := l.RecordPayment(ctx, "appt-1", "u", in)
		assert.True(t, apperr.IsValidation(err), name)
	}

	_, _, err := l.RecordPayment(ctx, "missing", "u", pay(1, TypeDeposit))
	assert.True(t, apperr.IsNotFound(err))
}

func TestRecordPayment_CancelledAppointment(t *testing.T) {
	l, repo, _ := newTestLedger()
	a := repo.appts["appt-1"]
	a.IsDeleted = true
	repo.appts["appt-1"] = a

	_, _, err := l.RecordPayment(context.Background(), "appt-1", "u", pay(1000, TypeDeposit))
	assert.True(t, apperr.IsConflict(err))
}

func TestRecordPayment_FinalPriceOverride(t *testing.T) {
	l, _, _ := newTestLedger()
	in := pay(18000, TypeSettlement)
	fp := amount(18000)
	in.FinalPrice = &fp

	a, _, err := l.RecordPayment(context.Background(), "appt-1", "u", in)
	require.NoError(t, err)
	assert.True(t, fp.Equal(a.FinalPrice))
	assert.Equal(t, appointments.StatusCollected, a.Status)
	assert.True(t, amount(9000).Equal(a.CommissionAmount))
}

func TestRecordPayment_ServiceRevision(t *testing.T) {
	l, _, _ := newTestLedger()
	in := pay(5000, TypeDeposit)
	svc := "svc-big"
	items := []string{"moño"}
	in.ServiceID = &svc
	in.ItemIDs = &items

	a, _, err := l.RecordPayment(context.Background(), "appt-1", "u", in)
	require.NoError(t, err)
	assert.Equal(t, "svc-big", a.ServiceID)
	assert.True(t, amount(30500).Equal(a.FinalPrice))
	require.Len(t, a.Items, 1)

	bad := "nope"
	in.ServiceID = &bad
	_, _, err = l.RecordPayment(context.Background(), "appt-1", "u", in)
	assert.True(t, apperr.IsValidation(err))
}

func TestDeletePayment_RecomputesStatus(t *testing.T) {
	l, repo, seen := newTestLedger()
	ctx := context.Background()

	_, sena, err := l.RecordPayment(ctx, "appt-1", "u", pay(5000, TypeDeposit))
	require.NoError(t, err)
	_, pago, err := l.RecordPayment(ctx, "appt-1", "u", pay(15000, TypeSettlement))
	require.NoError(t, err)

	a, err := l.DeletePayment(ctx, pago.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusDeposited, a.Status)
	assert.True(t, a.CommissionAmount.IsZero())
	assert.Len(t, repo.payments, 1)

	a, err = l.DeletePayment(ctx, sena.ID)
	require.NoError(t, err)
	assert.Equal(t, appointments.StatusPending, a.Status)
	assert.Equal(t, 1, seen["delete:Pago"])

	_, err = l.DeletePayment(ctx, sena.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDailyReport(t *testing.T) {
	l, repo, _ := newTestLedger()
	ctx := context.Background()

	_, _, err := l.RecordPayment(ctx, "appt-1", "u", PaymentInput{Amount: amount(5000), Method: MethodTransfer, Type: TypeDeposit})
	require.NoError(t, err)
	_, _, err = l.RecordPayment(ctx, "appt-1", "u", pay(15000, TypeSettlement))
	require.NoError(t, err)

	// Pago de otro día: no cuenta.
	repo.payments["old"] = Payment{ID: "old", AppointmentID: "appt-1", Amount: amount(999), Date: today.Add(-time.Hour), Type: TypeSettlement, Method: MethodCash}

	rep, err := l.DailyReport(ctx, today.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, today, rep.Day)
	require.Len(t, rep.Settlements, 1)
	require.Len(t, rep.Deposits, 1)
	assert.True(t, amount(15000).Equal(rep.TotalSettlements))
	assert.True(t, amount(5000).Equal(rep.TotalDeposits))
	assert.True(t, amount(20000).Equal(rep.TotalCash))
	assert.True(t, amount(15000).Equal(rep.ByMethod[MethodCash]))
	assert.True(t, amount(5000).Equal(rep.ByMethod[MethodTransfer]))
	require.Len(t, rep.Collected, 1)
	assert.True(t, amount(10000).Equal(rep.TotalCommissions))
}
