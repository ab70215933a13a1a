package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"peluqueria-canina/internal/domain/appointments"
	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/domain/checkout"
	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/domain/notes"
	"peluqueria-canina/internal/domain/staff"
	"peluqueria-canina/internal/domain/users"
	"peluqueria-canina/internal/platform/apperr"
)

type fixture struct {
	db        *gorm.DB
	dogID     string
	ownerID   string
	serviceID string
	itemID    string
	profID    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := fixture{
		db:        db,
		dogID:     uuid.NewString(),
		ownerID:   uuid.NewString(),
		serviceID: uuid.NewString(),
		itemID:    uuid.NewString(),
		profID:    uuid.NewString(),
	}

	cr := NewClientsRepo(db)
	tx, err := cr.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateOwner(ctx, clients.Owner{ID: f.ownerID, Name: "Ana Pérez", Phone: "1122334455"}))
	require.NoError(t, tx.CreateDog(ctx, clients.Dog{ID: f.dogID, OwnerID: f.ownerID, Name: "Firulais", Breed: "Caniche"}))
	require.NoError(t, tx.Commit())

	cat := NewCatalogRepo(db)
	catID, sizeID := uuid.NewString(), uuid.NewString()
	require.NoError(t, cat.CreateCategory(ctx, catalog.Category{ID: catID, Name: "Baño", DisplayOrder: 1, IsActive: true}))
	require.NoError(t, cat.CreateSize(ctx, catalog.Size{ID: sizeID, Name: "Chico", DisplayOrder: 1, IsActive: true}))
	require.NoError(t, cat.CreateService(ctx, catalog.Service{
		ID: f.serviceID, CategoryID: catID, SizeID: sizeID,
		BasePrice: decimal.NewFromInt(20000), DurationMinutes: 60, IsActive: true,
	}))
	require.NoError(t, cat.CreateItem(ctx, catalog.Item{ID: f.itemID, Name: "Moño", Price: decimal.NewFromInt(500), IsActive: true}))

	require.NoError(t, NewStaffRepo(db).Create(ctx, staff.Professional{
		ID: f.profID, Name: "Laura", CommissionPercentage: decimal.NewFromInt(50), IsActive: true,
	}))
	return f
}

func (f fixture) appointment(start time.Time, minutes int) appointments.Appointment {
	return appointments.Appointment{
		ID:             uuid.NewString(),
		DogID:          f.dogID,
		ServiceID:      f.serviceID,
		ProfessionalID: f.profID,
		StartTime:      start,
		EndTime:        start.Add(time.Duration(minutes) * time.Minute),
		Color:          appointments.DefaultColor,
		Status:         appointments.StatusPending,
		TotalAmount:    decimal.NewFromInt(20500),
		FinalPrice:     decimal.NewFromInt(20500),
		Items:          []appointments.Line{{ItemID: f.itemID, Name: "Moño", Price: decimal.NewFromInt(500)}},
	}
}

func (f fixture) create(t *testing.T, a appointments.Appointment) {
	t.Helper()
	ctx := context.Background()
	tx, err := NewAppointmentsRepo(f.db).Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	require.NoError(t, tx.Create(ctx, a))
	require.NoError(t, tx.Commit())
}

func TestClientsRepo_SearchAndSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewClientsRepo(f.db)

	got, err := r.SearchDogs(ctx, "ANA", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Firulais", got[0].Name)
	assert.Equal(t, "Ana Pérez", got[0].Owner.Name)

	got, err = r.SearchDogs(ctx, f.dogID, 50)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = r.SearchDogs(ctx, "%", 50)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, r.SetDogDeleted(ctx, f.dogID, true))
	active, err := r.ListDogs(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	deleted, err := r.ListDogs(ctx, true)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	err = r.SetDogDeleted(ctx, "missing", true)
	assert.True(t, apperr.IsNotFound(err))
}

func TestClientsRepo_DeleteDogRemovesNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewClientsRepo(f.db)
	nr := NewNotesRepo(f.db)

	require.NoError(t, nr.Create(ctx, notes.Note{ID: uuid.NewString(), DogID: f.dogID, Text: "muerde", Date: time.Now()}))

	inUse, err := r.DogInUse(ctx, f.dogID)
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, r.DeleteDog(ctx, f.dogID))
	_, err = r.GetDog(ctx, f.dogID)
	assert.True(t, apperr.IsNotFound(err))

	left, err := nr.ListByDog(ctx, f.dogID, 0)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestNotesRepo_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	nr := NewNotesRepo(f.db)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, nr.Create(ctx, notes.Note{ID: uuid.NewString(), DogID: f.dogID, Text: "vieja", Date: base}))
	require.NoError(t, nr.Create(ctx, notes.Note{ID: uuid.NewString(), DogID: f.dogID, Text: "nueva", Date: base.Add(time.Hour)}))

	got, err := nr.ListByDog(ctx, f.dogID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nueva", got[0].Text)
}

func TestCatalogRepo_ServicesCarryNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewCatalogRepo(f.db)

	svcs, err := r.ListServices(ctx, true)
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, "Baño Chico", svcs[0].Name())
	assert.True(t, decimal.NewFromInt(20000).Equal(svcs[0].BasePrice))

	its, err := r.GetItems(ctx, []string{f.itemID, "missing"})
	require.NoError(t, err)
	assert.Len(t, its, 1)

	f.create(t, f.appointment(time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), 60))
	inUse, err := r.ServiceInUse(ctx, f.serviceID)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestAppointmentsRepo_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewAppointmentsRepo(f.db)

	a := f.appointment(time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), 60)
	f.create(t, a)

	got, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Firulais", got.DogName)
	assert.True(t, a.StartTime.Equal(got.StartTime))
	assert.True(t, a.EndTime.Equal(got.EndTime))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Moño", got.Items[0].Name)
	assert.True(t, decimal.NewFromInt(20500).Equal(got.FinalPrice))

	_, err = r.Get(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAppointmentsRepo_FindOverlapping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewAppointmentsRepo(f.db)

	start := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	a := f.appointment(start, 60)
	f.create(t, a)

	find := func(q appointments.OverlapQuery) []appointments.Appointment {
		tx, err := r.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()
		got, err := tx.FindOverlapping(ctx, q)
		require.NoError(t, err)
		return got
	}

	got := find(appointments.OverlapQuery{Start: start.Add(30 * time.Minute), End: start.Add(90 * time.Minute), DogID: f.dogID, Scope: appointments.ScopeDog})
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	// Turnos contiguos no se superponen.
	assert.Empty(t, find(appointments.OverlapQuery{Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), DogID: f.dogID, Scope: appointments.ScopeDog}))
	assert.Empty(t, find(appointments.OverlapQuery{Start: start.Add(-time.Hour), End: start, DogID: f.dogID, Scope: appointments.ScopeDog}))

	assert.Empty(t, find(appointments.OverlapQuery{Start: start, End: start.Add(time.Hour), DogID: f.dogID, Scope: appointments.ScopeDog, ExcludeID: a.ID}))
	assert.Empty(t, find(appointments.OverlapQuery{Start: start, End: start.Add(time.Hour), DogID: "other", ProfessionalID: "other", Scope: appointments.ScopeBoth}))
	assert.Len(t, find(appointments.OverlapQuery{Start: start, End: start.Add(time.Hour), DogID: "other", ProfessionalID: f.profID, Scope: appointments.ScopeProfessional}), 1)
	assert.Len(t, find(appointments.OverlapQuery{Start: start, End: start.Add(time.Hour), DogID: "other", ProfessionalID: f.profID, Scope: appointments.ScopeBoth}), 1)
}

func TestAppointmentsRepo_SoftDeleteListAndPurge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewAppointmentsRepo(f.db)

	start := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	a := f.appointment(start, 60)
	b := f.appointment(start.Add(2*time.Hour), 60)
	f.create(t, a)
	f.create(t, b)

	from, to := start.Add(-time.Hour), start.Add(90*time.Minute)
	got, err := r.List(ctx, appointments.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	tx, err := r.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetDeleted(ctx, a.ID, true))
	require.NoError(t, tx.Commit())

	// Un turno cancelado no bloquea la agenda.
	tx, err = r.Begin(ctx)
	require.NoError(t, err)
	overlaps, err := tx.FindOverlapping(ctx, appointments.OverlapQuery{Start: start, End: start.Add(time.Hour), DogID: f.dogID})
	require.NoError(t, err)
	assert.Empty(t, overlaps)
	require.NoError(t, tx.Rollback())

	deleted, err := r.List(ctx, appointments.ListFilter{Deleted: true})
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	tx, err = r.Begin(ctx)
	require.NoError(t, err)
	n, err := tx.PurgeDeleted(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.EqualValues(t, 1, n)

	_, err = r.Get(ctx, a.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = r.Get(ctx, b.ID)
	assert.NoError(t, err)
}

func TestLedgerRepo_PaymentsAndCollected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewLedgerRepo(f.db)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := f.appointment(day.Add(13*time.Hour), 60)
	f.create(t, a)

	tx, err := r.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.AddPayment(ctx, checkout.Payment{
		ID: uuid.NewString(), AppointmentID: a.ID, Amount: decimal.NewFromInt(5000),
		Date: day.Add(10 * time.Hour), Method: checkout.MethodCash, Type: checkout.TypeDeposit,
	}))
	require.NoError(t, tx.AddPayment(ctx, checkout.Payment{
		ID: uuid.NewString(), AppointmentID: a.ID, Amount: decimal.NewFromInt(15500),
		Date: day.Add(14 * time.Hour), Method: checkout.MethodTransfer, Type: checkout.TypeSettlement,
	}))
	pct, err := tx.CommissionPercentage(ctx, f.profID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(pct))

	cur, err := tx.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	cur.Status = appointments.StatusCollected
	cur.CommissionAmount = decimal.NewFromInt(10250)
	require.NoError(t, tx.SaveAppointment(ctx, cur))
	require.NoError(t, tx.Commit())

	ps, err := r.ListPayments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, checkout.TypeDeposit, ps[0].Type)

	between, err := r.ListPaymentsBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, checkout.TypeSettlement, between[0].Type)

	none, err := r.ListPaymentsBetween(ctx, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, none)

	collected, err := r.ListCollectedEndingBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, collected, 1)
	assert.True(t, decimal.NewFromInt(10250).Equal(collected[0].CommissionAmount))
	require.Len(t, collected[0].Items, 1)
}

func TestUsersRepo_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewUsersRepo(f.db)

	u := users.User{ID: uuid.NewString(), Username: "admin", PasswordHash: "x", Role: "admin"}
	require.NoError(t, r.Create(ctx, u))

	u.ID = uuid.NewString()
	err := r.Create(ctx, u)
	assert.True(t, apperr.IsConflict(err))

	got, err := r.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN("file:x.db"))
	assert.Equal(t,
		"file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN("file:x?mode=memory"))
}
