package appointments

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peluqueria-canina/internal/domain/catalog"
	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/domain/staff"
	"peluqueria-canina/internal/platform/apperr"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Appointment
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Appointment{}}
}

func (r *testRepo) Begin(context.Context) (Tx, error) { return &testTx{repo: r}, nil }

func (r *testRepo) Get(_ context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, apperr.NotFound("appointment")
	}
	return a, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range r.byID {
		if a.IsDeleted != f.Deleted {
			continue
		}
		if f.DogID != "" && a.DogID != f.DogID {
			continue
		}
		if f.From != nil && !a.EndTime.After(*f.From) {
			continue
		}
		if f.To != nil && !a.StartTime.Before(*f.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// testTx escribe directo en el repo; alcanza para probar reglas del servicio.
type testTx struct {
	repo *testRepo
}

func (t *testTx) Commit() error   { return nil }
func (t *testTx) Rollback() error { return nil }

func (t *testTx) Get(ctx context.Context, id string) (Appointment, error) { return t.repo.Get(ctx, id) }

func (t *testTx) FindOverlapping(_ context.Context, q OverlapQuery) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range t.repo.byID {
		if a.IsDeleted || a.ID == q.ExcludeID || !Overlaps(a.StartTime, a.EndTime, q.Start, q.End) {
			continue
		}
		sameDog := a.DogID == q.DogID
		sameProf := a.ProfessionalID == q.ProfessionalID
		switch q.Scope {
		case ScopeProfessional:
			if !sameProf {
				continue
			}
		case ScopeBoth:
			if !sameDog && !sameProf {
				continue
			}
		default:
			if !sameDog {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (t *testTx) Create(_ context.Context, a Appointment) error {
	if _, ok := t.repo.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	t.repo.byID[a.ID] = a
	return nil
}

func (t *testTx) Update(_ context.Context, a Appointment) error {
	t.repo.byID[a.ID] = a
	return nil
}

func (t *testTx) SetDeleted(_ context.Context, id string, deleted bool) error {
	a := t.repo.byID[id]
	a.IsDeleted = deleted
	t.repo.byID[id] = a
	return nil
}

func (t *testTx) Delete(_ context.Context, id string) error {
	delete(t.repo.byID, id)
	return nil
}

func (t *testTx) PurgeDeleted(_ context.Context) (int64, error) {
	var n int64
	for id, a := range t.repo.byID {
		if a.IsDeleted {
			delete(t.repo.byID, id)
			n++
		}
	}
	return n, nil
}

// -------------------------
// Lookups
// -------------------------

type lookups struct {
	dogs  map[string]clients.Dog
	svcs  map[string]catalog.Service
	items map[string]catalog.Item
	profs map[string]staff.Professional
}

func (l lookups) GetDog(_ context.Context, id string) (clients.Dog, error) {
	d, ok := l.dogs[id]
	if !ok {
		return clients.Dog{}, apperr.NotFound("dog")
	}
	return d, nil
}

func (l lookups) GetService(_ context.Context, id string) (catalog.Service, error) {
	s, ok := l.svcs[id]
	if !ok {
		return catalog.Service{}, apperr.NotFound("service")
	}
	return s, nil
}

func (l lookups) GetItems(_ context.Context, ids []string) ([]catalog.Item, error) {
	out := []catalog.Item{}
	for _, id := range ids {
		it, ok := l.items[id]
		if !ok {
			return nil, apperr.Validation("item_ids", "unknown item "+id)
		}
		out = append(out, it)
	}
	return out, nil
}

func (l lookups) GetProfessional(_ context.Context, id string) (staff.Professional, error) {
	p, ok := l.profs[id]
	if !ok {
		return staff.Professional{}, apperr.NotFound("professional")
	}
	return p, nil
}

type countingExporter struct{ n int }

func (e *countingExporter) Export(context.Context) error { e.n++; return nil }

type outcomes map[string]int

func (o outcomes) Booking(op, outcome string) { o[op+":"+outcome]++ }

func newTestScheduler(opts Options) (*Scheduler, *testRepo, *countingExporter, outcomes) {
	repo := newTestRepo()
	l := lookups{
		dogs: map[string]clients.Dog{
			"dog-1": {ID: "dog-1", Name: "Firulais"},
			"dog-2": {ID: "dog-2", Name: "Luna"},
			"gone":  {ID: "gone", Name: "Viejo", IsDeleted: true},
		},
		svcs: map[string]catalog.Service{
			"svc-1": {ID: "svc-1", BasePrice: decimal.NewFromInt(20000), DurationMinutes: 60, IsActive: true},
			"off":   {ID: "off", BasePrice: decimal.NewFromInt(1), IsActive: false},
		},
		items: map[string]catalog.Item{
			"moño": {ID: "moño", Name: "Moño", Price: decimal.NewFromInt(500), IsActive: true},
		},
		profs: map[string]staff.Professional{
			"prof-1": {ID: "prof-1", Name: "Laura", CommissionPercentage: decimal.NewFromInt(50), IsActive: true},
			"prof-2": {ID: "prof-2", Name: "Sofía", CommissionPercentage: decimal.NewFromInt(40), IsActive: true},
		},
	}
	exp := &countingExporter{}
	m := outcomes{}
	s := NewScheduler(Deps{
		Repo:          repo,
		Dogs:          l,
		Catalog:       l,
		Professionals: l,
		Exporter:      exp,
		Metrics:       m,
	}, opts)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) }
	return s, repo, exp, m
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func booking(dog, prof string, start time.Time, minutes int) BookingInput {
	return BookingInput{DogID: dog, ServiceID: "svc-1", ProfessionalID: prof, StartTime: start, DurationMinutes: minutes}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_PendingWithPriceAndItems(t *testing.T) {
	s, _, exp, m := newTestScheduler(Options{})
	ctx := context.Background()

	in := booking("dog-1", "prof-1", at(10, 0).Add(42*time.Second), 60)
	in.ItemIDs = []string{"moño"}
	in.DiscountType = DiscountPercent
	in.DiscountValue = decimal.NewFromInt(10)

	a, err := s.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, at(10, 0), a.StartTime, "start truncated to the minute")
	assert.Equal(t, at(11, 0), a.EndTime)
	assert.True(t, decimal.NewFromInt(20500).Equal(a.TotalAmount))
	assert.True(t, decimal.NewFromInt(18450).Equal(a.FinalPrice))
	assert.True(t, a.CommissionAmount.IsZero())
	require.Len(t, a.Items, 1)
	assert.Equal(t, "Moño", a.Items[0].Name)
	assert.Equal(t, 1, exp.n)
	assert.Equal(t, 1, m["create:ok"])
}

func TestCreate_RejectsShortDuration(t *testing.T) {
	s, _, _, m := newTestScheduler(Options{})

	for _, minutes := range []int{0, -30, 10, 14} {
		_, err := s.Create(context.Background(), booking("dog-1", "prof-1", at(10, 0), minutes))
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), "minimum duration is 15 minutes")
	}
	assert.Equal(t, 4, m["create:invalid"])

	_, err := s.Create(context.Background(), booking("dog-1", "prof-1", at(10, 0), 15))
	assert.NoError(t, err)
}

func TestCreate_OverlapSameDog(t *testing.T) {
	s, _, exp, m := newTestScheduler(Options{})
	ctx := context.Background()

	first, err := s.Create(ctx, booking("dog-1", "prof-1", at(10, 0), 60))
	require.NoError(t, err)

	_, err = s.Create(ctx, booking("dog-1", "prof-2", at(10, 30), 60))
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{first.ID}, ce.With)
	assert.Equal(t, 1, m["create:conflict"])

	// Contiguos: 11:00 empieza cuando termina el anterior.
	_, err = s.Create(ctx, booking("dog-1", "prof-1", at(11, 0), 30))
	assert.NoError(t, err)
	_, err = s.Create(ctx, booking("dog-1", "prof-1", at(9, 0), 60))
	assert.NoError(t, err)

	// Otro perro, mismo horario: con scope dog no choca.
	_, err = s.Create(ctx, booking("dog-2", "prof-1", at(10, 0), 60))
	assert.NoError(t, err)

	assert.Equal(t, 4, exp.n, "export only after successful writes")
}

func TestCreate_OverlapScopes(t *testing.T) {
	cases := []struct {
		scope    ConflictScope
		dog      string
		prof     string
		conflict bool
	}{
		{ScopeProfessional, "dog-2", "prof-1", true},
		{ScopeProfessional, "dog-1", "prof-2", false},
		{ScopeBoth, "dog-2", "prof-1", true},
		{ScopeBoth, "dog-1", "prof-2", true},
		{ScopeBoth, "dog-2", "prof-2", false},
	}
	for _, tc := range cases {
		t.Run(string(tc.scope)+"/"+tc.dog+"/"+tc.prof, func(t *testing.T) {
			s, _, _, _ := newTestScheduler(Options{Scope: tc.scope})
			ctx := context.Background()
			_, err := s.Create(ctx, booking("dog-1", "prof-1", at(10, 0), 60))
			require.NoError(t, err)

			_, err = s.Create(ctx, booking(tc.dog, tc.prof, at(10, 15), 30))
			assert.Equal(t, tc.conflict, apperr.IsConflict(err), "err=%v", err)
		})
	}
}

func TestCreate_ValidatesReferences(t *testing.T) {
	s, _, _, _ := newTestScheduler(Options{})
	ctx := context.Background()

	inactive := booking("dog-1", "prof-1", at(10, 0), 60)
	inactive.ServiceID = "off"
	cases := []struct {
		field string
		in    BookingInput
	}{
		{"dog_id", booking("missing", "prof-1", at(10, 0), 60)},
		{"dog_id", booking("gone", "prof-1", at(10, 0), 60)},
		{"professional_id", booking("dog-1", "missing", at(10, 0), 60)},
		{"service_id", inactive},
	}
	for _, tc := range cases {
		_, err := s.Create(ctx, tc.in)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve, tc.field)
		assert.Equal(t, tc.field, ve.Field)
	}

	bad := booking("dog-1", "prof-1", at(10, 0), 60)
	bad.DiscountType = DiscountPercent
	bad.DiscountValue = decimal.NewFromInt(150)
	_, err := s.Create(ctx, bad)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_RejectPast(t *testing.T) {
	s, _, _, _ := newTestScheduler(Options{RejectPast: true})
	_, err := s.Create(context.Background(), booking("dog-1", "prof-1", time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), 60))
	assert.True(t, apperr.IsValidation(err))

	_, err = s.Create(context.Background(), booking("dog-1", "prof-1", at(10, 0), 60))
	assert.NoError(t, err)
}

func TestUpdate_KeepsStatusAndExcludesSelf(t *testing.T) {
	s, repo, _, _ := newTestScheduler(Options{})
	ctx := context.Background()

	a, err := s.Create(ctx, booking("dog-1", "prof-1", at(10, 0), 60))
	require.NoError(t, err)

	stored := repo.byID[a.ID]
	stored.Status = StatusDeposited
	repo.byID[a.ID] = stored

	// Moverlo 15 minutos se superpone sólo consigo mismo.
	got, err := s.Update(ctx, a.ID, booking("dog-1", "prof-1", at(10, 15), 90))
	require.NoError(t, err)
	assert.Equal(t, StatusDeposited, got.Status)
	assert.Equal(t, at(11, 45), got.EndTime)

	other, err := s.Create(ctx, booking("dog-1", "prof-1", at(12, 0), 30))
	require.NoError(t, err)
	_, err = s.Update(ctx, other.ID, booking("dog-1", "prof-1", at(11, 30), 30))
	assert.True(t, apperr.IsConflict(err))

	_, err = s.Update(ctx, "missing", booking("dog-1", "prof-1", at(15, 0), 30))
	assert.True(t, apperr.IsNotFound(err))
}

func TestSoftDeleteRestoreAndHardDelete(t *testing.T) {
	s, repo, _, _ := newTestScheduler(Options{})
	ctx := context.Background()

	a, err := s.Create(ctx, booking("dog-1", "prof-1", at(10, 0), 60))
	require.NoError(t, err)

	err = s.HardDelete(ctx, a.ID)
	assert.True(t, apperr.IsConflict(err), "must be cancelled first")

	require.NoError(t, s.SoftDelete(ctx, a.ID))
	require.NoError(t, s.SoftDelete(ctx, a.ID), "idempotent")

	_, err = s.Update(ctx, a.ID, booking("dog-1", "prof-1", at(10, 0), 60))
	assert.True(t, apperr.IsConflict(err))

	// El hueco liberado se ocupa; restaurar ahora choca.
	_, err = s.Create(ctx, booking("dog-1", "prof-1", at(10, 30), 30))
	require.NoError(t, err)
	_, err = s.Restore(ctx, a.ID)
	assert.True(t, apperr.IsConflict(err))

	deleted, err := s.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	require.NoError(t, s.HardDelete(ctx, a.ID))
	_, ok := repo.byID[a.ID]
	assert.False(t, ok)
}

func TestPurgeDeleted(t *testing.T) {
	s, _, _, _ := newTestScheduler(Options{})
	ctx := context.Background()

	a, err := s.Create(ctx, booking("dog-1", "prof-1", at(10, 0), 60))
	require.NoError(t, err)
	_, err = s.Create(ctx, booking("dog-1", "prof-1", at(12, 0), 60))
	require.NoError(t, err)
	require.NoError(t, s.SoftDelete(ctx, a.ID))

	n, err := s.PurgeDeleted(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestListCalendar(t *testing.T) {
	s, _, _, _ := newTestScheduler(Options{})
	ctx := context.Background()

	in := booking("dog-1", "prof-1", at(10, 0), 60)
	in.Description = "corte"
	_, err := s.Create(ctx, in)
	require.NoError(t, err)
	_, err = s.Create(ctx, booking("dog-2", "prof-1", day.AddDate(0, 0, 3), 60))
	require.NoError(t, err)

	from, to := day, day.AddDate(0, 0, 1)
	events, err := s.ListCalendar(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Firulais - corte", events[0].Title)
	assert.Equal(t, DefaultColor, events[0].Color)

	_, err = s.ListCalendar(ctx, &to, &from)
	assert.True(t, apperr.IsValidation(err))
}
