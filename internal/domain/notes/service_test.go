package notes

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peluqueria-canina/internal/domain/clients"
	"peluqueria-canina/internal/platform/apperr"
)

type testRepo struct {
	notes     []Note
	lastLimit int
}

func (r *testRepo) Create(_ context.Context, n Note) error {
	r.notes = append(r.notes, n)
	return nil
}

func (r *testRepo) ListByDog(_ context.Context, dogID string, limit int) ([]Note, error) {
	r.lastLimit = limit
	out := []Note{}
	for _, n := range r.notes {
		if n.DogID == dogID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type testDogs map[string]clients.Dog

func (d testDogs) GetDog(_ context.Context, id string) (clients.Dog, error) {
	dog, ok := d[id]
	if !ok {
		return clients.Dog{}, apperr.NotFound("dog")
	}
	return dog, nil
}

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, testDogs{
		"dog-1":  {ID: "dog-1", Name: "Firulais"},
		"gone-1": {ID: "gone-1", Name: "Luna", IsDeleted: true},
	})
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestAdd(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	n, err := svc.Add(ctx, "dog-1", "user-1", AddInput{Text: "  alérgico al shampoo  "})
	require.NoError(t, err)
	assert.Equal(t, "alérgico al shampoo", n.Text)
	assert.Equal(t, "user-1", n.CreatedBy)
	assert.Equal(t, svc.now(), n.Date)
	assert.Len(t, repo.notes, 1)

	when := time.Date(2024, 12, 24, 9, 0, 0, 0, time.FixedZone("ART", -3*3600))
	n, err = svc.Add(ctx, "dog-1", "user-1", AddInput{Text: "muerde", Date: &when})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, n.Date.Location())
	assert.True(t, n.Date.Equal(when))
}

func TestAdd_Rejects(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "dog-1", "", AddInput{Text: "   "})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Add(ctx, "missing", "", AddInput{Text: "hola"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Add(ctx, "gone-1", "", AddInput{Text: "hola"})
	assert.True(t, apperr.IsNotFound(err))

	assert.Empty(t, repo.notes)
}

func TestListByDog(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := svc.Add(ctx, "dog-1", "", AddInput{Text: "nota", Date: &d})
		require.NoError(t, err)
	}

	list, err := svc.ListByDog(ctx, "dog-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Date.Day())

	list, err = svc.ListByDog(ctx, "dog-1", 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListByDog(ctx, "missing", 10)
	assert.True(t, apperr.IsNotFound(err))
}
