package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/events"
	"github.com/touristique/touristique/internal/pkg/store"
)

func newTestService(t *testing.T) (*ServiceImpl, *store.SQLiteStore, *events.InProcessBus) {
	t.Helper()
	kv, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	bus := events.NewInProcessBus(nil)
	return NewService(kv, bus, nil), kv, bus
}

func TestReadReturnsDefaultsWhenEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile := svc.Read(context.Background(), "u1")

	assert.Empty(t, profile.Interests)
	assert.Equal(t, models.DefaultDurationDays, profile.DurationDays)
	assert.Equal(t, float64(models.DefaultBudget), profile.Budget)
	assert.Equal(t, models.DefaultTravelers, profile.Travelers)
	assert.Equal(t, models.DefaultStartCity, profile.StartCity)
}

func TestReadFallsBackOnMalformedValues(t *testing.T) {
	svc, kv, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "profile:u1:interests", `{not json`))
	require.NoError(t, kv.Set(ctx, "profile:u1:durationDays", "three"))
	require.NoError(t, kv.Set(ctx, "profile:u1:budget", "lots"))
	require.NoError(t, kv.Set(ctx, "profile:u1:travelers", "-2"))

	profile := svc.Read(ctx, "u1")

	assert.Empty(t, profile.Interests)
	assert.Equal(t, models.DefaultDurationDays, profile.DurationDays)
	assert.Equal(t, float64(models.DefaultBudget), profile.Budget)
	assert.Equal(t, models.DefaultTravelers, profile.Travelers)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Write(ctx, "u1", FieldDurationDays, "3"))
	require.NoError(t, svc.Write(ctx, "u1", FieldBudget, "20000"))
	require.NoError(t, svc.Write(ctx, "u1", FieldTravelers, "2"))
	require.NoError(t, svc.Write(ctx, "u1", FieldStartCity, "Mumbai"))
	require.NoError(t, svc.Write(ctx, "u1", FieldInterests, "Historical, Food, Nature"))

	profile := svc.Read(ctx, "u1")
	assert.Equal(t, 3, profile.DurationDays)
	assert.Equal(t, 20000.0, profile.Budget)
	assert.Equal(t, 2, profile.Travelers)
	assert.Equal(t, "Mumbai", profile.StartCity)
	assert.Equal(t, []string{"Historical", "Food", "Nature"}, profile.Interests)
}

func TestLegacyInterestLabelMigratedOnRead(t *testing.T) {
	svc, kv, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "profile:u1:interests", `["Heritage","Food","Historical"]`))

	profile := svc.Read(ctx, "u1")
	assert.Equal(t, []string{"Historical", "Food"}, profile.Interests)
}

func TestWritePublishesProfileUpdated(t *testing.T) {
	svc, _, bus := newTestService(t)

	var published []any
	bus.Subscribe(events.TopicProfileUpdated, func(payload any) {
		published = append(published, payload)
	})

	require.NoError(t, svc.Write(context.Background(), "u1", FieldStartCity, "Kolkata"))
	require.Len(t, published, 1)
	assert.Equal(t, "u1", published[0])
}

func TestWriteRejectsInvalidValues(t *testing.T) {
	svc, _, bus := newTestService(t)
	ctx := context.Background()

	var published int
	bus.Subscribe(events.TopicProfileUpdated, func(any) { published++ })

	assert.ErrorIs(t, svc.Write(ctx, "u1", FieldDurationDays, "0"), models.ErrValidation)
	assert.ErrorIs(t, svc.Write(ctx, "u1", FieldBudget, "-5"), models.ErrValidation)
	assert.ErrorIs(t, svc.Write(ctx, "u1", FieldStartCity, "  "), models.ErrValidation)
	assert.ErrorIs(t, svc.Write(ctx, "u1", "favouriteColor", "blue"), models.ErrBadRequest)
	assert.Zero(t, published)
}

func TestAnonymousProfileUsesSharedNamespace(t *testing.T) {
	svc, kv, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Write(ctx, "", FieldStartCity, "Jaipur"))

	value, ok, err := kv.Get(ctx, "profile.start_city")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Jaipur", value)
}
