package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/store"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Migrate(ctx))
	return s
}

func seedOwner(t *testing.T, s store.Store) (*domain.User, *domain.Property) {
	t.Helper()
	ctx := context.Background()

	u := &domain.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(ctx, u))

	p := &domain.Property{ID: uuid.New(), OwnerID: u.ID, Name: "Example", Domain: "example.com", Key: "example-com", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateProperty(ctx, p))
	return u, p
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := store.Open(context.Background(), "mysql://localhost/db")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u, _ := seedOwner(t, s)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	got, err = s.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dup := &domain.User{ID: uuid.New(), Email: u.Email, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), domain.ErrEmailTaken)

	require.NoError(t, s.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, s.UpdatePassword(ctx, uuid.New(), "x"), domain.ErrNotFound)
}

func TestProperties(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u, p := seedOwner(t, s)

	second := &domain.Property{ID: uuid.New(), OwnerID: u.ID, Name: "Shop", Key: "shop", CreatedAt: time.Now().UTC().Add(time.Second)}
	require.NoError(t, s.CreateProperty(ctx, second))

	list, err := s.ListProperties(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	byKey, err := s.GetPropertyByKey(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byKey.ID)

	clash := &domain.Property{ID: uuid.New(), OwnerID: u.ID, Name: "Other", Key: "shop", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, s.CreateProperty(ctx, clash), domain.ErrKeyTaken)

	none, err := s.ListProperties(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWidgetSettings_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, p := seedOwner(t, s)

	_, err := s.GetWidgetSettings(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ws := domain.DefaultWidgetSettings(p.ID)
	ws.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.SaveWidgetSettings(ctx, &ws))

	ws.AppName = "Acme"
	ws.Enabled = false
	require.NoError(t, s.SaveWidgetSettings(ctx, &ws))

	got, err := s.GetWidgetSettings(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.AppName)
	assert.False(t, got.Enabled)
}

func TestFeedbacks_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, p := seedOwner(t, s)

	base := time.Now().UTC()
	for i, msg := range []string{"first", "second"} {
		f := &domain.Feedback{ID: uuid.New(), PropertyID: p.ID, Message: msg, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateFeedback(ctx, f))
	}

	list, err := s.ListFeedbacks(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
}

func TestFeatures_VoteAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, p := seedOwner(t, s)

	a := &domain.Feature{ID: uuid.New(), PropertyID: p.ID, Title: "Dark mode", CreatedAt: time.Now().UTC()}
	b := &domain.Feature{ID: uuid.New(), PropertyID: p.ID, Title: "Export", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateFeature(ctx, a))
	require.NoError(t, s.CreateFeature(ctx, b))

	votes, err := s.VoteFeature(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, votes)

	list, err := s.ListFeatures(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = s.VoteFeature(ctx, uuid.New(), b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.DeleteFeature(ctx, p.ID, a.ID))
	assert.ErrorIs(t, s.DeleteFeature(ctx, p.ID, a.ID), domain.ErrNotFound)
}

func TestIntegrations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, p := seedOwner(t, s)

	crypto, err := domain.NewTargetCrypto("01234567890123456789012345678901")
	require.NoError(t, err)

	in := &domain.Integration{ID: uuid.New(), PropertyID: p.ID, Kind: domain.IntegrationWebhook, Target: "https://example.com/hook", Enabled: true, CreatedAt: time.Now().UTC()}
	assert.Error(t, s.CreateIntegration(ctx, in), "unsealed targets are rejected")

	require.NoError(t, crypto.Seal(in))
	require.NoError(t, s.CreateIntegration(ctx, in))

	list, err := s.ListIntegrations(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.IntegrationWebhook, list[0].Kind)
	assert.Empty(t, list[0].Target)

	require.NoError(t, crypto.Open(&list[0]))
	assert.Equal(t, "https://example.com/hook", list[0].Target)

	require.NoError(t, s.DeleteIntegration(ctx, p.ID, in.ID))
	assert.ErrorIs(t, s.DeleteIntegration(ctx, p.ID, in.ID), domain.ErrNotFound)
}
