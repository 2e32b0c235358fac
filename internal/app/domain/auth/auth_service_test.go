package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touristique/touristique/internal/app/models"
	"github.com/touristique/touristique/internal/pkg/config"
	"github.com/touristique/touristique/internal/pkg/events"
	"github.com/touristique/touristique/internal/pkg/store"
)

// fakeProvider records revocations and can simulate a missing client ID.
type fakeProvider struct {
	missing  bool
	revoked  []string
	initedAt int
}

func (p *fakeProvider) Init(ctx context.Context) error {
	if p.missing {
		return models.ErrProviderMissing
	}
	p.initedAt++
	return nil
}
func (p *fakeProvider) Name() string      { return "google" }
func (p *fakeProvider) ScriptSrc() string { return "" }
func (p *fakeProvider) ClientID() string  { return "test-client" }
func (p *fakeProvider) UseFedCM() bool    { return false }
func (p *fakeProvider) Revoke(ctx context.Context, credential string) error {
	p.revoked = append(p.revoked, credential)
	return nil
}

func newTestAuth(t *testing.T, provider Provider) (*ServiceImpl, *store.SQLiteStore, *events.InProcessBus) {
	t.Helper()
	kv, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	bus := events.NewInProcessBus(nil)
	return NewService(kv, bus, provider, nil), kv, bus
}

func signedCredential(t *testing.T, sub, email, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     sub,
		"email":   email,
		"name":    name,
		"picture": "https://example.com/p.jpg",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	credential, err := token.SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return credential
}

func TestSignInPersistsSessionAndPublishesLogin(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, bus := newTestAuth(t, provider)
	ctx := context.Background()

	var payloads []any
	bus.Subscribe(events.TopicAuthLogin, func(payload any) { payloads = append(payloads, payload) })

	user, err := svc.SignIn(ctx, signedCredential(t, "sub-1", "a@b.c", "Asha Rao"))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "sub-1", user.ID)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, "google", user.Provider)

	current := svc.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "sub-1", current.ID)
	require.Len(t, payloads, 1)
}

func TestSignInMalformedCredentialIsNoop(t *testing.T) {
	svc, _, bus := newTestAuth(t, &fakeProvider{})
	ctx := context.Background()

	var logins int
	bus.Subscribe(events.TopicAuthLogin, func(any) { logins++ })

	user, err := svc.SignIn(ctx, "not-a-jwt")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, svc.Current(ctx))
	assert.Zero(t, logins)
}

func TestSignInWithMissingProviderIsNoop(t *testing.T) {
	svc, _, _ := newTestAuth(t, &fakeProvider{missing: true})

	user, err := svc.SignIn(context.Background(), signedCredential(t, "sub-1", "a@b.c", "Asha"))
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSignOutRevokesClearsAndPublishes(t *testing.T) {
	provider := &fakeProvider{}
	svc, _, bus := newTestAuth(t, provider)
	ctx := context.Background()

	var logouts int
	bus.Subscribe(events.TopicAuthLogout, func(any) { logouts++ })

	credential := signedCredential(t, "sub-1", "a@b.c", "Asha")
	_, err := svc.SignIn(ctx, credential)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx))
	assert.Nil(t, svc.Current(ctx))
	assert.Equal(t, []string{credential}, provider.revoked)
	assert.Equal(t, 1, logouts)
}

func TestCurrentTreatsCorruptSessionAsSignedOut(t *testing.T) {
	svc, kv, _ := newTestAuth(t, &fakeProvider{})
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "authUser", `{corrupt`))
	assert.Nil(t, svc.Current(ctx))
}

func TestSignInReplacesExistingSession(t *testing.T) {
	svc, _, _ := newTestAuth(t, &fakeProvider{})
	ctx := context.Background()

	_, err := svc.SignIn(ctx, signedCredential(t, "sub-1", "a@b.c", "Asha"))
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, signedCredential(t, "sub-2", "d@e.f", "Dev"))
	require.NoError(t, err)

	current := svc.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "sub-2", current.ID)
}

func TestGoogleProviderInitWithoutClientID(t *testing.T) {
	provider := NewGoogleProvider(config.GoogleConfig{}, nil)
	err := provider.Init(context.Background())
	assert.ErrorIs(t, err, models.ErrProviderMissing)
}

func TestGoogleProviderInitIdempotent(t *testing.T) {
	provider := NewGoogleProvider(config.GoogleConfig{ClientID: "cid"}, nil)
	require.NoError(t, provider.Init(context.Background()))
	require.NoError(t, provider.Init(context.Background()))
	assert.Equal(t, "google", provider.Name())
	assert.Equal(t, "cid", provider.ClientID())
}
