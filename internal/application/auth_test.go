package application

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

const redirectIn = "http://localhost:4180/callback"

func signedIDToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func newAuthFixture(t *testing.T, provider *fakeProvider) (*AuthService, *memSecretStore, *fakeClock) {
	t.Helper()

	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := newMemSecretStore()
	tokens := NewTokenStore(store, clock)

	if provider == nil {
		return NewAuthService(tokens, nil, redirectIn, clock, zerolog.Nop()), store, clock
	}
	return NewAuthService(tokens, provider, redirectIn, clock, zerolog.Nop()), store, clock
}

func TestCompleteLoginExchangesAndPersists(t *testing.T) {
	t.Parallel()

	idToken := signedIDToken(t, jwtlib.MapClaims{
		"sub":   "user-123",
		"email": "dev@example.com",
		"exp":   float64(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC).Unix()),
	})
	provider := &fakeProvider{
		bundle: domain.TokenBundle{
			IDToken:     idToken,
			AccessToken: "access-token",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		},
	}
	svc, store, clock := newAuthFixture(t, provider)

	out := svc.CompleteLoginIfRedirected(context.Background(), redirectIn+"?code=abc123")

	assert.Equal(t, redirectIn, out)
	assert.Equal(t, []string{"abc123"}, provider.exchanged)
	require.Contains(t, store.values, TokenSlotKey)

	tokens := NewTokenStore(store, clock)
	loaded, ok, err := tokens.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, clock.Now().Unix(), loaded.ObtainedAt)
}

func TestCompleteLoginWithoutCodeIsNoOp(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	svc, store, _ := newAuthFixture(t, provider)

	rawURL := redirectIn + "?state=whatever"
	assert.Equal(t, rawURL, svc.CompleteLoginIfRedirected(context.Background(), rawURL))
	assert.Empty(t, provider.exchanged)
	assert.Empty(t, store.values)
}

func TestCompleteLoginExchangeFailureLeavesUnauthenticated(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{exchangeErr: assert.AnError}
	svc, store, _ := newAuthFixture(t, provider)

	rawURL := redirectIn + "?code=abc123"
	assert.Equal(t, rawURL, svc.CompleteLoginIfRedirected(context.Background(), rawURL))
	assert.Empty(t, store.values)
	assert.Equal(t, domain.AnonymousSubject, svc.SubjectID(context.Background()))
}

func TestSubjectIDDegradesToAnonymous(t *testing.T) {
	t.Parallel()

	t.Run("no bundle", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newAuthFixture(t, nil)
		assert.Equal(t, domain.AnonymousSubject, svc.SubjectID(context.Background()))
	})

	t.Run("expired bundle", func(t *testing.T) {
		t.Parallel()

		svc, store, clock := newAuthFixture(t, nil)
		idToken := signedIDToken(t, jwtlib.MapClaims{"sub": "user-123"})
		tokens := NewTokenStore(store, clock)
		require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
			IDToken:     idToken,
			AccessToken: "access-token",
			ExpiresIn:   60,
			ObtainedAt:  clock.Now().Add(-time.Hour).Unix(),
		}))

		assert.Equal(t, domain.AnonymousSubject, svc.SubjectID(context.Background()))
	})

	t.Run("undecodable identity token", func(t *testing.T) {
		t.Parallel()

		svc, store, clock := newAuthFixture(t, nil)
		tokens := NewTokenStore(store, clock)
		require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
			IDToken:     "not-a-jwt",
			AccessToken: "access-token",
			ExpiresIn:   3600,
			ObtainedAt:  clock.Now().Unix(),
		}))

		assert.Equal(t, domain.AnonymousSubject, svc.SubjectID(context.Background()))
	})

	t.Run("missing sub claim", func(t *testing.T) {
		t.Parallel()

		svc, store, clock := newAuthFixture(t, nil)
		idToken := signedIDToken(t, jwtlib.MapClaims{"email": "dev@example.com"})
		tokens := NewTokenStore(store, clock)
		require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
			IDToken:     idToken,
			AccessToken: "access-token",
			ExpiresIn:   3600,
			ObtainedAt:  clock.Now().Unix(),
		}))

		assert.Equal(t, domain.AnonymousSubject, svc.SubjectID(context.Background()))
	})
}

func TestCurrentIdentityDecodesClaims(t *testing.T) {
	t.Parallel()

	exp := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	idToken := signedIDToken(t, jwtlib.MapClaims{
		"sub":   "user-123",
		"email": "dev@example.com",
		"name":  "Dev Example",
		"exp":   float64(exp.Unix()),
	})
	svc, store, clock := newAuthFixture(t, nil)
	tokens := NewTokenStore(store, clock)
	require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
		IDToken:     idToken,
		AccessToken: "access-token",
		ExpiresIn:   3600,
		ObtainedAt:  clock.Now().Unix(),
	}))

	identity, ok := svc.CurrentIdentity(context.Background())
	require.True(t, ok)
	assert.Equal(t, "user-123", identity.SubjectID)
	assert.Equal(t, "dev@example.com", identity.Email)
	assert.Equal(t, "Dev Example", identity.DisplayName)
	assert.Equal(t, exp.Unix(), identity.ExpiresAt.Unix())
}

func TestLogoutClearsTokensBeforeReturningURL(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{logoutURL: "https://idp.example.com/logout"}
	svc, store, clock := newAuthFixture(t, provider)
	tokens := NewTokenStore(store, clock)
	require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
		IDToken:     "id-token",
		AccessToken: "access-token",
		ExpiresIn:   3600,
		ObtainedAt:  clock.Now().Unix(),
	}))

	url, err := svc.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/logout", url)
	assert.Empty(t, store.values)
}

func TestLogoutWithoutProviderStillClearsTokens(t *testing.T) {
	t.Parallel()

	svc, store, clock := newAuthFixture(t, nil)
	tokens := NewTokenStore(store, clock)
	require.NoError(t, tokens.Save(context.Background(), domain.TokenBundle{
		IDToken:     "id-token",
		AccessToken: "access-token",
		ExpiresIn:   3600,
		ObtainedAt:  clock.Now().Unix(),
	}))

	_, err := svc.Logout(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingEndpoint)
	assert.Empty(t, store.values)
}

func TestBeginLoginRequiresProvider(t *testing.T) {
	t.Parallel()

	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.BeginLogin()
	assert.ErrorIs(t, err, domain.ErrMissingEndpoint)
}
