package application

import (
	"context"
	"net/url"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

// AuthService drives the authorization-code flow and owns the token slot.
// Login and logout are two-phase: the service emits a provider URL and the
// caller performs the navigation, so all state round-trips through the
// TokenStore rather than through memory.
type AuthService struct {
	tokens     *TokenStore
	provider   ports.IdentityProvider
	redirectIn string
	clock      ports.Clock
	logger     zerolog.Logger
}

func NewAuthService(tokens *TokenStore, provider ports.IdentityProvider, redirectIn string, clock ports.Clock, logger zerolog.Logger) *AuthService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &AuthService{
		tokens:     tokens,
		provider:   provider,
		redirectIn: redirectIn,
		clock:      clock,
		logger:     logger,
	}
}

// BeginLogin returns the provider's authorize URL. It changes no local state.
func (s *AuthService) BeginLogin() (string, error) {
	if s.provider == nil {
		return "", domain.ErrMissingEndpoint
	}

	return s.provider.LoginURL()
}

// CompleteLoginIfRedirected inspects rawURL for an authorization code. With
// no code present it is a no-op. With a code it exchanges and persists the
// bundle, then returns the bare inbound-redirect URL so the one-time code is
// never replayed. Failures are logged and leave the user unauthenticated;
// the returned URL is rawURL unchanged so the caller lands back on the
// unauthenticated flow.
func (s *AuthService) CompleteLoginIfRedirected(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	code := parsed.Query().Get("code")
	if code == "" || s.provider == nil {
		return rawURL
	}

	bundle, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("oidc token exchange failed")
		return rawURL
	}
	bundle.ObtainedAt = s.clock.Now().Unix()

	if err := s.tokens.Save(ctx, bundle); err != nil {
		s.logger.Error().Err(err).Msg("persist token bundle failed")
		return rawURL
	}

	return s.redirectIn
}

// CurrentIdentity decodes the persisted identity token's claims. No
// signature verification happens client-side: the result is for display and
// for deriving the subject id only, never for authorization decisions.
func (s *AuthService) CurrentIdentity(ctx context.Context) (domain.Identity, bool) {
	bundle, ok, err := s.tokens.Load(ctx)
	if err != nil || !ok {
		return domain.Identity{}, false
	}

	identity, err := decodeIdentity(bundle.IDToken)
	if err != nil {
		return domain.Identity{}, false
	}

	return identity, true
}

// SubjectID is the join key for per-user backend calls. Every failure mode
// degrades to the anonymous subject, never an error.
func (s *AuthService) SubjectID(ctx context.Context) string {
	identity, ok := s.CurrentIdentity(ctx)
	if !ok || identity.SubjectID == "" {
		return domain.AnonymousSubject
	}

	return identity.SubjectID
}

// Logout clears the token slot first and then returns the provider's logout
// URL, so a navigation that never happens cannot leave stale tokens behind.
func (s *AuthService) Logout(ctx context.Context) (string, error) {
	if err := s.tokens.Clear(ctx); err != nil {
		return "", err
	}

	if s.provider == nil {
		return "", domain.ErrMissingEndpoint
	}

	return s.provider.LogoutURL()
}

func decodeIdentity(idToken string) (domain.Identity, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(idToken, jwtlib.MapClaims{})
	if err != nil {
		return domain.Identity{}, err
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrMalformedState
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	exp, _ := claims["exp"].(float64)

	return domain.Identity{
		SubjectID:   sub,
		Email:       email,
		DisplayName: name,
		ExpiresAt:   time.Unix(int64(exp), 0),
	}, nil
}
