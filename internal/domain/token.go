package domain

import "time"

// ExpirySkewMargin is subtracted from the token lifetime so a bundle is
// treated as expired shortly before the provider would reject it.
const ExpirySkewMargin = 30 * time.Second

// TokenBundle is the persisted result of a code exchange. Field names follow
// the provider's token-endpoint response so the bundle round-trips through
// storage unchanged.
type TokenBundle struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ObtainedAt   int64  `json:"obtained_at"`
}

// ExpiresAt is the absolute expiry instant, before the skew margin.
func (b TokenBundle) ExpiresAt() time.Time {
	return time.Unix(b.ObtainedAt+b.ExpiresIn, 0)
}

// Expired reports whether the bundle should no longer be trusted at now.
func (b TokenBundle) Expired(now time.Time) bool {
	return !now.Before(b.ExpiresAt().Add(-ExpirySkewMargin))
}

// AnonymousSubject is the join key used for per-user backend calls when no
// valid identity exists.
const AnonymousSubject = "anonymous"

// Identity is derived from decoded identity-token claims. It is ephemeral,
// never persisted, and never used for authorization decisions.
type Identity struct {
	SubjectID   string
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}
