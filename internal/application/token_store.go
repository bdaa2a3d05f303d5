package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

// TokenSlotKey is the single logical slot holding the persisted bundle.
const TokenSlotKey = "intelliview/tokens"

// TokenStore owns the persisted token slot. No other component reads the
// raw stored value.
type TokenStore struct {
	store ports.SecretStore
	clock ports.Clock
}

func NewTokenStore(store ports.SecretStore, clock ports.Clock) *TokenStore {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TokenStore{store: store, clock: clock}
}

// Save overwrites the slot wholesale. There are no merge semantics.
func (s *TokenStore) Save(ctx context.Context, bundle domain.TokenBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode token bundle: %w", err)
	}

	if err := s.store.Put(ctx, TokenSlotKey, string(payload)); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return nil
}

// Load returns the persisted bundle, or ok=false when the slot is empty,
// unparseable, or past expiry-minus-margin. Malformed and expired slots are
// cleared as a side effect so a stale record can never block a fresh login.
func (s *TokenStore) Load(ctx context.Context) (domain.TokenBundle, bool, error) {
	raw, err := s.store.Get(ctx, TokenSlotKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return domain.TokenBundle{}, false, nil
		}
		return domain.TokenBundle{}, false, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	var bundle domain.TokenBundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		_ = s.Clear(ctx)
		return domain.TokenBundle{}, false, nil
	}

	if bundle.Expired(s.clock.Now()) {
		_ = s.Clear(ctx)
		return domain.TokenBundle{}, false, nil
	}

	return bundle, true, nil
}

// Clear is idempotent: it succeeds even when nothing is stored.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenSlotKey); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	return nil
}
