package ports

import "context"

// SecretStore persists opaque secret values. Absence is reported with
// domain.ErrSecretNotFound so callers can tell an empty slot from a broken
// storage medium.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
