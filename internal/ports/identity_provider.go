package ports

import (
	"context"

	"github.com/intelliview/intelliview-cli/internal/domain"
)

// IdentityProvider abstracts the OIDC provider's hosted endpoints. LoginURL
// and LogoutURL are navigation intents: the caller is responsible for
// executing them, the provider owns everything that happens in between.
type IdentityProvider interface {
	LoginURL() (string, error)
	LogoutURL() (string, error)
	ExchangeCode(ctx context.Context, code string) (domain.TokenBundle, error)
}
