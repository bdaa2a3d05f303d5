// Package oidc talks to the identity provider's hosted endpoints: the login
// and logout pages the user navigates to, and the token endpoint the
// authorization code is exchanged against.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/intelliview/intelliview-cli/internal/domain"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

const maxTokenResponseBytes = 1 << 20

// Config holds the provider contract surface. Domain may carry an explicit
// scheme (used by tests); it defaults to https.
type Config struct {
	Domain      string
	ClientID    string
	RedirectIn  string
	RedirectOut string
	Scopes      []string
}

// DefaultScopes is the fixed scope set requested on login.
var DefaultScopes = []string{"openid", "email", "phone"}

type Provider struct {
	cfg    Config
	client *http.Client
}

var _ ports.IdentityProvider = (*Provider)(nil)

func NewProvider(cfg Config, client *http.Client) (*Provider, error) {
	if cfg.Domain == "" {
		return nil, errors.New("provider domain is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	if cfg.RedirectIn == "" {
		return nil, errors.New("inbound redirect uri is required")
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Provider{cfg: cfg, client: client}, nil
}

// LoginURL builds the hosted-UI authorize URL for the code flow.
func (p *Provider) LoginURL() (string, error) {
	endpoint, err := p.endpoint("/login")
	if err != nil {
		return "", err
	}

	q := endpoint.Query()
	q.Set("client_id", p.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(p.cfg.Scopes, " "))
	q.Set("redirect_uri", p.cfg.RedirectIn)
	endpoint.RawQuery = q.Encode()

	return endpoint.String(), nil
}

// LogoutURL builds the provider-side logout URL.
func (p *Provider) LogoutURL() (string, error) {
	endpoint, err := p.endpoint("/logout")
	if err != nil {
		return "", err
	}

	q := endpoint.Query()
	q.Set("client_id", p.cfg.ClientID)
	q.Set("logout_uri", p.cfg.RedirectOut)
	endpoint.RawQuery = q.Encode()

	return endpoint.String(), nil
}

// ExchangeCode swaps the one-time authorization code for a token bundle.
// The provider validates that redirect_uri matches the authorize request
// exactly. Non-2xx response bodies are surfaced verbatim as failure detail.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (domain.TokenBundle, error) {
	if code == "" {
		return domain.TokenBundle{}, fmt.Errorf("%w: authorization code is required", domain.ErrAuthExchange)
	}

	endpoint, err := p.endpoint("/oauth2/token")
	if err != nil {
		return domain.TokenBundle{}, err
	}

	values := url.Values{}
	values.Set("grant_type", "authorization_code")
	values.Set("client_id", p.cfg.ClientID)
	values.Set("code", code)
	values.Set("redirect_uri", p.cfg.RedirectIn)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("%w: %w", domain.ErrAuthExchange, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("%w: read token response: %w", domain.ErrAuthExchange, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.TokenBundle{}, fmt.Errorf("%w: token request failed: %s", domain.ErrAuthExchange, strings.TrimSpace(string(body)))
	}

	bundle, err := decodeTokenResponse(body)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("%w: %w", domain.ErrAuthExchange, err)
	}

	return bundle, nil
}

func (p *Provider) endpoint(path string) (*url.URL, error) {
	raw := p.cfg.Domain
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse provider domain: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("provider domain must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("provider domain host is required")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + path
	return parsed, nil
}
