package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	backendadapter "github.com/intelliview/intelliview-cli/internal/adapters/backend"
	oidcadapter "github.com/intelliview/intelliview-cli/internal/adapters/oidc"
	tomlrepo "github.com/intelliview/intelliview-cli/internal/adapters/repo/toml"
	filestore "github.com/intelliview/intelliview-cli/internal/adapters/secrets/file"
	"github.com/intelliview/intelliview-cli/internal/application"
	"github.com/intelliview/intelliview-cli/internal/ports"
)

type app struct {
	cfg        appConfig
	logger     zerolog.Logger
	httpClient *http.Client
	clock      ports.Clock
	tokens     *application.TokenStore
	gateway    ports.BackendGateway
	sessions   *application.SessionsService
}

type appConfig struct {
	Domain               string
	ClientID             string
	RedirectIn           string
	RedirectOut          string
	InterviewEndpoint    string
	BaseEndpoint         string
	ListSessionsEndpoint string
	SecretsDir           string
	CallbackTimeout      time.Duration
}

func wireApp() (*app, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	secretStore := filestore.NewStore(cfg.SecretsDir)
	clock := ports.SystemClock{}
	tokens := application.NewTokenStore(secretStore, clock)

	gateway := backendadapter.NewGateway(backendadapter.Config{
		InterviewEndpoint:    cfg.InterviewEndpoint,
		BaseEndpoint:         cfg.BaseEndpoint,
		ListSessionsEndpoint: cfg.ListSessionsEndpoint,
	}, http.DefaultClient)

	archive, err := tomlrepo.NewArchive(viper.New())
	if err != nil {
		// Archive is best-effort; reviews fall back to the backend only.
		logger.Warn().Err(err).Msg("transcript archive unavailable")
		archive = nil
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		httpClient: http.DefaultClient,
		clock:      clock,
		tokens:     tokens,
		gateway:    gateway,
		sessions:   application.NewSessionsService(gateway, archiveOrNil(archive), logger),
	}, nil
}

func loadConfig() (appConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("IV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return appConfig{}, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetDefault("idp.domain", "")
	v.SetDefault("idp.client.id", "")
	v.SetDefault("idp.redirect.in", "http://localhost:4180/callback")
	v.SetDefault("idp.redirect.out", "http://localhost:4180/")
	v.SetDefault("backend.interview.endpoint", "")
	v.SetDefault("backend.base.endpoint", "")
	v.SetDefault("backend.sessions.endpoint", "")
	v.SetDefault("secrets.dir", defaultSecretsDir(homeDir))
	v.SetDefault("callback.timeout", "5m")

	return appConfig{
		Domain:               v.GetString("idp.domain"),
		ClientID:             v.GetString("idp.client.id"),
		RedirectIn:           v.GetString("idp.redirect.in"),
		RedirectOut:          v.GetString("idp.redirect.out"),
		InterviewEndpoint:    v.GetString("backend.interview.endpoint"),
		BaseEndpoint:         v.GetString("backend.base.endpoint"),
		ListSessionsEndpoint: v.GetString("backend.sessions.endpoint"),
		SecretsDir:           v.GetString("secrets.dir"),
		CallbackTimeout:      v.GetDuration("callback.timeout"),
	}, nil
}

func defaultSecretsDir(homeDir string) string {
	return homeDir + "/.intelliview/secrets"
}

func archiveOrNil(archive *tomlrepo.Archive) ports.TranscriptArchive {
	if archive == nil {
		return nil
	}
	return archive
}

// identityProvider builds the provider client for the configured domain.
// Missing identity config fails the calling command, not the process.
func (a *app) identityProvider() (ports.IdentityProvider, error) {
	provider, err := oidcadapter.NewProvider(oidcadapter.Config{
		Domain:      a.cfg.Domain,
		ClientID:    a.cfg.ClientID,
		RedirectIn:  a.cfg.RedirectIn,
		RedirectOut: a.cfg.RedirectOut,
	}, a.httpClient)
	if err != nil {
		return nil, fmt.Errorf("identity provider not configured: %w", err)
	}

	return provider, nil
}

func (a *app) authService(provider ports.IdentityProvider) *application.AuthService {
	return application.NewAuthService(a.tokens, provider, a.cfg.RedirectIn, a.clock, a.logger)
}

// subjectID is the per-user join key for backend calls. It degrades to the
// anonymous subject when no valid identity exists.
func (a *app) subjectID(ctx context.Context) string {
	return a.authService(nil).SubjectID(ctx)
}
