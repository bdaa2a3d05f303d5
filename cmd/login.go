package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	oidcadapter "github.com/intelliview/intelliview-cli/internal/adapters/oidc"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the identity provider's hosted login page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, app)
		},
	}
}

// runLogin is the CLI rendition of the two-phase redirect protocol: the
// authorize URL is printed for the user to open, a loopback server on the
// registered redirect URI receives the provider's redirect, and the
// resumption step consumes the one-time code from the redirected URL.
func runLogin(cmd *cobra.Command, app *app) error {
	provider, err := app.identityProvider()
	if err != nil {
		return err
	}
	auth := app.authService(provider)

	server, err := oidcadapter.StartCallbackServer(app.cfg.RedirectIn)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	loginURL, err := auth.BeginLogin()
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build login url: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n%s\n", loginURL)

	redirectedURL, err := server.WaitForRedirect(app.cfg.CallbackTimeout)
	if err != nil {
		return fmt.Errorf("wait for login redirect: %w", err)
	}

	auth.CompleteLoginIfRedirected(cmd.Context(), redirectedURL)

	identity, ok := auth.CurrentIdentity(cmd.Context())
	if !ok {
		return errors.New("login did not complete; try again")
	}

	who := identity.DisplayName
	if who == "" {
		who = identity.Email
	}
	if who == "" {
		who = identity.SubjectID
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", who)
	return nil
}
