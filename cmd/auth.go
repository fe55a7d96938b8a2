package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/martishin/movie-search-service/internal/server"
	"github.com/martishin/movie-search-service/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin signs in with email and password and stores the session cookie.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
	}

	r.logger.Infof("signing in as %v", email)

	if err := r.session.Login(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Signed in as %s\n", r.session.Current().DisplayName())
}

// AuthSignUp creates an account on the movie service and signs in.
func (r *Runner) AuthSignUp(ctx context.Context, cmd *cli.Command) error {
	firstName := cmd.String("first-name")
	lastName := cmd.String("last-name")
	email := cmd.String("email")
	password := cmd.String("password")

	if password == "" {
		var err error
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
	}

	r.logger.Infof("creating account for %v", email)

	if err := r.session.SignUp(ctx, firstName, lastName, email, password); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Account created, signed in as %s\n", r.session.Current().DisplayName())
}

// AuthGoogle runs the browser OAuth flow. The local server only captures the
// authorization code; the movie service performs the token exchange and sets
// the session cookie.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if config.OAuth.ClientID == "" {
		return fmt.Errorf("%w: oauth client_id not configured", shared.ErrMissingCredentials)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.OAuth.ClientID,
		ClientSecret: config.OAuth.ClientSecret,
		RedirectURL:  config.OAuth.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  config.OAuth.AuthURL,
			TokenURL: config.OAuth.TokenURL,
		},
	}

	result, err := r.doOAuth(oauthConfig, config.OAuth.RedirectURI)
	if err != nil {
		return err
	}

	r.logger.Info("forwarding authorization code to the movie service")

	if err := r.session.ForwardAuthCode(ctx, result.Code, result.State); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Signed in as %s\n", r.session.Current().DisplayName())
}

// doOAuth opens the browser at the provider's consent page and waits for the
// redirect on a local HTTP server.
func (r *Runner) doOAuth(oauthConfig *oauth2.Config, redirectURI string) (server.CallbackResult, error) {
	var result server.CallbackResult

	state, err := shared.GenerateState()
	if err != nil {
		return result, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(callbackHandler)

	redirect, err := url.Parse(redirectURI)
	if err != nil {
		return result, fmt.Errorf("%w: invalid redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	httpServer := &http.Server{
		Addr:    redirect.Host,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", redirect.Host)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return result, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return result, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return result, fmt.Errorf("authorization failed: %w", result.Error())
	}

	return result, nil
}

// AuthImportCookies extracts the session cookie from a browser cURL command
// and adopts it for the local session.
func (r *Runner) AuthImportCookies(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	var headers *shared.CurlHeaders
	var err error

	switch {
	case curlFile != "":
		headers, err = shared.ParseCurlFile(curlFile)
	case curlCmd != "":
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
	default:
		return fmt.Errorf("%w: provide --curl or --curl-file", shared.ErrMissingArgument)
	}

	if err != nil {
		return err
	}

	if headers.Cookie == "" {
		return fmt.Errorf("%w: no Cookie header in cURL command", shared.ErrInvalidInput)
	}

	if err := r.session.ImportCookies(ctx, headers.Cookie); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Session imported, signed in as %s\n", r.session.Current().DisplayName())
}

// AuthLogout signs out and drops the session cookie.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(ctx); err != nil {
		return err
	}
	return r.writePlainln("✓ Signed out")
}

// AuthWhoami shows the signed-in user, refreshing the identity first.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Refresh(ctx); err != nil {
		r.logger.Warnf("failed to refresh session %v", err)
	}

	identity := r.session.Current()

	if cmd.Bool("json") {
		return r.writeJSON(identity, true)
	}

	if !r.session.IsAuthenticated() {
		return r.writePlainln("✗ Not signed in")
	}

	r.writePlain("✓ Signed in as %s\n", identity.DisplayName())
	if identity.Email != "" {
		r.writePlain("Email: %s\n", identity.Email)
	}
	return nil
}

// promptPassword reads a password from stdin.
func (r *Runner) promptPassword(prompt string) (string, error) {
	r.writePlain("%s", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: failed to read password: %v", shared.ErrMissingCredentials, err)
	}
	password := strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("%w: password is required", shared.ErrMissingCredentials)
	}
	return password, nil
}
