package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/term"

	"taskboard/internal/backend/firebase"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/store"
)

const (
	// OAuth scopes for federated Google sign-in
	oauthScopeEmail   = "email"
	oauthScopeProfile = "profile"
	oauthScopeOpenID  = "openid"

	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: email/password sign-in by
// default, federated Google sign-in with --google.
type LoginCmd struct {
	email    string
	password string
	google   bool
}

// SetCredentials sets the credentials (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string {
	return "taskboard login [--email <address>] [--google] [common flags]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.google, "google", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *firebase.Session, st store.Store, args []string, out, errOut io.Writer) int {
	if !cfg.HasProject() {
		printProjectHelp(errOut, cfg)
		return exitcode.AuthError
	}
	project, err := cfg.LoadProject()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	// Already signed in with a usable session?
	if cfg.HasSession() {
		if existing, err := firebase.LoadSession(cfg.SessionPath()); err == nil && existing.UID != "" {
			if !cfg.Quiet {
				fmt.Fprintf(out, "already logged in as %s\n", existing.Email)
			}
			return exitcode.Success
		}
	}

	auth, err := firebase.NewAuthClient(ctx, project.APIKey)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	var session firebase.Session
	if c.google {
		session, err = c.loginWithGoogle(ctx, cfg, project, auth, out, errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	} else {
		email, password, code := c.readCredentials(errOut)
		if code != exitcode.Success {
			return code
		}
		session, err = auth.SignIn(ctx, email, password)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := firebase.SaveSession(cfg.SessionPath(), &session); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", session.Email)
	}
	return exitcode.Success
}

// readCredentials collects the email and password, prompting on the
// terminal for whichever was not passed as a flag.
func (c *LoginCmd) readCredentials(errOut io.Writer) (email, password string, code int) {
	email = strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprint(errOut, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintln(errOut, "error: email required")
			return "", "", exitcode.UserError
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return "", "", exitcode.UserError
	}

	password = c.password
	if password == "" {
		var err error
		password, err = readPassword(errOut, "Password: ")
		if err != nil {
			fmt.Fprintln(errOut, "error: password required")
			return "", "", exitcode.UserError
		}
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return "", "", exitcode.UserError
	}
	return email, password, exitcode.Success
}

// loginWithGoogle runs the loopback OAuth flow against Google, then
// exchanges the resulting ID token for a Firebase session. First-time
// federated sign-ins also get a profile document.
func (c *LoginCmd) loginWithGoogle(ctx context.Context, cfg *config.Config, project config.Project, auth *firebase.AuthClient, out, errOut io.Writer) (firebase.Session, error) {
	if !cfg.HasOAuthClient() {
		printOAuthClientHelp(errOut, cfg)
		return firebase.Session{}, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return firebase.Session{}, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, oauthScopeOpenID, oauthScopeEmail, oauthScopeProfile)
	if err != nil {
		return firebase.Session{}, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Find available port
	port, listener, err := findAvailablePort()
	if err != nil {
		return firebase.Session{}, fmt.Errorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	redirectURL := fmt.Sprintf("http://localhost:%d/callback", port)
	oauthConfig.RedirectURL = redirectURL

	// Generate PKCE verifier
	verifier := oauth2.GenerateVerifier()

	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	// Start callback server
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for callback or timeout
	var code string
	select {
	case code = <-codeCh:
		// Got code
	case err := <-errCh:
		return firebase.Session{}, err
	case <-time.After(oauthCallbackTimeout):
		return firebase.Session{}, fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return firebase.Session{}, fmt.Errorf("cancelled")
	}

	// Shutdown server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	// Exchange code for token
	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return firebase.Session{}, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return firebase.Session{}, fmt.Errorf("no id_token in token response")
	}

	session, err := auth.SignInWithGoogle(ctx, idToken, redirectURL)
	if err != nil {
		return firebase.Session{}, err
	}

	// Create the profile document on first sign-in. A failure here is
	// not fatal to the login.
	ts := firebase.TokenSource(ctx, project.APIKey, &session)
	if st, err := firebase.NewStore(ctx, project.ProjectID, session.UID, ts); err == nil {
		if err := st.EnsureProfile(ctx, session.Email, session.DisplayName); err != nil && cfg.Debug {
			fmt.Fprintf(errOut, "debug: ensure profile: %v\n", err)
		}
		st.Close()
	}

	return session, nil
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		addr := fmt.Sprintf("localhost:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

// readPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise.
func readPassword(errOut io.Writer, prompt string) (string, error) {
	fmt.Fprint(errOut, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// printProjectHelp explains how to point the CLI at a Firebase project.
func printProjectHelp(errOut io.Writer, cfg *config.Config) {
	fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.ProjectFile, cfg.Dir)
	fmt.Fprintln(errOut, "To connect taskboard to your Firebase project:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.firebase.google.com/")
	fmt.Fprintln(errOut, "2. Open (or create) your project and enable Firestore and Authentication")
	fmt.Fprintln(errOut, "3. Under Project settings, copy the project ID and the web API key")
	fmt.Fprintln(errOut, "4. Save them as:")
	fmt.Fprintf(errOut, "   %s\n", cfg.ProjectPath())
	fmt.Fprintln(errOut, "   with contents:")
	fmt.Fprintln(errOut, `   {"projectId": "<your-project-id>", "apiKey": "<your-web-api-key>"}`)
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'taskboard login' again.")
}

// printOAuthClientHelp explains how to obtain OAuth desktop credentials
// for federated sign-in.
func printOAuthClientHelp(errOut io.Writer, cfg *config.Config) {
	fmt.Fprintf(errOut, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
	fmt.Fprintln(errOut, "Federated Google sign-in needs OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create OAuth 2.0 credentials:")
	fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(errOut, "   - Download the JSON file")
	fmt.Fprintln(errOut, "3. Save it as:")
	fmt.Fprintf(errOut, "   %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'taskboard login --google' again.")
}
