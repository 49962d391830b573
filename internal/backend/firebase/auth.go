package firebase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// authTimeout bounds identity provider calls.
const authTimeout = 30 * time.Second

// AuthClient talks to the Firebase identity provider.
type AuthClient struct {
	svc    *identitytoolkit.Service
	apiKey string
}

// NewAuthClient creates an identity client for the project identified by
// its web API key.
func NewAuthClient(ctx context.Context, apiKey string) (*AuthClient, error) {
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}
	return &AuthClient{svc: svc, apiKey: apiKey}, nil
}

// SignIn authenticates with email and password.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, wrapAuthError(err)
	}

	return Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignUp creates a new email/password account.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, wrapAuthError(err)
	}

	return Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignInWithGoogle exchanges a Google ID token obtained from the OAuth
// flow for a Firebase session (federated sign-in).
func (c *AuthClient) SignInWithGoogle(ctx context.Context, googleIDToken, redirectURI string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	postBody := url.Values{
		"id_token":   {googleIDToken},
		"providerId": {"google.com"},
	}
	resp, err := c.svc.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          postBody.Encode(),
		RequestUri:        redirectURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return Session{}, wrapAuthError(err)
	}

	return Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// wrapAuthError maps identity provider errors to user-facing messages.
// The endpoint reports failures as upper-snake reason codes in the error
// body.
func wrapAuthError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "EMAIL_NOT_FOUND"),
		strings.Contains(msg, "INVALID_PASSWORD"),
		strings.Contains(msg, "INVALID_LOGIN_CREDENTIALS"):
		return fmt.Errorf("invalid email or password")
	case strings.Contains(msg, "EMAIL_EXISTS"):
		return fmt.Errorf("an account with this email already exists")
	case strings.Contains(msg, "WEAK_PASSWORD"):
		return fmt.Errorf("password must be at least 6 characters")
	case strings.Contains(msg, "TOO_MANY_ATTEMPTS"):
		return fmt.Errorf("too many attempts, try again later")
	case strings.Contains(msg, "context deadline exceeded"):
		return fmt.Errorf("request timed out")
	}
	return err
}
