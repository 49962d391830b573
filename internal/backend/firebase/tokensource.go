package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// secureTokenURL is the Firebase token refresh endpoint.
const secureTokenURL = "https://securetoken.googleapis.com/v1/token"

// TokenSource returns an auto-refreshing source of the session's ID
// token, suitable for authenticating the document store client. The
// session is updated in place on every refresh so callers can re-persist
// it.
func TokenSource(ctx context.Context, apiKey string, sess *Session) oauth2.TokenSource {
	seed := &oauth2.Token{
		AccessToken: sess.IDToken,
		TokenType:   "Bearer",
		Expiry:      sess.Expiry,
	}
	return oauth2.ReuseTokenSource(seed, &refreshSource{
		ctx:    ctx,
		apiKey: apiKey,
		sess:   sess,
	})
}

// refreshSource refreshes expired ID tokens through the secure-token
// endpoint, the Firebase analog of an OAuth refresh grant.
type refreshSource struct {
	ctx    context.Context
	apiKey string
	sess   *Session
}

func (s *refreshSource) Token() (*oauth2.Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.sess.RefreshToken},
	}
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost,
		secureTokenURL+"?key="+url.QueryEscape(s.apiKey),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session expired or revoked (run: taskboard login)")
	}

	var body struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid refresh response: %w", err)
	}

	seconds, err := strconv.ParseInt(body.ExpiresIn, 10, 64)
	if err != nil {
		seconds = 3600
	}
	expiry := time.Now().Add(time.Duration(seconds) * time.Second)

	s.sess.IDToken = body.IDToken
	s.sess.RefreshToken = body.RefreshToken
	s.sess.Expiry = expiry

	return &oauth2.Token{
		AccessToken: body.IDToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}
