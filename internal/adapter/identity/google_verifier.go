package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"quiz-hub/internal/config"
	"quiz-hub/internal/dto"
	"quiz-hub/internal/logger"
	"quiz-hub/internal/port"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleIdentityVerifier resolves Google OAuth tokens and codes into a FederatedIdentity.
type GoogleIdentityVerifier struct {
	oauthConfig  *oauth2.Config
	userInfoURL  string
	tokenInfoURL string
	httpClient   *http.Client
}

var (
	_ port.IdentityVerifier   = (*GoogleIdentityVerifier)(nil)
	_ port.OAuthCodeExchanger = (*GoogleIdentityVerifier)(nil)
)

type Option func(*GoogleIdentityVerifier)

// WithEndpoint overrides the OAuth endpoint, mostly for tests.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(v *GoogleIdentityVerifier) { v.oauthConfig.Endpoint = endpoint }
}

// WithHTTPClient sets the base client used for token exchange and userinfo calls.
func WithHTTPClient(client *http.Client) Option {
	return func(v *GoogleIdentityVerifier) { v.httpClient = client }
}

func NewGoogleIdentityVerifier(cfg config.GoogleOAuthConfig, opts ...Option) *GoogleIdentityVerifier {
	v := &GoogleIdentityVerifier{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL:  cfg.UserInfoURL,
		tokenInfoURL: cfg.TokenInfoURL,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify treats token as an access token. The token must have been issued to
// our OAuth client before the userinfo endpoint is asked who it belongs to.
func (v *GoogleIdentityVerifier) Verify(ctx context.Context, token string) (*port.FederatedIdentity, error) {
	if token == "" {
		return nil, port.ErrInvalidIdentityToken
	}
	if err := v.checkAudience(ctx, token); err != nil {
		return nil, err
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return v.fetchUserInfo(ctx, src)
}

// tokenInfo is the part of the tokeninfo response that binds a token to a client.
type tokenInfo struct {
	Audience        string `json:"aud"`
	AuthorizedParty string `json:"azp"`
}

func (v *GoogleIdentityVerifier) checkAudience(ctx context.Context, token string) error {
	clientID := v.oauthConfig.ClientID
	if clientID == "" {
		return fmt.Errorf("%w: no OAuth client configured", port.ErrInvalidIdentityToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.tokenInfoURL, nil)
	if err != nil {
		return fmt.Errorf("build tokeninfo request: %w", err)
	}
	q := url.Values{}
	q.Set("access_token", token)
	req.URL.RawQuery = q.Encode()

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized:
		return port.ErrInvalidIdentityToken
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("decode tokeninfo: %w", err)
	}
	if info.Audience != clientID && info.AuthorizedParty != clientID {
		logger.Get().Warn("Google token issued to another client", zap.String("aud", info.Audience))
		return fmt.Errorf("%w: token audience mismatch", port.ErrInvalidIdentityToken)
	}
	return nil
}

func (v *GoogleIdentityVerifier) AuthCodeURL(state string) string {
	return v.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (v *GoogleIdentityVerifier) ExchangeCode(ctx context.Context, code string) (*port.FederatedIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	tok, err := v.oauthConfig.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %s", port.ErrInvalidIdentityToken, retrieveErr.ErrorCode)
		}
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return v.fetchUserInfo(ctx, v.oauthConfig.TokenSource(ctx, tok))
}

func (v *GoogleIdentityVerifier) fetchUserInfo(ctx context.Context, src oauth2.TokenSource) (*port.FederatedIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	client := oauth2.NewClient(ctx, src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		return nil, port.ErrInvalidIdentityToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		logger.Get().Warn("Google account has no verified email", zap.String("subject", info.ID))
		return nil, fmt.Errorf("%w: email not verified", port.ErrInvalidIdentityToken)
	}

	return &port.FederatedIdentity{
		Subject:     info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
		ImageURL:    info.Picture,
	}, nil
}
