package port

import (
	"context"
	"errors"
)

// ErrInvalidIdentityToken is returned when the provider rejects a token or code.
var ErrInvalidIdentityToken = errors.New("identity token rejected by provider")

// FederatedIdentity is what an external provider vouches for.
type FederatedIdentity struct {
	Subject     string
	Email       string
	DisplayName string
	ImageURL    string
}

// IdentityVerifier validates an opaque provider token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*FederatedIdentity, error)
}

// OAuthCodeExchanger drives the redirect/callback variant of federated login.
type OAuthCodeExchanger interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*FederatedIdentity, error)
}
