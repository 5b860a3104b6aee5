package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/apexcoatings/backoffice/pkg/config"
	"github.com/apexcoatings/backoffice/pkg/crypto"
)

const stateLifetime = 10 * time.Minute

var (
	ErrInvalidState = errors.New("invalid oauth state")
	ErrStateExpired = errors.New("oauth state expired")
)

// Authenticator wraps the OIDC provider for the federated login flow.
type Authenticator struct {
	provider    *oidc.Provider
	oauthConfig oauth2.Config
	stateSecret []byte
}

func NewAuthenticator(ctx context.Context, cfg *config.OIDCConfig, stateSecret string) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc provider: %w", err)
	}

	return &Authenticator{
		provider: provider,
		oauthConfig: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "offline_access"},
		},
		stateSecret: []byte(stateSecret),
	}, nil
}

// AuthCodeURL builds the provider redirect URL for a signed state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for a token set.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.oauthConfig.Exchange(ctx, code)
}

// Claims are the profile fields copied onto the local user row at callback.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// VerifyIDToken verifies the id_token inside an oauth2 token and extracts the
// profile claims.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*Claims, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	verifier := a.provider.Verifier(&oidc.Config{ClientID: a.oauthConfig.ClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parsing claims: %w", err)
	}
	return &claims, nil
}

// Refresh re-exchanges a refresh token. Implements TokenRefresher.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := a.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return source.Token()
}

type oauthState struct {
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"exp"`
}

// SignedState produces an HMAC-signed, expiring state parameter so the
// callback can reject forged or replayed redirects.
func (a *Authenticator) SignedState() (string, error) {
	nonce, err := crypto.GenerateRandomString(24)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(oauthState{
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(stateLifetime).Unix(),
	})
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, a.stateSecret)
	mac.Write(payload)
	sig := mac.Sum(nil)

	return base64.URLEncoding.EncodeToString(append(payload, sig...)), nil
}

// VerifyState checks the signature and expiry of a state parameter.
func (a *Authenticator) VerifyState(encoded string) error {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < sha256.Size {
		return ErrInvalidState
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, a.stateSecret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return ErrInvalidState
	}

	var state oauthState
	if err := json.Unmarshal(payload, &state); err != nil {
		return ErrInvalidState
	}
	if time.Now().Unix() > state.ExpiresAt {
		return ErrStateExpired
	}
	return nil
}

var _ TokenRefresher = (*Authenticator)(nil)
