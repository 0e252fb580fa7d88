// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth delegates sign-in to an OpenID Connect identity provider
// (Auth0 compatible) using the authorization code flow with PKCE.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNotConfigured is returned when required provider settings are missing.
var ErrNotConfigured = errors.New("identity provider not configured")

// Config describes the identity provider application.
type Config struct {
	// Domain is the tenant host ("tenant.eu.auth0.com") or base URL.
	Domain       string
	ClientID     string
	ClientSecret string
	// BaseURL is this site's public URL; the callback lives under it.
	BaseURL string
	Scopes  []string
}

// Missing returns the environment variable names of unset settings.
func (c Config) Missing() []string {
	var missing []string
	if c.Domain == "" {
		missing = append(missing, "PORTFOLIO_AUTH_DOMAIN")
	}
	if c.ClientID == "" {
		missing = append(missing, "PORTFOLIO_AUTH_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "PORTFOLIO_AUTH_CLIENT_SECRET")
	}
	if c.BaseURL == "" {
		missing = append(missing, "PORTFOLIO_BASE_URL")
	}
	return missing
}

// Identity is the subset of OIDC userinfo claims the site keeps.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Provider runs the authorization code flow against one tenant.
type Provider struct {
	oauth       *oauth2.Config
	issuer      string
	userInfoURL string
	httpClient  *http.Client
}

// NewProvider validates cfg and builds a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}

	issuer := strings.TrimRight(cfg.Domain, "/")
	if !strings.Contains(issuer, "://") {
		issuer = "https://" + issuer
	}
	if _, err := url.Parse(issuer); err != nil {
		return nil, fmt.Errorf("%w: invalid domain: %w", ErrNotConfigured, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email"}
	}

	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + CallbackPath,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  issuer + "/authorize",
				TokenURL: issuer + "/oauth/token",
			},
		},
		issuer:      issuer,
		userInfoURL: issuer + "/userinfo",
		httpClient:  http.DefaultClient,
	}, nil
}

// CallbackPath is where the provider sends the browser back.
const CallbackPath = "/api/auth/callback"

// NewState returns a random value for the OAuth state parameter.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewVerifier returns a PKCE code verifier.
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL is the provider authorize URL for state and verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange trades the authorization code for tokens and fetches the
// userinfo claims.
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Identity{}, fmt.Errorf("exchanging code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("building userinfo request: %w", err)
	}
	resp, err := p.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Identity{}, fmt.Errorf("fetching userinfo: status %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if id.Subject == "" {
		return Identity{}, errors.New("userinfo has no subject")
	}
	return id, nil
}

// LogoutURL ends the provider session and returns the browser to returnTo.
func (p *Provider) LogoutURL(returnTo string) string {
	q := url.Values{
		"client_id": {p.oauth.ClientID},
		"returnTo":  {returnTo},
	}
	return p.issuer + "/v2/logout?" + q.Encode()
}
