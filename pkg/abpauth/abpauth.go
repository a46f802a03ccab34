// Package abpauth turns config.Auth into an oauth2.TokenSource for the ABP
// (OpenIddict) token endpoint.
//
// Precedence: a static access token, then the resource owner password grant,
// then client credentials. The returned source refreshes tokens on its own.
package abpauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dmitrymomot/abpadmin/pkg/config"
)

var (
	ErrNoCredentials   = errors.New("abpauth: no access token, password or client credentials configured")
	ErrMissingTokenURL = errors.New("abpauth: token URL is required")
	ErrTokenRequest    = errors.New("abpauth: token request failed")
)

// TokenSource builds a token source from cfg. ctx is used for the initial
// password grant exchange and for later refreshes.
func TokenSource(ctx context.Context, cfg config.Auth) (oauth2.TokenSource, error) {
	if cfg.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}), nil
	}
	if cfg.TokenURL == "" {
		if cfg.Username != "" || cfg.ClientID != "" {
			return nil, ErrMissingTokenURL
		}
		return nil, ErrNoCredentials
	}

	switch {
	case cfg.Username != "":
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
			Scopes:       cfg.Scopes,
		}
		tok, err := oc.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return nil, errors.Join(ErrTokenRequest, err)
		}
		return oc.TokenSource(ctx, tok), nil
	case cfg.ClientID != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		return cc.TokenSource(ctx), nil
	}
	return nil, ErrNoCredentials
}
