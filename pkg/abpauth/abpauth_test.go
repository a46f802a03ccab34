package abpauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/pkg/abpauth"
	"github.com/dmitrymomot/abpadmin/pkg/config"
)

func tokenServer(t *testing.T, wantGrant string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, wantGrant, r.PostForm.Get("grant_type"))
		assert.Equal(t, "abpadmin", r.PostForm.Get("client_id"))
		if wantGrant == "password" {
			assert.Equal(t, "admin", r.PostForm.Get("username"))
			assert.Equal(t, "1q2w3E*", r.PostForm.Get("password"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + wantGrant,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenSource(t *testing.T) {
	t.Parallel()

	t.Run("static token wins", func(t *testing.T) {
		ts, err := abpauth.TokenSource(context.Background(), config.Auth{AccessToken: "static", Username: "x"})
		require.NoError(t, err)
		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "static", tok.AccessToken)
	})

	t.Run("password grant", func(t *testing.T) {
		srv := tokenServer(t, "password")
		ts, err := abpauth.TokenSource(context.Background(), config.Auth{
			TokenURL: srv.URL, ClientID: "abpadmin", Username: "admin", Password: "1q2w3E*",
		})
		require.NoError(t, err)
		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-password", tok.AccessToken)
	})

	t.Run("client credentials", func(t *testing.T) {
		srv := tokenServer(t, "client_credentials")
		ts, err := abpauth.TokenSource(context.Background(), config.Auth{
			TokenURL: srv.URL, ClientID: "abpadmin", ClientSecret: "s",
		})
		require.NoError(t, err)
		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-client_credentials", tok.AccessToken)
	})

	t.Run("missing token url", func(t *testing.T) {
		_, err := abpauth.TokenSource(context.Background(), config.Auth{ClientID: "abpadmin"})
		assert.ErrorIs(t, err, abpauth.ErrMissingTokenURL)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := abpauth.TokenSource(context.Background(), config.Auth{})
		assert.ErrorIs(t, err, abpauth.ErrNoCredentials)
	})

	t.Run("rejected password", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer srv.Close()
		_, err := abpauth.TokenSource(context.Background(), config.Auth{
			TokenURL: srv.URL, ClientID: "abpadmin", Username: "admin", Password: "bad",
		})
		assert.ErrorIs(t, err, abpauth.ErrTokenRequest)
	})
}
