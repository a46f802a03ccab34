package abpfake

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

// TokenLifetime is the expires_in of issued access tokens.
const TokenLifetime = time.Hour

// AccessClaims are the claims of issued access tokens, named as ABP names them.
type AccessClaims struct {
	TenantID   string `json:"tenantid,omitempty"`
	TenantName string `json:"tenantname,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	Scope      string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// IssueToken signs an access token for subject, scoped to tenant when it
// names an existing tenant.
func (s *Server) IssueToken(subject, tenant string) (string, error) {
	s.mu.Lock()
	claims := s.claims(subject, "", "", tenant)
	s.mu.Unlock()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Server) claims(subject, clientID, scope, tenant string) AccessClaims {
	now := time.Now()
	c := AccessClaims{
		ClientID: clientID,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    "abpfake",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	for _, t := range s.tenants {
		if tenant != "" && (strings.EqualFold(t.Name, tenant) || t.ID.String() == tenant) {
			c.TenantID = t.ID.String()
			c.TenantName = t.Name
			break
		}
	}
	return c
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request"})
		return
	}
	clientID, secret, ok := r.BasicAuth()
	if !ok {
		clientID, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	tenant := r.Header.Get(restclient.TenantHeader)
	if tenant == "" {
		tenant = r.PostForm.Get(restclient.TenantHeader)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) > 0 {
		if want, known := s.clients[clientID]; !known || want != secret {
			writeJSON(w, http.StatusUnauthorized, oauthError{Error: "invalid_client"})
			return
		}
	}

	var subject string
	switch r.PostForm.Get("grant_type") {
	case "client_credentials":
		subject = clientID
	case "password":
		user := r.PostForm.Get("username")
		if (user != s.profile.UserName && !strings.EqualFold(user, s.profile.Email)) || r.PostForm.Get("password") != s.password {
			writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_grant", Description: "Invalid username or password!"})
			return
		}
		subject = s.userID.String()
	default:
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "unsupported_grant_type"})
		return
	}

	scope := r.PostForm.Get("scope")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(subject, clientID, scope, tenant)).SignedString(s.signingKey)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(TokenLifetime.Seconds()),
		Scope:       scope,
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireJWT {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, businessError(http.StatusUnauthorized, "", "Unauthorized"))
			return
		}
		_, err := jwt.ParseWithClaims(raw, &AccessClaims{}, func(*jwt.Token) (any, error) {
			return s.signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			writeError(w, businessError(http.StatusUnauthorized, "", "Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
