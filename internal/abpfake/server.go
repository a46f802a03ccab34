package abpfake

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/correlation"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

// Default credentials of the seeded admin user.
const (
	AdminUserName = "admin"
	AdminEmail    = "admin@abp.io"
	AdminPassword = "1q2w3E*"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Tenant        string
	CorrelationID string
	Body          []byte
}

type injected struct {
	err  *restclient.RemoteError
	once bool
}

// Server is the fake ABP host. The zero value is not usable; call New.
type Server struct {
	mu sync.Mutex

	general   account.GeneralSettings
	ldap      account.LdapSettings
	twoFactor account.TwoFactorSettings
	captcha   account.CaptchaSettings
	external  account.ExternalProviderSettings

	tenants     []tenantmanagement.Tenant
	connStrings map[uuid.UUID]string

	userID       uuid.UUID
	profile      account.Profile
	password     string
	picture      account.ProfilePicture
	twoFactorOn  bool
	users        []account.IdentityUser
	resetTokens  map[string]string
	userPictures map[uuid.UUID]account.ProfilePicture

	signingKey []byte
	clients    map[string]string
	requireJWT bool

	failures map[string]injected
	requests []Request
	logger   *slog.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSigningKey sets the HMAC key access tokens are signed with.
func WithSigningKey(key []byte) Option {
	return func(s *Server) { s.signingKey = key }
}

// WithClient registers an OAuth client for the token endpoint. Without any
// registered client every client id is accepted.
func WithClient(id, secret string) Option {
	return func(s *Server) { s.clients[id] = secret }
}

// WithRequireToken makes every API call require a valid bearer token.
func WithRequireToken() Option {
	return func(s *Server) { s.requireJWT = true }
}

// WithTenants seeds tenants.
func WithTenants(tenants ...tenantmanagement.Tenant) Option {
	return func(s *Server) { s.tenants = append(s.tenants, tenants...) }
}

// New returns a server seeded with ABP's default settings and one admin user.
func New(opts ...Option) *Server {
	s := &Server{
		general:   account.GeneralSettings{IsSelfRegistrationEnabled: true, EnableLocalLogin: true},
		twoFactor: account.TwoFactorSettings{IsRememberBrowserEnabled: true, UsersCanChange: true},
		captcha: account.CaptchaSettings{
			VerifyBaseURL: "https://www.google.com/",
			Version:       3,
			Score:         0.5,
		},
		external: account.ExternalProviderSettings{Settings: []account.ExternalProvider{
			{
				Name:             "Google",
				Properties:       []account.ProviderProperty{{Name: "ClientId"}},
				SecretProperties: []account.ProviderProperty{{Name: "ClientSecret"}},
			},
			{
				Name:             "Microsoft",
				Properties:       []account.ProviderProperty{{Name: "ClientId"}},
				SecretProperties: []account.ProviderProperty{{Name: "ClientSecret"}},
			},
		}},
		connStrings:  map[uuid.UUID]string{},
		userID:       uuid.New(),
		profile:      account.Profile{UserName: AdminUserName, Email: AdminEmail, HasPassword: true, ConcurrencyStamp: uuid.NewString()},
		password:     AdminPassword,
		resetTokens:  map[string]string{},
		userPictures: map[uuid.UUID]account.ProfilePicture{},
		signingKey:   []byte("abpfake-signing-key"),
		clients:      map[string]string{},
		failures:     map[string]injected{},
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler serving the fake API.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(correlation.Middleware)
	r.Use(s.record)
	r.Use(s.inject)

	r.Post("/connect/token", s.token)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/api/abp/multi-tenancy/tenants/by-name/{name}", s.findTenantByName)

		r.Route("/api/account-admin/settings", func(r chi.Router) {
			settingsRoute(r, "/", &s.mu, &s.general)
			settingsRoute(r, "/ldap", &s.mu, &s.ldap)
			settingsRoute(r, "/two-factor", &s.mu, &s.twoFactor)
			settingsRoute(r, "/captcha", &s.mu, &s.captcha)
			settingsRoute(r, "/external-provider", &s.mu, &s.external)
		})

		r.Route("/api/account", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/send-password-reset-code", s.sendPasswordResetCode)
			r.Post("/reset-password", s.resetPassword)
			r.Get("/profile-picture", s.getProfilePicture)
			r.Post("/profile-picture", s.setProfilePicture)
			r.Get("/profile-picture/{userId}", s.getProfilePictureByUser)
			r.Get("/two-factor-enabled", s.getTwoFactorEnabled)
			r.Post("/two-factor-enabled", s.setTwoFactorEnabled)
		})

		r.Route("/api/identity/my-profile", func(r chi.Router) {
			r.Get("/", s.getProfile)
			r.Put("/", s.updateProfile)
			r.Post("/change-password", s.changePassword)
		})

		r.Route("/api/multi-tenancy/tenants", func(r chi.Router) {
			r.Get("/", s.listTenants)
			r.Post("/", s.createTenant)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTenant)
				r.Put("/", s.updateTenant)
				r.Delete("/", s.deleteTenant)
				r.Get("/default-connection-string", s.getConnectionString)
				r.Put("/default-connection-string", s.setConnectionString)
				r.Delete("/default-connection-string", s.deleteConnectionString)
			})
		})
	})

	return r
}

// Fail makes every method call on path fail with status and message until
// Clear is called.
func (s *Server) Fail(method, path string, status int, message string) {
	s.setFailure(method, path, status, message, false)
}

// FailOnce makes the next method call on path fail.
func (s *Server) FailOnce(method, path string, status int, message string) {
	s.setFailure(method, path, status, message, true)
}

func (s *Server) setFailure(method, path string, status int, message string, once bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = injected{err: &restclient.RemoteError{StatusCode: status, Message: message}, once: once}
}

// Clear removes injected failures and the request log.
func (s *Server) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
	s.requests = nil
}

// Requests returns the recorded requests, optionally only those for method and path.
func (s *Server) Requests(filter ...string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(filter) == 0 {
		return slices.Clone(s.requests)
	}
	var out []Request
	for _, r := range s.requests {
		if r.Method == filter[0] && (len(filter) < 2 || r.Path == filter[1]) {
			out = append(out, r)
		}
	}
	return out
}

// ResetToken returns the last reset token issued for email.
func (s *Server) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetTokens[email]
}

// UserID returns the id of the seeded admin user.
func (s *Server) UserID() uuid.UUID { return s.userID }

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Tenant:        r.Header.Get(restclient.TenantHeader),
			CorrelationID: correlation.FromContext(r.Context()),
			Body:          body,
		})
		s.mu.Unlock()

		s.logger.DebugContext(r.Context(), "fake request", logger.Method(r.Method), logger.Path(r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		if ok && f.once {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if ok {
			writeError(w, f.err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
