package config

import "time"

// Client is the configuration of a process talking to an ABP backend.
type Client struct {
	// BaseURL is the ABP host root, e.g. https://localhost:44300.
	BaseURL string        `env:"ABP_BASE_URL,required"`
	Tenant  string        `env:"ABP_TENANT"`
	Timeout time.Duration `env:"ABP_TIMEOUT" envDefault:"30s"`

	Auth Auth

	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Auth selects how access tokens are obtained. AccessToken wins over the
// password grant, which wins over client credentials.
type Auth struct {
	TokenURL     string   `env:"ABP_AUTH_TOKEN_URL"`
	ClientID     string   `env:"ABP_AUTH_CLIENT_ID"`
	ClientSecret string   `env:"ABP_AUTH_CLIENT_SECRET"`
	Scopes       []string `env:"ABP_AUTH_SCOPES" envSeparator:"," envDefault:"openid,offline_access"`
	Username     string   `env:"ABP_AUTH_USERNAME"`
	Password     string   `env:"ABP_AUTH_PASSWORD"`
	AccessToken  string   `env:"ABP_AUTH_ACCESS_TOKEN"`
}
