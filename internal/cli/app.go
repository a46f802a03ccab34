package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/abpauth"
	"github.com/dmitrymomot/abpadmin/pkg/collection"
	"github.com/dmitrymomot/abpadmin/pkg/config"
	"github.com/dmitrymomot/abpadmin/pkg/correlation"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/multitenancy"
	"github.com/dmitrymomot/abpadmin/pkg/restclient"
	"github.com/dmitrymomot/abpadmin/pkg/settings"
)

// App holds everything a command needs to talk to one ABP host.
type App struct {
	Config  config.Client
	Logger  *slog.Logger
	Client  *restclient.Client
	Current multitenancy.Current

	Account      *account.Service
	Tenants      *tenantmanagement.Service
	TenantStore  *tenantmanagement.Store
	TenantState  *tenantmanagement.StateService
	ProfileTabs  *account.ProfileTabs
	Settings     map[string]settingsEntry
	SettingNames []string
}

// NewApp wires an App from cfg. Logs go to logOut.
func NewApp(ctx context.Context, cfg config.Client, logOut io.Writer) (*App, error) {
	log := logger.New(
		logger.WithEnvironment(cfg.Env, "abpadmin"),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithTextFormatter(),
		logger.WithOutput(logOut),
		logger.WithContextExtractors(multitenancy.LoggerExtractor(), correlation.LoggerExtractor()),
	)

	opts := []restclient.Option{
		restclient.WithTenant(cfg.Tenant),
		restclient.WithLogger(log),
		restclient.WithErrorHook(func(ctx context.Context, req restclient.RequestInfo, err error) {
			log.WarnContext(ctx, "request failed", logger.Method(req.Method), logger.Path(req.Path), logger.Error(err))
		}),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, restclient.WithTimeout(cfg.Timeout))
	}

	cur := multitenancy.Current{TenantName: cfg.Tenant}
	ts, err := abpauth.TokenSource(ctx, cfg.Auth)
	switch {
	case errors.Is(err, abpauth.ErrNoCredentials):
		log.DebugContext(ctx, "no credentials configured, calling anonymously")
	case err != nil:
		return nil, err
	default:
		opts = append(opts, restclient.WithTokenSource(ts))
		cur = resolveCurrent(ctx, log, ts, cur)
	}

	client, err := restclient.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		Logger:      log,
		Client:      client,
		Current:     cur,
		Account:     account.NewService(client, account.WithServiceLogger(log)),
		Tenants:     tenantmanagement.NewService(client, tenantmanagement.WithServiceLogger(log)),
		TenantState: tenantmanagement.NewStateService(),
		ProfileTabs: account.DefaultProfileTabs(),
	}
	app.TenantStore = tenantmanagement.NewStore(app.Tenants, app.TenantState,
		collection.WithLogger[tenantmanagement.Tenant, uuid.UUID, tenantmanagement.CreateInput, tenantmanagement.UpdateInput](log))
	app.registerSettings()
	return app, nil
}

// resolveCurrent prefers the tenant named by the access token over the
// configured one. Tokens that cannot be read keep fallback.
func resolveCurrent(ctx context.Context, log *slog.Logger, ts oauth2.TokenSource, fallback multitenancy.Current) multitenancy.Current {
	tok, err := ts.Token()
	if err != nil {
		log.WarnContext(ctx, "access token unavailable", logger.Error(err))
		return fallback
	}
	cur, err := multitenancy.FromAccessToken(tok.AccessToken)
	if err != nil {
		log.DebugContext(ctx, "access token is not readable", logger.Error(err))
		return fallback
	}
	if !cur.IsTenant() {
		return fallback
	}
	return cur
}

// Context returns ctx carrying the resolved caller for log records.
func (a *App) Context(ctx context.Context) context.Context {
	return multitenancy.WithCurrent(ctx, a.Current)
}

func (a *App) registerSettings() {
	side := a.Current.Side()
	a.Settings = map[string]settingsEntry{}
	add := func(name string, e settingsEntry) {
		a.Settings[name] = e
		a.SettingNames = append(a.SettingNames, name)
	}
	add("general", storeEntry[account.GeneralSettings, account.GeneralSettingsUpdate]{
		account.NewGeneralSettingsStore(a.Client, side, settings.WithLogger[account.GeneralSettings, account.GeneralSettingsUpdate](a.Logger)),
	})
	add("ldap", storeEntry[account.LdapSettings, account.LdapSettingsUpdate]{
		account.NewLdapSettingsStore(a.Client, side, settings.WithLogger[account.LdapSettings, account.LdapSettingsUpdate](a.Logger)),
	})
	add("two-factor", storeEntry[account.TwoFactorSettings, account.TwoFactorSettingsUpdate]{
		account.NewTwoFactorSettingsStore(a.Client, side, settings.WithLogger[account.TwoFactorSettings, account.TwoFactorSettingsUpdate](a.Logger)),
	})
	add("captcha", storeEntry[account.CaptchaSettings, account.CaptchaSettingsUpdate]{
		account.NewCaptchaSettingsStore(a.Client, side, settings.WithLogger[account.CaptchaSettings, account.CaptchaSettingsUpdate](a.Logger)),
	})
	add("external-provider", storeEntry[account.ExternalProviderSettings, account.ExternalProviderSettingsUpdate]{
		account.NewExternalProviderSettingsStore(a.Client, side, settings.WithLogger[account.ExternalProviderSettings, account.ExternalProviderSettingsUpdate](a.Logger)),
	})
}

func (a *App) settingsEntry(name string) (settingsEntry, error) {
	e, ok := a.Settings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s, all)", ErrUnknownResource, name, strings.Join(a.SettingNames, ", "))
	}
	return e, nil
}

// Close releases the stores.
func (a *App) Close() {
	for _, e := range a.Settings {
		e.close()
	}
	a.TenantStore.Reset()
}
