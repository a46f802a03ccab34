package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/abpadmin/internal/abpfake"
	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/config"
	"github.com/dmitrymomot/abpadmin/pkg/httpserver"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
)

func (r *root) fakeServerCmd() *cobra.Command {
	var (
		addr         string
		requireToken bool
		clients      []string
		tenants      []string
	)
	cmd := &cobra.Command{
		Use:   "fake-server",
		Short: "Serve an in-memory ABP host for local development",
		Long: "Serves the account-admin, account, profile and tenant-management endpoints " +
			"plus /connect/token and /health. State lives in memory and is lost on exit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg httpserver.Config
			if err := config.LoadWithOverrides(&cfg, map[string]string{"FAKE_ADDR": addr}); err != nil {
				return err
			}
			var logCfg struct {
				Env   string `env:"APP_ENV" envDefault:"development"`
				Level string `env:"LOG_LEVEL" envDefault:"info"`
			}
			if err := config.LoadWithOverrides(&logCfg, map[string]string{"LOG_LEVEL": r.logLevel}); err != nil {
				return err
			}
			log := logger.New(
				logger.WithEnvironment(logCfg.Env, "abpfake"),
				logger.WithLevelName(logCfg.Level),
				logger.WithTextFormatter(),
				logger.WithOutput(cmd.ErrOrStderr()),
			)

			opts := []abpfake.Option{abpfake.WithLogger(log)}
			if requireToken {
				opts = append(opts, abpfake.WithRequireToken())
			}
			for _, c := range clients {
				id, secret, _ := strings.Cut(c, ":")
				opts = append(opts, abpfake.WithClient(id, secret))
			}
			for _, name := range tenants {
				opts = append(opts, abpfake.WithTenants(tenantmanagement.Tenant{
					ID:               uuid.New(),
					Name:             name,
					ConcurrencyStamp: uuid.NewString(),
				}))
			}
			fake := abpfake.New(opts...)

			router := chi.NewRouter()
			router.Get("/health", httpserver.HealthCheckHandler(log))
			router.Mount("/", fake.Handler())

			out := cmd.OutOrStdout()
			srv := httpserver.NewFromConfig(cfg,
				httpserver.WithLogger(log),
				httpserver.WithStartHook(func(l *slog.Logger, addr string) {
					l.Info("fake ABP host started", slog.String("addr", addr))
					_, _ = fmt.Fprintf(out, "ABP_BASE_URL=http://%s\n", addr)
					_, _ = fmt.Fprintf(out, "ABP_AUTH_TOKEN_URL=http://%s/connect/token\n", addr)
					if tok, err := fake.IssueToken(fake.UserID().String(), ""); err == nil {
						_, _ = fmt.Fprintf(out, "ABP_AUTH_ACCESS_TOKEN=%s\n", tok)
					}
				}),
				httpserver.WithStopHook(func(l *slog.Logger, addr string) {
					l.Info("fake ABP host stopped", slog.String("addr", addr))
				}),
			)
			return srv.Run(cmd.Context(), router)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (overrides FAKE_ADDR)")
	f.BoolVar(&requireToken, "require-token", false, "reject API calls without a valid bearer token")
	f.StringSliceVar(&clients, "client", nil, "client credentials as id:secret, repeatable")
	f.StringSliceVar(&tenants, "tenant-seed", nil, "tenant names to create at startup")
	return cmd
}
