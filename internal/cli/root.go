package cli

import (
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/abpadmin/pkg/config"
	"github.com/dmitrymomot/abpadmin/pkg/correlation"
)

// root holds the persistent flags and the lazily built App.
type root struct {
	envFiles []string
	output   string
	tenant   string
	baseURL  string
	logLevel string

	once   sync.Once
	appVal *App
	appErr error
}

// NewRootCmd returns the abpadmin command tree.
func NewRootCmd() *cobra.Command {
	r := &root{}
	cmd := &cobra.Command{
		Use:           "abpadmin",
		Short:         "Administer ABP account settings, tenants and profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(r.output); err != nil {
				return err
			}
			if err := config.LoadEnv(r.envFiles...); err != nil && !errors.Is(err, config.ErrEnvFileMissing) {
				return err
			}
			ctx, _ := correlation.Ensure(cmd.Context())
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if r.appVal != nil {
				r.appVal.Close()
			}
		},
	}

	f := cmd.PersistentFlags()
	f.StringSliceVar(&r.envFiles, "env-file", nil, "env files to load (default .env when present)")
	f.StringVarP(&r.output, "output", "o", OutputYAML, "output format: yaml or json")
	f.StringVar(&r.tenant, "tenant", "", "tenant name or id sent as __tenant (overrides ABP_TENANT)")
	f.StringVar(&r.baseURL, "base-url", "", "ABP host root (overrides ABP_BASE_URL)")
	f.StringVar(&r.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(
		r.settingsCmd(),
		r.tenantsCmd(),
		r.accountCmd(),
		r.profileCmd(),
		r.fakeServerCmd(),
	)
	return cmd
}

// app builds the App once per invocation. Flags win over the environment.
func (r *root) app(cmd *cobra.Command) (*App, error) {
	r.once.Do(func() {
		var cfg config.Client
		if err := config.LoadWithOverrides(&cfg, map[string]string{
			"ABP_BASE_URL": r.baseURL,
			"ABP_TENANT":   r.tenant,
			"LOG_LEVEL":    r.logLevel,
		}); err != nil {
			r.appErr = err
			return
		}
		r.appVal, r.appErr = NewApp(cmd.Context(), cfg, cmd.ErrOrStderr())
	})
	return r.appVal, r.appErr
}

func (r *root) print(cmd *cobra.Command, v any) error {
	return printValue(cmd.OutOrStdout(), r.output, v)
}
