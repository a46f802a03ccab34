package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/abpadmin/pkg/settings"
)

// settingsEntry erases the type parameters of one settings store.
type settingsEntry interface {
	load(ctx context.Context) (any, error)
	submit(ctx context.Context, read func(v any) error) (any, error)
	close()
}

type storeEntry[T, S any] struct {
	store *settings.Store[T, S]
}

func (e storeEntry[T, S]) load(ctx context.Context) (any, error) {
	if err := e.store.Reload(ctx); err != nil {
		return nil, withMessage(e.store.State().Error, err)
	}
	return e.store.State().Data, nil
}

func (e storeEntry[T, S]) submit(ctx context.Context, read func(v any) error) (any, error) {
	var in S
	if err := read(&in); err != nil {
		return nil, err
	}
	if err := e.store.Submit(ctx, in); err != nil {
		return nil, withMessage(e.store.State().Error, err)
	}
	return e.store.State().Data, nil
}

func (e storeEntry[T, S]) close() { e.store.Close() }

func (r *root) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change account settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <general|ldap|two-factor|captcha|external-provider|all>",
		Short: "Print a settings resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())
			if args[0] == "all" {
				all, err := loadAll(ctx, app)
				if err != nil {
					return err
				}
				return r.print(cmd, all)
			}

			e, err := app.settingsEntry(args[0])
			if err != nil {
				return err
			}
			data, err := e.load(ctx)
			if err != nil {
				return err
			}
			return r.print(cmd, data)
		},
	})

	var file string
	set := &cobra.Command{
		Use:   "set <general|ldap|two-factor|captcha|external-provider>",
		Short: "Submit changes from a YAML or JSON file and print the reloaded resource",
		Long: "Only the fields present in the file are changed. Tenant callers cannot " +
			"override host-managed captcha keys or external providers marked to use host settings.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			e, err := app.settingsEntry(args[0])
			if err != nil {
				return err
			}
			data, err := e.submit(app.Context(cmd.Context()), func(v any) error {
				return readInput(file, cmd.InOrStdin(), v)
			})
			if err != nil {
				return err
			}
			return r.print(cmd, data)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "-", "input file, - for stdin")
	cmd.AddCommand(set)

	return cmd
}

// loadAll reloads every settings store concurrently. The first failure
// cancels the others.
func loadAll(ctx context.Context, app *App) (map[string]any, error) {
	var mu sync.Mutex
	out := make(map[string]any, len(app.SettingNames))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range app.SettingNames {
		name := name
		e := app.Settings[name]
		g.Go(func() error {
			data, err := e.load(ctx)
			if err != nil {
				return withMessage(name+": "+err.Error(), err)
			}
			mu.Lock()
			out[name] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
