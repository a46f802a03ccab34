package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/abpadmin/modules/tenantmanagement"
	"github.com/dmitrymomot/abpadmin/pkg/collection"
	"github.com/dmitrymomot/abpadmin/pkg/failure"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
)

// tenantList is the printed form of the tenant store after a fetch.
type tenantList struct {
	Items      []tenantmanagement.Tenant `json:"items" yaml:"items"`
	TotalCount int64                     `json:"totalCount" yaml:"totalCount"`
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a valid id", ErrInvalidArgument, s)
	}
	return id, nil
}

// storeError prefers the message the store recorded for err.
func storeError(store *tenantmanagement.Store, err error) error {
	return withMessage(store.State().Error, err)
}

// mutationError reports a failed list refresh after a successful mutation
// as a warning only.
func mutationError(ctx context.Context, app *App, err error) error {
	if errors.Is(err, collection.ErrRefreshAfterMutation) {
		app.Logger.WarnContext(ctx, "tenant list refresh failed", logger.Error(err))
		return nil
	}
	return storeError(app.TenantStore, err)
}

func (r *root) tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "Manage tenants (host only)",
	}
	cmd.AddCommand(
		r.tenantsListCmd(),
		r.tenantsGetCmd(),
		r.tenantsCreateCmd(),
		r.tenantsUpdateCmd(),
		r.tenantsDeleteCmd(),
		r.connectionStringCmd(),
	)
	return cmd
}

func (r *root) tenantsListCmd() *cobra.Command {
	var (
		q         collection.Query
		sortKey   string
		sortOrder string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := app.TenantStore.SetSort(sortKey, collection.SortOrder(sortOrder)); err != nil {
				return err
			}
			if err := app.TenantStore.FetchList(app.Context(cmd.Context()), q); err != nil {
				return storeError(app.TenantStore, err)
			}
			st := app.TenantStore.State()
			return r.print(cmd, tenantList{Items: st.Items, TotalCount: st.TotalCount})
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.Filter, "filter", "", "name filter")
	f.StringVar(&q.Sorting, "sorting", "", `explicit sorting expression, e.g. "name desc"`)
	f.IntVar(&q.SkipCount, "skip", 0, "items to skip")
	f.IntVar(&q.MaxResultCount, "max", 0, "page size (server default when 0)")
	f.StringVar(&sortKey, "sort", "", "sort key used when --sorting is empty")
	f.StringVar(&sortOrder, "order", "", "asc or desc")
	return cmd
}

func (r *root) tenantsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			t, err := app.TenantStore.FetchByID(app.Context(cmd.Context()), id)
			if err != nil {
				return storeError(app.TenantStore, err)
			}
			return r.print(cmd, t)
		},
	}
}

func (r *root) tenantsCreateCmd() *cobra.Command {
	var (
		file string
		in   tenantmanagement.CreateInput
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant with its admin user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				var fromFile tenantmanagement.CreateInput
				if err := readInput(file, cmd.InOrStdin(), &fromFile); err != nil {
					return err
				}
				fromFile.Name = pick(in.Name, fromFile.Name)
				fromFile.AdminEmailAddress = pick(in.AdminEmailAddress, fromFile.AdminEmailAddress)
				fromFile.AdminPassword = pick(in.AdminPassword, fromFile.AdminPassword)
				in = fromFile
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())
			t, err := app.TenantStore.Create(ctx, in)
			if err := mutationError(ctx, app, err); err != nil {
				return err
			}
			return r.print(cmd, t)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML or JSON input, - for stdin")
	f.StringVar(&in.Name, "name", "", "tenant name")
	f.StringVar(&in.AdminEmailAddress, "admin-email", "", "admin user email")
	f.StringVar(&in.AdminPassword, "admin-password", "", "admin user password")
	return cmd
}

func (r *root) tenantsUpdateCmd() *cobra.Command {
	var (
		file string
		name string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a tenant or replace its extra properties",
		Long:  "The current tenant is read first so the update carries its concurrency stamp.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())

			current, err := app.TenantStore.FetchByID(ctx, id)
			if err != nil {
				return storeError(app.TenantStore, err)
			}
			in := current.ToUpdate()
			if file != "" {
				if err := readInput(file, cmd.InOrStdin(), &in); err != nil {
					return err
				}
			}
			in.Name = pick(name, in.Name)

			t, err := app.TenantStore.Update(ctx, id, in)
			if err := mutationError(ctx, app, err); err != nil {
				return err
			}
			return r.print(cmd, t)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON input applied over the current tenant")
	cmd.Flags().StringVar(&name, "name", "", "new tenant name")
	return cmd
}

func (r *root) tenantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())
			if err := mutationError(ctx, app, app.TenantStore.Delete(ctx, id)); err != nil {
				return err
			}
			return r.print(cmd, map[string]any{"deleted": id})
		},
	}
}

func (r *root) connectionStringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connection-string",
		Aliases: []string{"cs"},
		Short:   "Manage a tenant's default connection string",
	}

	run := func(fallback string, fn func(cmd *cobra.Command, app *App, id uuid.UUID, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := fn(cmd, app, id, args[1:]); err != nil {
				return withMessage(failure.Message(err, fallback), err)
			}
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Print the default connection string",
			Args:  cobra.ExactArgs(1),
			RunE: run("Failed to fetch connection string", func(cmd *cobra.Command, app *App, id uuid.UUID, _ []string) error {
				cs, err := app.Tenants.DefaultConnectionString(app.Context(cmd.Context()), id)
				if err != nil {
					return err
				}
				return r.print(cmd, map[string]string{"defaultConnectionString": cs})
			}),
		},
		&cobra.Command{
			Use:   "set <id> <value>",
			Short: "Set the default connection string",
			Args:  cobra.ExactArgs(2),
			RunE: run("Failed to update connection string", func(cmd *cobra.Command, app *App, id uuid.UUID, args []string) error {
				return app.Tenants.UpdateDefaultConnectionString(app.Context(cmd.Context()), id, args[0])
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove the default connection string",
			Args:  cobra.ExactArgs(1),
			RunE: run("Failed to delete connection string", func(cmd *cobra.Command, app *App, id uuid.UUID, _ []string) error {
				return app.Tenants.DeleteDefaultConnectionString(app.Context(cmd.Context()), id)
			}),
		},
	)
	return cmd
}

// pick returns flag when set, else current.
func pick(flag, current string) string {
	if flag != "" {
		return flag
	}
	return current
}
