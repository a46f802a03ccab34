package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/pkg/failure"
)

// tabView is the printed form of a profile tab.
type tabView struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

var pictureTypes = map[string]account.ProfilePictureType{
	"none":     account.ProfilePictureNone,
	"gravatar": account.ProfilePictureGravatar,
	"image":    account.ProfilePictureImage,
}

func (r *root) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in user's profile",
	}
	cmd.AddCommand(
		r.profileShowCmd(),
		r.profileTabsCmd(),
		r.profileUpdateCmd(),
		r.changePasswordCmd(),
		r.pictureCmd(),
		r.twoFactorCmd(),
	)
	return cmd
}

func (r *root) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			p, err := app.Account.Profile(app.Context(cmd.Context()))
			if err != nil {
				return withMessage(failure.Message(err, "Failed to fetch profile"), err)
			}
			return r.print(cmd, p)
		},
	}
}

func (r *root) profileTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List the profile tabs visible to the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			p, err := app.Account.Profile(app.Context(cmd.Context()))
			if err != nil {
				return withMessage(failure.Message(err, "Failed to fetch profile"), err)
			}
			tabs := app.ProfileTabs.List(p)
			out := make([]tabView, 0, len(tabs))
			for _, t := range tabs {
				out = append(out, tabView{Name: t.Name, Title: t.Title})
			}
			return r.print(cmd, out)
		},
	}
}

func (r *root) profileUpdateCmd() *cobra.Command {
	var (
		file  string
		patch account.UpdateProfileInput
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Long:  "The current profile is read first; the file and then the flags are applied over it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())

			current, err := app.Account.Profile(ctx)
			if err != nil {
				return withMessage(failure.Message(err, "Failed to fetch profile"), err)
			}
			in := current.ToUpdate()
			if file != "" {
				if err := readInput(file, cmd.InOrStdin(), &in); err != nil {
					return err
				}
			}
			in.UserName = pick(patch.UserName, in.UserName)
			in.Email = pick(patch.Email, in.Email)
			in.Name = pick(patch.Name, in.Name)
			in.Surname = pick(patch.Surname, in.Surname)
			in.PhoneNumber = pick(patch.PhoneNumber, in.PhoneNumber)

			p, err := app.Account.UpdateProfile(ctx, in)
			if err != nil {
				return withMessage(failure.Message(err, "Failed to update profile"), err)
			}
			return r.print(cmd, p)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML or JSON input, - for stdin")
	f.StringVar(&patch.UserName, "user-name", "", "user name")
	f.StringVar(&patch.Email, "email", "", "email address")
	f.StringVar(&patch.Name, "name", "", "given name")
	f.StringVar(&patch.Surname, "surname", "", "surname")
	f.StringVar(&patch.PhoneNumber, "phone", "", "phone number")
	return cmd
}

func (r *root) changePasswordCmd() *cobra.Command {
	var in account.ChangePasswordInput
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.NewPasswordConfirm == "" {
				in.NewPasswordConfirm = in.NewPassword
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := app.Account.ChangePassword(app.Context(cmd.Context()), in); err != nil {
				return withMessage(failure.Message(err, "Failed to change password"), err)
			}
			return r.print(cmd, map[string]any{"changed": true})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.CurrentPassword, "current", "", "current password (empty for external users without one)")
	f.StringVar(&in.NewPassword, "new", "", "new password")
	f.StringVar(&in.NewPasswordConfirm, "confirm", "", "confirmation (defaults to --new)")
	return cmd
}

func (r *root) pictureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picture",
		Short: "Read or change the profile picture",
	}

	var userID, save string
	get := &cobra.Command{
		Use:   "get",
		Short: "Print the picture source; --save writes image bytes to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			ctx := app.Context(cmd.Context())

			var pic account.ProfilePicture
			if userID != "" {
				id, perr := parseID(userID)
				if perr != nil {
					return perr
				}
				pic, err = app.Account.ProfilePictureByUser(ctx, id)
			} else {
				pic, err = app.Account.ProfilePicture(ctx)
			}
			if err != nil {
				return withMessage(failure.Message(err, "Failed to fetch profile picture"), err)
			}
			if save != "" && len(pic.FileContent) > 0 {
				if err := os.WriteFile(save, pic.FileContent, 0o644); err != nil {
					return err
				}
			}
			return r.print(cmd, map[string]any{"type": pic.Type.String(), "source": pic.Source, "size": len(pic.FileContent)})
		},
	}
	get.Flags().StringVar(&userID, "user", "", "another user's id")
	get.Flags().StringVar(&save, "save", "", "write image bytes to this file")

	var typ, file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the picture source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, ok := pictureTypes[typ]
			if !ok {
				return fmt.Errorf("%w: picture type %q (want none, gravatar or image)", ErrInvalidArgument, typ)
			}
			in := account.ProfilePictureInput{Type: t}
			if file != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				in.ImageName = filepath.Base(file)
				in.ImageContent = content
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := app.Account.SetProfilePicture(app.Context(cmd.Context()), in); err != nil {
				return withMessage(failure.Message(err, "Failed to update profile picture"), err)
			}
			return r.print(cmd, map[string]any{"type": t.String()})
		},
	}
	set.Flags().StringVar(&typ, "type", "image", "none, gravatar or image")
	set.Flags().StringVar(&file, "file", "", "image file for --type image")

	cmd.AddCommand(get, set)
	return cmd
}

func (r *root) twoFactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "two-factor",
		Short: "Read or toggle two-factor authentication for the signed-in user",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print whether two-factor authentication is enabled",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, err := r.app(cmd)
				if err != nil {
					return err
				}
				on, err := app.Account.TwoFactorEnabled(app.Context(cmd.Context()))
				if err != nil {
					return withMessage(failure.Message(err, "Failed to fetch two factor state"), err)
				}
				return r.print(cmd, map[string]bool{"enabled": on})
			},
		},
		&cobra.Command{
			Use:   "set <true|false>",
			Short: "Enable or disable two-factor authentication",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				on, err := strconv.ParseBool(args[0])
				if err != nil {
					return fmt.Errorf("%w: %q is not a boolean", ErrInvalidArgument, args[0])
				}
				app, err := r.app(cmd)
				if err != nil {
					return err
				}
				if err := app.Account.SetTwoFactorEnabled(app.Context(cmd.Context()), on); err != nil {
					return withMessage(failure.Message(err, "Failed to update two factor state"), err)
				}
				return r.print(cmd, map[string]bool{"enabled": on})
			},
		},
	)
	return cmd
}
