package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/abpadmin/modules/account"
	"github.com/dmitrymomot/abpadmin/pkg/failure"
)

func (r *root) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Public account operations: registration, password reset, tenant lookup",
	}
	cmd.AddCommand(
		r.registerCmd(),
		r.sendResetCodeCmd(),
		r.resetPasswordCmd(),
		r.findTenantCmd(),
	)
	return cmd
}

func (r *root) registerCmd() *cobra.Command {
	var in account.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			user, err := app.Account.Register(app.Context(cmd.Context()), in)
			if err != nil {
				return withMessage(failure.Message(err, "Registration failed"), err)
			}
			return r.print(cmd, user)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.UserName, "user-name", "", "user name")
	f.StringVar(&in.EmailAddress, "email", "", "email address")
	f.StringVar(&in.Password, "password", "", "password")
	f.StringVar(&in.AppName, "app-name", "", "client application name (default "+account.DefaultAppName+")")
	f.StringVar(&in.CaptchaResponse, "captcha", "", "captcha response token")
	return cmd
}

func (r *root) sendResetCodeCmd() *cobra.Command {
	var in account.SendPasswordResetCodeInput
	cmd := &cobra.Command{
		Use:   "send-reset-code",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := app.Account.SendPasswordResetCode(app.Context(cmd.Context()), in); err != nil {
				return withMessage(failure.Message(err, "Failed to send password reset code"), err)
			}
			return r.print(cmd, map[string]any{"sent": true})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.AppName, "app-name", "", "client application name (default "+account.DefaultAppName+")")
	f.StringVar(&in.ReturnURL, "return-url", "", "URL the reset link returns to")
	f.StringVar(&in.ReturnURLHash, "return-url-hash", "", "fragment appended to the return URL")
	f.StringVar(&in.CaptchaResponse, "captcha", "", "captcha response token")
	return cmd
}

func (r *root) resetPasswordCmd() *cobra.Command {
	var (
		userID string
		in     account.ResetPasswordInput
	)
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID(userID)
			if err != nil {
				return err
			}
			in.UserID = id
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			if err := app.Account.ResetPassword(app.Context(cmd.Context()), in); err != nil {
				return withMessage(failure.Message(err, "Failed to reset password"), err)
			}
			return r.print(cmd, map[string]any{"reset": true})
		},
	}
	f := cmd.Flags()
	f.StringVar(&userID, "user-id", "", "user id from the reset link")
	f.StringVar(&in.ResetToken, "token", "", "reset token from the reset link")
	f.StringVar(&in.Password, "password", "", "new password")
	f.StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation (defaults to --password)")
	return cmd
}

func (r *root) findTenantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find-tenant <name>",
		Short: "Resolve a tenant by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.app(cmd)
			if err != nil {
				return err
			}
			res, err := app.Account.FindTenantByName(app.Context(cmd.Context()), args[0])
			if err != nil {
				return withMessage(failure.Message(err, "Failed to find tenant"), err)
			}
			return r.print(cmd, res)
		},
	}
}
