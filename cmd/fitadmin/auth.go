package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/services"
	"github.com/studiowebux/fitadmin/internal/types"
)

var (
	flagEmail    string
	flagPassword string
	flagFullName string
	flagSignUp   bool
)

// signedIn is the whoami view of the session; the token is never printed
type signedIn struct {
	User  *types.UserInfo `json:"user"`
	Since time.Time       `json:"since"`
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password. The access token and user are stored
in the session file and sent as a bearer token on later commands.

The password is prompted without echo when --password is omitted.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		prompter := cli.NewPrompter(os.Stdin, cmd.ErrOrStderr())

		email := flagEmail
		if email == "" {
			var err error
			if email, err = prompter.Value("Email"); err != nil {
				return err
			}
		}
		password := flagPassword
		if password == "" {
			var err error
			if password, err = prompter.Secret("Password"); err != nil {
				return err
			}
		}

		var (
			res *services.SignInResponse
			err error
		)
		if flagSignUp {
			res, err = app.Services.Auth.SignUp(cmd.Context(), services.SignUpRequest{Email: email, Password: password, FullName: flagFullName})
		} else {
			res, err = app.Services.Auth.SignIn(cmd.Context(), services.SignInRequest{Email: email, Password: password})
		}
		if err != nil {
			return err
		}
		return printResult(cmd, res.User)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if !app.Session.IsAuthenticated() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Not signed in")
			return nil
		}
		return app.Services.Auth.Logout(cmd.Context())
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if err := app.RequireSession(); err != nil {
			return err
		}
		snap := app.Session.Snapshot()
		return printResult(cmd, signedIn{User: snap.User, Since: snap.UpdatedAt})
	}),
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&flagSignUp, "signup", false, "Register a new account instead of signing in")
	loginCmd.Flags().StringVar(&flagFullName, "name", "", "Full name for --signup")
}
