package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/executor"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// surfaced errors were already shown as a notification
		if !apierr.Surfaced(err) || flagQuiet {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(exitCode(err))
	}
}

// Exit codes
const (
	exitFailure  = 1 // request or local failure
	exitRejected = 2 // a file was rejected before anything was sent
)

func exitCode(err error) int {
	if apierr.IsValidation(err) {
		return exitRejected
	}
	return exitFailure
}

var rootCmd = &cobra.Command{
	Use:   "fitadmin",
	Short: "fitadmin - fitness platform administration client",
	Long: `fitadmin manages the fitness platform backend from the command line:
trainers and trainees, the exercise library, push notifications, legal
documents, app settings, and image or PDF uploads.

Every response is normalized to its payload and printed as JSON (or YAML
with -o yaml). Use --filter and --query to reshape output with JMESPath.

Examples:
  fitadmin login --email admin@example.com      # Sign in (prompts for password)
  fitadmin exercises list --limit 20            # List exercises
  fitadmin get /user/trainers -q 'data[].email' # Raw call with a JMESPath query
  fitadmin upload image front.jpg back.jpg      # Validate and upload images
  fitadmin mock                                 # Serve the built-in mock backend`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Global flags
var (
	flagConfigDir string
	flagAPIURL    string
	flagLogLevel  string
	flagQuiet     bool
	flagNoHistory bool
	flagInsecure  bool
	flagCAFile    string
)

// Output flags
var (
	flagOutput string
	flagFilter string
	flagQuery  string
	flagSave   string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.fitadmin)")
	pf.StringVar(&flagAPIURL, "api-url", "", "Backend base URL (overrides config and FITADMIN_API_URL)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	pf.BoolVar(&flagQuiet, "quiet", false, "Suppress notifications")
	pf.BoolVar(&flagNoHistory, "no-history", false, "Do not record exchanges to history")
	pf.BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")
	pf.StringVar(&flagCAFile, "ca-file", "", "Custom CA certificate for the backend")

	pf.StringVarP(&flagOutput, "output", "o", cli.FormatJSON, "Output format (json/yaml)")
	pf.StringVarP(&flagFilter, "filter", "f", "", "JMESPath filter applied to the output")
	pf.StringVarP(&flagQuery, "query", "q", "", "JMESPath query applied after the filter")
	pf.StringVarP(&flagSave, "save", "s", "", "Save output to file")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(requestCommands()...)
	rootCmd.AddCommand(exercisesCmd, notificationsCmd, usersCmd, legalCmd, settingsCmd, statsCmd)
	rootCmd.AddCommand(uploadCmd, historyCmd, mockCmd)
}

// newApp builds the client stack from the global flags
func newApp() (*cli.App, error) {
	var tls *executor.TLSConfig
	if flagInsecure || flagCAFile != "" {
		tls = &executor.TLSConfig{InsecureSkipVerify: flagInsecure, CAFile: flagCAFile}
	}
	return cli.NewApp(cli.AppOptions{
		ConfigDir: flagConfigDir,
		BaseURL:   flagAPIURL,
		LogLevel:  flagLogLevel,
		Quiet:     flagQuiet,
		NoHistory: flagNoHistory,
		TLS:       tls,
	})
}

// withApp runs fn with a ready app and validated output options
func withApp(fn func(cmd *cobra.Command, args []string, app *cli.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := outputOptions().Validate(); err != nil {
			return err
		}
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}

func outputOptions() cli.OutputOptions {
	return cli.OutputOptions{
		Format:   flagOutput,
		Filter:   flagFilter,
		Query:    flagQuery,
		SavePath: flagSave,
	}
}

// printResult writes v to stdout in the selected format
func printResult(cmd *cobra.Command, v any) error {
	opts := outputOptions()
	if err := cli.Write(cmd.OutOrStdout(), v, opts); err != nil {
		return err
	}
	if opts.SavePath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Output saved to %s\n", opts.SavePath)
	}
	return nil
}
