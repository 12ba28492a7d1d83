package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/mock"
)

var (
	flagMockConfig    string
	flagMockPort      int
	flagMockHost      string
	flagMockBasePath  string
	flagMockDump      string
	flagMockNoBuiltin bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a mock backend",
	Long: `Serve a mock backend for local development.

The built-in routes cover every endpoint the client calls, answering with
each response shape the backend is known to produce (wrapped, paginated,
bare arrays, empty bodies, HTML error pages). Routes from --config are
matched first, so a config file only lists the endpoints it overrides.

Point the client at it with:
  fitadmin --api-url http://localhost:9876/api/v1 exercises list

Use --dump to write every effective route to a file as a starting point.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := cli.NewLogger(cmd.ErrOrStderr(), flagLogLevel)
		if err != nil {
			return err
		}

		cfg := mock.DefaultConfig()
		if flagMockConfig != "" {
			if cfg, err = mock.LoadConfig(flagMockConfig); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagMockPort
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = flagMockHost
		}
		if cmd.Flags().Changed("base-path") {
			cfg.BasePath = flagMockBasePath
		}
		if flagMockNoBuiltin {
			cfg.Builtin = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if flagMockDump != "" {
			if err := mock.SaveConfig(cfg.Expand(), flagMockDump); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Mock config written to %s\n", flagMockDump)
			return nil
		}

		workdir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}

		server := mock.NewServer(cfg, workdir, log)
		if err := server.Start(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Mock backend listening on http://%s (Ctrl+C to stop)\n", server.GetAddress())

		<-cmd.Context().Done()
		log.Info().Int("requests", len(server.GetLogs())).Msg("Stopping mock server")
		return server.Stop()
	},
}

func init() {
	mockCmd.Flags().StringVarP(&flagMockConfig, "config", "c", "", "Mock config file (.yaml, .json, .jsonc)")
	mockCmd.Flags().IntVar(&flagMockPort, "port", mock.DefaultPort, "Port to listen on")
	mockCmd.Flags().StringVar(&flagMockHost, "host", mock.DefaultHost, "Host to bind")
	mockCmd.Flags().StringVar(&flagMockBasePath, "base-path", mock.DefaultBasePath, "API prefix of the built-in routes")
	mockCmd.Flags().StringVar(&flagMockDump, "dump", "", "Write the effective config to a file and exit")
	mockCmd.Flags().BoolVar(&flagMockNoBuiltin, "no-builtin", false, "Serve only the routes from --config")
}
