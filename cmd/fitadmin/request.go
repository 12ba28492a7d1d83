package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/types"
)

var (
	flagData    string
	flagParams  []string
	flagHeaders []string
)

// requestCommands builds one command per HTTP method
func requestCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(types.Methods))
	for _, method := range types.Methods {
		cmds = append(cmds, newRequestCmd(method))
	}
	return cmds
}

func newRequestCmd(method string) *cobra.Command {
	name := strings.ToLower(method)
	cmd := &cobra.Command{
		Use:   name + " <path>",
		Short: fmt.Sprintf("Send a %s request and print the normalized payload", method),
		Long: fmt.Sprintf(`Send a %s request to a path under the configured base URL.

The response goes through the same normalization as every other command:
envelopes are unwrapped, empty responses print [], and failures are reported
once as a notification.

Body (-d): inline JSON, @file (.json, .jsonc, .yaml) or - for stdin.`, method),
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
			req := types.NewRequest(method, args[0])

			body, err := cli.ReadBody(flagData, os.Stdin)
			if err != nil {
				return err
			}
			if body != nil {
				req.WithBody(body)
			}
			for _, p := range flagParams {
				key, value, _ := strings.Cut(p, "=")
				req.WithQuery(key, value)
			}
			for _, h := range flagHeaders {
				key, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q (expected Name: value)", h)
				}
				req.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}

			res, err := app.Client.Do(cmd.Context(), req)
			if err != nil {
				return err
			}
			app.Log.Debug().Stringer("shape", res.Shape).Msg("Response normalized")
			return printResult(cmd, res.Payload)
		}),
	}

	cmd.Flags().StringVarP(&flagData, "data", "d", "", "Request body (JSON, @file or -)")
	cmd.Flags().StringArrayVarP(&flagParams, "param", "p", []string{}, "Query parameter (key=value), can be repeated")
	cmd.Flags().StringArrayVarP(&flagHeaders, "header", "H", []string{}, "Extra header (Name: value), can be repeated")
	return cmd
}
