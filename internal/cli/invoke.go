package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/itodo/internal/command"
)

func (a *app) invokeCmd() *cobra.Command {
	var listCommands bool

	cmd := &cobra.Command{
		Use:   "invoke <command> [json-args]",
		Short: "Run a named command with JSON arguments and print the JSON result",
		Long: `Run a named command with JSON arguments and print the JSON result.

Example:
  itodo invoke create_task '{"input": {"title": "Buy milk", "list_id": "..."}}'

On failure the error is printed as {"error": {"kind": ..., "message": ...}}.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if listCommands {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if listCommands {
				_, err := fmt.Fprintln(w, strings.Join(a.disp.Names(), "\n"))
				return err
			}

			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}

			ctx := cmd.Context()
			select {
			case res := <-a.disp.Go(ctx, args[0], raw):
				if res.Err != nil {
					if err := writeJSON(w, map[string]*command.Error{"error": command.FromError(res.Err)}); err != nil {
						return err
					}
					return res.Err
				}
				return writeJSON(w, res.Value)
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}

	cmd.Flags().BoolVar(&listCommands, "list", false, "print the available command names")
	return cmd
}
