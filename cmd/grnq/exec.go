package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd(a *app) *cobra.Command {
	var decode bool

	cmd := &cobra.Command{
		Use:   "exec <command>",
		Short: "Run a raw command",
		Long: `Sends the command text as is and prints the response body.
Arguments are joined with spaces, so quoting can be left to the shell:

  grnq exec select --table Site --limit 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			command := strings.Join(args, " ")
			if decode {
				v, err := client.Execute(cmd.Context(), command)
				if err != nil {
					return err
				}
				return writeJSON(cmd, v)
			}

			body, err := client.Raw(cmd.Context(), command)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(body); err != nil {
				return err
			}
			if !bytes.HasSuffix(body, []byte("\n")) {
				_, err = fmt.Fprintln(out)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&decode, "decode", false, "decode the body and print it as indented JSON")
	return cmd
}
