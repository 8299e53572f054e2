package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/errors"

	"github.com/spf13/cobra"
)

// clipboardServeCmd is started by the Linux backend. It reads the items as
// JSON on stdin, owns the Wayland selection and reports on stdout once it
// does; any failure before that is reported on the same line.
var clipboardServeCmd = &cobra.Command{
	Use:         clipboard.ServeCommand,
	Hidden:      true,
	Short:       "Internal: serve clipboard content over Wayland (do not call directly)",
	Annotations: map[string]string{annotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []clipboard.Item
		if err := json.NewDecoder(os.Stdin).Decode(&items); err != nil {
			fmt.Fprintln(os.Stdout, "invalid clipboard payload:", err)
			return errors.WrapWithCode(err, errors.ExitCodeValidation, "invalid clipboard payload")
		}

		owned := false
		err := clipboard.ServeClipboard(items, func() {
			owned = true
			fmt.Fprintln(os.Stdout, clipboard.ServeReady)
			os.Stdout.Close() //nolint:errcheck
		})
		if err != nil && !owned {
			fmt.Fprintln(os.Stdout, err)
		}
		return err
	},
}
