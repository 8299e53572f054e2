package cmd

import (
	"fmt"
	"text/tabwriter"

	"clipctl/pkg/clipboard"

	"github.com/spf13/cobra"
)

type formatInfo struct {
	Name        string `json:"name" yaml:"name"`
	Native      string `json:"native" yaml:"native"`
	Description string `json:"description" yaml:"description"`
}

func builtinFormats() []formatInfo {
	return []formatInfo{
		{clipboard.FormatText, clipboard.NativeFormat(clipboard.FormatText), "Plain text, UTF-8"},
		{clipboard.FormatHTML, clipboard.NativeFormat(clipboard.FormatHTML), "HTML fragment"},
		{clipboard.FormatRTF, clipboard.NativeFormat(clipboard.FormatRTF), "Rich Text Format"},
	}
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the built-in format names",
	Long: `List the built-in format names and what each is stored as on this
platform. Any other name is passed to the platform unchanged.`,
	Annotations: map[string]string{annotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		formats := builtinFormats()

		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(formats)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tNATIVE NAME\tDESCRIPTION")
		for _, f := range formats {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Native, f.Description)
		}
		return tw.Flush()
	},
}
