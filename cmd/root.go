package cmd

import (
	"fmt"
	"os"

	"clipctl/pkg/clipboard"
	"clipctl/pkg/completions"
	"clipctl/pkg/config"
	"clipctl/pkg/errors"
	"clipctl/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"

	// annotationSkipConfig marks commands that must run even when the
	// config file is broken.
	annotationSkipConfig = "clipctl/skip-config"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var (
	outputFormat  string
	assumeYesFlag bool
	logLevel      string
	configPath    string

	// cfg is the effective configuration, loaded before every command.
	cfg = config.Default()
)

// newBackend is replaced in tests.
var newBackend = clipboard.Default

var rootCmd = &cobra.Command{
	Use:   "clipctl",
	Short: "Copy to and paste from the system clipboard",
	Long: `clipctl copies text, HTML, RTF and custom formats to the system clipboard
and pastes them back. Windows uses the native clipboard, macOS NSPasteboard,
and Linux the Wayland selection or the X11 clipboard utilities.

Copies made with clipctl are kept in a local history that can be listed and
restored. Configuration lives in the XDG config directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationSkipConfig] == "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		// Explicit flag takes precedence over env var and config file
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger.SetLevel(level)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show version information",
	Annotations: map[string]string{annotationSkipConfig: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		ver := Version
		if ver == "" {
			ver = "dev"
		}
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "clipctl version %s\n", ver)
		fmt.Fprintf(out, "Built: %s\n", bt)
		fmt.Fprintf(out, "Git commit: %s\n", gc)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/clipctl/config.yaml, or CLIPCTL_CONFIG)")

	completions.RegisterCompletions(rootCmd)
}
