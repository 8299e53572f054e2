package cmd

import (
	"fmt"
	"os"

	"clipctl/pkg/config"
	"clipctl/pkg/errors"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the clipctl configuration",
	Long: `clipctl reads an optional YAML file from the XDG config directory, or from
the path given by --config or CLIPCTL_CONFIG. Environment variables
(CLIPCTL_LOG_LEVEL, CLIPCTL_PASTE_FORMAT, CLIPCTL_HISTORY_ENABLED,
CLIPCTL_HISTORY_PATH, CLIPCTL_HISTORY_MAX)
override the file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := NewOutputWriter(outputFormat)
		out.SetWriter(cmd.OutOrStdout())
		if out.IsStructured() {
			return out.Write(cfg)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return errors.CommandError("show config", err)
	},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the default settings",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationSkipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return errors.NewWithSuggestion(errors.ExitCodeConfig,
				"Config file already exists: "+path,
				"Pass --force to overwrite it.")
		}

		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
