package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)
	root.AddCommand(clipboardServeCmd)

	root.AddCommand(copyCmd)
	root.AddCommand(pasteCmd)
	root.AddCommand(formatsCmd)
	root.AddCommand(historyCmd)
	root.AddCommand(configCmd)

	historyCmd.AddCommand(
		historyListCmd,
		historyShowCmd,
		historyRestoreCmd,
		historyDeleteCmd,
		historyClearCmd,
	)

	configCmd.AddCommand(
		configShowCmd,
		configPathCmd,
		configInitCmd,
	)
}
