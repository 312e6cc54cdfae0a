/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Tell me the resolved config path",
	Long: `
Output the filename that's being used to store your config, and whether it came from --config,
$CONFLUENCE_EXPORT_CONFIG or the default location.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(describeConfig())
	},
}

func describeConfig() string {
	state := "not found, using flags only"
	if ConfigFound {
		state = "loaded"
	}
	return fmt.Sprintf("Config path: %s (from %s, %s)", ConfigActual, ConfigSource, state)
}

func init() {
	configCmd.AddCommand(whichCmd)
}
