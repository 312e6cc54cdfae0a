/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var configUsage = strings.TrimSpace(`
Inspect the configuration.  Settings come from the YAML file (--config, $CONFLUENCE_EXPORT_CONFIG
or ~/.config/confluence-export.yaml), and any flag given on the command line wins over the file.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where the config comes from and what it says",
	Long:  configUsage,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
