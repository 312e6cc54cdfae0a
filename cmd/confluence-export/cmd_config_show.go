/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/internal/termfmt"
	"gopkg.in/yaml.v2"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Only the
global flags are shown resolved; the file's other settings apply to the commands that have them.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("%s %s\n\n", termfmt.Bold().V("Config file:"), ConfigActual)

		parsed, err := yaml.Marshal(ParsedConfig)
		if err != nil {
			return fmt.Errorf("cmd: couldn't render config: %w", err)
		}
		fmt.Printf("%s\n%s\n", termfmt.Bold().V("Parsed YAML:"), parsed)

		token := "unset"
		switch {
		case len(AuthTokenCmd) > 0:
			token = fmt.Sprintf("from command %v", AuthTokenCmd)
		case os.Getenv(tokenEnv) != "":
			token = "from $" + tokenEnv
		case EnvFile != "":
			token = "from " + EnvFile
		}

		fmt.Printf("%s\n", termfmt.Bold().V("Resolved:"))
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Printf("  AuthUsername: %s\n", AuthUsername)
		fmt.Printf("  AuthToken: %s\n", token)
		fmt.Printf("  ConfluenceInstance: %s\n", ConfluenceInstance)
		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
