/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/internal/termfmt"
	"golang.org/x/exp/maps"
)

var listSpacesUsage = strings.TrimSpace(`
If you want to find out which space keys you can pass to --space, use this command.
`)

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, stop, err := apiClient(WithVCR)
		if err != nil {
			return err
		}
		defer stop()

		log.Printf("Listing Confluence spaces in %s...\n", ConfluenceInstance)
		spacesRemote, err := api.ListAllSpaces(cmd.Context(), ConfluenceInstance, IncludePersonal)
		if err != nil {
			return fmt.Errorf("cmd: couldn't list Confluence spaces: %w", err)
		}
		log.Printf("Found %d spaces on '%s'.\n", len(spacesRemote), ConfluenceInstance)

		spaceKeys := maps.Keys(spacesRemote)
		sort.Strings(spaceKeys)

		fmt.Printf("spaces:\n")
		for _, spaceKey := range spaceKeys {
			s := spacesRemote[spaceKey]
			fmt.Printf("  - %s: %s\n", termfmt.Bold().V(spaceKey), s.Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
	listSpacesCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
}
