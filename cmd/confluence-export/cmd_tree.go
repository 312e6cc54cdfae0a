/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/confluence"
	"github.com/toothbrush/confluence-export/hierarchy"
	"github.com/toothbrush/confluence-export/internal/termfmt"
	"github.com/toothbrush/confluence-export/localdump"
	"golang.org/x/exp/maps"
)

var treeUsage = strings.TrimSpace(`
Print the page hierarchy of one or more spaces, the way an export would lay it out, followed by
a few numbers about its shape.
`)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the page hierarchy of a space",
	Long:  treeUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pages []confluence.Page
		if FromSnapshot != "" {
			snapshot, err := homedir.Expand(FromSnapshot)
			if err != nil {
				return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
			}
			if pages, err = localdump.LoadSnapshot(snapshot); err != nil {
				return err
			}
		} else {
			api, stop, err := apiClient(WithVCR)
			if err != nil {
				return err
			}
			defer stop()

			spaces, _, err := resolveSpaces(cmd.Context(), api, Spaces)
			if err != nil {
				return err
			}
			if pages, err = api.ListPagesInSpaces(cmd.Context(), spaces, IncludeArchived, Workers); err != nil {
				return fmt.Errorf("cmd: couldn't list pages: %w", err)
			}
		}

		forest := hierarchy.Build(pages)
		if !StatsOnly {
			for _, root := range forest.Roots {
				printNode(root, 0)
			}
			if len(forest.Orphans) > 0 {
				fmt.Printf("\n%d pages had a parent outside the listing: %s\n", len(forest.Orphans), strings.Join(forest.Orphans, ", "))
			}
			if len(forest.CycleBreaks) > 0 {
				fmt.Printf("%d parent cycles were broken at: %s\n", len(forest.CycleBreaks), strings.Join(forest.CycleBreaks, ", "))
			}
		}
		printStats(hierarchy.ComputeStats(forest))
		return nil
	},
}

var StatsOnly bool

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringSliceVar(&Spaces, "space", []string{}, "space key, may be repeated")
	treeCmd.Flags().StringVar(&FromSnapshot, "from-snapshot", "", "read pages saved by an earlier export in this directory")
	treeCmd.Flags().BoolVar(&IncludeArchived, "include-archived", false, "include archived pages")
	treeCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	treeCmd.Flags().IntVar(&Workers, "workers", 4, "spaces listed concurrently")
	treeCmd.Flags().BoolVar(&StatsOnly, "stats", false, "only print the numbers")
}

type treeEntry struct {
	node  *hierarchy.Node
	depth int
}

func printNode(n *hierarchy.Node, depth int) {
	stack := []treeEntry{{n, depth}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fmt.Printf("%s%s %s\n", strings.Repeat("  ", top.depth), termfmt.Bold().V(top.node.Title), termfmt.Faint().V(top.node.ID))
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, treeEntry{top.node.Children[i], top.depth + 1})
		}
	}
}

func printStats(s hierarchy.Stats) {
	fmt.Printf("\n%s\n", termfmt.Bold().V("Hierarchy"))
	fmt.Printf("  pages:     %d\n", s.TotalPages)
	fmt.Printf("  roots:     %d\n", s.RootCount)
	fmt.Printf("  max depth: %d\n", s.MaxDepth)

	levels := maps.Keys(s.PagesByLevel)
	sort.Ints(levels)
	for _, level := range levels {
		fmt.Printf("  level %-3d %d\n", level, s.PagesByLevel[level])
	}
}
