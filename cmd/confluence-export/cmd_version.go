/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("cmd: could not read build info")
		}
		fmt.Printf("confluence-export version %s\n", shortVersion(Version, info.Settings))
		return nil
	},
}

// Version is set with -ldflags "-X main.Version=..." for release builds.
var Version = "unknown"

func init() {
	rootCmd.AddCommand(versionCmd)
}

// shortVersion joins the release tag and VCS revision, e.g. v1.2.0-rev-abc123-dirty, falling
// back to "devel".
func shortVersion(version string, settings []debug.BuildSetting) string {
	var revision string
	dirty := false
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}

	parts := make([]string, 0, 4)
	if version != "unknown" && version != "(devel)" && version != "" {
		parts = append(parts, version)
	}
	if revision != "" {
		parts = append(parts, "rev", revision)
		if dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
