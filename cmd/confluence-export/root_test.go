package main

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func boolPtr(b bool) *bool { return &b }

func TestBindFlags(t *testing.T) {
	var (
		out    string
		pdf    bool
		html   bool
		spaces []string
	)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&out, "out", "", "")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "")
	cmd.Flags().BoolVar(&html, "html", false, "")
	cmd.Flags().StringSliceVar(&spaces, "space", []string{}, "")

	if err := cmd.ParseFlags([]string{"--out", "/from/flag"}); err != nil {
		t.Fatal(err)
	}

	cfg := YamlConfig{
		OutputDir: "/from/config",
		PDF:       boolPtr(true),
		Spaces:    []string{"ENG", "OPS"},
		// no such flag on this command
		BrowserBin: "/usr/bin/chromium",
	}
	if err := bindFlags(cmd, cfg); err != nil {
		t.Fatalf("bindFlags: %v", err)
	}

	if out != "/from/flag" {
		t.Errorf("out = %q, command line should win", out)
	}
	if !pdf {
		t.Error("pdf not taken from config")
	}
	if html {
		t.Error("unset config value changed html")
	}
	if len(spaces) != 2 || spaces[0] != "ENG" || spaces[1] != "OPS" {
		t.Errorf("spaces = %v", spaces)
	}
}

func TestYamlConfigIsStrict(t *testing.T) {
	var cfg YamlConfig
	if err := yaml.UnmarshalStrict([]byte("out: /tmp/x\npdf: true\nspace: [ENG]\n"), &cfg); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if cfg.OutputDir != "/tmp/x" || cfg.PDF == nil || !*cfg.PDF {
		t.Errorf("cfg = %+v", cfg)
	}

	if err := yaml.UnmarshalStrict([]byte("outt: /tmp/x\n"), &cfg); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestShortVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		settings []debug.BuildSetting
		want     string
	}{
		{name: "nothing", version: "unknown", want: "devel"},
		{name: "devel", version: "(devel)", want: "devel"},
		{name: "tag", version: "v1.0.0", want: "v1.0.0"},
		{
			name:    "dirty revision",
			version: "v1.0.0",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: "v1.0.0-rev-abc123-dirty",
		},
		{
			name:     "clean revision",
			version:  "unknown",
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}, {Key: "vcs.modified", Value: "false"}},
			want:     "rev-abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortVersion(tt.version, tt.settings); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func resetConfigGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		Config, ConfigActual, ConfigSource, ConfigFound = "", "", "", false
		ParsedConfig = YamlConfig{}
	})
	Config = ""
}

func TestInitializeConfigFromEnvironment(t *testing.T) {
	resetConfigGlobals(t)

	path := filepath.Join(t.TempDir(), "export.yaml")
	if err := os.WriteFile(path, []byte("out: /tmp/export\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configEnv, path)

	var out string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&out, "out", "", "")

	if err := initializeConfig(cmd); err != nil {
		t.Fatalf("initializeConfig: %v", err)
	}
	if out != "/tmp/export" {
		t.Errorf("out = %q", out)
	}

	got := describeConfig()
	for _, want := range []string{path, "$" + configEnv, "loaded"} {
		if !strings.Contains(got, want) {
			t.Errorf("describeConfig() = %q, want it to mention %q", got, want)
		}
	}
}

func TestInitializeConfigExplicitMissing(t *testing.T) {
	resetConfigGlobals(t)
	Config = filepath.Join(t.TempDir(), "missing.yaml")

	if err := initializeConfig(&cobra.Command{Use: "test"}); err == nil {
		t.Fatal("missing --config file accepted")
	}
	if ConfigSource != "--config" || ConfigFound {
		t.Errorf("source = %q, found = %v", ConfigSource, ConfigFound)
	}
}
