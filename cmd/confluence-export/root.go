/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-export/internal/termfmt"
	"gopkg.in/yaml.v2"
)

const (
	defaultConfig = "~/.config/confluence-export.yaml"
	configEnv     = "CONFLUENCE_EXPORT_CONFIG"
)

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	// ConfigSource says where ConfigActual came from: the --config flag, the environment or the
	// default location.
	ConfigSource string
	ConfigFound  bool
	Debug        bool
	NoColor      bool

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string
	EnvFile      string

	AuthUsername       string
	ConfluenceInstance string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence-export",
	Short: "Export Confluence spaces to browsable HTML, Markdown and PDF",
	Long: `
Turn a Confluence space into a folder you can open without Confluence: every page becomes a
directory holding a styled HTML preview, a Markdown copy and, optionally, a printable PDF, nested
the same way the pages are nested in the wiki.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence-export: failed to initialise config: %w", err)
		}
		if NoColor || os.Getenv("NO_COLOR") != "" {
			termfmt.SetEnabled(false)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfig+", respects "+configEnv+")")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "don't style terminal output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve Atlassian auth token (default: $CONFLUENCE_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&EnvFile, "env-file", "", "dotenv file to load before reading CONFLUENCE_API_TOKEN")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "your Atlassian username")
	rootCmd.PersistentFlags().StringVar(&ConfluenceInstance, "confluence-instance", "", "your Atlassian ORG name, e.g. ORG in ORG.atlassian.net")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	ConfigSource = "--config"
	ConfigFound = false
	if !explicit {
		// Did the user provide an ENV?
		if envConfig := os.Getenv(configEnv); envConfig != "" {
			Config = envConfig
			ConfigSource = "$" + configEnv
			explicit = true
		} else {
			Config = defaultConfig
			ConfigSource = "default"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence-export: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	yamlFile, err := os.ReadFile(ConfigActual)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		// Everything can be given as flags, so the default file is optional.
		debugLog("No config file at %s, using flags only.\n", ConfigActual)
		return nil
	}
	if err != nil {
		return fmt.Errorf("confluence-export: error reading config file: %w", err)
	}
	ConfigFound = true

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("confluence-export: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("confluence-export: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	HTML            *bool `yaml:"html"`
	Markdown        *bool `yaml:"markdown"`
	PDF             *bool `yaml:"pdf"`
	Prune           *bool `yaml:"prune"`
	Progress        *bool `yaml:"progress"`
	WithVCR         *bool `yaml:"with-vcr"`
	IncludeArchived *bool `yaml:"include-archived"`
	NoSandbox       *bool `yaml:"no-sandbox"`

	OutputDir          string   `yaml:"out"`
	BrowserBin         string   `yaml:"browser-bin"`
	EnvFile            string   `yaml:"env-file"`
	ConfluenceInstance string   `yaml:"confluence-instance"`
	AuthUsername       string   `yaml:"auth-username"`
	AuthTokenCmd       []string `yaml:"auth-token-cmd"`
	Spaces             []string `yaml:"space"`
}

// Bind each config value onto the cobra flag of the same name, unless the flag was given on the
// command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence-export: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// e.g. `list spaces` has no --pdf flag, but the config file may still set it.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("confluence-export: found unrecognised field: %s", field.Name())
			}
			if b != nil {
				if err := cmd.Flags().Set(key, fmt.Sprintf("%v", *b)); err != nil {
					return fmt.Errorf("confluence-export: couldn't set %s: %w", key, err)
				}
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("confluence-export: found unrecognised field: %s", field.Name())
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("confluence-export: couldn't set %s: %w", key, err)
				}
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("confluence-export: found unrecognised field: %s", field.Name())
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("confluence-export: couldn't set %s: %w", key, err)
				}
			}

		default:
			return fmt.Errorf("confluence-export: found unrecognised field: %s", field.Name())
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("confluence-export: execution error: %w", err)
	}

	return nil
}
