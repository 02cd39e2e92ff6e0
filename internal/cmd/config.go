package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/config"
	"github.com/salmonumbrella/tabkit/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration stored in ~/.config/tabkit/config.yaml.
A --config path ending in .toml is read and written as TOML.

Keys: delimiter, output_format, error_format, first_column_width,
column_padding, with_headers.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigFromFlag()
		if err != nil {
			return formatConfigLoadError(err)
		}
		return printData(cmd.Context(), configOutput(cfg))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported configuration keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := supportedConfigKeys()
		sort.Strings(keys)
		return printData(cmd.Context(), keys)
	},
}

func configPath() (string, error) {
	if strings.TrimSpace(configFile) != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func supportedConfigKeys() []string {
	return []string{
		"delimiter",
		"output_format",
		"error_format",
		"first_column_width",
		"column_padding",
		"with_headers",
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "delimiter":
		if value == "" {
			return invalidInput("delimiter must not be empty")
		}
		cfg.Delimiter = value
	case "output_format":
		format, err := output.ParseFormat(value)
		if err != nil {
			return asValidation(err)
		}
		cfg.OutputFormat = string(format)
	case "error_format":
		if err := validateErrorFormat(value); err != nil {
			return asValidation(err)
		}
		cfg.ErrorFormat = strings.ToLower(value)
	case "first_column_width", "column_padding":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return invalidInput("%s must be a non-negative integer, got %q", key, value)
		}
		if key == "first_column_width" {
			cfg.FirstColumnWidth = &n
		} else {
			cfg.ColumnPadding = &n
		}
	case "with_headers":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return invalidInput("with_headers must be true or false, got %q", value)
		}
		cfg.WithHeaders = &b
	default:
		return invalidInput("unknown config key: %s", key)
	}
	return nil
}

func clearConfigValue(cfg *config.Config, key string) error {
	switch key {
	case "delimiter":
		cfg.Delimiter = ""
	case "output_format":
		cfg.OutputFormat = ""
	case "error_format":
		cfg.ErrorFormat = ""
	case "first_column_width":
		cfg.FirstColumnWidth = nil
	case "column_padding":
		cfg.ColumnPadding = nil
	case "with_headers":
		cfg.WithHeaders = nil
	default:
		return invalidInput("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	value := args[1]
	if key != "delimiter" {
		value = strings.TrimSpace(value)
	}

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printData(cmd.Context(), map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}

	_, err = fmt.Fprintf(stdoutFromContext(cmd.Context()), "Updated %s\n", key)
	return err
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))

	cfg, err := loadConfigFromFlag()
	if err != nil {
		return formatConfigLoadError(err)
	}

	if err := clearConfigValue(cfg, key); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	if structuredOutputRequested() {
		return printData(cmd.Context(), map[string]string{
			"status": "unset",
			"key":    key,
		})
	}

	_, err = fmt.Fprintf(stdoutFromContext(cmd.Context()), "Unset %s\n", key)
	return err
}

// configOutput reports every key, using the effective default where unset.
func configOutput(cfg *config.Config) map[string]interface{} {
	layout := layoutFromConfig(cfg)
	withHeaders := true
	if cfg.WithHeaders != nil {
		withHeaders = *cfg.WithHeaders
	}
	return map[string]interface{}{
		"delimiter":          cfg.Delimiter,
		"output_format":      cfg.OutputFormat,
		"error_format":       cfg.ErrorFormat,
		"first_column_width": layout.FirstColumnWidth,
		"column_padding":     layout.Padding,
		"with_headers":       withHeaders,
	}
}
