package cmd

import (
	"fmt"
	"strings"

	"github.com/salmonumbrella/tabkit/internal/config"
	"github.com/salmonumbrella/tabkit/internal/table"
	"github.com/spf13/cobra"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// resolveDelimiter resolves the cell delimiter with precedence:
// flag > env > config > default.
func resolveDelimiter(cmd *cobra.Command, cfg *config.Config) string {
	if flagChanged(cmd, "delimiter") && delimiter != "" {
		return unescapeDelimiter(delimiter)
	}
	if v := envGet("TABKIT_DELIMITER"); v != "" {
		return unescapeDelimiter(v)
	}
	if cfg != nil && cfg.Delimiter != "" {
		return unescapeDelimiter(cfg.Delimiter)
	}
	return table.DefaultDelimiter
}

// unescapeDelimiter lets a tab be passed as the two characters \t.
func unescapeDelimiter(d string) string {
	if d == `\t` {
		return "\t"
	}
	return d
}

// resolveWithHeaders reports whether table output includes the header line:
// --no-headers > config with_headers > true.
func resolveWithHeaders(cmd *cobra.Command, cfg *config.Config) bool {
	if flagChanged(cmd, "no-headers") {
		return !noHeaders
	}
	if cfg != nil && cfg.WithHeaders != nil {
		return *cfg.WithHeaders
	}
	return true
}

// layoutFromConfig applies config overrides to the default column layout.
func layoutFromConfig(cfg *config.Config) table.Layout {
	layout := table.DefaultLayout()
	if cfg == nil {
		return layout
	}
	if cfg.FirstColumnWidth != nil {
		layout.FirstColumnWidth = *cfg.FirstColumnWidth
	}
	if cfg.ColumnPadding != nil {
		layout.Padding = *cfg.ColumnPadding
	}
	return layout
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
