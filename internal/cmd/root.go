package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salmonumbrella/tabkit/internal/config"
	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf("tabkit version %s (commit: %s, built: %s)\n", version, commit, date)
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	delimiter   string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	noHeaders   bool
	resultLimit int
)

// cfg is the configuration loaded for the running command
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tabkit",
	Short: "Reshape and render small delimited tables",
	Long: `tabkit parses delimited text into headers and rows, transforms columns,
sorts, derives new columns, and renders the result as a fixed-width table
or as JSON, YAML, or tab-aligned output.

Environment Variables:
  TABKIT_DELIMITER  Default cell delimiter
  TABKIT_OUTPUT     Default output format`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = withLogger(ctx, newLogger(cmd.ErrOrStderr(), debug))
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		cfg = &config.Config{}
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}

		// Output format selection: --output > env > config > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") {
			if v := strings.TrimSpace(envGet("TABKIT_OUTPUT")); v != "" {
				formatStr = v
			} else if strings.TrimSpace(cfg.OutputFormat) != "" {
				formatStr = strings.TrimSpace(cfg.OutputFormat)
			}
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// Error format: --error-format > config > auto
		if !flagChanged(cmd, "error-format") && strings.TrimSpace(cfg.ErrorFormat) != "" {
			errorFmt = strings.TrimSpace(cfg.ErrorFormat)
		}

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}
		if queryExpr != "" && !output.IsStructured(outputType) {
			return fmt.Errorf("--query requires --output json, ndjson or yaml")
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithHeaders(ctx, resolveWithHeaders(cmd, cfg))
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		loggerFromContext(ctx).Debug("resolved settings",
			"output", string(outputType),
			"delimiter", resolveDelimiter(cmd, cfg),
			"config", configFile,
		)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	c, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if c != nil && c.Context() != nil {
			ctx = c.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVarP(&delimiter, "delimiter", "d", "", "Cell delimiter (default \",\", env: TABKIT_DELIMITER)")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter structured output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false, "Omit the header line from table output")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of rows in output (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/tabkit/config.yaml)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
