package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/table"
)

// loadTable reads table text from args (file or -) or piped stdin and parses
// it with the resolved delimiter. recipeDelimiter applies when neither the
// flag nor TABKIT_DELIMITER set one.
func loadTable(cmd *cobra.Command, args []string, recipeDelimiter string) (*table.Table, error) {
	ctx := cmd.Context()
	raw, err := readTableInput(args, stdinFromContext(ctx))
	if err != nil {
		return nil, err
	}

	delim := resolveDelimiter(cmd, cfg)
	if recipeDelimiter != "" && !flagChanged(cmd, "delimiter") && envGet("TABKIT_DELIMITER") == "" {
		delim = unescapeDelimiter(recipeDelimiter)
	}

	logger := loggerFromContext(ctx)
	logger.Debug("parsing table", "bytes", len(raw), "delimiter", delim)

	t := table.New(raw, table.ParseOptions{Delimiter: delim},
		table.WithLogger(logger),
		table.WithLayout(layoutFromConfig(cfg)),
		table.WithOutput(stdoutFromContext(ctx)),
	)
	if err := t.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
