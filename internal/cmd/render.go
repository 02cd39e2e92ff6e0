package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/pipeline"
)

var renderSteps stepFlags

var renderCmd = &cobra.Command{
	Use:   "render [FILE|-]",
	Short: "Parse, transform, and print a table",
	Long: `Parse delimited text, apply steps, and print the result.

Steps run in this order: recipe steps, --where, --add, --sort, then --step.
A transform is a builtin name (see 'tabkit transforms') or a jq expression
applied to the cell value.

Examples:
  tabkit render cities.csv --where pop=int --sort pop --desc
  tabkit render cities.csv --add 'millions=pop:. / 1000000'
  cat cities.csv | tabkit render --step 'where area float' -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderSteps.register(renderCmd.Flags())
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	recipeDelimiter, steps, err := renderSteps.build()
	if err != nil {
		return err
	}

	t, err := loadTable(cmd, args, recipeDelimiter)
	if err != nil {
		return err
	}

	loggerFromContext(cmd.Context()).Debug("running steps", "count", len(steps))
	if err := pipeline.Run(t, steps); err != nil {
		return err
	}
	return printTable(cmd.Context(), t)
}
