package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/transform"
)

var transformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "List builtin transforms",
	Long: `List the builtin transform names accepted by --where, --add, and steps.
Anything that is not a builtin name is compiled as a jq expression.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printData(cmd.Context(), transform.Names())
	},
}

func init() {
	rootCmd.AddCommand(transformsCmd)
}
