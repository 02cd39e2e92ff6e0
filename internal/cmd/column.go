package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/table"
)

var columnCmd = &cobra.Command{
	Use:   "column HEADER [FILE|-]",
	Short: "Print the values of one column",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, args[1:], "")
		if err != nil {
			return err
		}
		values, err := t.GetColumn(args[0])
		if err != nil {
			return err
		}
		return printColumn(cmd, values)
	},
}

var headersCmd = &cobra.Command{
	Use:   "headers [FILE|-]",
	Short: "List the column headers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, args, "")
		if err != nil {
			return err
		}
		return printData(cmd.Context(), t.Headers())
	},
}

// printColumn prints cell values one per line, or as a typed list for
// structured formats.
func printColumn(cmd *cobra.Command, values []table.Value) error {
	data := make([]interface{}, len(values))
	for i, v := range values {
		if structuredOutputRequested() {
			data[i] = v.Interface()
		} else {
			data[i] = v.String()
		}
	}
	return printData(cmd.Context(), data)
}

func init() {
	rootCmd.AddCommand(columnCmd)
	rootCmd.AddCommand(headersCmd)
}
