package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/tabkit/internal/export"
	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/pipeline"
)

var (
	exportSteps     stepFlags
	exportSheet     string
	exportDelimiter string
)

var exportCmd = &cobra.Command{
	Use:   "export OUT [FILE|-]",
	Short: "Write a transformed table to .xlsx or .csv",
	Long: `Apply steps and write the table to a file. The file type follows the
extension of OUT: .xlsx writes a workbook with numeric cells stored as
numbers, .csv and .txt write comma separated text, .tsv writes tabs.

Examples:
  tabkit export cities.xlsx cities.csv --where pop=int --sort pop --desc
  tabkit export out.csv data.txt -d ';' --out-delimiter '|'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	exportSteps.register(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportSheet, "sheet", export.DefaultSheet, "Worksheet name for .xlsx output")
	exportCmd.Flags().StringVar(&exportDelimiter, "out-delimiter", "", "Cell delimiter for .csv output (single character)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	dest := strings.TrimSpace(args[0])
	if _, err := export.KindFromPath(dest); err != nil {
		return asValidation(err)
	}

	recipeDelimiter, steps, err := exportSteps.build()
	if err != nil {
		return err
	}

	t, err := loadTable(cmd, args[1:], recipeDelimiter)
	if err != nil {
		return err
	}
	if err := pipeline.Run(t, steps); err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := export.Options{
		Sheet:       exportSheet,
		Delimiter:   unescapeDelimiter(exportDelimiter),
		OmitHeaders: !output.HeadersFromContext(ctx),
	}
	if err := writeExportFile(dest, t, opts); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("exported table", "path", dest, "rows", t.Len())

	if structuredOutputRequested() {
		return printData(ctx, map[string]interface{}{
			"status": "written",
			"path":   dest,
			"rows":   t.Len(),
		})
	}
	if output.QuietFromContext(ctx) {
		return nil
	}
	_, err = fmt.Fprintf(stdoutFromContext(ctx), "Wrote %d rows to %s\n", t.Len(), dest)
	return err
}
