package cmd

import (
	"context"

	"github.com/salmonumbrella/tabkit/internal/output"
	"github.com/salmonumbrella/tabkit/internal/table"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

// printData prints lists, maps, and scalars in the selected output format.
func printData(ctx context.Context, data interface{}) error {
	ctx = orBackground(ctx)
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

// printTable renders t in the selected output format.
func printTable(ctx context.Context, t *table.Table) error {
	ctx = orBackground(ctx)
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.PrintTable(ctx, t)
}

func orBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	if rootCmd != nil && rootCmd.Context() != nil {
		return rootCmd.Context()
	}
	return context.Background()
}
