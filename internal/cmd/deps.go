package cmd

import (
	"os"

	"github.com/salmonumbrella/tabkit/internal/export"
)

var (
	envGet          = os.Getenv
	writeExportFile = export.WriteFile
)
