// =============================================================================
// Grocery List Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the grocer CLI application. It initializes
// the Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   grocer process       - Convert grocery list files to CSV, XLSX or XML
//   grocer verify FILE   - Re-read and validate a converted file
//   grocer serve         - Run the demo grocery form server
//   grocer submit FILE   - Replay converted records against the form server
//   grocer version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/grocery-list-converter/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
