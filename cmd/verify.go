// =============================================================================
// Grocery List Converter - Verify Command
// =============================================================================
//
// COMMAND USAGE:
//   grocer verify FILE
//
// CHECKS:
//   - The file is a CSV, XLSX or XML output of 'process'
//   - The header is exactly category, item, quantity
//   - Every row has a category, an item and a positive integer quantity
//   - At least one record is present
//
// The command exits non-zero when any check fails.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grocery-list-converter/internal/converter"
	"github.com/ginjaninja78/grocery-list-converter/internal/logger"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// verifyCmd represents the 'verify' command.
var verifyCmd = &cobra.Command{
	Use:   "verify FILE",
	Short: "Validate a converted CSV, XLSX or XML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(out io.Writer, path string) error {
	log := logger.Named("verify")

	items, result, err := converter.ReadItems(path)
	if err != nil {
		return err
	}

	log.Debug().
		Str("file", path).
		Int("records", result.RecordsValidated).
		Int("errors", result.ErrorCount).
		Msg("verified file")

	if !result.IsValid {
		fmt.Fprint(out, validation.FormatErrors(result.Errors))
		return fmt.Errorf("%s: %w", path, result.Err())
	}

	fmt.Fprintf(out, "✓ %s: %d valid records\n", path, len(items))
	return nil
}
