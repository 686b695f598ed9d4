// =============================================================================
// Grocery List Converter - Submit Command
// =============================================================================
//
// COMMAND USAGE:
//   grocer submit FILE [--min-delay 2s] [--max-delay 4s]
//
// PROCESS:
//   1. Read and validate FILE (a CSV, XLSX or XML output of 'process')
//   2. Check that the form server answers on form_url
//   3. Submit every record to submit_url, pausing a random delay in
//      [min_delay, max_delay] between records
//   4. Print the replay summary
//
// A record that fails is reported and skipped. The command exits non-zero
// when any record failed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grocery-list-converter/internal/converter"
	"github.com/ginjaninja78/grocery-list-converter/internal/logger"
	"github.com/ginjaninja78/grocery-list-converter/internal/submitter"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

var (
	submitMinDelay time.Duration
	submitMaxDelay time.Duration
)

// submitCmd represents the 'submit' command.
var submitCmd = &cobra.Command{
	Use:   "submit FILE",
	Short: "Replay converted records against the form server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("min-delay") {
			mainConfig.MinDelay = submitMinDelay
		}
		if cmd.Flags().Changed("max-delay") {
			mainConfig.MaxDelay = submitMaxDelay
		}
		if mainConfig.MaxDelay < mainConfig.MinDelay {
			return fmt.Errorf("max-delay %s is below min-delay %s", mainConfig.MaxDelay, mainConfig.MinDelay)
		}
		return runSubmit(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().DurationVar(&submitMinDelay, "min-delay", 0, "Shortest pause between submissions (default from config)")
	submitCmd.Flags().DurationVar(&submitMaxDelay, "max-delay", 0, "Longest pause between submissions (default from config)")
}

func runSubmit(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	log := logger.Named("submitter")

	items, result, err := converter.ReadItems(path)
	if err != nil {
		return err
	}
	if !result.IsValid {
		fmt.Fprint(out, validation.FormatErrors(result.Errors))
		return fmt.Errorf("%s: %w", path, result.Err())
	}

	fmt.Fprintf(out, "Found %d records to submit\n", len(items))

	client := submitter.New(submitter.Options{
		FormURL:   mainConfig.FormURL,
		SubmitURL: mainConfig.SubmitURL,
		MinDelay:  mainConfig.MinDelay,
		MaxDelay:  mainConfig.MaxDelay,
		Timeout:   mainConfig.RequestTimeout,
	}, *log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.CheckServer(ctx); err != nil {
		return fmt.Errorf("%w (start it with 'grocer serve')", err)
	}
	fmt.Fprintf(out, "Form server is up at %s\n", mainConfig.FormURL)

	summary, err := client.SubmitAll(ctx, items)
	printSubmitSummary(out, summary)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d record(s) failed", summary.Failed, summary.Total)
	}
	return nil
}

func printSubmitSummary(out io.Writer, summary submitter.Summary) {
	fmt.Fprintln(out, "\n=== Submission Complete ===")
	fmt.Fprintf(out, "Total records:   %d\n", summary.Total)
	fmt.Fprintf(out, "Submitted:       %d\n", summary.Succeeded)
	fmt.Fprintf(out, "Failed:          %d\n", summary.Failed)
	for _, f := range summary.Failures {
		fmt.Fprintf(out, "  ✗ #%d %s - %s (%d): %v\n", f.Index+1, f.Item.Category, f.Item.Item, f.Item.Quantity, f.Err)
	}
}
