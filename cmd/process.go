// =============================================================================
// Grocery List Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command for converting
// grocery list files. It orchestrates the conversion pipeline.
//
// COMMAND USAGE:
//   grocer process [flags]
//
// FLAGS:
//   --file     : Path to a specific list to process instead of the input dir
//   --format   : Output format (csv, xlsx, xml); overrides output_format
//   --dry-run  : Parse and validate without writing or archiving anything
//
// PROCESSING PIPELINE:
//   1. Discover list files in the input directory (or take --file)
//   2. For each file (concurrently, at most max_concurrency at a time):
//      a. Read and parse the list
//      b. Validate the records
//      c. Write the output file
//      d. Archive the processed files
//   3. Print per-file results, a sample of the records and the category
//      breakdown
//   4. Write the processing summary log
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grocery-list-converter/internal/config"
	"github.com/ginjaninja78/grocery-list-converter/internal/converter"
	"github.com/ginjaninja78/grocery-list-converter/internal/logger"
	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/pkg/utils"
)

// sampleSize is the number of records echoed after a run.
const sampleSize = 10

// errStopped marks files that were not started because stop_on_error fired.
var errStopped = errors.New("not processed: an earlier file failed and stop_on_error is set")

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	dryRun       bool
	filePath     string
	outputFormat string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert grocery list files to CSV, XLSX or XML",
	Long: `The process command scans the input directory for grocery list files
(input_pattern, *.txt by default) and converts each one into records.

Files are processed concurrently. Each file is processed independently, and
an error in one file does not affect the others unless stop_on_error is set.

On successful processing:
  - The output file is placed in the output directory
  - With archive_inputs, the list is moved to the input archive and the output
    is copied to the output archive

A file that yields no records is still a success; a warning is logged.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.OutOrStdout(), mainConfig)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and validate without writing output files",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific list file to process",
	)

	processCmd.Flags().StringVar(
		&outputFormat,
		"format",
		"",
		"Output format: csv, xlsx or xml (default from config)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess converts the discovered files and reports on them.
func runProcess(out io.Writer, cfg *config.MainConfig) error {
	log := logger.Named("process")
	summary := utils.ProcessingSummary{
		StartTime:  time.Now(),
		Categories: map[string]int{},
	}

	fmt.Fprintln(out, "=== Grocery List Converter ===")

	format := strings.ToLower(outputFormat)
	if format != "" && !converter.IsSupportedFormat(format) {
		return fmt.Errorf("%w: %q", converter.ErrUnsupportedFormat, outputFormat)
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		if !dryRun {
			if err := files.EnsureDirectories(); err != nil {
				return err
			}
		}
		found, err := files.DiscoverInputFiles(cfg.InputPattern)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		inputFiles = found
	}

	if len(inputFiles) == 0 {
		fmt.Fprintf(out, "No files matching %s found in %s.\n", cfg.InputPattern, cfg.InputDir)
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))
	summary.TotalFiles = len(inputFiles)

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	results := processFiles(inputFiles, cfg, converter.Options{Format: format, DryRun: dryRun})

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	var sample []types.GroceryItem
	for _, result := range results {
		name := filepath.Base(result.FilePath)

		if result.Parsed != nil {
			summary.TotalLines += result.Stats.LinesRead
			summary.SkippedLines += result.Stats.LinesSkipped
		}
		summary.ValidationErrors += result.Stats.ValidationErrors

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FilePath,
				ErrorMessage: result.Error.Error(),
				ErrorType:    errorType(result.Error),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRecords += result.Stats.RecordsCreated
		for category, n := range result.Parsed.CategoryCounts() {
			summary.Categories[category] += n
		}
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   result.FilePath,
			OutputFile:  result.OutputFile,
			ArchivePath: result.ArchivePath,
			Records:     result.Stats.RecordsCreated,
			Skipped:     result.Stats.LinesSkipped,
			ProcessTime: result.Stats.ProcessingTime,
		})

		target := result.OutputFile
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d records)\n", name, target, result.Stats.RecordsCreated)

		for _, item := range result.Items() {
			if len(sample) == sampleSize {
				break
			}
			sample = append(sample, item)
		}
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	printReport(out, summary, sample)

	if !dryRun {
		path, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			log.Warn().Err(err).Msg("failed to write summary log")
		} else {
			log.Debug().Str("path", path).Msg("wrote summary log")
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processFiles runs one converter per file, at most cfg.MaxConcurrency at a
// time, and returns the results in input order.
func processFiles(inputFiles []string, cfg *config.MainConfig, opts converter.Options) []converter.Result {
	log := logger.Named("converter")
	results := make([]converter.Result, len(inputFiles))
	sem := make(chan struct{}, cfg.MaxConcurrency)

	var (
		wg      sync.WaitGroup
		stopped atomic.Bool
	)

	for i, file := range inputFiles {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if stopped.Load() {
				results[i] = converter.Result{FilePath: path, Error: errStopped}
				return
			}

			result := converter.New(path, cfg, opts, *log).Run()
			if !result.Success && cfg.StopOnError {
				stopped.Store(true)
			}
			results[i] = result
		}(i, file)
	}

	wg.Wait()
	return results
}

// printReport prints the run totals, the record sample and the category
// breakdown.
func printReport(out io.Writer, summary utils.ProcessingSummary, sample []types.GroceryItem) {
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Records:         %d across %d categories\n", summary.TotalRecords, len(summary.Categories))
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	if len(sample) > 0 {
		fmt.Fprintln(out, "\nSample of parsed items:")
		for _, item := range sample {
			fmt.Fprintf(out, "  %s: %s (%d)\n", item.Category, item.Item, item.Quantity)
		}
	}

	if len(summary.Categories) > 0 {
		fmt.Fprintln(out, "\nCategory breakdown:")
		for _, c := range summary.SortedCategories() {
			fmt.Fprintf(out, "  %s: %d items\n", c.Category, c.Count)
		}
	}
}

// errorType classifies a failure for the summary log.
func errorType(err error) string {
	switch {
	case errors.Is(err, converter.ErrInputRead):
		return "input_read"
	case errors.Is(err, errStopped):
		return "skipped"
	case errors.Is(err, converter.ErrUnsupportedFormat):
		return "format"
	case errors.Is(err, converter.ErrValidation):
		return "validation"
	default:
		return "output"
	}
}
