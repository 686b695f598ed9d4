// =============================================================================
// Grocery List Converter - Converter Module
// =============================================================================
//
// This module contains the per-file conversion pipeline. It takes one grocery
// list text file from disk to a serialized record file.
//
// CONVERSION PIPELINE:
//   1. Read the list file
//   2. Parse it into records (category, item, quantity)
//   3. Validate the records
//   4. Write the output file in the configured format (csv, xlsx, xml)
//   5. Archive the processed files
//
// CONCURRENCY:
//   Each file is processed in its own goroutine by the process command. A
//   Converter owns all of its state, so converters for different files can
//   run concurrently.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/grocery-list-converter/internal/config"
	"github.com/ginjaninja78/grocery-list-converter/internal/csvparser"
	"github.com/ginjaninja78/grocery-list-converter/internal/listparser"
	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
	"github.com/ginjaninja78/grocery-list-converter/internal/xlsxparser"
	"github.com/ginjaninja78/grocery-list-converter/internal/xmlwriter"
	"github.com/ginjaninja78/grocery-list-converter/pkg/utils"
)

// ErrInputRead marks failures to read an input list. Test with errors.Is.
var ErrInputRead = errors.New("failed to read input file")

// ErrValidation marks files whose records failed validation.
var ErrValidation = errors.New("validation failed")

// ErrUnsupportedFormat is returned for an unknown output format or extension.
var ErrUnsupportedFormat = errors.New("unsupported format")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated file.
	// This is empty if processing failed or was a dry run.
	OutputFile string

	// ArchivePath is where the input was archived, if it was.
	ArchivePath string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Parsed is the parser output, kept for reporting.
	Parsed *listparser.Result

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Items returns the parsed records, or nil when parsing never happened.
func (r Result) Items() []types.GroceryItem {
	if r.Parsed == nil {
		return nil
	}
	return r.Parsed.Items
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// LinesRead is the number of non-blank lines in the input.
	LinesRead int

	// RecordsCreated is the number of records emitted by the parser.
	RecordsCreated int

	// LinesSkipped is the number of non-blank lines that produced no record
	// and were not category headers.
	LinesSkipped int

	// Headers is the number of category header lines seen.
	Headers int

	// ValidationErrors is the number of validation errors encountered.
	ValidationErrors int

	// ValidationWarnings is the number of non-fatal validation findings.
	ValidationWarnings int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options adjust a single run.
type Options struct {
	// Format overrides config.OutputFormat when set.
	Format string

	// DryRun parses and validates but writes and archives nothing.
	DryRun bool
}

// Converter handles the conversion of a single list file.
type Converter struct {
	inputPath  string
	mainConfig *config.MainConfig
	files      *utils.FileManager
	opts       Options
	log        zerolog.Logger
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the grocery list file.
//   - mainConfig: The main application configuration.
//   - opts: Per-run overrides.
//   - log: The logger; the input file name is attached to every entry.
func New(inputPath string, mainConfig *config.MainConfig, opts Options, log zerolog.Logger) *Converter {
	files := utils.NewFileManager(
		mainConfig.InputDir,
		mainConfig.OutputDir,
		mainConfig.InputArchiveDir,
		mainConfig.OutputArchiveDir,
	)
	files.ArchiveOnSuccess = mainConfig.ArchiveInputs
	files.UseTimestampSubdirs = mainConfig.ArchiveDateSubdirs

	if opts.Format == "" {
		opts.Format = mainConfig.OutputFormat
	}
	opts.Format = strings.ToLower(opts.Format)

	return &Converter{
		inputPath:  inputPath,
		mainConfig: mainConfig,
		files:      files,
		opts:       opts,
		log:        log.With().Str("file", filepath.Base(inputPath)).Logger(),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// A file that yields no records still succeeds; its output holds only the
// header (or an empty root element for XML).
func (c *Converter) Run() (result Result) {
	startTime := time.Now()
	result = Result{FilePath: c.inputPath}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	c.log.Info().Msg("processing file")

	if !IsSupportedFormat(c.opts.Format) {
		result.Error = fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.opts.Format)
		return result
	}

	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrInputRead, err)
		return result
	}

	// =========================================================================
	// STEP 2: PARSE
	// =========================================================================

	lines := listparser.SplitLines(string(data))
	parsed := listparser.ParseLines(lines)
	result.Parsed = parsed
	result.Stats.LinesRead = len(lines)
	result.Stats.RecordsCreated = len(parsed.Items)
	result.Stats.LinesSkipped = len(parsed.Skipped)
	result.Stats.Headers = parsed.Headers

	for _, sk := range parsed.Skipped {
		c.log.Debug().
			Int("line", sk.Line.Number).
			Str("text", sk.Line.Text).
			Str("reason", string(sk.Reason)).
			Msg("line skipped")
	}

	c.log.Debug().
		Int("lines", result.Stats.LinesRead).
		Int("records", result.Stats.RecordsCreated).
		Int("categories", len(parsed.Categories())).
		Msg("parsed list")

	// =========================================================================
	// STEP 3: VALIDATE
	// =========================================================================

	vr := validation.ValidateItems(parsed.Items, 1)
	result.Stats.ValidationErrors = vr.ErrorCount
	result.Stats.ValidationWarnings = vr.WarningCount
	for _, ve := range vr.Errors {
		if ve.Severity == validation.SeverityWarning {
			c.log.Warn().Str("rule", ve.Rule).Msg(ve.Message)
		}
	}
	if !vr.IsValid {
		for _, ve := range vr.Errors {
			if ve.Severity == validation.SeverityError {
				c.log.Warn().Str("error", ve.Error()).Msg("validation error")
			}
		}
		if !c.opts.DryRun {
			c.writeErrorLog(vr.Errors)
		}
		result.Error = fmt.Errorf("%w with %d error(s)", ErrValidation, vr.ErrorCount)
		return result
	}

	if c.opts.DryRun {
		c.log.Info().Int("records", len(parsed.Items)).Msg("dry run, nothing written")
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	outputPath := c.outputPath()
	if err := c.writeOutput(outputPath, parsed.Items); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	c.log.Info().Str("output", outputPath).Int("records", len(parsed.Items)).Msg("wrote output")

	// =========================================================================
	// STEP 5: ARCHIVE FILES
	// =========================================================================

	if c.mainConfig.ArchiveInputs {
		archived, err := c.archiveFiles(outputPath)
		if err != nil {
			// The output exists; archival problems do not fail the file.
			c.log.Warn().Err(err).Msg("failed to archive files")
		}
		result.ArchivePath = archived
	}

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// outputPath builds the output file path from the naming format.
func (c *Converter) outputPath() string {
	name := utils.GenerateOutputFileName(
		c.mainConfig.OutputNameFormat,
		map[string]string{"original": utils.BaseName(c.inputPath)},
		"."+c.opts.Format,
	)
	return filepath.Join(c.mainConfig.OutputDir, name)
}

// writeOutput writes the records in the configured format. XML documents
// name their source list on the root element.
func (c *Converter) writeOutput(path string, items []types.GroceryItem) error {
	if c.opts.Format != config.FormatXML {
		return WriteItems(path, c.opts.Format, items)
	}
	options := xmlwriter.DefaultGenerateOptions()
	options.RootAttributes["source"] = filepath.Base(c.inputPath)
	return xmlwriter.WriteFileWithOptions(path, items, options)
}

// archiveFiles moves the input to the input archive and copies the output to
// the output archive. It returns the archived input path.
func (c *Converter) archiveFiles(outputPath string) (string, error) {
	archived, err := c.files.ArchiveInputFile(c.inputPath)
	if err != nil {
		return "", err
	}
	if _, err := c.files.ArchiveOutputFile(outputPath); err != nil {
		return archived, err
	}
	return archived, nil
}

// writeErrorLog stores validation errors next to the outputs.
func (c *Converter) writeErrorLog(errs []*validation.ValidationError) {
	if err := os.MkdirAll(c.mainConfig.OutputDir, 0o755); err != nil {
		c.log.Warn().Err(err).Msg("failed to create output directory for error log")
		return
	}
	path := filepath.Join(c.mainConfig.OutputDir, utils.BaseName(c.inputPath)+"_errors.txt")
	if err := validation.WriteErrorLog(errs, path); err != nil {
		c.log.Warn().Err(err).Msg("failed to write error log")
	}
}

// =============================================================================
// FORMAT DISPATCH
// =============================================================================

// IsSupportedFormat reports whether format names a known output format.
func IsSupportedFormat(format string) bool {
	switch format {
	case config.FormatCSV, config.FormatXLSX, config.FormatXML:
		return true
	}
	return false
}

// FormatForPath derives the format from a file extension.
func FormatForPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !IsSupportedFormat(format) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return format, nil
}

// WriteItems writes records to path in the given format.
func WriteItems(path, format string, items []types.GroceryItem) error {
	switch format {
	case config.FormatCSV:
		return csvparser.WriteFile(path, items)
	case config.FormatXLSX:
		return xlsxparser.WriteFile(path, items)
	case config.FormatXML:
		return xmlwriter.WriteFile(path, items)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadItems reads a file written by WriteItems back, picking the reader from
// the file extension, and validates its records.
func ReadItems(path string) ([]types.GroceryItem, *validation.ValidationResult, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, nil, err
	}

	switch format {
	case config.FormatXLSX:
		return xlsxparser.ReadItems(path)
	case config.FormatXML:
		return xmlwriter.ReadItems(path)
	default:
		return csvparser.ReadItems(path)
	}
}
