package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/config"
	"github.com/a3tai/turni-pdf/internal/logging"
	"github.com/a3tai/turni-pdf/internal/pdf"
	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
)

// options are the parsed command line of one invocation
type options struct {
	surname  string
	outDir   string
	format   string
	layout   string
	xlsx     bool
	dryRun   bool
	logLevel string
	file     string
}

// Output is the JSON document printed with -format json
type Output struct {
	Source     string         `json:"source"`
	Surname    string         `json:"surname"`
	Layout     string         `json:"layout"`
	Matches    int            `json:"matches"`
	Shifts     []roster.Shift `json:"shifts"`
	PDF        string         `json:"pdf,omitempty"`
	Workbook   string         `json:"workbook,omitempty"`
	OutputName string         `json:"output_name"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err == pflag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return 2
	}

	logger, err := logging.NewLoggerTo(stderr, opts.logLevel, logging.FormatConsole)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	out, err := extract(opts, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describeFailure(err, opts))
		return 1
	}

	if err := writeOutput(stdout, opts.format, out); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

// describeFailure puts the outcome a person can act on ahead of the details
func describeFailure(err error, opts *options) string {
	switch {
	case errors.IsNotFound(err):
		return fmt.Sprintf("no shifts found for %s in %s (%v)", opts.surname, filepath.Base(opts.file), err)
	case stderrors.Is(err, errors.ErrRender):
		return fmt.Sprintf("could not write the schedule (%v)", err)
	default:
		return err.Error()
	}
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	flags := pflag.NewFlagSet("turni-extract", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.surname, "surname", "s", "", "Surname to look for (required)")
	flags.StringVarP(&opts.outDir, "out", "o", "", "Directory for the generated schedule (defaults to the roster's directory)")
	flags.StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	flags.StringVar(&opts.layout, "layout", "", "Row layout file replacing the built-in one")
	flags.BoolVar(&opts.xlsx, "xlsx", false, "Also write an Excel workbook")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the shifts without writing any file")
	flags.StringVar(&opts.logLevel, "loglevel", "warn", "Log level (debug, info, warn, error)")
	flags.Usage = func() { printUsage(stderr) }

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if flags.NArg() != 1 {
		return nil, fmt.Errorf("exactly one roster PDF is required")
	}
	opts.file = flags.Arg(0)

	if opts.surname == "" {
		return nil, fmt.Errorf("--surname is required")
	}
	if opts.format != "text" && opts.format != "json" {
		return nil, fmt.Errorf("invalid format %q (must be text or json)", opts.format)
	}
	return opts, nil
}

// extract reads the roster and, unless this is a dry run, writes the
// schedule next to it or into the output directory
func extract(opts *options, logger *zap.Logger) (*Output, error) {
	path, err := filepath.Abs(opts.file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.file, err)
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}

	var layout *roster.Layout
	if opts.layout != "" {
		if layout, err = roster.LoadLayout(opts.layout); err != nil {
			return nil, err
		}
	}

	service, err := pdf.NewService(pdf.ServiceOptions{
		MaxFileSize:     config.DefaultMaxFileSize,
		RosterDirectory: filepath.Dir(path),
		OutputDirectory: outDir,
		Layout:          layout,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	result, err := service.ExtractShifts(pdf.ExtractShiftsRequest{Path: path, Surname: opts.surname})
	if err != nil {
		return nil, err
	}

	out := &Output{
		Source:     result.Path,
		Surname:    result.Surname,
		Layout:     result.Layout,
		Matches:    result.Matches,
		Shifts:     result.Shifts,
		OutputName: result.OutputName,
	}
	if opts.dryRun {
		return out, nil
	}

	written, err := service.WriteSchedule(result.Shifts, result.Surname, result.OutputName)
	if err != nil {
		return nil, err
	}
	out.PDF = written.Path

	if opts.xlsx {
		workbook, err := service.WriteWorkbook(result.Shifts, result.Surname, result.OutputName)
		if err != nil {
			return nil, err
		}
		out.Workbook = workbook.Path
	}

	return out, nil
}

func writeOutput(w io.Writer, format string, out *Output) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(w, "Turni di lavoro %s\n", out.Surname)
	fmt.Fprintf(w, "Roster: %s\n\n", out.Source)
	fmt.Fprint(w, roster.FormatShiftTable(out.Shifts))
	if out.PDF != "" {
		fmt.Fprintf(w, "\nSchedule written to: %s\n", out.PDF)
	}
	if out.Workbook != "" {
		fmt.Fprintf(w, "Workbook written to: %s\n", out.Workbook)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  turni-extract --surname <surname> [OPTIONS] <roster.pdf>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  -s, --surname    Surname to look for (required)")
	fmt.Fprintln(w, "  -o, --out        Directory for the generated schedule (defaults to the roster's directory)")
	fmt.Fprintln(w, "  -f, --format     Output format: text (default), json")
	fmt.Fprintln(w, "      --layout     Row layout file replacing the built-in one")
	fmt.Fprintln(w, "      --xlsx       Also write an Excel workbook")
	fmt.Fprintln(w, "      --dry-run    Print the shifts without writing any file")
	fmt.Fprintln(w, "      --loglevel   Log level (default warn)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, `  turni-extract -s Rossi "Servizio Custodia dal 01 al 07.pdf"`)
	fmt.Fprintln(w, `  turni-extract -s Rossi -o ~/turni --xlsx "Servizio Custodia dal 01 al 07.pdf"`)
	fmt.Fprintln(w, `  turni-extract -s Rossi -f json --dry-run roster.pdf`)
}
