package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/export"
	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/pdf/security"
	"github.com/a3tai/turni-pdf/internal/roster"
)

// ServiceOptions configures a Service
type ServiceOptions struct {
	MaxFileSize     int64
	RosterDirectory string
	OutputDirectory string
	Layout          *roster.Layout
	Logger          *zap.Logger
}

// Service handles roster operations by orchestrating the reader, the
// extractor and the writer
type Service struct {
	maxFileSize   int64
	tables        *TableReader
	writer        *Writer
	search        *Search
	extractor     *roster.Extractor
	pathValidator *security.PathValidator
	logger        *zap.Logger
}

// NewService creates a new roster service with all components
func NewService(opts ServiceOptions) (*Service, error) {
	pathValidator, err := security.NewPathValidator(opts.RosterDirectory, opts.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	layout := opts.Layout
	if layout == nil {
		layout = roster.DefaultLayout()
	}

	return &Service{
		maxFileSize:   opts.MaxFileSize,
		tables:        NewTableReader(opts.MaxFileSize, logger.Named("reader")),
		writer:        NewWriter(logger.Named("writer")),
		search:        NewSearch(opts.MaxFileSize),
		extractor:     roster.NewExtractor(roster.WithLayout(layout), roster.WithLogger(logger.Named("extractor"))),
		pathValidator: pathValidator,
		logger:        logger,
	}, nil
}

// ExtractShifts reads a roster and returns the sorted shifts of one person.
// A roster without day headers yields a NoHeaderFound error and a surname
// that appears in no day column yields NoMatchFound.
func (s *Service) ExtractShifts(req ExtractShiftsRequest) (*ExtractShiftsResult, error) {
	if err := validateSurname(req.Surname); err != nil {
		return nil, err
	}

	path, err := s.pathValidator.ResolveRoster(req.Path)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeSecurity, "security validation failed", err).WithFile(req.Path)
	}
	tables, err := s.tables.ReadTablesFile(path)
	if err != nil {
		return nil, err
	}

	return s.extract(tables, path, req.Surname)
}

// ExtractShiftsFromTables runs extraction over tables already read from path
func (s *Service) ExtractShiftsFromTables(tables []roster.Table, path, surname string) (*ExtractShiftsResult, error) {
	if err := validateSurname(surname); err != nil {
		return nil, err
	}
	return s.extract(tables, path, surname)
}

func (s *Service) extract(tables []roster.Table, path, surname string) (*ExtractShiftsResult, error) {
	result := s.extractor.Extract(tables, surname)

	s.logger.Info("roster processed",
		zap.String("path", path),
		zap.String("surname", surname),
		zap.Int("tables", len(tables)),
		zap.Int("days", len(result.Days)),
		zap.Int("matches", result.Matches))

	if len(result.Days) == 0 {
		return nil, errors.NewPDFError(errors.ErrorTypeNoHeaderFound, "no day header found in any table").WithFile(path)
	}
	if result.Matches == 0 {
		return nil, errors.NewPDFError(errors.ErrorTypeNoMatchFound, "no shifts found").
			WithContext(surname).
			WithFile(path)
	}

	return &ExtractShiftsResult{
		Path:       path,
		Surname:    surname,
		OutputName: roster.OutputFilename(path, surname),
		Tables:     len(tables),
		Days:       len(result.Days),
		Matches:    result.Matches,
		Shifts:     roster.SortShifts(roster.FillBathroomDefaults(result.Shifts)),
		Layout:     s.extractor.Layout().Version,
	}, nil
}

// RenderSchedule renders shifts to PDF bytes
func (s *Service) RenderSchedule(shifts []roster.Shift, surname string) ([]byte, error) {
	return s.writer.Render(shifts, surname)
}

// WriteSchedule renders shifts and writes them to name inside the output
// directory. A partially written file is removed.
func (s *Service) WriteSchedule(shifts []roster.Shift, surname, name string) (*WriteScheduleResult, error) {
	data, err := s.writer.Render(shifts, surname)
	if err != nil {
		return nil, err
	}

	path, err := s.pathValidator.OutputPath(name, ".pdf")
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeSecurity, "invalid output name", err)
	}
	if err := writeFile(path, data); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeRender, "failed to write schedule", err).WithFile(path)
	}

	s.logger.Info("schedule written", zap.String("path", path), zap.Int("shifts", len(shifts)))

	return &WriteScheduleResult{Path: path, Size: len(data), Shifts: len(shifts)}, nil
}

// WriteWorkbook exports shifts as an .xlsx workbook inside the output
// directory. A ".pdf" extension on name is replaced.
func (s *Service) WriteWorkbook(shifts []roster.Shift, surname, name string) (*WriteScheduleResult, error) {
	data, err := export.XLSX(shifts, surname)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeRender, "failed to export workbook", err)
	}

	if ext := filepath.Ext(name); strings.EqualFold(ext, ".pdf") {
		name = strings.TrimSuffix(name, ext)
	}
	path, err := s.pathValidator.OutputPath(name, ".xlsx")
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeSecurity, "invalid output name", err)
	}
	if err := writeFile(path, data); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeRender, "failed to write workbook", err).WithFile(path)
	}

	s.logger.Info("workbook written", zap.String("path", path), zap.Int("shifts", len(shifts)))

	return &WriteScheduleResult{Path: path, Size: len(data), Shifts: len(shifts)}, nil
}

func writeFile(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	_, err = f.Write(data)
	return err
}

// SearchDirectory searches for roster documents, defaulting to the
// configured directory
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.RosterDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, errors.WrapError(errors.ErrorTypeSecurity, "security validation failed", err)
	}

	return s.search.SearchDirectory(req)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// LayoutVersion names the row layout used for extraction
func (s *Service) LayoutVersion() string {
	return s.extractor.Layout().Version
}

// ServerInfo returns server information and usage guidance
func (s *Service) ServerInfo(_ ServerInfoRequest, serverName, version string) (*ServerInfoResult, error) {
	dir := s.pathValidator.RosterDirectory()

	// Directory scans are bounded so a slow mount cannot stall the reply
	resultChan := make(chan []FileInfo, 1)
	go func() {
		files, err := s.search.FindRosters(dir, 100)
		if err != nil {
			files = []FileInfo{}
		}
		resultChan <- files
	}()

	directoryContents := []FileInfo{}
	select {
	case files := <-resultChan:
		directoryContents = files
	case <-time.After(5 * time.Second):
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		OutputDirectory:   s.pathValidator.OutputDirectory(),
		MaxFileSize:       s.maxFileSize,
		Layout:            s.LayoutVersion(),
		AvailableTools:    availableTools,
		DirectoryContents: directoryContents,
		UsageGuidance:     usageGuidance,
	}, nil
}

const (
	minSurnameLength = 2
	maxSurnameLength = 64
)

func validateSurname(surname string) error {
	if n := utf8.RuneCountInString(surname); n < minSurnameLength || n > maxSurnameLength {
		msg := fmt.Sprintf("surname must be between %d and %d characters", minSurnameLength, maxSurnameLength)
		return errors.NewPDFError(errors.ErrorTypeInvalidInput, msg).WithContext(fmt.Sprintf("%q", surname))
	}
	return nil
}

var availableTools = []ToolInfo{
	{
		Name:        "roster_server_info",
		Description: "Show settings, the row layout, available rosters and this guide",
		Usage:       "Call first in a new session.",
		Parameters:  "none",
	},
	{
		Name:        "roster_search_directory",
		Description: "Find roster documents in the configured directory",
		Usage:       "Start here to pick the week to process. Only files named 'servizio custodia...' are listed unless all=true.",
		Parameters:  "directory (optional), query (optional), all (optional)",
	},
	{
		Name:        "roster_extract_shifts",
		Description: "Extract one person's shifts from a roster",
		Usage:       "Loads the shifts into this session's schedule, replacing any previous one.",
		Parameters:  "path (required), surname (required)",
	},
	{
		Name:        "roster_list_shifts",
		Description: "Show the session schedule as a numbered table",
		Usage:       "Use the row numbers with the edit and delete tools.",
		Parameters:  "none",
	},
	{
		Name:        "roster_add_shift",
		Description: "Add a shift to the session schedule",
		Usage:       "The schedule is re-sorted by weekday and start time after adding.",
		Parameters:  "day, date, location (required), time, bathroom (optional)",
	},
	{
		Name:        "roster_edit_shifts",
		Description: "Change location, time or bathroom duty of one or more rows",
		Usage:       "Blank fields keep each row's current value.",
		Parameters:  "rows (required, e.g. \"1,3\"), location, time, bathroom (optional)",
	},
	{
		Name:        "roster_delete_shift",
		Description: "Remove one row from the session schedule",
		Usage:       "Row numbers shift down after a delete; list again before the next edit.",
		Parameters:  "row (required)",
	},
	{
		Name:        "roster_render_pdf",
		Description: "Write the session schedule as a PDF",
		Usage:       "The file is named after the roster week unless a name is given.",
		Parameters:  "name (optional)",
	},
	{
		Name:        "roster_export_xlsx",
		Description: "Write the session schedule as an Excel workbook",
		Usage:       "Same columns as the PDF.",
		Parameters:  "name (optional)",
	},
}

const usageGuidance = `Roster Shift Extractor Usage Guide:

1. Find the roster with 'roster_search_directory'.
2. Extract a person's week with 'roster_extract_shifts' (path + surname).
3. Review with 'roster_list_shifts', then fix rows with 'roster_add_shift',
   'roster_edit_shifts' and 'roster_delete_shift'.
4. Produce the document with 'roster_render_pdf' or 'roster_export_xlsx'.

Days with no assignment are listed as 'Riposo'. Rows of the roster that are not
part of the known layout appear as 'Turno non definito' and should be edited.
The 'Pulizia bagni' column is only printed when a Giardini del Castello shift exists.`
