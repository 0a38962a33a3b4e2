package mcp

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/config"
	"github.com/a3tai/turni-pdf/internal/descriptions"
	"github.com/a3tai/turni-pdf/internal/pdf"
	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
	"github.com/a3tai/turni-pdf/internal/session"
)

// defaultSessionID keys the schedule of calls made outside any client
// session, such as direct handler calls.
const defaultSessionID = "default"

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *pdf.Service
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pdf.Service, sessions *session.Manager, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:   cfg,
		service:  service,
		sessions: sessions,
		logger:   logger,
	}

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(_ context.Context, cs server.ClientSession) {
		if s.sessions.Forget(cs.SessionID()) {
			s.logger.Debug("session schedule dropped", zap.String("session", cs.SessionID()))
		}
	})

	s.mcpServer = server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"roster_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("roster_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the roster directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional fuzzy match on the file name"),
		),
		mcp.WithBoolean("all",
			mcp.Description("List every PDF, not only 'servizio custodia' rosters"),
		),
	), s.handleSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_extract_shifts",
		mcp.WithDescription(descriptions.GetToolDescription("roster_extract_shifts")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Roster PDF, absolute or relative to the roster directory"),
		),
		mcp.WithString("surname",
			mcp.Required(),
			mcp.Description("Surname as printed in the roster"),
		),
	), s.handleExtractShifts)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_list_shifts",
		mcp.WithDescription(descriptions.GetToolDescription("roster_list_shifts")),
	), s.handleListShifts)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_add_shift",
		mcp.WithDescription(descriptions.GetToolDescription("roster_add_shift")),
		mcp.WithString("day", mcp.Required(), mcp.Description("Italian weekday, e.g. giovedì")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day of month, e.g. 4")),
		mcp.WithString("location", mcp.Required(), mcp.Description("Workplace")),
		mcp.WithString("time", mcp.Description("Time range, e.g. 08:00-14:00")),
		mcp.WithString("bathroom", mcp.Description("Bathroom cleaning duty: si or no")),
	), s.handleAddShift)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_edit_shifts",
		mcp.WithDescription(descriptions.GetToolDescription("roster_edit_shifts")),
		mcp.WithString("rows", mcp.Required(), mcp.Description("Comma-separated row numbers, e.g. 1,3")),
		mcp.WithString("location", mcp.Description("New location, blank keeps the current one")),
		mcp.WithString("time", mcp.Description("New time range, blank keeps the current one")),
		mcp.WithString("bathroom", mcp.Description("si or no, blank keeps the current answer")),
	), s.handleEditShifts)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_delete_shift",
		mcp.WithDescription(descriptions.GetToolDescription("roster_delete_shift")),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Row number from roster_list_shifts")),
	), s.handleDeleteShift)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_render_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("roster_render_pdf")),
		mcp.WithString("name", mcp.Description("Output file name (defaults to the roster week name)")),
	), s.handleRenderPDF)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_export_xlsx",
		mcp.WithDescription(descriptions.GetToolDescription("roster_export_xlsx")),
		mcp.WithString("name", mcp.Description("Output file name (defaults to the roster week name)")),
	), s.handleExportXLSX)

	s.mcpServer.AddTool(mcp.NewTool(
		"roster_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("roster_server_info")),
	), s.handleServerInfo)
}

// sessionID identifies the client a tool call belongs to
func sessionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return defaultSessionID
}

// Handler functions
func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.SearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
		All:       request.GetBool("all", false),
	}

	result, err := s.service.SearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No roster files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(text), nil
	}

	return mcp.NewToolResultText(s.formatSearchDirectoryResult(result)), nil
}

func (s *Server) handleExtractShifts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	surname, err := request.RequireString("surname")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractShifts(pdf.ExtractShiftsRequest{Path: path, Surname: surname})
	if errors.IsNotFound(err) {
		return mcp.NewToolResultError(fmt.Sprintf("%v\nCheck the spelling of %q or pick another roster with 'roster_search_directory'.", err, surname)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.sessions.Load(sessionID(ctx), &session.Schedule{
		Surname:    result.Surname,
		Source:     result.Path,
		OutputName: result.OutputName,
		Shifts:     result.Shifts,
	})

	text := fmt.Sprintf("Extracted %d shift(s) for %s from: %s\n", len(result.Shifts), result.Surname, result.Path)
	text += fmt.Sprintf("Tables: %d, day columns: %d, matches: %d, layout: %s\n",
		result.Tables, result.Days, result.Matches, result.Layout)
	text += fmt.Sprintf("Output name: %s\n\n", result.OutputName)
	text += roster.FormatShiftTable(result.Shifts)
	if undefined := countUndefined(result.Shifts); undefined > 0 {
		text += fmt.Sprintf("\n%d row(s) are '%s': fix them with 'roster_edit_shifts'.\n", undefined, roster.UndefinedLocation)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleListShifts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedule, err := s.sessions.Schedule(sessionID(ctx))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSchedule(schedule)), nil
}

func (s *Server) handleAddShift(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := session.AddShiftRequest{
		Day:      request.GetString("day", ""),
		Date:     request.GetString("date", ""),
		Location: request.GetString("location", ""),
		Time:     request.GetString("time", ""),
		Bathroom: request.GetString("bathroom", ""),
	}

	schedule, err := s.sessions.Add(sessionID(ctx), req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Shift added.\n\n" + formatSchedule(schedule)), nil
}

func (s *Server) handleEditShifts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("rows")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := parseRows(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := session.EditShiftsRequest{
		Rows:     rows,
		Location: request.GetString("location", ""),
		Time:     request.GetString("time", ""),
		Bathroom: request.GetString("bathroom", ""),
	}

	schedule, err := s.sessions.Edit(sessionID(ctx), req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d row(s) updated.\n\n", len(rows)) + formatSchedule(schedule)), nil
}

func (s *Server) handleDeleteShift(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	row, err := request.RequireInt("row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	schedule, err := s.sessions.Delete(sessionID(ctx), session.DeleteShiftRequest{Row: row})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Row %d deleted.\n\n", row) + formatSchedule(schedule)), nil
}

func (s *Server) handleRenderPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedule, err := s.sessions.Schedule(sessionID(ctx))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := request.GetString("name", schedule.OutputName)
	result, err := s.service.WriteSchedule(schedule.Shifts, schedule.Surname, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatWriteResult("Schedule", result)), nil
}

func (s *Server) handleExportXLSX(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedule, err := s.sessions.Schedule(sessionID(ctx))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name := request.GetString("name", schedule.OutputName)
	result, err := s.service.WriteWorkbook(schedule.Shifts, schedule.Surname, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatWriteResult("Workbook", result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.service.ServerInfo(pdf.ServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// parseRows reads a row list such as "1, 3,4"
func parseRows(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("no row numbers in %q", raw)
	}

	rows := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid row number %q", f)
		}
		rows = append(rows, n)
	}
	return rows, nil
}

func countUndefined(shifts []roster.Shift) int {
	n := 0
	for _, shift := range shifts {
		if shift.Location == roster.UndefinedLocation {
			n++
		}
	}
	return n
}

// Formatting methods
func formatSchedule(schedule *session.Schedule) string {
	text := fmt.Sprintf("Schedule of %s (%d row(s))\n", schedule.Surname, len(schedule.Shifts))
	if schedule.Source != "" {
		text += fmt.Sprintf("Source: %s\n", schedule.Source)
	}
	text += "\n" + roster.FormatShiftTable(schedule.Shifts)
	return text
}

func (s *Server) formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d roster file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatWriteResult(kind string, result *pdf.WriteScheduleResult) string {
	return fmt.Sprintf("%s written: %s\nShifts: %d\nSize: %d bytes\n", kind, result.Path, result.Shifts, result.Size)
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Roster Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("📤 Output Directory: %s\n", result.OutputDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("🗂️  Row Layout: %s\n\n", result.Layout)

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Rosters (%d found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Rosters: none found in the roster directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode and returns when ctx is
// cancelled or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves a single client over standard I/O
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug("starting stdio server",
		zap.String("roster_directory", s.config.RosterDirectory),
		zap.String("output_directory", s.config.OutputDirectory))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves clients over HTTP with server-sent events. Each SSE
// connection is its own session with its own schedule.
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	sse := server.NewSSEServer(s.mcpServer,
		server.WithHTTPServer(httpServer),
		server.WithKeepAlive(true),
	)
	httpServer.Handler = sse

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting SSE server", zap.String("address", s.config.Address()))
		errCh <- sse.Start(s.config.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down SSE server: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve SSE: %w", err)
	}
	s.logger.Info("SSE server stopped")
	return nil
}
