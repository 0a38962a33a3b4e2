package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/config"
	"github.com/a3tai/turni-pdf/internal/pdf"
	"github.com/a3tai/turni-pdf/internal/pdf/pdftest"
	"github.com/a3tai/turni-pdf/internal/session"
)

const weekRoster = "servizio custodia dal 01 al 03.pdf"

// fakeSession is a client session with a fixed id
type fakeSession struct {
	id string
}

func (f fakeSession) Initialize()       {}
func (f fakeSession) Initialized() bool { return true }
func (f fakeSession) SessionID() string { return f.id }
func (f fakeSession) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return make(chan mcp.JSONRPCNotification, 1)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Mode:            "stdio",
		Host:            "127.0.0.1",
		Port:            8080,
		RosterDirectory: dir,
		OutputDirectory: filepath.Join(dir, "out"),
		Version:         "1.0.0",
		ServerName:      "test-server",
		LogLevel:        "info",
		LogFormat:       "console",
		MaxFileSize:     10 * 1024 * 1024,
		SessionCapacity: 8,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	service, err := pdf.NewService(pdf.ServiceOptions{
		MaxFileSize:     cfg.MaxFileSize,
		RosterDirectory: cfg.RosterDirectory,
		OutputDirectory: cfg.OutputDirectory,
		Logger:          zap.NewNop(),
	})
	require.NoError(t, err)

	server, err := NewServer(cfg, service, session.NewManager(cfg.SessionCapacity, nil), zap.NewNop())
	require.NoError(t, err)
	return server
}

func writeWeekRoster(t *testing.T, dir string) string {
	t.Helper()
	data, err := pdftest.Roster(pdftest.Week)
	require.NoError(t, err)
	path := filepath.Join(dir, weekRoster)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	assert.Same(t, cfg, server.config)
	assert.NotNil(t, server.mcpServer)

	_, err := NewServer(cfg, nil, session.NewManager(1, nil), nil)
	assert.Error(t, err)

	_, err = NewServer(cfg, server.service, nil, nil)
	assert.Error(t, err)
}

func TestServer_Workflow(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)
	ctx := context.Background()

	result, err := server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
		"path":    weekRoster,
		"surname": "rossi",
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "Extracted 3 shift(s) for rossi")
	assert.Contains(t, text, "Output name: Turni rossi dal 01 al 03.pdf")
	assert.Contains(t, text, "Pulizia bagni")

	result, err = server.handleEditShifts(ctx, toolRequest("roster_edit_shifts", map[string]any{
		"rows":     "1, 3",
		"bathroom": "si",
	}))
	require.NoError(t, err)
	text = resultText(t, result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "2 row(s) updated.")

	result, err = server.handleAddShift(ctx, toolRequest("roster_add_shift", map[string]any{
		"day":      "giovedi'",
		"date":     "4",
		"location": "Villa Bonelli",
		"time":     "09:00-13:00",
	}))
	require.NoError(t, err)
	text = resultText(t, result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "(4 row(s))")

	result, err = server.handleDeleteShift(ctx, toolRequest("roster_delete_shift", map[string]any{"row": float64(2)}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	result, err = server.handleListShifts(ctx, toolRequest("roster_list_shifts", nil))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "(3 row(s))")
	assert.Contains(t, text, "Villa Bonelli")
	assert.Equal(t, 2, strings.Count(text, "Sì"))

	result, err = server.handleRenderPDF(ctx, toolRequest("roster_render_pdf", nil))
	require.NoError(t, err)
	text = resultText(t, result)
	require.False(t, result.IsError, text)
	pdfPath := filepath.Join(cfg.OutputDirectory, "Turni rossi dal 01 al 03.pdf")
	assert.Contains(t, text, pdfPath)
	assert.FileExists(t, pdfPath)

	result, err = server.handleExportXLSX(ctx, toolRequest("roster_export_xlsx", map[string]any{"name": "settimana"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	assert.FileExists(t, filepath.Join(cfg.OutputDirectory, "settimana.xlsx"))
}

func TestServer_SessionsAreIsolated(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)

	first := server.mcpServer.WithContext(context.Background(), fakeSession{id: "first"})
	second := server.mcpServer.WithContext(context.Background(), fakeSession{id: "second"})

	result, err := server.handleExtractShifts(first, toolRequest("roster_extract_shifts", map[string]any{
		"path":    weekRoster,
		"surname": "Verdi",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	result, err = server.handleListShifts(second, toolRequest("roster_list_shifts", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "run roster_extract_shifts first")

	result, err = server.handleListShifts(first, toolRequest("roster_list_shifts", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Schedule of Verdi")
}

func TestServer_UnregisterDropsSchedule(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)

	cs := fakeSession{id: "client-1"}
	ctx := server.mcpServer.WithContext(context.Background(), cs)
	require.NoError(t, server.mcpServer.RegisterSession(ctx, cs))

	_, err := server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
		"path":    weekRoster,
		"surname": "Bianchi",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, server.sessions.Sessions())

	server.mcpServer.UnregisterSession(ctx, cs.SessionID())
	assert.Equal(t, 0, server.sessions.Sessions())
}

func TestServer_ToolErrors(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() (*mcp.CallToolResult, error)
		message string
	}{
		{
			name: "extract without surname",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{"path": weekRoster}))
			},
			message: "surname",
		},
		{
			name: "extract unknown surname",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
					"path": weekRoster, "surname": "Esposito",
				}))
			},
			message: "no shifts found",
		},
		{
			name: "extract unknown surname suggests another roster",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
					"path": weekRoster, "surname": "Esposito",
				}))
			},
			message: "pick another roster with 'roster_search_directory'",
		},
		{
			name: "extract outside roster directory",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
					"path": "/etc/passwd", "surname": "Rossi",
				}))
			},
			message: "SECURITY",
		},
		{
			name: "render without schedule",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleRenderPDF(ctx, toolRequest("roster_render_pdf", nil))
			},
			message: "no schedule loaded",
		},
		{
			name: "edit with bad rows",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleEditShifts(ctx, toolRequest("roster_edit_shifts", map[string]any{"rows": "uno"}))
			},
			message: "invalid row number",
		},
		{
			name: "delete without row",
			call: func() (*mcp.CallToolResult, error) {
				return server.handleDeleteShift(ctx, toolRequest("roster_delete_shift", map[string]any{}))
			},
			message: "row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.message)
		})
	}
}

func TestServer_AddShiftValidation(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)
	ctx := context.Background()

	_, err := server.handleExtractShifts(ctx, toolRequest("roster_extract_shifts", map[string]any{
		"path": weekRoster, "surname": "Rossi",
	}))
	require.NoError(t, err)

	result, err := server.handleAddShift(ctx, toolRequest("roster_add_shift", map[string]any{
		"day": "domenca", "date": "7", "location": "Cimitero", "time": "mattina",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "not an Italian weekday")
	assert.Contains(t, text, "not a time range")
}

func TestServer_SearchAndInfo(t *testing.T) {
	cfg := testConfig(t)
	server := newTestServer(t, cfg)
	writeWeekRoster(t, cfg.RosterDirectory)
	ctx := context.Background()

	result, err := server.handleSearchDirectory(ctx, toolRequest("roster_search_directory", map[string]any{"query": "01 03"}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Found 1 roster file(s)")
	assert.Contains(t, text, weekRoster)

	result, err = server.handleSearchDirectory(ctx, toolRequest("roster_search_directory", map[string]any{"query": "agosto"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "No roster files found")

	result, err = server.handleServerInfo(ctx, toolRequest("roster_server_info", nil))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "test-server v1.0.0")
	assert.Contains(t, text, "Row Layout: ")
	assert.Contains(t, text, weekRoster)
	assert.Contains(t, text, "roster_export_xlsx")
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1,3", []int{1, 3}, false},
		{" 2 ; 4 , 5 ", []int{2, 4, 5}, false},
		{"", nil, true},
		{"1,due", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRows(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
