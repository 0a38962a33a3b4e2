package pdf

import "github.com/a3tai/turni-pdf/internal/roster"

// FileInfo represents information about a roster document on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ExtractShiftsRequest asks for one person's shifts from a roster document
type ExtractShiftsRequest struct {
	Path    string `json:"path"`
	Surname string `json:"surname"`
}

// SearchDirectoryRequest represents a request to find roster documents in a directory
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
	// All lists every PDF instead of only the "servizio custodia" rosters
	All bool `json:"all"`
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// ExtractShiftsResult holds the sorted shifts found for a surname
type ExtractShiftsResult struct {
	Path       string         `json:"path"`
	Surname    string         `json:"surname"`
	OutputName string         `json:"output_name"`
	Tables     int            `json:"tables"`
	Days       int            `json:"days"`
	Matches    int            `json:"matches"`
	Shifts     []roster.Shift `json:"shifts"`
	Layout     string         `json:"layout"`
}

// SearchDirectoryResult represents the result of a roster search
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// WriteScheduleResult describes a schedule written to the output directory
type WriteScheduleResult struct {
	Path   string `json:"path"`
	Size   int    `json:"size"`
	Shifts int    `json:"shifts"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	OutputDirectory   string     `json:"output_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	Layout            string     `json:"layout"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
