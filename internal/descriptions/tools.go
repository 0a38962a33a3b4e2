package descriptions

import "sort"

// Tool descriptions shown to MCP clients, with examples and workflows

const (
	// Discovery Tools
	RosterSearchDirectoryDescription = `Find weekly roster PDFs in the configured roster directory.

**When to use:** At the start of a session, to pick the roster week to process.

**What it does:** Lists PDF files whose name starts with "servizio custodia" (case-insensitive). Set all=true to list every PDF. An optional query fuzzy-matches the file name.

**Examples:**
• Latest rosters: "List the rosters available this month"
• A specific week: query "dal 01 al 07"
• Everything: all=true when a roster was saved with a different name

**Common workflows:**
1. roster_search_directory → roster_extract_shifts on the chosen path
2. roster_search_directory with a query → compare weeks

**Notes:** Hidden directories and symlinks are skipped. The directory must be inside the configured roster directory.`

	RosterServerInfoDescription = `Show server settings, the active row layout, available rosters and the usage guide.

**When to use:** First call in a new session, or when unsure which tool to call next.

**What it returns:** Server version, roster and output directories, maximum file size, the row layout version, up to 100 rosters found in the roster directory, and a step-by-step guide.`

	// Extraction Tools
	RosterExtractShiftsDescription = `Extract one person's weekly shifts from a roster PDF.

**When to use:** To build a personal schedule from the shared "servizio custodia" roster.

**What it does:** Reads every ruled table of the roster, finds the day columns in the table headers ("lunedì 1", "martedì 2", ...), and looks for the surname (case-insensitive substring) in each row of each day column. Each row position maps to a location and a time slot through the row layout. Days where the surname never appears become "Riposo". Shifts are sorted by weekday and start time and stored as this session's schedule, replacing any previous one.

**Examples:**
• "Extract the shifts of Rossi from servizio custodia dal 01 al 07.pdf"
• Path may be relative to the roster directory

**Errors:**
• No day header in any table: the document is not a roster
• No match for the surname: check the spelling as printed in the roster

**Common workflows:**
1. roster_extract_shifts → roster_list_shifts → roster_render_pdf
2. roster_extract_shifts → roster_edit_shifts for "Turno non definito" rows → roster_render_pdf`

	RosterListShiftsDescription = `Show this session's schedule as a numbered table.

**When to use:** After extracting or editing, to review rows and get the row numbers used by the edit and delete tools.

**Notes:** The "Pulizia bagni" column appears only when the schedule has a Giardini del Castello shift.`

	// Editing Tools
	RosterAddShiftDescription = `Add a shift to this session's schedule.

**When to use:** A shift is missing from the roster, or was agreed after the roster was published.

**Parameters:** day (Italian weekday, e.g. "giovedì" or "giovedi'"), date (day of month), location, time ("08:00-14:00"), bathroom ("si"/"no", only meaningful for Giardini del Castello).

**Notes:** The schedule is re-sorted by weekday and start time after adding, so row numbers may change.`

	RosterEditShiftsDescription = `Change location, time or bathroom duty of one or more rows.

**When to use:** To fix "Turno non definito" rows or to record a swap.

**Parameters:** rows is a comma-separated list of row numbers from roster_list_shifts, e.g. "2,5". Blank fields keep each row's current value. All rows are changed or none is.

**Notes:** Moving a row away from Giardini del Castello clears its bathroom duty. Moving it there without an answer sets "No".`

	RosterDeleteShiftDescription = `Remove one row from this session's schedule.

**When to use:** A shift listed in the roster will not be worked.

**Notes:** Rows below the deleted one move up. List the schedule again before the next edit.`

	// Output Tools
	RosterRenderPDFDescription = `Write this session's schedule as a one-page A4 PDF.

**When to use:** When the schedule is final.

**What it does:** Renders the title "Turni di lavoro <surname>" and a table with day, location, time and, when needed, bathroom duty. The file is written to the output directory, named after the roster week ("Turni Rossi dal 01 al 07.pdf") unless a name is given.

**Notes:** Rendering is deterministic: the same schedule always produces the same bytes.`

	RosterExportXLSXDescription = `Write this session's schedule as an Excel workbook.

**When to use:** When the schedule has to be merged into a spreadsheet or shared for editing.

**What it does:** One sheet named "Turni" with the same columns as the PDF plus a separate date column. Written to the output directory with the PDF name and an .xlsx extension unless a name is given.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"roster_search_directory": RosterSearchDirectoryDescription,
	"roster_server_info":      RosterServerInfoDescription,
	"roster_extract_shifts":   RosterExtractShiftsDescription,
	"roster_list_shifts":      RosterListShiftsDescription,
	"roster_add_shift":        RosterAddShiftDescription,
	"roster_edit_shifts":      RosterEditShiftsDescription,
	"roster_delete_shift":     RosterDeleteShiftDescription,
	"roster_render_pdf":       RosterRenderPDFDescription,
	"roster_export_xlsx":      RosterExportXLSXDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in alphabetical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
