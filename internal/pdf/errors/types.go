package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// PDFError is a roster processing error with its category and context
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Cause      error     `json:"-"`
}

// ErrorType categorizes roster processing failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeDocumentRead covers unreadable or malformed input documents
	ErrorTypeDocumentRead
	// ErrorTypeNoHeaderFound means no table carried a day header
	ErrorTypeNoHeaderFound
	// ErrorTypeNoMatchFound means the surname appears in no day column
	ErrorTypeNoMatchFound
	// ErrorTypeRender covers failures while building the output document
	ErrorTypeRender
	ErrorTypeInvalidInput
	ErrorTypeSecurity
	ErrorTypeMalformedPage
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *PDFError) Unwrap() error {
	return e.Cause
}

// Is matches any PDFError of the same type, so callers can write
// errors.Is(err, errors.ErrNoMatchFound).
func (e *PDFError) Is(target error) bool {
	var t *PDFError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// Sentinels for errors.Is comparisons
var (
	ErrDocumentRead  = &PDFError{Type: ErrorTypeDocumentRead}
	ErrNoHeaderFound = &PDFError{Type: ErrorTypeNoHeaderFound}
	ErrNoMatchFound  = &PDFError{Type: ErrorTypeNoMatchFound}
	ErrRender        = &PDFError{Type: ErrorTypeRender}
	ErrInvalidInput  = &PDFError{Type: ErrorTypeInvalidInput}
	ErrSecurity      = &PDFError{Type: ErrorTypeSecurity}
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeDocumentRead:
		return "DOCUMENT_READ"
	case ErrorTypeNoHeaderFound:
		return "NO_HEADER_FOUND"
	case ErrorTypeNoMatchFound:
		return "NO_MATCH_FOUND"
	case ErrorTypeRender:
		return "RENDER"
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	case ErrorTypeSecurity:
		return "SECURITY"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type.
// "Not found" outcomes are informational: the caller shows "no shifts found".
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeNoHeaderFound, ErrorTypeNoMatchFound:
		return SeverityInfo
	case ErrorTypeMalformedPage:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps an error as a PDFError of the given type
func WrapError(errorType ErrorType, message string, err error) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now(),
	}
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file path information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is not a PDFError
func TypeOf(err error) ErrorType {
	var pe *PDFError
	if stderrors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeUnknown
}

// IsNotFound reports whether err means "no shifts found" for the caller
func IsNotFound(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNoHeaderFound, ErrorTypeNoMatchFound:
		return true
	}
	return false
}

// ErrorCollection gathers non-fatal problems met while reading a document
type ErrorCollection struct {
	Errors   []*PDFError `json:"errors"`
	Warnings []*PDFError `json:"warnings"`
	FilePath string      `json:"file_path,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(filePath string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*PDFError, 0),
		Warnings: make([]*PDFError, 0),
		FilePath: filePath,
	}
}

// Add adds an error to the appropriate collection based on severity
func (ec *ErrorCollection) Add(err *PDFError) {
	if err.FilePath == "" && ec.FilePath != "" {
		err.FilePath = ec.FilePath
	}

	if err.Type.GetSeverity() == SeverityError {
		ec.Errors = append(ec.Errors, err)
	} else {
		ec.Warnings = append(ec.Warnings, err)
	}
}

// Count returns the total number of errors and warnings
func (ec *ErrorCollection) Count() (errors, warnings int) {
	return len(ec.Errors), len(ec.Warnings)
}

// Summary returns a text summary of all errors and warnings
func (ec *ErrorCollection) Summary() string {
	errorCount, warningCount := ec.Count()
	if errorCount == 0 && warningCount == 0 {
		return "No errors or warnings"
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s)", errorCount, warningCount)
}
