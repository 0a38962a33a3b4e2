package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
)

// TableReader turns the ruled grids of a roster document into tables of
// cell strings. Pages without any ruling are read row by row instead.
type TableReader struct {
	maxFileSize int64
	logger      *zap.Logger
}

// NewTableReader creates a table reader that refuses documents larger than maxFileSize
func NewTableReader(maxFileSize int64, logger *zap.Logger) *TableReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableReader{
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// ReadTablesFile opens a roster document read-only and returns its tables in
// page order. Paths that are missing, are directories or lack the .pdf
// extension are rejected as invalid input before anything is parsed.
func (r *TableReader) ReadTablesFile(path string) ([]roster.Table, error) {
	if !isPDFFile(path) {
		return nil, errors.NewPDFError(errors.ErrorTypeInvalidInput, "not a PDF document").WithFile(path)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.WrapError(errors.ErrorTypeInvalidInput, "document does not exist", err).WithFile(path)
	}
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeDocumentRead, "failed to open document", err).WithFile(path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeDocumentRead, "cannot access document", err).WithFile(path)
	}
	if info.IsDir() {
		return nil, errors.NewPDFError(errors.ErrorTypeInvalidInput, "path is a directory").WithFile(path)
	}
	if err := r.checkSize(info.Size()); err != nil {
		return nil, err.WithFile(path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeDocumentRead, "failed to read document", err).WithFile(path)
	}

	tables, err := r.ReadTables(data)
	if pe, ok := err.(*errors.PDFError); ok && pe.FilePath == "" {
		pe.FilePath = path
	}
	return tables, err
}

// ReadTables extracts every table from an in-memory roster document.
func (r *TableReader) ReadTables(data []byte) (tables []roster.Table, err error) {
	if err := r.checkSize(int64(len(data))); err != nil {
		return nil, err
	}

	pages, err := countPages(data)
	if err != nil {
		return nil, err
	}

	defer errors.Recover(errors.ErrorTypeDocumentRead, "", &err)

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.WrapError(errors.ErrorTypeDocumentRead, "failed to parse document", err)
	}

	problems := errors.NewErrorCollection("")
	for pageNum := 1; pageNum <= doc.NumPage(); pageNum++ {
		page := doc.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, perr := pageContent(page)
		if perr != nil {
			problems.Add(errors.WrapError(errors.ErrorTypeMalformedPage, "unreadable page", perr).WithPage(pageNum))
			continue
		}

		found := latticeTables(content)
		if len(found) == 0 {
			if t := streamTable(content.Text); len(t) > 0 {
				found = []roster.Table{t}
			}
		}

		r.logger.Debug("page read",
			zap.Int("page", pageNum),
			zap.Int("glyphs", len(content.Text)),
			zap.Int("rects", len(content.Rect)),
			zap.Int("tables", len(found)))
		tables = append(tables, found...)
	}

	if len(problems.Warnings) > 0 {
		r.logger.Warn("some pages could not be read",
			zap.String("summary", problems.Summary()),
			zap.Int("pages", pages))
		if len(problems.Warnings) == pages {
			return nil, problems.Warnings[0]
		}
	}

	return tables, nil
}

// checkSize rejects empty documents and those over the size limit
func (r *TableReader) checkSize(size int64) *errors.PDFError {
	if size == 0 {
		return errors.NewPDFError(errors.ErrorTypeDocumentRead, "document is empty")
	}
	if size > r.maxFileSize {
		return errors.NewPDFError(errors.ErrorTypeDocumentRead, "document too large").
			WithContext(fmt.Sprintf("%d bytes (max: %d bytes)", size, r.maxFileSize))
	}
	return nil
}

func isPDFFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// countPages runs the document through pdfcpu in relaxed mode, which rejects
// files that are not PDFs before the content parser ever sees them.
func countPages(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, errors.WrapError(errors.ErrorTypeDocumentRead, "invalid PDF document", err)
	}
	if n == 0 {
		return 0, errors.NewPDFError(errors.ErrorTypeDocumentRead, "document has no pages")
	}
	return n, nil
}

// pageContent reads the glyphs and rulings of a page. Stroked grid lines are
// added to the rectangles so both kinds of drawn table are recognized. Panics
// raised while interpreting the content stream are isolated to the page.
func pageContent(page pdf.Page) (content pdf.Content, err error) {
	defer errors.Recover(errors.ErrorTypeMalformedPage, "", &err)
	content = page.Content()
	content.Rect = append(content.Rect, paintedLines(page)...)
	return content, nil
}
