package errors

import (
	"fmt"
)

// Recover converts a panic raised by a PDF library into a PDFError of the
// given type. Use it as the first deferred call:
//
//	defer errors.Recover(errors.ErrorTypeDocumentRead, path, &err)
func Recover(errorType ErrorType, filePath string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	pe := NewPDFError(errorType, "PDF library panic").
		WithContext(fmt.Sprint(r)).
		WithFile(filePath)
	*errp = pe
}
