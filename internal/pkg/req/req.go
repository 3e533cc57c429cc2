/*
Package req provides helper functions for HTTP request parsing.

It wraps multipart form handling with a body size cap and maps parsing
failures onto the application's error codes.
*/
package req

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"lanchat/internal/pkg/errs"
)

// MaxFormMemory is the amount of a multipart body kept in memory; the rest
// of each file part spills to temporary files.
const MaxFormMemory int64 = 32 << 20 // 32 MB

// SetupMultipart caps the request body at maxBytes and parses the multipart form.
func SetupMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		if errors.Is(err, http.ErrNotMultipart) {
			return errs.NewError(errs.ErrUnsupportedMediaType)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}

// FormFile returns the single file part stored under field. A missing part is
// reported as ErrNoFileUploaded.
func FormFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, *errs.CustomError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, errs.NewError(errs.ErrNoFileUploaded)
		}
		return nil, nil, errs.NewError(errs.ErrFormParseFailed)
	}

	return file, header, nil
}
