package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/adanest-api/internal/application/media"
)

// multipartOverhead leaves room for form boundaries and headers on top of the image itself.
const multipartOverhead = 1 << 20

// formImage reads the "file" part of a multipart request. It writes the error
// response itself and reports false when the form is unusable.
func formImage(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return nil, nil, false
	}
	return f, header, true
}
