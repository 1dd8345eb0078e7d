// internal/app/features/instructors/cv.go
package instructors

import (
	"errors"
	"net/http"

	"github.com/dalemusser/programhub/internal/app/services/cvupload"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/app/system/respond"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file itself.
const multipartOverhead = 64 << 10

// HandleUploadCV handles POST /instructors/{id}/cv with a multipart "file"
// part. The part must be a PDF of at most cvupload.MaxSize bytes.
func (h *Handler) HandleUploadCV(w http.ResponseWriter, r *http.Request) {
	id, err := docstore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, "upload cv", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, cvupload.MaxSize+multipartOverhead)
	if err := r.ParseMultipartForm(cvupload.MaxSize + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.ErrLog.Write(w, r, "upload cv", cvupload.ErrTooLarge)
			return
		}
		respond.Error(w, http.StatusBadRequest, "bad_request", "expected a multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Invalid(w, map[string]string{"file": "File is required."})
		return
	}
	defer file.Close()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "upload cv")
	defer cancel()

	res, err := h.CV.Upload(ctx, id, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.ErrLog.Write(w, r, "upload cv", err)
		return
	}
	respond.OK(w, res)
}
