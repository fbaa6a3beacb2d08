package api

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/feed-api/internal/api/shared"
	"github.com/phrazzld/feed-api/internal/platform/filestore"
)

// Serve handles GET /images/*, streaming a stored image.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name, err := filestore.CleanName(path.Join(ImagesDir, chi.URLParam(r, "*")))
	if err != nil || !strings.HasPrefix(name, ImagesDir+"/") {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
		return
	}

	file, err := h.store.Open(r.Context(), name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file); err != nil {
		h.logger.Debug("image stream interrupted",
			"file_path", name,
			"error", err)
	}
}
