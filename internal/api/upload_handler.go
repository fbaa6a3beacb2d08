package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/api/shared"
	"github.com/phrazzld/feed-api/internal/platform/filestore"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/redact"
	"github.com/phrazzld/feed-api/internal/service/auth"
)

const (
	// ImagesDir is the folder every uploaded image is stored under.
	ImagesDir = "images"

	// UploadField is the multipart field carrying the image.
	UploadField = "image"

	// OldPathField optionally names an image the upload replaces.
	OldPathField = "oldPath"

	// multipartMemory is the part of a form kept in memory while parsing;
	// larger files spill to temporary files.
	multipartMemory = 1 << 20

	// sniffLen is how many leading bytes http.DetectContentType inspects.
	sniffLen = 512
)

// Upload response messages.
const (
	MsgNoFileAttached = "No file attached."
	MsgFileStored     = "File stored."
	MsgInvalidUpload  = "Invalid upload."
)

// allowedImageTypes are the sniffed content types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// UploadResponse is the body of a successful upload request.
type UploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// ImageHandler stores uploaded images and serves them back.
type ImageHandler struct {
	store          filestore.Store
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewImageHandler creates an ImageHandler writing to store. Request bodies
// larger than maxUploadMB megabytes are rejected.
func NewImageHandler(store filestore.Store, maxUploadMB int, logger *slog.Logger) *ImageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageHandler{
		store:          store,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger.With(slog.String("component", "image_handler")),
	}
}

// Upload handles PUT /upload. The form carries the image in the "image" field
// and optionally the path of the image it replaces in "oldPath".
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, MsgNotAuthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidUpload, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	oldPath := strings.ReplaceAll(r.FormValue(OldPathField), "\\", "/")

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			shared.RespondWithJSON(w, r, http.StatusOK, UploadResponse{
				Message:  MsgNoFileAttached,
				FilePath: oldPath,
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidUpload, err)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := sniffImage(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	name := path.Join(ImagesDir, uuid.NewString()+"-"+SanitizeFilename(header.Filename))
	if err := h.store.Save(ctx, name, content); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgInternal, err)
		return
	}

	if oldPath != "" {
		h.removeOld(r, oldPath)
	}

	log.Info("image stored",
		slog.String("user_id", identity.UserID.String()),
		slog.String("file_path", name),
		slog.Int64("size", header.Size))

	shared.RespondWithJSON(w, r, http.StatusCreated, UploadResponse{
		Message:  MsgFileStored,
		FilePath: name,
	})
}

// removeOld deletes a replaced image. Failures are logged and ignored.
func (h *ImageHandler) removeOld(r *http.Request, oldPath string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	name, err := filestore.CleanName(oldPath)
	if err == nil && !strings.HasPrefix(name, ImagesDir+"/") {
		err = filestore.ErrInvalidName
	}
	if err == nil {
		err = h.store.Delete(r.Context(), name)
	}
	if err != nil {
		log.Warn("failed to remove replaced image",
			slog.String("old_path", oldPath),
			slog.String("error", redact.Error(err)))
	}
}

// sniffImage checks the leading bytes of r and returns a reader over the
// whole content, or ErrInvalidFileType.
func sniffImage(r io.Reader) (io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	if !allowedImageTypes[http.DetectContentType(head)] {
		return nil, ErrInvalidFileType
	}
	return io.MultiReader(bytes.NewReader(head), r), nil
}

// SanitizeFilename reduces a client supplied file name to its base name made
// of letters, digits, dots, dashes and underscores.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		return "image"
	}
	return clean
}
