package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/mocks"
	"github.com/phrazzld/feed-api/internal/platform/filestore"
	"github.com/phrazzld/feed-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type uploadForm struct {
	filename string
	content  []byte
	oldPath  string
}

func newUploadRequest(t *testing.T, form uploadForm, authenticated bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if form.oldPath != "" {
		require.NoError(t, mw.WriteField(OldPathField, form.oldPath))
	}
	if form.filename != "" {
		part, err := mw.CreateFormFile(UploadField, form.filename)
		require.NoError(t, err)
		_, err = part.Write(form.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if authenticated {
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{
			UserID: uuid.New(),
			Email:  "a@example.com",
		}))
	}
	return req
}

func decodeUpload(t *testing.T, rec *httptest.ResponseRecorder) UploadResponse {
	t.Helper()
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestUpload(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		h := NewImageHandler(mocks.NewMockImageStore(), 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: "a.png", content: pngBytes}, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Not authenticated", decodeUpload(t, rec).Message)
	})

	t.Run("no file attached", func(t *testing.T) {
		h := NewImageHandler(mocks.NewMockImageStore(), 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{oldPath: "images/old.png"}, true))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeUpload(t, rec)
		assert.Equal(t, "No file attached.", resp.Message)
		assert.Equal(t, "images/old.png", resp.FilePath)
	})

	t.Run("stores image under images with forward slashes", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: `C:\photos\my pic.png`, content: pngBytes}, true))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeUpload(t, rec)
		assert.Equal(t, "File stored.", resp.Message)
		assert.True(t, strings.HasPrefix(resp.FilePath, "images/"), resp.FilePath)
		assert.True(t, strings.HasSuffix(resp.FilePath, "-my_pic.png"), resp.FilePath)
		assert.NotContains(t, resp.FilePath, `\`)

		stored, err := store.Open(context.Background(), resp.FilePath)
		require.NoError(t, err)
		data, err := io.ReadAll(stored)
		require.NoError(t, err)
		assert.Equal(t, pngBytes, data)
	})

	t.Run("replacing removes the old image", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		require.NoError(t, store.Save(context.Background(), "images/old.png", bytes.NewReader(pngBytes)))
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{
			filename: "new.png",
			content:  pngBytes,
			oldPath:  `images\old.png`,
		}, true))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []string{"images/old.png"}, store.Deleted())
	})

	t.Run("failed old image removal still stores", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		store.DeleteFn = func(ctx context.Context, name string) error {
			return errors.New("permission denied")
		}
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{
			filename: "new.png",
			content:  pngBytes,
			oldPath:  "images/gone.png",
		}, true))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, store.Files(), 1)
	})

	t.Run("old path outside images is not deleted", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{
			filename: "new.png",
			content:  pngBytes,
			oldPath:  "../config.yaml",
		}, true))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, store.Deleted())
	})

	t.Run("rejects non image content", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: "notes.png", content: []byte("just some text")}, true))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Invalid file type.", decodeUpload(t, rec).Message)
		assert.Empty(t, store.Files())
	})

	t.Run("accepts jpeg", func(t *testing.T) {
		h := NewImageHandler(mocks.NewMockImageStore(), 10, nil)
		rec := httptest.NewRecorder()
		jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 16)...)

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: "a.jpg", content: jpeg}, true))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("body over the limit is a bad request", func(t *testing.T) {
		h := NewImageHandler(mocks.NewMockImageStore(), 1, nil)
		rec := httptest.NewRecorder()
		big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 2<<20)...)

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: "big.png", content: big}, true))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		h := NewImageHandler(mocks.NewMockImageStore(), 10, nil)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "text/plain")
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: uuid.New()}))

		h.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure is an internal error", func(t *testing.T) {
		store := mocks.NewMockImageStore()
		store.SaveFn = func(ctx context.Context, name string, r io.Reader) error {
			return errors.New("disk full at /var/data/images")
		}
		h := NewImageHandler(store, 10, nil)
		rec := httptest.NewRecorder()

		h.Upload(rec, newUploadRequest(t, uploadForm{filename: "a.png", content: pngBytes}, true))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "An error occurred.", decodeUpload(t, rec).Message)
	})
}

func TestServe(t *testing.T) {
	store := mocks.NewMockImageStore()
	require.NoError(t, store.Save(context.Background(), "images/a.png", bytes.NewReader(pngBytes)))
	h := NewImageHandler(store, 10, nil)

	router := chi.NewRouter()
	router.Get("/images/*", h.Serve)

	t.Run("streams stored image", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes, rec.Body.Bytes())
	})

	t.Run("missing image", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("open failure", func(t *testing.T) {
		failing := mocks.NewMockImageStore()
		failing.OpenFn = func(ctx context.Context, name string) (io.ReadCloser, error) {
			return nil, errors.New("bucket unavailable")
		}
		r := chi.NewRouter()
		r.Get("/images/*", NewImageHandler(failing, 10, nil).Serve)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/a.png", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.png":             "photo.png",
		"my pic.png":            "my_pic.png",
		`C:\Users\me\photo.jpg`: "photo.jpg",
		"../../etc/passwd":      "passwd",
		".hidden.png":           "hidden.png",
		"":                      "image",
		"ünï.png":               "_n_.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}

	_, err := filestore.CleanName("images/" + SanitizeFilename("../x.png"))
	assert.NoError(t, err)
}
