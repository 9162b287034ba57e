package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/maraichr/gradient/pkg/apierr"
)

const (
	defaultMaxUpload = 10 << 20
	stubUploadURL    = "https://example.com/uploaded-image.png"
	sniffLen         = 512
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// ImageStore is implemented by the MinIO and S3 clients.
type ImageStore interface {
	PutImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type UploadHandler struct {
	logger   *slog.Logger
	store    ImageStore
	maxBytes int64
}

// NewUploadHandler creates an UploadHandler. A nil store answers every
// upload with a placeholder URL.
func NewUploadHandler(logger *slog.Logger, store ImageStore, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUpload
	}
	return &UploadHandler{logger: logger, store: store, maxBytes: maxBytes}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// Upload stores a shared tweet image under shares/<uuid>.<ext>.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, uploadResponse{
			Success: true,
			URL:     stubUploadURL,
			Message: "Image upload not implemented yet",
		})
		return
	}

	logger := h.logger.With(slog.String("request_id", newRequestID()))
	if r.ContentLength > h.maxBytes {
		writeAPIError(w, logger, apierr.FileTooLarge())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, logger, apierr.FileTooLarge())
			return
		}
		writeAPIError(w, logger, apierr.FileRequired())
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		writeAPIError(w, logger, apierr.FileRequired())
		return
	}
	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExtensions[contentType]
	if !ok {
		logger.Warn("upload rejected", slog.String("content_type", contentType))
		writeAPIError(w, logger, apierr.UnsupportedImageType())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeAPIError(w, logger, apierr.UploadFailed(err))
		return
	}

	key := "shares/" + uuid.New().String() + ext
	url, err := h.store.PutImage(r.Context(), key, file, header.Size, contentType)
	if err != nil {
		writeAPIError(w, logger, apierr.UploadFailed(err))
		return
	}

	logger.Info("image uploaded", slog.String("key", key), slog.Int64("size", header.Size))
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, URL: url})
}
