package upload

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ali-hasan-sss/syria-store-api/internal/api"
	"github.com/ali-hasan-sss/syria-store-api/internal/types"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 32 << 20 // whole multipart form
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Upload godoc
// @Summary      Upload up to 10 images (Admin only)
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Router       /upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Upload"))

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "No files provided")
		return
	}
	if len(files) > maxUploadFiles {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Too many files: at most 10 per request")
		return
	}

	uploaded := make([]types.UploadedFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}

		res, err := h.service.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
		f.Close()
		if err != nil {
			l.ErrorContext(ctx, "Upload failed",
				slog.String("file", fh.Filename), slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to upload file")
			return
		}
		uploaded = append(uploaded, *res)
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, uploaded)
}

// Delete godoc
// @Summary      Delete an uploaded image by public ID (Admin only)
// @Tags         Uploads
// @Produce      json
// @Security     BearerAuth
// @Router       /upload/{publicId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	publicID := strings.TrimSpace(chi.URLParam(r, "publicId"))
	if publicID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Public ID is required")
		return
	}

	if err := h.service.Delete(ctx, publicID); err != nil {
		h.logger.ErrorContext(ctx, "Delete upload failed",
			slog.String("public_id", publicID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "File deleted successfully",
	})
}
