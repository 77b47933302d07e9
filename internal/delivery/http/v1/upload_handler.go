package v1

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"glowify-backend/internal/domain"
	"glowify-backend/internal/usecase"
	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

type UploadHandler struct {
	images        domain.ImageStore
	process       utils.ImageProcessor
	customOrderUC *usecase.CustomOrderUsecase
	maxUploadSize int64
	maxFiles      int
}

func NewUploadHandler(images domain.ImageStore, process utils.ImageProcessor, customUC *usecase.CustomOrderUsecase, maxUploadSizeMB int64, maxFiles int) *UploadHandler {
	if process == nil {
		process = utils.ProcessImage
	}
	return &UploadHandler{
		images:        images,
		process:       process,
		customOrderUC: customUC,
		maxUploadSize: maxUploadSizeMB << 20, // MB to bytes
		maxFiles:      maxFiles,
	}
}

// checkFile validates one multipart file header.
func (h *UploadHandler) checkFile(header *multipart.FileHeader) string {
	if header.Size > h.maxUploadSize {
		return "File too large: " + header.Filename
	}
	if !allowedMimeTypes[header.Header.Get("Content-Type")] {
		return "Invalid file type. Allowed: JPEG, PNG, WebP, GIF"
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		return "Invalid file extension"
	}
	return ""
}

// UploadFile stores a single product image (admin).
// POST /api/v1/admin/upload
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	if msg := h.checkFile(header); msg != "" {
		utils.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	data, contentType, err := h.process(file, header.Filename)
	if err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Str("file", header.Filename).Msg("Image processing failed")
		utils.WriteError(w, http.StatusBadRequest, "Failed to process image")
		return
	}

	url, err := h.images.UploadBuffer(r.Context(), data, contentType)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// UploadFrameImages stores the images for a custom frame order. The form
// field "images" may repeat up to the configured maximum.
// POST /api/v1/custom-orders/images
func (h *UploadHandler) UploadFrameImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize*int64(max(h.maxFiles, 1))+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Files too large or invalid format")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "No images provided")
		return
	}
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		utils.WriteError(w, http.StatusBadRequest, "Too many images")
		return
	}

	uploads := make([]domain.ImageUpload, 0, len(headers))
	for _, header := range headers {
		if msg := h.checkFile(header); msg != "" {
			utils.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		f, err := header.Open()
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid file")
			return
		}
		defer f.Close()
		uploads = append(uploads, domain.ImageUpload{Filename: header.Filename, Body: f})
	}

	urls, err := h.customOrderUC.UploadImages(r.Context(), uploads)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string][]string{"urls": urls})
}
