package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/metrics"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/middleware"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

const (
	// MaxImagesPerRequest caps the files accepted by one multipart upload.
	MaxImagesPerRequest = 10
	// uploadFormField is the multipart field carrying image files.
	uploadFormField = "file"
	// maxUploadBody bounds the request body so oversized uploads fail while reading.
	maxUploadBody = MaxImagesPerRequest*storage.MaxImageSize + 1<<20
)

// UploadHandler handles standalone image uploads made before a listing exists.
type UploadHandler struct {
	store storage.ImageStore
	log   *logger.Logger
}

// NewUploadHandler creates a new UploadHandler instance.
func NewUploadHandler(store storage.ImageStore, log *logger.Logger) *UploadHandler {
	return &UploadHandler{
		store: store,
		log:   log,
	}
}

// UploadResponse lists the public URLs of stored images in request order.
type UploadResponse struct {
	URLs []string `json:"urls"`
}

// Images handles POST /api/v1/uploads/images.
func (h *UploadHandler) Images(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	urls, ok := receiveImages(c, h.store, storage.DefaultPrefix+"/"+id.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{URLs: urls})
}

// receiveImages validates every file in the multipart form before storing
// any of them, then uploads them under prefix. A failed upload removes the
// images already stored for the batch. It writes the error response itself
// and reports false on failure.
func receiveImages(c *gin.Context, store storage.ImageStore, prefix string) ([]string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	form, err := c.MultipartForm()
	if err != nil {
		metrics.ImageUploads.WithLabelValues(metrics.OutcomeInvalid).Inc()
		apierrors.BadRequest(c, "Invalid multipart form", nil)
		return nil, false
	}

	files := form.File[uploadFormField]
	if len(files) == 0 {
		metrics.ImageUploads.WithLabelValues(metrics.OutcomeInvalid).Inc()
		apierrors.BadRequest(c, "At least one image file is required", map[string]interface{}{
			"field": uploadFormField,
		})
		return nil, false
	}
	if len(files) > MaxImagesPerRequest {
		metrics.ImageUploads.WithLabelValues(metrics.OutcomeInvalid).Inc()
		apierrors.BadRequest(c, fmt.Sprintf("At most %d images can be uploaded at once", MaxImagesPerRequest), nil)
		return nil, false
	}

	for _, file := range files {
		if _, err := storage.ValidateImage(file.Filename, file.Size); err != nil {
			metrics.ImageUploads.WithLabelValues(metrics.OutcomeInvalid).Inc()
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{
				"filename": file.Filename,
			})
			return nil, false
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		body, err := file.Open()
		if err != nil {
			discardImages(c, store, urls)
			metrics.ImageUploads.WithLabelValues(metrics.OutcomeError).Inc()
			apierrors.InternalServerError(c, "Failed to read uploaded image", err)
			return nil, false
		}

		url, err := store.Upload(c.Request.Context(), prefix, storage.Image{
			Body:     body,
			Filename: file.Filename,
			Size:     file.Size,
		})
		body.Close()
		if err != nil {
			discardImages(c, store, urls)
			metrics.ImageUploads.WithLabelValues(metrics.OutcomeError).Inc()
			respondError(c, err, "Failed to upload image")
			return nil, false
		}

		metrics.ImageUploads.WithLabelValues(metrics.OutcomeSuccess).Inc()
		urls = append(urls, url)
	}

	return urls, true
}

// discardImages best-effort deletes images stored before a batch failed.
func discardImages(c *gin.Context, store storage.ImageStore, urls []string) {
	ctx := context.WithoutCancel(c.Request.Context())
	for _, url := range urls {
		if err := store.Delete(ctx, url); err != nil {
			if log := middleware.GetLogger(c); log != nil {
				log.Warn("Failed to remove orphaned image", map[string]interface{}{
					"url":   url,
					"error": err.Error(),
				})
			}
		}
	}
}
