package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/finance-tracker-server/internal/models"
	"github.com/rongwang/finance-tracker-server/internal/storage"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

// UploadImage stores a multipart "file" image and returns its public URL
func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			badRequest(c, fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes))
			return
		}
		badRequest(c, "A multipart 'file' field is required")
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		badRequest(c, fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, fmt.Errorf("error opening upload: %w", err))
		return
	}
	defer file.Close()

	url, err := h.images.Save(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			badRequest(c, "File must be an image")
			return
		}
		writeError(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "image uploaded", "url", url, "size", fileHeader.Size)
	c.JSON(http.StatusOK, models.UploadResponse{URL: url})
}
