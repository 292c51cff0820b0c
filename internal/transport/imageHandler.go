package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/gin-gonic/gin"
)

// FitImage resizes the uploaded "image" to the ideal size for its aspect ratio.
func (h *ImageHandler) FitImage(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the upload limit"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	file, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the upload limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	nodeType := c.DefaultQuery("node", node.IdealSizeType)

	multiplier := 0.0
	if v := c.Query("multiplier"); v != "" {
		multiplier, err = strconv.ParseFloat(v, 64)
		if err != nil || multiplier <= 0 {
			abortWithError(c, fmt.Errorf("%w: multiplier must be a positive number", entity.ErrInvalidInput))
			return
		}
	}

	src, err := file.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer src.Close()

	result, err := h.service.FitImage(c.Request.Context(), nodeType, multiplier, src)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("X-Ideal-Width", strconv.Itoa(result.Size.Width))
	c.Header("X-Ideal-Height", strconv.Itoa(result.Size.Height))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
