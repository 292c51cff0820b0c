package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/service"
	"github.com/gin-gonic/gin"
)

type NodeHandler struct {
	service service.SizeService
}

func NewNodeHandler(service service.SizeService) *NodeHandler {
	return &NodeHandler{service: service}
}

type ImageHandler struct {
	service       service.ImageService
	maxUploadSize int64
}

func NewImageHandler(service service.ImageService, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{service: service, maxUploadSize: maxUploadSize}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNodeNotFound), errors.Is(err, entity.ErrInvocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
