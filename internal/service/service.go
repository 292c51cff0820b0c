package service

import (
	"context"
	"io"

	"github.com/ds124wfegd/flux-ideal-size/internal/database"
	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/processor"
)

type SizeService interface {
	ListNodes() []node.Info
	GetNode(nodeType string) (node.Info, error)
	Invoke(ctx context.Context, nodeType string, raw map[string]interface{}) (*entity.Invocation, error)
	GetInvocation(ctx context.Context, id string) (*entity.Invocation, error)
	ListInvocations(ctx context.Context, limit int) ([]entity.Invocation, error)
}

type ImageService interface {
	FitImage(ctx context.Context, nodeType string, multiplier float64, src io.Reader) (*FitResult, error)
}

// EventPublisher is satisfied by the kafka and RabbitMQ publishers.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.InvocationEvent) error
}

type FitResult struct {
	Size        entity.Size
	ContentType string
	Data        []byte
}

type sizeService struct {
	registry  *node.Registry
	cache     database.ResultCache
	history   database.InvocationRepository
	publisher EventPublisher
}

func NewSizeService(registry *node.Registry, cache database.ResultCache, history database.InvocationRepository, publisher EventPublisher) SizeService {
	return &sizeService{
		registry:  registry,
		cache:     cache,
		history:   history,
		publisher: publisher,
	}
}

type imageService struct {
	registry        *node.Registry
	processor       processor.ImageProcessor
	maxOutputPixels int64
}

// NewImageService builds the image service. Fitted images larger than maxOutputPixels are
// refused before any pixels are allocated; zero disables the cap.
func NewImageService(registry *node.Registry, processor processor.ImageProcessor, maxOutputPixels int64) ImageService {
	return &imageService{
		registry:        registry,
		processor:       processor,
		maxOutputPixels: maxOutputPixels,
	}
}
