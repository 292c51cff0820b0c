package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/sirupsen/logrus"
)

// FitImage resizes an init image to the ideal size computed from its own dimensions.
// multiplier is only passed to nodes that declare it.
func (s *imageService) FitImage(ctx context.Context, nodeType string, multiplier float64, src io.Reader) (*FitResult, error) {
	n, err := s.registry.Get(nodeType)
	if err != nil {
		return nil, err
	}

	img, format, err := s.processor.Decode(src)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	req := entity.SizeRequest{Width: bounds.Dx(), Height: bounds.Dy()}
	for _, in := range n.Info().Inputs {
		if in.Name == "multiplier" {
			req.Multiplier = multiplier
		}
	}

	fields, err := node.Decode(n.Info().Inputs, req.Fields())
	if err != nil {
		return nil, err
	}

	size, err := n.Invoke(ctx, fields)
	if err != nil {
		return nil, err
	}
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("%w: ideal size %dx%d is empty", entity.ErrInvalidInput, size.Width, size.Height)
	}
	if s.maxOutputPixels > 0 && int64(size.Width) > s.maxOutputPixels/int64(size.Height) {
		return nil, fmt.Errorf("%w: ideal size %dx%d exceeds %d pixels", entity.ErrInvalidInput, size.Width, size.Height, s.maxOutputPixels)
	}

	var buf bytes.Buffer
	contentType, err := s.processor.Encode(&buf, s.processor.Fit(img, size), format)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"node_type": nodeType,
		"source":    fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"width":     size.Width,
		"height":    size.Height,
	}).Info("Image fitted to ideal size")

	return &FitResult{
		Size:        size,
		ContentType: contentType,
		Data:        buf.Bytes(),
	}, nil
}
