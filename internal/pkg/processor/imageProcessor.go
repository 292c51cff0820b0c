package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

type ImageProcessor interface {
	// Decode reads an image and reports the format it was stored in.
	Decode(r io.Reader) (image.Image, string, error)
	// Fit crops and scales img so it exactly covers size.
	Fit(img image.Image, size entity.Size) image.Image
	// Encode writes img in format and returns the matching content type.
	Encode(w io.Writer, img image.Image, format string) (string, error)
}

type imageProcessor struct {
	jpegQuality int
}

func NewImageProcessor() ImageProcessor {
	return &imageProcessor{jpegQuality: 90}
}

func (p *imageProcessor) Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}
	if _, err := imaging.FormatFromExtension(format); err != nil {
		return nil, "", fmt.Errorf("%w: %s", entity.ErrUnsupportedImage, format)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrUnsupportedImage, err)
	}
	return img, format, nil
}

func (p *imageProcessor) Fit(img image.Image, size entity.Size) image.Image {
	return imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)
}

// Encode keeps JPEG sources as JPEG; everything else is written as PNG.
func (p *imageProcessor) Encode(w io.Writer, img image.Image, format string) (string, error) {
	if format == "jpeg" {
		return "image/jpeg", imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	}
	return "image/png", imaging.Encode(w, img, imaging.PNG)
}
