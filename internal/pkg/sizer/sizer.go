// Package sizer computes generation sizes for Flux models.
package sizer

import (
	"fmt"
	"math"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

const (
	// BaseDimension is the side of the square the models are trained on.
	BaseDimension = 1024
	// MultipleOf is the granularity every returned dimension is trimmed to.
	MultipleOf = 16

	minDimensionFactor = 0.5
)

// IdealSizeByArea returns a size close to the targetWidth/targetHeight aspect ratio whose
// area is about (1024*multiplier)^2, never letting the shorter side drop below half the
// scaled base dimension.
//
// The side derived from the area is trimmed first, and the other side is derived from the
// trimmed value. Results may be zero for very small multipliers.
func IdealSizeByArea(targetWidth, targetHeight int, multiplier float64) (entity.Size, error) {
	if err := validateTarget(targetWidth, targetHeight); err != nil {
		return entity.Size{}, err
	}
	if multiplier <= 0 || math.IsNaN(multiplier) || math.IsInf(multiplier, 0) {
		return entity.Size{}, fmt.Errorf("%w: multiplier must be positive, got %v", entity.ErrInvalidInput, multiplier)
	}

	aspect := float64(targetWidth) / float64(targetHeight)
	dimension := BaseDimension * multiplier
	minDimension := math.Floor(dimension * minDimensionFactor)
	modelArea := dimension * dimension

	if aspect > 1.0 {
		height, err := trim(math.Max(minDimension, math.Sqrt(modelArea/aspect)))
		if err != nil {
			return entity.Size{}, err
		}
		width, err := trim(float64(height) * aspect)
		if err != nil {
			return entity.Size{}, err
		}
		return entity.Size{Width: width, Height: height}, nil
	}

	width, err := trim(math.Max(minDimension, math.Sqrt(modelArea*aspect)))
	if err != nil {
		return entity.Size{}, err
	}
	height, err := trim(float64(width) / aspect)
	if err != nil {
		return entity.Size{}, err
	}
	return entity.Size{Width: width, Height: height}, nil
}

// IdealSizeByTable returns the Kontext resolution whose aspect ratio is closest to
// targetWidth/targetHeight. Ties keep the earlier table entry.
func IdealSizeByTable(targetWidth, targetHeight int) (entity.Size, error) {
	if err := validateTarget(targetWidth, targetHeight); err != nil {
		return entity.Size{}, err
	}

	aspect := float64(targetWidth) / float64(targetHeight)
	return nearest(kontextResolutions[:], aspect), nil
}

// nearest scans table in order and keeps the first entry with the smallest aspect difference.
func nearest(table []entity.Size, aspect float64) entity.Size {
	best := table[0]
	bestDiff := math.Abs(aspect - aspectOf(best))
	for _, r := range table[1:] {
		if diff := math.Abs(aspect - aspectOf(r)); diff < bestDiff {
			best, bestDiff = r, diff
		}
	}
	return best
}

// trim floors x and drops it to the nearest lower multiple of 16. Values that do not fit
// in an int are rejected.
func trim(x float64) (int, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: dimension %v overflows int", entity.ErrInvalidInput, x)
	}
	v := int(math.Floor(x))
	return v - v%MultipleOf, nil
}

func aspectOf(s entity.Size) float64 {
	return float64(s.Width) / float64(s.Height)
}

func validateTarget(width, height int) error {
	if height == 0 {
		return entity.ErrDivisionByZero
	}
	if height < 0 {
		return fmt.Errorf("%w: height must be positive, got %d", entity.ErrInvalidInput, height)
	}
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", entity.ErrInvalidInput, width)
	}
	return nil
}
