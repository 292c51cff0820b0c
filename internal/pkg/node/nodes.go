package node

import (
	"context"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/sizer"
)

const (
	IdealSizeType        = "flux_ideal_size"
	KontextIdealSizeType = "flux_kontext_ideal_size"

	nodeVersion  = "1.0.0"
	nodeCategory = "math"
)

func targetInputs() []InputField {
	return []InputField{
		{Name: "width", Kind: KindInt, Default: 1024, Description: "Target width"},
		{Name: "height", Kind: KindInt, Default: 576, Description: "Target height"},
	}
}

// IdealSize calculates the ideal size for generation to avoid duplication.
type IdealSize struct{}

func (IdealSize) Info() Info {
	return Info{
		Type:        IdealSizeType,
		Title:       "Flux Ideal Size",
		Tags:        []string{"math", "ideal_size", "flux"},
		Category:    nodeCategory,
		Version:     nodeVersion,
		Description: "Calculates the ideal size for generation to avoid duplication",
		Inputs: append(targetInputs(),
			InputField{Name: "multiplier", Kind: KindFloat, Default: 1.0, Description: "Dimensional multiplier"},
		),
		Output: OutputInfo{Type: "flux_ideal_size_output", Fields: outputFields()},
	}
}

func (IdealSize) Invoke(ctx context.Context, fields Fields) (entity.Size, error) {
	if err := ctx.Err(); err != nil {
		return entity.Size{}, err
	}
	return sizer.IdealSizeByArea(fields.Int("width"), fields.Int("height"), fields.Float("multiplier"))
}

// KontextIdealSize picks the closest resolution Flux Kontext was trained on.
type KontextIdealSize struct{}

func (KontextIdealSize) Info() Info {
	return Info{
		Type:        KontextIdealSizeType,
		Title:       "Flux Kontext Ideal Size",
		Tags:        []string{"math", "ideal_size", "flux", "kontext"},
		Category:    nodeCategory,
		Version:     nodeVersion,
		Description: "Picks the closest preferred Flux Kontext resolution for the target aspect ratio",
		Inputs:      targetInputs(),
		Output:      OutputInfo{Type: "flux_kontext_ideal_size_output", Fields: outputFields()},
	}
}

func (KontextIdealSize) Invoke(ctx context.Context, fields Fields) (entity.Size, error) {
	if err := ctx.Err(); err != nil {
		return entity.Size{}, err
	}
	return sizer.IdealSizeByTable(fields.Int("width"), fields.Int("height"))
}
