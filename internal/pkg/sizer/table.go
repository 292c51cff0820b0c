package sizer

import "github.com/ds124wfegd/flux-ideal-size/internal/entity"

// Resolutions Flux Kontext was trained on, ordered from tallest to widest.
var kontextResolutions = [...]entity.Size{
	{Width: 672, Height: 1568},
	{Width: 688, Height: 1504},
	{Width: 720, Height: 1456},
	{Width: 752, Height: 1392},
	{Width: 800, Height: 1328},
	{Width: 832, Height: 1248},
	{Width: 880, Height: 1184},
	{Width: 944, Height: 1104},
	{Width: 1024, Height: 1024},
	{Width: 1104, Height: 944},
	{Width: 1184, Height: 880},
	{Width: 1248, Height: 832},
	{Width: 1328, Height: 800},
	{Width: 1392, Height: 752},
	{Width: 1456, Height: 720},
	{Width: 1504, Height: 688},
	{Width: 1568, Height: 672},
}

// KontextResolutions returns a copy of the lookup table used by IdealSizeByTable.
func KontextResolutions() []entity.Size {
	out := make([]entity.Size, len(kontextResolutions))
	copy(out, kontextResolutions[:])
	return out
}
