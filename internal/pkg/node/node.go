// Package node describes the ideal size calculators the way the pipeline host
// expects: a named, versioned node with typed input fields and a typed output record.
package node

import (
	"context"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
)

type FieldKind string

const (
	KindInt   FieldKind = "int"
	KindFloat FieldKind = "float"
)

type InputField struct {
	Name        string      `json:"name"`
	Kind        FieldKind   `json:"kind"`
	Default     interface{} `json:"default"`
	Description string      `json:"description"`
}

type OutputField struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Description string    `json:"description"`
}

type OutputInfo struct {
	Type   string        `json:"type"`
	Fields []OutputField `json:"fields"`
}

// Info is the registration record of a node.
type Info struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Tags        []string     `json:"tags"`
	Category    string       `json:"category"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Inputs      []InputField `json:"inputs"`
	Output      OutputInfo   `json:"output"`
}

// Invocation runs a node against already decoded fields.
type Invocation interface {
	Invoke(ctx context.Context, fields Fields) (entity.Size, error)
}

type Node interface {
	Invocation
	Info() Info
}

var sizeOutputFields = []OutputField{
	{Name: "width", Kind: KindInt, Description: "The ideal width of the image in pixels"},
	{Name: "height", Kind: KindInt, Description: "The ideal height of the image in pixels"},
}

func outputFields() []OutputField {
	out := make([]OutputField, len(sizeOutputFields))
	copy(out, sizeOutputFields)
	return out
}
