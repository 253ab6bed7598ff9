package render

import (
	"errors"
	"fmt"
)

// Stage names the render step that failed.
type Stage string

const (
	StageLayout Stage = "layout"
	StageEncode Stage = "encode"
	StageStore  Stage = "store"
)

// ErrRender matches every *RenderError.
var ErrRender = errors.New("render failed")

// RenderError reports that no artifact was produced. Stored records are never
// affected; the caller may retry.
type RenderError struct {
	Stage Stage
	Key   string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.Key, e.Stage, e.Err)
}

// Unwrap exposes both ErrRender and the underlying cause.
func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }
