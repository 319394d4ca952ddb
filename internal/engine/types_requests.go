package engine

import (
	"image"

	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/layout"
)

// NewSpriteRequest represents a request to create a sprite.
type NewSpriteRequest struct {
	// Width and Height are the canvas size in pixels
	Width  int
	Height int

	// Mode is the color mode of the new image
	Mode host.Mode
}

// GotoRequest represents a request to show one frame.
type GotoRequest struct {
	// Frame is the frame number to show
	Frame int

	// Member is the layer position within the frame to make active
	Member int
}

// AddLayerRequest represents a request to add a layer to the current frame.
type AddLayerRequest struct {
	// Name is the new layer's name
	Name string

	// Pixels optionally seeds the layer; nil creates a transparent
	// canvas-sized layer
	Pixels image.Image
}

// FlattenRequest represents a request to flatten frames into layers.
type FlattenRequest struct {
	// Reverse emits the last frame first
	Reverse bool
}

// ExportSheetRequest represents a request to lay frames out into a sheet.
type ExportSheetRequest struct {
	// Mode is the sheet arrangement (strip or grid)
	Mode layout.Mode
}
