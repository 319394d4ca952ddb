package engine

import (
	"image"

	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/layout"
	"github.com/danieljhkim/spritedev/internal/planner"
)

// FrameResult represents the outcome of a frame lifecycle operation.
type FrameResult struct {
	// Changed is false when the operation was a soft no-op
	Changed bool `json:"changed"`

	// Reason explains a no-op
	Reason string `json:"reason,omitempty"`

	// Frame is the frame focused afterwards, or -1
	Frame int `json:"frame"`

	// Member is the member position made active
	Member int `json:"member"`

	// Renumbered is the number of frames whose number changed
	Renumbered int `json:"renumbered"`

	// Copies is the number of layers created by copy-to-frames
	Copies int `json:"copies,omitempty"`

	plan *planner.RenamePlan
}

// Plan returns the rename plan applied by the operation, if any.
func (r *FrameResult) Plan() *planner.RenamePlan {
	return r.plan
}

// SpriteResult represents a newly created sprite.
type SpriteResult struct {
	Image host.Image
	Frame *FrameResult
}

// FrameInfo describes one frame for listings.
type FrameInfo struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Visible  bool     `json:"visible"`
	Current  bool     `json:"current"`
	Members  []string `json:"members"`
}

// StatusResult represents the current state of a sprite.
type StatusResult struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Mode        string      `json:"mode"`
	FrameCount  int         `json:"frameCount"`
	LastFrame   int         `json:"lastFrame"`
	Current     int         `json:"current"`
	Member      int         `json:"member"`
	ActiveLayer string      `json:"activeLayer,omitempty"`
	Frames      []FrameInfo `json:"frames"`

	// Problems lists frame-sequence invariant violations
	Problems []string `json:"problems,omitempty"`
}

// FlattenResult represents frames flattened into a new image.
type FlattenResult struct {
	// Image holds one layer per frame
	Image host.Image

	// Frames is the frame numbers in emitted order
	Frames []int
}

// SheetCell places one frame in a sprite sheet.
type SheetCell struct {
	Frame int             `json:"frame"`
	Rect  image.Rectangle `json:"rect"`
}

// SheetResult represents a sprite sheet built from every frame.
type SheetResult struct {
	Image  host.Image
	Layout layout.Layout
	Cells  []SheetCell
}

// TrimResult represents the outcome of trimming a sprite.
type TrimResult struct {
	// Changed is false when the canvas already fits the visible pixels
	Changed bool `json:"changed"`

	// Bounds is the union of visible pixels in pre-trim coordinates
	Bounds image.Rectangle `json:"bounds"`

	// Width and Height are the canvas size afterwards
	Width  int `json:"width"`
	Height int `json:"height"`
}
