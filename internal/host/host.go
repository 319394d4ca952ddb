// Package host defines the surface spritedev needs from a raster image editor.
//
// The frame engine never owns layer-tree nodes. It reads and mutates them only
// through these interfaces, so any editor that can express a layer tree,
// composited copy/paste and grouped undo can host it. The in-memory editor in
// internal/canvas is the implementation used by the CLI and the tests.
package host

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Mode is the color mode of an image.
type Mode int

const (
	// RGB is a full-color image.
	RGB Mode = iota
	// Gray is a grayscale image.
	Gray
	// Indexed is a palette image.
	Indexed
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case RGB:
		return "rgb"
	case Gray:
		return "gray"
	case Indexed:
		return "indexed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "":
		return RGB, nil
	case "gray", "grey", "grayscale":
		return Gray, nil
	case "indexed":
		return Indexed, nil
	default:
		return RGB, fmt.Errorf("unknown color mode %q", s)
	}
}

// BlendMode controls how a layer combines with what is below it.
type BlendMode string

const (
	// BlendNormal paints the layer over the layers below it.
	BlendNormal BlendMode = "normal"
)

// Node is a handle to a layer or layer group owned by a host image.
type Node interface {
	// Name returns the node name.
	Name() string

	// SetName renames the node. Hosts may reject names that collide.
	SetName(name string) error

	// Parent returns the enclosing group, or nil for a top-level node.
	Parent() Node

	// Children returns the ordered children of a group (nil for plain layers).
	Children() []Node

	// IsGroup reports whether the node can hold children.
	IsGroup() bool

	// Visible reports the node's own visibility flag.
	Visible() bool

	// SetVisible sets the node's visibility flag.
	SetVisible(visible bool)

	// Size returns the pixel dimensions of the node.
	Size() (width, height int)

	// Offsets returns the node's pixel offsets within the image.
	Offsets() (x, y int)

	// SetOffsets moves the node to the given pixel offsets.
	SetOffsets(x, y int)

	// PixelAt returns the node's own pixel at (x, y) in node coordinates.
	PixelAt(x, y int) color.NRGBA
}

// Image is a handle to a host image.
type Image interface {
	Width() int
	Height() int
	Mode() Mode

	// Layers returns the top-level nodes in host order (position 0 first).
	Layers() []Node

	// Position returns the sibling position of n, or -1 if n is not attached.
	Position(n Node) int

	// ActiveNode returns the node currently targeted by editing, or nil.
	ActiveNode() Node
}

// PixelWriter is an optional Node capability for replacing a layer's pixels
// wholesale, used when importing artwork.
type PixelWriter interface {
	SetPixels(src image.Image) error
}

// Floating is pasted content that must be anchored into its target.
type Floating interface {
	Anchor() error
}

// Editor is the host's object model: factories, tree mutations, compositing
// and transactions.
type Editor interface {
	// NewImage creates an empty image.
	NewImage(width, height int, mode Mode) (Image, error)

	// NewLayer creates an unattached, fully transparent layer.
	NewLayer(img Image, width, height int, name string, opacity float64, blend BlendMode) (Node, error)

	// NewGroup creates an unattached, empty layer group.
	NewGroup(img Image) (Node, error)

	// Insert attaches n under parent (nil for top level) at position.
	// A position of -1 or past the end appends.
	Insert(img Image, n, parent Node, position int) error

	// Remove detaches n and its subtree from the image.
	Remove(img Image, n Node) error

	// Duplicate returns an unattached deep copy of n with the same name.
	Duplicate(n Node) (Node, error)

	// SetActive makes n the active editing target.
	SetActive(img Image, n Node) error

	// Crop resizes the canvas to width x height, taking the region that starts
	// at (offsetX, offsetY).
	Crop(img Image, width, height, offsetX, offsetY int) error

	// CopyVisible copies the visible composite of img to the clipboard.
	CopyVisible(img Image) error

	// Paste pastes the clipboard onto target as a floating selection.
	Paste(target Node) (Floating, error)

	// BeginUndoGroup opens an undo group. Groups nest.
	BeginUndoGroup(img Image)

	// EndUndoGroup closes the innermost undo group.
	EndUndoGroup(img Image)

	// Undo reverts the most recently committed undo group.
	Undo(img Image) error

	// Freeze suppresses display-update notifications. Calls nest.
	Freeze(img Image)

	// Thaw re-enables display-update notifications.
	Thaw(img Image)
}

// Progress receives advisory completion fractions in [0, 1].
type Progress interface {
	Report(fraction float64)
}

// NopProgress discards progress reports.
type NopProgress struct{}

// Report does nothing.
func (NopProgress) Report(float64) {}
