package canvas

import (
	"github.com/danieljhkim/spritedev/internal/host"
)

// Image is an in-memory layered image.
type Image struct {
	width  int
	height int
	mode   host.Mode
	layers []*Layer
	active *Layer

	// undo state
	undo    []*memento
	depth   int
	pending *memento

	// display-update notifications
	frozen  int
	stale   bool
	updates int
}

var _ host.Image = (*Image)(nil)

// Width returns the canvas width.
func (img *Image) Width() int { return img.width }

// Height returns the canvas height.
func (img *Image) Height() int { return img.height }

// Mode returns the color mode.
func (img *Image) Mode() host.Mode { return img.mode }

// Layers returns the top-level nodes, topmost first.
func (img *Image) Layers() []host.Node {
	out := make([]host.Node, len(img.layers))
	for i, l := range img.layers {
		out[i] = l
	}
	return out
}

// TopLayers returns the top-level layers as concrete values.
func (img *Image) TopLayers() []*Layer {
	return append([]*Layer(nil), img.layers...)
}

// Position returns the sibling index of n, or -1 when n is not in img.
func (img *Image) Position(n host.Node) int {
	l, ok := n.(*Layer)
	if !ok || l == nil || l.owner != img {
		return -1
	}
	siblings := img.layers
	if l.parent != nil {
		siblings = l.parent.children
	}
	return indexOf(siblings, l)
}

// ActiveNode returns the active layer or nil.
func (img *Image) ActiveNode() host.Node {
	if img.active == nil {
		return nil
	}
	return img.active
}

// ActiveLayer returns the active layer as a concrete value.
func (img *Image) ActiveLayer() *Layer { return img.active }

// Updates returns how many display-update notifications have been delivered.
func (img *Image) Updates() int { return img.updates }

// UndoDepth returns the number of committed undo groups.
func (img *Image) UndoDepth() int { return len(img.undo) }

// Path returns the child-index path from the top level to l, or nil.
func (img *Image) Path(l *Layer) []int {
	if l == nil || l.owner != img {
		return nil
	}
	var rev []int
	for n := l; n != nil; n = n.parent {
		siblings := img.layers
		if n.parent != nil {
			siblings = n.parent.children
		}
		rev = append(rev, indexOf(siblings, n))
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// Resolve returns the layer at path, or nil when the path does not exist.
func (img *Image) Resolve(path []int) *Layer {
	if len(path) == 0 {
		return nil
	}
	siblings := img.layers
	var cur *Layer
	for _, i := range path {
		if i < 0 || i >= len(siblings) {
			return nil
		}
		cur = siblings[i]
		siblings = cur.children
	}
	return cur
}

func (img *Image) notify() {
	if img.frozen > 0 {
		img.stale = true
		return
	}
	img.updates++
}

func indexOf(list []*Layer, l *Layer) int {
	for i, v := range list {
		if v == l {
			return i
		}
	}
	return -1
}
