package canvas

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/danieljhkim/spritedev/internal/host"
)

// Layer is a pixel layer or a layer group.
type Layer struct {
	name     string
	group    bool
	visible  bool
	opacity  float64
	blend    host.BlendMode
	offX     int
	offY     int
	pix      *image.NRGBA
	parent   *Layer
	children []*Layer
	owner    *Image
}

var _ host.Node = (*Layer)(nil)

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// SetName renames the layer. Top-level names must be unique within the image.
func (l *Layer) SetName(name string) error {
	if l.owner != nil && l.parent == nil {
		for _, other := range l.owner.layers {
			if other != l && other.name == name {
				return errors.Wrapf(ErrDuplicateName, "rename %q to %q", l.name, name)
			}
		}
	}
	l.name = name
	l.touch()
	return nil
}

// Parent returns the enclosing group or nil.
func (l *Layer) Parent() host.Node {
	if l.parent == nil {
		return nil
	}
	return l.parent
}

// Children returns the children of a group.
func (l *Layer) Children() []host.Node {
	if !l.group {
		return nil
	}
	out := make([]host.Node, len(l.children))
	for i, c := range l.children {
		out[i] = c
	}
	return out
}

// Members returns the concrete children of a group.
func (l *Layer) Members() []*Layer {
	return append([]*Layer(nil), l.children...)
}

// IsGroup reports whether l is a layer group.
func (l *Layer) IsGroup() bool { return l.group }

// Visible reports the layer's own visibility flag.
func (l *Layer) Visible() bool { return l.visible }

// SetVisible sets the visibility flag.
func (l *Layer) SetVisible(visible bool) {
	if l.visible == visible {
		return
	}
	l.visible = visible
	l.touch()
}

// Opacity returns the layer opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(opacity float64) {
	l.opacity = clampOpacity(opacity)
	l.touch()
}

// Blend returns the layer blend mode.
func (l *Layer) Blend() host.BlendMode { return l.blend }

// Size returns the pixel size. A group spans the union of its children.
func (l *Layer) Size() (int, int) {
	r := l.extent()
	return r.Dx(), r.Dy()
}

// Offsets returns the layer position in image coordinates.
func (l *Layer) Offsets() (int, int) {
	r := l.extent()
	return r.Min.X, r.Min.Y
}

// SetOffsets moves the layer. Moving a group moves all of its children.
func (l *Layer) SetOffsets(x, y int) {
	ox, oy := l.Offsets()
	l.translate(x-ox, y-oy)
	l.touch()
}

// PixelAt returns the pixel at (x, y) relative to the layer's own origin.
func (l *Layer) PixelAt(x, y int) color.NRGBA {
	if !l.group {
		if l.pix == nil || !(image.Point{x, y}.In(l.pix.Rect)) {
			return color.NRGBA{}
		}
		return l.pix.NRGBAAt(x, y)
	}
	r := l.extent()
	if r.Empty() {
		return color.NRGBA{}
	}
	dst := image.NewNRGBA(r)
	for i := len(l.children) - 1; i >= 0; i-- {
		drawLayer(dst, l.children[i])
	}
	return dst.NRGBAAt(r.Min.X+x, r.Min.Y+y)
}

// Pixels returns the layer's pixel buffer (nil for groups). The buffer is
// shared; callers must not modify it.
func (l *Layer) Pixels() *image.NRGBA { return l.pix }

// SetPixels replaces the layer's pixels with a copy of src, resizing the layer.
func (l *Layer) SetPixels(src image.Image) error {
	if l.group {
		return errors.WithStack(ErrNotGroup)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.Wrapf(ErrBadSize, "%dx%d", b.Dx(), b.Dy())
	}
	pix := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			pix.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	l.pix = pix
	l.touch()
	return nil
}

// extent returns the layer's rectangle in image coordinates.
func (l *Layer) extent() image.Rectangle {
	if !l.group {
		if l.pix == nil {
			return image.Rectangle{}
		}
		return l.pix.Rect.Add(image.Pt(l.offX, l.offY))
	}
	var r image.Rectangle
	for _, c := range l.children {
		r = r.Union(c.extent())
	}
	return r
}

func (l *Layer) translate(dx, dy int) {
	if !l.group {
		l.offX += dx
		l.offY += dy
		return
	}
	for _, c := range l.children {
		c.translate(dx, dy)
	}
}

func (l *Layer) setOwner(img *Image) {
	l.owner = img
	for _, c := range l.children {
		c.setOwner(img)
	}
}

func (l *Layer) contains(n *Layer) bool {
	for p := n; p != nil; p = p.parent {
		if p == l {
			return true
		}
	}
	return false
}

func (l *Layer) touch() {
	if l.owner != nil {
		l.owner.notify()
	}
}

// clone returns an unattached deep copy of l.
func (l *Layer) clone() *Layer {
	c := &Layer{
		name:    l.name,
		group:   l.group,
		visible: l.visible,
		opacity: l.opacity,
		blend:   l.blend,
		offX:    l.offX,
		offY:    l.offY,
	}
	if l.pix != nil {
		pix := image.NewNRGBA(l.pix.Rect)
		copy(pix.Pix, l.pix.Pix)
		c.pix = pix
	}
	for _, child := range l.children {
		cc := child.clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func clampOpacity(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
