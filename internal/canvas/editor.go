// Package canvas is an in-memory raster layer editor implementing host.Editor.
//
// Images hold a tree of layers and layer groups with NRGBA pixel buffers.
// Position 0 among siblings is the topmost layer. Like most desktop editors,
// top-level names are unique within an image; nested layers may share names.
// The editor keeps a single clipboard shared by all images.
package canvas

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/danieljhkim/spritedev/internal/host"
)

// Editor creates and mutates in-memory images.
type Editor struct {
	clipboard *image.NRGBA
}

var _ host.Editor = (*Editor)(nil)

// New creates an Editor with an empty clipboard.
func New() *Editor {
	return &Editor{}
}

// NewImage creates an empty image.
func (e *Editor) NewImage(width, height int, mode host.Mode) (host.Image, error) {
	return NewImage(width, height, mode)
}

// NewImage creates an empty image as a concrete value.
func NewImage(width, height int, mode host.Mode) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadSize, "%dx%d", width, height)
	}
	return &Image{width: width, height: height, mode: mode}, nil
}

// NewLayer creates an unattached transparent layer.
func (e *Editor) NewLayer(img host.Image, width, height int, name string, opacity float64, blend host.BlendMode) (host.Node, error) {
	if _, err := asImage(img); err != nil {
		return nil, err
	}
	return NewLayer(width, height, name, opacity, blend)
}

// NewLayer creates an unattached transparent layer as a concrete value.
func NewLayer(width, height int, name string, opacity float64, blend host.BlendMode) (*Layer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadSize, "layer %q %dx%d", name, width, height)
	}
	if blend == "" {
		blend = host.BlendNormal
	}
	return &Layer{
		name:    name,
		visible: true,
		opacity: clampOpacity(opacity),
		blend:   blend,
		pix:     image.NewNRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// NewGroup creates an unattached empty group.
func (e *Editor) NewGroup(img host.Image) (host.Node, error) {
	if _, err := asImage(img); err != nil {
		return nil, err
	}
	return NewGroup("Layer Group"), nil
}

// NewGroup creates an unattached empty group as a concrete value.
func NewGroup(name string) *Layer {
	return &Layer{
		name:    name,
		group:   true,
		visible: true,
		opacity: 1,
		blend:   host.BlendNormal,
	}
}

// Insert attaches n under parent at position.
func (e *Editor) Insert(img host.Image, n, parent host.Node, position int) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	l, err := asLayer(n)
	if err != nil {
		return err
	}
	if l.owner != nil || l.parent != nil {
		return errors.Wrapf(ErrAttached, "insert %q", l.name)
	}

	if parent == nil {
		for _, other := range im.layers {
			if other.name == l.name {
				return errors.Wrapf(ErrDuplicateName, "insert %q", l.name)
			}
		}
		im.layers = insertAt(im.layers, l, position)
	} else {
		p, err := asLayer(parent)
		if err != nil {
			return err
		}
		if !p.group {
			return errors.Wrapf(ErrNotGroup, "insert %q into %q", l.name, p.name)
		}
		if p.owner != im {
			return errors.Wrapf(ErrNotAttached, "parent %q", p.name)
		}
		if l.contains(p) {
			return errors.Errorf("cannot insert %q into its own subtree", l.name)
		}
		l.parent = p
		p.children = insertAt(p.children, l, position)
	}

	l.setOwner(im)
	im.notify()
	return nil
}

// Remove detaches n and its subtree.
func (e *Editor) Remove(img host.Image, n host.Node) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	l, err := asLayer(n)
	if err != nil {
		return err
	}
	if l.owner != im {
		return errors.Wrapf(ErrNotAttached, "remove %q", l.name)
	}

	if l.parent == nil {
		im.layers = removeFrom(im.layers, l)
	} else {
		l.parent.children = removeFrom(l.parent.children, l)
		l.parent = nil
	}
	if im.active != nil && l.contains(im.active) {
		im.active = nil
	}
	l.setOwner(nil)
	im.notify()
	return nil
}

// Duplicate returns an unattached deep copy of n.
func (e *Editor) Duplicate(n host.Node) (host.Node, error) {
	l, err := asLayer(n)
	if err != nil {
		return nil, err
	}
	return l.clone(), nil
}

// SetActive makes n the active layer of img.
func (e *Editor) SetActive(img host.Image, n host.Node) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	l, err := asLayer(n)
	if err != nil {
		return err
	}
	if l.owner != im {
		return errors.Wrapf(ErrNotAttached, "activate %q", l.name)
	}
	im.active = l
	return nil
}

// Crop resizes the canvas and shifts every layer by (-offsetX, -offsetY).
func (e *Editor) Crop(img host.Image, width, height, offsetX, offsetY int) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrBadSize, "crop %dx%d", width, height)
	}
	im.width = width
	im.height = height
	for _, l := range im.layers {
		l.translate(-offsetX, -offsetY)
	}
	im.notify()
	return nil
}

// CopyVisible copies the visible composite of img to the clipboard.
func (e *Editor) CopyVisible(img host.Image) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	e.clipboard = Composite(im)
	return nil
}

// Paste creates a floating selection of the clipboard centered on target.
func (e *Editor) Paste(target host.Node) (host.Floating, error) {
	if e.clipboard == nil {
		return nil, errors.WithStack(ErrEmptyClipboard)
	}
	l, err := asLayer(target)
	if err != nil {
		return nil, err
	}
	if l.group || l.pix == nil {
		return nil, errors.Wrapf(ErrNotGroup, "paste target %q must be a pixel layer", l.name)
	}
	pix := image.NewNRGBA(e.clipboard.Rect)
	copy(pix.Pix, e.clipboard.Pix)

	tw, th := l.pix.Rect.Dx(), l.pix.Rect.Dy()
	cw, ch := pix.Rect.Dx(), pix.Rect.Dy()
	return &floating{
		target: l,
		pix:    pix,
		at:     image.Pt((tw-cw)/2, (th-ch)/2),
	}, nil
}

type floating struct {
	target   *Layer
	pix      *image.NRGBA
	at       image.Point
	anchored bool
}

// Anchor merges the floating pixels into the target layer.
func (f *floating) Anchor() error {
	if f.anchored {
		return errors.WithStack(ErrAnchored)
	}
	r := f.pix.Rect.Add(f.at).Intersect(f.target.pix.Rect)
	if !r.Empty() {
		draw.Draw(f.target.pix, r, f.pix, r.Min.Sub(f.at), draw.Over)
	}
	f.anchored = true
	f.target.touch()
	return nil
}

func asImage(img host.Image) (*Image, error) {
	im, ok := img.(*Image)
	if !ok || im == nil {
		return nil, errors.Wrapf(ErrForeign, "image %T", img)
	}
	return im, nil
}

func asLayer(n host.Node) (*Layer, error) {
	l, ok := n.(*Layer)
	if !ok || l == nil {
		return nil, errors.Wrapf(ErrForeign, "node %T", n)
	}
	return l, nil
}

func insertAt(list []*Layer, l *Layer, pos int) []*Layer {
	if pos < 0 || pos > len(list) {
		pos = len(list)
	}
	list = append(list, nil)
	copy(list[pos+1:], list[pos:])
	list[pos] = l
	return list
}

func removeFrom(list []*Layer, l *Layer) []*Layer {
	i := indexOf(list, l)
	if i < 0 {
		return list
	}
	return append(list[:i], list[i+1:]...)
}
