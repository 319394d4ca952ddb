package canvas

import (
	"github.com/pkg/errors"

	"github.com/danieljhkim/spritedev/internal/host"
)

// memento is a full copy of an image's mutable state.
type memento struct {
	width      int
	height     int
	layers     []*Layer
	activePath []int
}

func capture(im *Image) *memento {
	m := &memento{
		width:      im.width,
		height:     im.height,
		activePath: im.Path(im.active),
	}
	for _, l := range im.layers {
		m.layers = append(m.layers, l.clone())
	}
	return m
}

func (m *memento) restore(im *Image) {
	for _, l := range im.layers {
		l.setOwner(nil)
	}
	im.width = m.width
	im.height = m.height
	im.layers = m.layers
	for _, l := range im.layers {
		l.setOwner(im)
	}
	im.active = im.Resolve(m.activePath)
	im.notify()
}

// BeginUndoGroup opens an undo group. Only the outermost group captures state.
func (e *Editor) BeginUndoGroup(img host.Image) {
	im, err := asImage(img)
	if err != nil {
		return
	}
	if im.depth == 0 {
		im.pending = capture(im)
	}
	im.depth++
}

// EndUndoGroup closes the innermost group, committing when it is the outermost.
func (e *Editor) EndUndoGroup(img host.Image) {
	im, err := asImage(img)
	if err != nil || im.depth == 0 {
		return
	}
	im.depth--
	if im.depth == 0 && im.pending != nil {
		im.undo = append(im.undo, im.pending)
		im.pending = nil
	}
}

// Undo restores the state captured by the most recent committed group.
func (e *Editor) Undo(img host.Image) error {
	im, err := asImage(img)
	if err != nil {
		return err
	}
	if im.depth > 0 {
		return errors.WithStack(ErrUndoOpen)
	}
	if len(im.undo) == 0 {
		return errors.WithStack(ErrNothingToUndo)
	}
	m := im.undo[len(im.undo)-1]
	im.undo = im.undo[:len(im.undo)-1]
	m.restore(im)
	return nil
}

// Freeze suppresses display-update notifications until the matching Thaw.
func (e *Editor) Freeze(img host.Image) {
	if im, err := asImage(img); err == nil {
		im.frozen++
	}
}

// Thaw re-enables notifications, delivering one update if any were suppressed.
func (e *Editor) Thaw(img host.Image) {
	im, err := asImage(img)
	if err != nil || im.frozen == 0 {
		return
	}
	im.frozen--
	if im.frozen == 0 && im.stale {
		im.stale = false
		im.updates++
	}
}
