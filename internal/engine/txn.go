package engine

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/spritedev/internal/frames"
	"github.com/danieljhkim/spritedev/internal/host"
)

// transaction runs fn as one undo group with display updates frozen.
//
// The group is always closed, and thaw always runs. When fn fails the group
// is undone so none of its partial changes survive.
func (e *Engine) transaction(img host.Image, op string, fn func() error) (err error) {
	e.editor.BeginUndoGroup(img)
	e.editor.Freeze(img)

	defer func() {
		e.editor.Thaw(img)
		e.editor.EndUndoGroup(img)
		if err == nil {
			return
		}
		if uerr := e.editor.Undo(img); uerr != nil {
			e.logger.WithError(uerr).WithField("op", op).Error("rollback failed")
			err = fmt.Errorf("%w (rollback failed: %v)", err, uerr)
			return
		}
		e.logger.WithError(err).WithField("op", op).Warn("rolled back")
	}()

	return fn()
}

// structural runs fn in a transaction and rejects it if it leaves the frame
// sequence with more invariant violations than it started with.
func (e *Engine) structural(img host.Image, op string, fn func() error) error {
	before := frames.Scan(img).Validate()
	if len(before) > 0 {
		e.logger.WithField("op", op).WithField("problems", describe(before)).
			Warn("frame sequence already inconsistent")
	}
	return e.transaction(img, op, func() error {
		if err := fn(); err != nil {
			return err
		}
		after := frames.Scan(img).Validate()
		if len(after) > len(before) {
			return fmt.Errorf("%w after %s: %s", ErrInvariant, op, describe(after))
		}
		return nil
	})
}

func describe(vs []frames.Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}
