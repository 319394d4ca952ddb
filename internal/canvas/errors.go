package canvas

import "github.com/pkg/errors"

var (
	// ErrDuplicateName indicates a top-level name is already taken.
	ErrDuplicateName = errors.New("duplicate top-level name")

	// ErrAttached indicates a node is already part of an image tree.
	ErrAttached = errors.New("node already attached")

	// ErrNotAttached indicates a node is not part of the given image.
	ErrNotAttached = errors.New("node not attached to image")

	// ErrNotGroup indicates a parent that cannot hold children.
	ErrNotGroup = errors.New("parent is not a group")

	// ErrForeign indicates a handle that was not created by this package.
	ErrForeign = errors.New("handle not owned by canvas")

	// ErrEmptyClipboard indicates a paste with nothing copied.
	ErrEmptyClipboard = errors.New("clipboard is empty")

	// ErrAnchored indicates a floating selection that was already anchored.
	ErrAnchored = errors.New("floating selection already anchored")

	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrUndoOpen indicates an undo while a group is still open.
	ErrUndoOpen = errors.New("undo group still open")

	// ErrBadSize indicates a non-positive width or height.
	ErrBadSize = errors.New("invalid size")
)
