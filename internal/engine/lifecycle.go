package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/frames"
	"github.com/danieljhkim/spritedev/internal/host"
)

// blankLayerName is the name of the layer a fresh frame starts with.
const blankLayerName = "Layer 1"

// NewSprite creates an image and gives it its first frame.
func (e *Engine) NewSprite(ctx context.Context, req *NewSpriteRequest) (*SpriteResult, error) {
	img, err := e.editor.NewImage(req.Width, req.Height, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	res, err := e.NewFrame(ctx, img)
	if err != nil {
		return nil, err
	}
	e.logger.WithFields(logrus.Fields{
		"width":  req.Width,
		"height": req.Height,
		"mode":   req.Mode.String(),
	}).Debug("created sprite")
	return &SpriteResult{Image: img, Frame: res}, nil
}

// NewFrame inserts a frame after the current one, copying its layers. With no
// current frame it appends an empty frame holding one blank layer.
func (e *Engine) NewFrame(ctx context.Context, img host.Image) (*FrameResult, error) {
	if current, member, ok := frames.Current(img); ok {
		return e.insertFrameAfter(img, current, member)
	}
	return e.appendFrame(img)
}

func (e *Engine) insertFrameAfter(img host.Image, current, member int) (*FrameResult, error) {
	res := &FrameResult{Frame: current + 1, Member: member, Changed: true}
	root := frames.Root(img.ActiveNode())
	rootPos := img.Position(root)

	err := e.structural(img, "new-frame", func() error {
		plan, err := frames.ShiftDown(img, current+1)
		if err != nil {
			return fmt.Errorf("failed to open slot for frame %d: %w", current+1, err)
		}
		res.plan = plan
		res.Renumbered = len(plan.Renames)

		group, err := e.editor.NewGroup(img)
		if err != nil {
			return fmt.Errorf("failed to create frame group: %w", err)
		}
		if err := group.SetName(frames.Name(current + 1)); err != nil {
			return fmt.Errorf("failed to name frame group: %w", err)
		}
		if err := e.editor.Insert(img, group, nil, rootPos+1); err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", current+1, err)
		}

		for _, layer := range root.Children() {
			dup, err := e.editor.Duplicate(layer)
			if err != nil {
				return fmt.Errorf("failed to copy layer %q: %w", layer.Name(), err)
			}
			if err := dup.SetName(layer.Name()); err != nil {
				return fmt.Errorf("failed to name copy of %q: %w", layer.Name(), err)
			}
			if err := e.editor.Insert(img, dup, group, len(group.Children())); err != nil {
				return fmt.Errorf("failed to insert copy of %q: %w", layer.Name(), err)
			}
		}

		_, err = frames.Goto(e.editor, img, current+1, member, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"frame":      res.Frame,
		"renumbered": res.Renumbered,
	}).Debug("inserted frame")
	return res, nil
}

func (e *Engine) appendFrame(img host.Image) (*FrameResult, error) {
	idx := frames.Scan(img)
	next := idx.LastNumber() + 1
	res := &FrameResult{Frame: next, Changed: true}

	err := e.structural(img, "new-frame", func() error {
		group, err := e.editor.NewGroup(img)
		if err != nil {
			return fmt.Errorf("failed to create frame group: %w", err)
		}
		if err := group.SetName(frames.Name(next)); err != nil {
			return fmt.Errorf("failed to name frame group: %w", err)
		}
		if err := e.editor.Insert(img, group, nil, idx.LastPosition()+1); err != nil {
			return fmt.Errorf("failed to insert frame %d: %w", next, err)
		}

		blank, err := e.editor.NewLayer(img, img.Width(), img.Height(), blankLayerName, 1, host.BlendNormal)
		if err != nil {
			return fmt.Errorf("failed to create blank layer: %w", err)
		}
		if err := e.editor.Insert(img, blank, group, 0); err != nil {
			return fmt.Errorf("failed to insert blank layer: %w", err)
		}

		_, err = frames.Goto(e.editor, img, next, 0, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithField("frame", next).Debug("appended frame")
	return res, nil
}

// DeleteFrame removes the current frame and closes the numbering gap. The
// frame that takes its number is focused, or the previous one when the last
// frame was deleted.
func (e *Engine) DeleteFrame(ctx context.Context, img host.Image) (*FrameResult, error) {
	current, member, ok := frames.Current(img)
	if !ok {
		return notAFrame(), nil
	}
	root := frames.Root(img.ActiveNode())
	res := &FrameResult{Frame: current, Member: member, Changed: true}

	err := e.structural(img, "delete-frame", func() error {
		if err := e.editor.Remove(img, root); err != nil {
			return fmt.Errorf("failed to remove frame %d: %w", current, err)
		}
		plan, err := frames.ShiftUp(img, current+1)
		if err != nil {
			return fmt.Errorf("failed to close gap at frame %d: %w", current, err)
		}
		res.plan = plan
		res.Renumbered = len(plan.Renames)

		found, err := frames.Goto(e.editor, img, current, member, true)
		if err != nil || found {
			return err
		}
		res.Frame = current - 1
		found, err = frames.Goto(e.editor, img, current-1, member, true)
		if err == nil && !found {
			res.Frame = -1
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"deleted":    current,
		"focused":    res.Frame,
		"renumbered": res.Renumbered,
	}).Debug("deleted frame")
	return res, nil
}

// PrevFrame focuses the frame before the current one.
func (e *Engine) PrevFrame(ctx context.Context, img host.Image) (*FrameResult, error) {
	current, member, ok := frames.Current(img)
	if !ok {
		return notAFrame(), nil
	}
	if current <= 0 {
		return &FrameResult{Frame: current, Member: member, Reason: "already at the first frame"}, nil
	}
	return e.focus(img, "prev-frame", current-1, member)
}

// NextFrame focuses the frame after the current one.
func (e *Engine) NextFrame(ctx context.Context, img host.Image) (*FrameResult, error) {
	current, member, ok := frames.Current(img)
	if !ok {
		return notAFrame(), nil
	}
	if current >= frames.Scan(img).LastNumber() {
		return &FrameResult{Frame: current, Member: member, Reason: "already at the last frame"}, nil
	}
	return e.focus(img, "next-frame", current+1, member)
}

// GotoFrame focuses an explicit frame.
func (e *Engine) GotoFrame(ctx context.Context, img host.Image, req *GotoRequest) (*FrameResult, error) {
	if _, ok := frames.Scan(img).Lookup(req.Frame); !ok {
		return nil, fmt.Errorf("%w: %d", ErrFrameNotFound, req.Frame)
	}
	return e.focus(img, "goto-frame", req.Frame, req.Member)
}

func (e *Engine) focus(img host.Image, op string, target, member int) (*FrameResult, error) {
	err := e.transaction(img, op, func() error {
		_, err := frames.Goto(e.editor, img, target, member, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	_, member, _ = frames.Current(img)
	e.logger.WithField("frame", target).Debug("focused frame")
	return &FrameResult{Frame: target, Member: member, Changed: true}, nil
}

// CopyLayerToAllFrames duplicates the active layer into every other frame.
// Inside a frame the copies go to the same member position; otherwise they
// are appended last. The source stays active.
func (e *Engine) CopyLayerToAllFrames(ctx context.Context, img host.Image) (*FrameResult, error) {
	source := img.ActiveNode()
	if source == nil {
		return &FrameResult{Frame: -1, Reason: "no active layer"}, nil
	}
	if frames.IsFrameRoot(source) {
		return &FrameResult{Frame: -1, Reason: "a frame cannot be copied into other frames"}, nil
	}

	skip, inFrame := frames.Number(source)
	position := -1
	if inFrame {
		position = img.Position(source)
	}
	res := &FrameResult{Frame: -1, Member: position, Changed: true}
	if inFrame {
		res.Frame = skip
	}

	err := e.structural(img, "copy-layer-to-frames", func() error {
		for _, entry := range frames.Scan(img).Entries() {
			if inFrame && entry.Number == skip {
				continue
			}
			dup, err := e.editor.Duplicate(source)
			if err != nil {
				return fmt.Errorf("failed to copy layer %q: %w", source.Name(), err)
			}
			if err := dup.SetName(source.Name()); err != nil {
				return fmt.Errorf("failed to name copy of %q: %w", source.Name(), err)
			}
			if err := e.editor.Insert(img, dup, entry.Node, position); err != nil {
				return fmt.Errorf("failed to insert %q into frame %d: %w", source.Name(), entry.Number, err)
			}
			res.Copies++
		}
		return e.editor.SetActive(img, source)
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"layer":  source.Name(),
		"copies": res.Copies,
	}).Debug("copied layer to frames")
	return res, nil
}

// AddLayer inserts a new layer at the top of the current frame, or at the top
// level when there is no current frame, and makes it active.
func (e *Engine) AddLayer(ctx context.Context, img host.Image, req *AddLayerRequest) (*FrameResult, error) {
	width, height := img.Width(), img.Height()
	if req.Pixels != nil {
		b := req.Pixels.Bounds()
		width, height = b.Dx(), b.Dy()
	}

	var parent host.Node
	res := &FrameResult{Frame: -1, Changed: true}
	if current, _, ok := frames.Current(img); ok {
		parent = frames.Root(img.ActiveNode())
		res.Frame = current
	}

	err := e.structural(img, "add-layer", func() error {
		layer, err := e.editor.NewLayer(img, width, height, req.Name, 1, host.BlendNormal)
		if err != nil {
			return fmt.Errorf("failed to create layer %q: %w", req.Name, err)
		}
		if req.Pixels != nil {
			setter, ok := layer.(host.PixelWriter)
			if !ok {
				return fmt.Errorf("%w: setting layer pixels", ErrUnsupported)
			}
			if err := setter.SetPixels(req.Pixels); err != nil {
				return fmt.Errorf("failed to fill layer %q: %w", req.Name, err)
			}
		}
		if err := e.editor.Insert(img, layer, parent, 0); err != nil {
			return fmt.Errorf("failed to insert layer %q: %w", req.Name, err)
		}
		return e.editor.SetActive(img, layer)
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithField("layer", req.Name).Debug("added layer")
	return res, nil
}

func notAFrame() *FrameResult {
	return &FrameResult{Frame: -1, Reason: "active layer is not part of a frame"}
}
