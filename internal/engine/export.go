package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/frames"
	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/layout"
)

// FlattenToLayers renders every frame into its own full-size layer of a new
// image, in frame order (reversed on request). The source image is left
// showing what it showed before.
func (e *Engine) FlattenToLayers(ctx context.Context, img host.Image, req *FlattenRequest) (*FlattenResult, error) {
	ordered := frames.Scan(img).Ordered()
	if req.Reverse {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	out, err := e.editor.NewImage(img.Width(), img.Height(), img.Mode())
	if err != nil {
		return nil, fmt.Errorf("failed to create output image: %w", err)
	}
	res := &FlattenResult{Image: out, Frames: make([]int, 0, len(ordered))}

	err = e.eachFrame(ctx, img, ordered, func(i int, entry frames.Entry) error {
		if _, err := e.renderFrame(img, out, entry.Number, img.Width(), img.Height()); err != nil {
			return err
		}
		res.Frames = append(res.Frames, entry.Number)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"frames":  len(res.Frames),
		"reverse": req.Reverse,
	}).Debug("flattened frames")
	return res, nil
}

// ExportSheet lays every frame out into a new strip or grid image.
func (e *Engine) ExportSheet(ctx context.Context, img host.Image, req *ExportSheetRequest) (*SheetResult, error) {
	ordered := frames.Scan(img).Ordered()
	if len(ordered) == 0 {
		return nil, ErrNoFrames
	}

	w, h := img.Width(), img.Height()
	sheet, err := layout.Compute(len(ordered), w, h, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out sheet: %w", err)
	}
	sw, sh := sheet.Size()
	out, err := e.editor.NewImage(sw, sh, img.Mode())
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet image: %w", err)
	}
	res := &SheetResult{Image: out, Layout: sheet, Cells: make([]SheetCell, 0, len(ordered))}

	err = e.eachFrame(ctx, img, ordered, func(i int, entry frames.Entry) error {
		layer, err := e.renderFrame(img, out, entry.Number, w, h)
		if err != nil {
			return err
		}
		at := sheet.Offset(i)
		layer.SetOffsets(at.X, at.Y)
		res.Cells = append(res.Cells, SheetCell{Frame: entry.Number, Rect: sheet.Rect(i)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"mode":    req.Mode,
		"columns": sheet.Columns,
		"rows":    sheet.Rows,
	}).Debug("exported sprite sheet")
	return res, nil
}

// eachFrame shows each entry in turn and calls fn, reporting progress after
// every frame. Display updates are frozen throughout and the source view is
// restored afterwards, whether or not fn fails.
func (e *Engine) eachFrame(ctx context.Context, img host.Image, entries []frames.Entry, fn func(i int, entry frames.Entry) error) (err error) {
	view := frames.CaptureView(img)
	e.editor.Freeze(img)
	defer func() {
		rerr := view.Restore(e.editor, img)
		e.editor.Thaw(img)
		if err == nil {
			err = rerr
		}
	}()

	total := len(entries)
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := frames.Goto(e.editor, img, entry.Number, 0, false); err != nil {
			return err
		}
		if err := fn(i, entry); err != nil {
			return err
		}
		e.progress.Report(float64(i+1) / float64(total))
	}
	return nil
}

// renderFrame copies the visible composite of img into a new w x h layer
// appended to out. The frame must already be showing.
func (e *Engine) renderFrame(img, out host.Image, number, w, h int) (host.Node, error) {
	if err := e.editor.CopyVisible(img); err != nil {
		return nil, fmt.Errorf("failed to copy frame %d: %w", number, err)
	}
	layer, err := e.editor.NewLayer(out, w, h, frames.Name(number), 1, host.BlendNormal)
	if err != nil {
		return nil, fmt.Errorf("failed to create layer for frame %d: %w", number, err)
	}
	if err := e.editor.Insert(out, layer, nil, len(out.Layers())); err != nil {
		return nil, fmt.Errorf("failed to insert layer for frame %d: %w", number, err)
	}
	pasted, err := e.editor.Paste(layer)
	if err != nil {
		return nil, fmt.Errorf("failed to paste frame %d: %w", number, err)
	}
	if err := pasted.Anchor(); err != nil {
		return nil, fmt.Errorf("failed to anchor frame %d: %w", number, err)
	}
	return layer, nil
}
