package engine

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/frames"
	"github.com/danieljhkim/spritedev/internal/host"
)

// Trim crops the canvas to the smallest rectangle holding every frame's
// visible pixels. The union is measured on each frame's composite, so layers
// outside any frame count too.
func (e *Engine) Trim(ctx context.Context, img host.Image) (*TrimResult, error) {
	ordered := frames.Scan(img).Ordered()
	if len(ordered) == 0 {
		return nil, ErrNoFrames
	}

	var union image.Rectangle
	err := e.eachFrame(ctx, img, ordered, func(i int, entry frames.Entry) error {
		b, err := e.visibleBounds(img, entry.Number)
		if err != nil {
			return err
		}
		union = union.Union(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &TrimResult{Bounds: union, Width: img.Width(), Height: img.Height()}
	full := image.Rect(0, 0, img.Width(), img.Height())
	if union.Empty() || union.Eq(full) {
		e.logger.WithField("bounds", union.String()).Debug("nothing to trim")
		return res, nil
	}

	err = e.transaction(img, "trim", func() error {
		return e.editor.Crop(img, union.Dx(), union.Dy(), union.Min.X, union.Min.Y)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to crop to %v: %w", union, err)
	}

	res.Changed = true
	res.Width, res.Height = img.Width(), img.Height()
	e.logger.WithFields(logrus.Fields{
		"bounds": union.String(),
		"width":  res.Width,
		"height": res.Height,
	}).Debug("trimmed sprite")
	return res, nil
}

// visibleBounds pastes the showing composite into a scratch layer and
// returns the bounds of its non-transparent pixels.
func (e *Engine) visibleBounds(img host.Image, number int) (image.Rectangle, error) {
	scratch, err := e.editor.NewImage(img.Width(), img.Height(), img.Mode())
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("failed to create scratch image: %w", err)
	}
	layer, err := e.renderFrame(img, scratch, number, img.Width(), img.Height())
	if err != nil {
		return image.Rectangle{}, err
	}
	return alphaBounds(layer), nil
}

// alphaBounds returns the bounds of pixels with non-zero alpha.
func alphaBounds(n host.Node) image.Rectangle {
	w, h := n.Size()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if n.PixelAt(x, y).A == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
