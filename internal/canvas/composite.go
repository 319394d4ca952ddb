package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Composite renders the visible layers of img onto a canvas-sized buffer.
func Composite(img *Image) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for i := len(img.layers) - 1; i >= 0; i-- {
		drawLayer(dst, img.layers[i])
	}
	return dst
}

// drawLayer paints l and its visible descendants over dst in image coordinates.
func drawLayer(dst *image.NRGBA, l *Layer) {
	if !l.visible || l.opacity <= 0 {
		return
	}
	if l.group {
		r := l.extent().Intersect(dst.Rect)
		if r.Empty() {
			return
		}
		buf := image.NewNRGBA(r)
		for i := len(l.children) - 1; i >= 0; i-- {
			drawLayer(buf, l.children[i])
		}
		drawWithOpacity(dst, r, buf, r.Min, l.opacity)
		return
	}
	if l.pix == nil {
		return
	}
	r := l.extent().Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	sp := r.Min.Sub(image.Pt(l.offX, l.offY))
	drawWithOpacity(dst, r, l.pix, sp, l.opacity)
}

func drawWithOpacity(dst *image.NRGBA, r image.Rectangle, src image.Image, sp image.Point, opacity float64) {
	if opacity >= 1 {
		draw.Draw(dst, r, src, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, r, src, sp, mask, image.Point{}, draw.Over)
}
