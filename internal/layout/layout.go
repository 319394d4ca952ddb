// Package layout computes sprite-sheet geometry for equal-size frames.
package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// ErrEmpty indicates a layout request with no frames or an empty cell.
var ErrEmpty = errors.New("nothing to lay out")

// Mode selects the sheet arrangement.
type Mode string

const (
	// Strip places every frame in one row.
	Strip Mode = "strip"
	// Grid packs frames into a near-square grid.
	Grid Mode = "grid"
)

// ParseMode parses a sheet mode. "horizontal" is accepted for Strip.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strip", "horizontal":
		return Strip, nil
	case "grid":
		return Grid, nil
	default:
		return "", fmt.Errorf("unknown sheet mode %q (want strip or grid)", s)
	}
}

// Layout is the cell grid of a sprite sheet.
type Layout struct {
	CellWidth  int `json:"cellWidth"`
	CellHeight int `json:"cellHeight"`
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
}

// Compute lays out n cells of w x h pixels.
func Compute(n, w, h int, mode Mode) (Layout, error) {
	if n <= 0 || w <= 0 || h <= 0 {
		return Layout{}, fmt.Errorf("%w: %d frames of %dx%d", ErrEmpty, n, w, h)
	}
	l := Layout{CellWidth: w, CellHeight: h}
	switch mode {
	case Strip:
		l.Columns, l.Rows = n, 1
	case Grid:
		l.Columns, l.Rows = grid(n, w, h)
	default:
		return Layout{}, fmt.Errorf("unknown sheet mode %q", mode)
	}
	return l, nil
}

// grid picks the rounding of the square-root split that covers n cells with
// the least area.
//
// With total = n*w*h and s = sqrt(total), the ideal unrounded grid is
// s/h rows by s/w columns. The candidates are (ceil rows, floor cols),
// (floor rows, ceil cols) and (ceil rows, ceil cols). When the first two both
// cover the total the smaller area wins and a tie goes to the wider sheet;
// otherwise the first covering candidate in that order wins. Both-floor is
// never chosen.
func grid(n, w, h int) (cols, rows int) {
	cell := float64(w) * float64(h)
	total := float64(n) * cell
	s := math.Sqrt(total)
	r0 := s / float64(h)
	c0 := s / float64(w)

	ceilRows := [2]float64{math.Ceil(r0), math.Floor(c0)}
	ceilCols := [2]float64{math.Floor(r0), math.Ceil(c0)}
	bothCeil := [2]float64{math.Ceil(r0), math.Ceil(c0)}

	area := func(rc [2]float64) float64 { return rc[0] * rc[1] * cell }
	aRows, aCols := area(ceilRows), area(ceilCols)

	var pick [2]float64
	switch {
	case aRows >= total && aCols >= total:
		if aRows < aCols {
			pick = ceilRows
		} else {
			pick = ceilCols
		}
	case aRows >= total:
		pick = ceilRows
	case aCols >= total:
		pick = ceilCols
	default:
		// both-ceil always covers s*s; this also absorbs float rounding
		pick = bothCeil
	}
	return int(pick[1]), int(pick[0])
}

// Cell returns the column and row of frame i, filled row-major.
func (l Layout) Cell(i int) (col, row int) {
	return i % l.Columns, i / l.Columns
}

// Offset returns the pixel offset of frame i.
func (l Layout) Offset(i int) image.Point {
	col, row := l.Cell(i)
	return image.Pt(col*l.CellWidth, row*l.CellHeight)
}

// Rect returns the pixel rectangle of frame i.
func (l Layout) Rect(i int) image.Rectangle {
	p := l.Offset(i)
	return image.Rect(p.X, p.Y, p.X+l.CellWidth, p.Y+l.CellHeight)
}

// Size returns the sheet size in pixels.
func (l Layout) Size() (width, height int) {
	return l.Columns * l.CellWidth, l.Rows * l.CellHeight
}

// Capacity returns the number of cells in the sheet.
func (l Layout) Capacity() int {
	return l.Columns * l.Rows
}
