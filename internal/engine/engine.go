// Package engine provides the sprite operations behind every spritedev command.
//
// The engine package is the orchestration layer between CLI commands and the
// host editor. It composes the frame index, the renumbering planner, the focus
// controller and the sheet layout into user-level operations, each applied as
// one undo transaction.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Lifecycle: new, delete, navigate frames; copy a layer to every frame
//   - Export: flatten frames to layers, lay frames out into a sprite sheet
//   - Trim: crop the canvas to the union of every frame's visible pixels
package engine

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/frames"
	"github.com/danieljhkim/spritedev/internal/host"
)

// Engine orchestrates all sprite operations.
// It is the main API surface called by the CLI.
type Engine struct {
	editor   host.Editor
	logger   *logrus.Entry
	progress host.Progress
}

// New creates a new Engine with the given dependencies. A nil logger
// discards output and a nil progress ignores reports.
func New(editor host.Editor, logger *logrus.Entry, progress host.Progress) *Engine {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	if progress == nil {
		progress = host.NopProgress{}
	}
	return &Engine{
		editor:   editor,
		logger:   logger.WithField("component", "engine"),
		progress: progress,
	}
}

// Editor returns the host editor the engine drives.
func (e *Engine) Editor() host.Editor {
	return e.editor
}

// Frames lists the frames of img in numeric order.
func (e *Engine) Frames(img host.Image) []FrameInfo {
	idx := frames.Scan(img)
	current, _, hasCurrent := frames.Current(img)

	out := make([]FrameInfo, 0, idx.Len())
	for _, entry := range idx.Ordered() {
		members := entry.Node.Children()
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.Name()
		}
		out = append(out, FrameInfo{
			Number:   entry.Number,
			Name:     entry.Node.Name(),
			Position: entry.Position,
			Visible:  entry.Node.Visible(),
			Current:  hasCurrent && entry.Number == current,
			Members:  names,
		})
	}
	return out
}

// Status summarizes img: size, frame sequence and current frame.
func (e *Engine) Status(img host.Image) *StatusResult {
	idx := frames.Scan(img)
	res := &StatusResult{
		Width:      img.Width(),
		Height:     img.Height(),
		Mode:       img.Mode().String(),
		FrameCount: idx.Len(),
		LastFrame:  idx.LastNumber(),
		Current:    -1,
		Frames:     e.Frames(img),
	}
	if n, member, ok := frames.Current(img); ok {
		res.Current = n
		res.Member = member
	}
	if active := img.ActiveNode(); active != nil {
		res.ActiveLayer = active.Name()
	}
	for _, v := range idx.Validate() {
		res.Problems = append(res.Problems, v.String())
	}
	return res
}
