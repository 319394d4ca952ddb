package frames

import (
	"fmt"

	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/planner"
)

// Shift renumbers every frame numbered >= start by delta (+1 or -1).
//
// The rename mapping is planned and checked for collisions before anything
// is touched. The renames are then applied in two passes: every moved root
// first takes a staged name carrying planner.TempMarker, then the marker is
// stripped. No intermediate state has two roots sharing a name, whatever the
// host order.
func Shift(img host.Image, start, delta int) (*planner.RenamePlan, error) {
	idx := Scan(img)
	entries := idx.Entries()

	in := make([]planner.Entry, len(entries))
	for i, e := range entries {
		in[i] = planner.Entry{ID: i, Number: e.Number, Name: e.Node.Name()}
	}

	plan, err := planner.PlanShift(in, idx.Reserved(), start, delta, Rename)
	if err != nil {
		return nil, err
	}
	if err := plan.Err(); err != nil {
		return plan, err
	}

	for _, r := range plan.Renames {
		if err := entries[r.ID].Node.SetName(r.TempName); err != nil {
			return plan, fmt.Errorf("failed to stage frame %d as %q: %w", r.From, r.TempName, err)
		}
	}
	for _, r := range plan.Renames {
		if err := entries[r.ID].Node.SetName(r.NewName); err != nil {
			return plan, fmt.Errorf("failed to rename frame %d to %q: %w", r.From, r.NewName, err)
		}
	}
	return plan, nil
}

// ShiftUp moves frames >= start one number lower, closing a gap.
func ShiftUp(img host.Image, start int) (*planner.RenamePlan, error) {
	return Shift(img, start, -1)
}

// ShiftDown moves frames >= start one number higher, opening a gap.
func ShiftDown(img host.Image, start int) (*planner.RenamePlan, error) {
	return Shift(img, start, 1)
}
