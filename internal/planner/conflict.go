package planner

import (
	"fmt"
	"sort"
)

// PlanShift plans moving every entry numbered >= start by delta.
// Delta must be +1 or -1. Entries below start are left alone; a start above
// every number yields an empty plan. Reserved names belong to siblings that
// are not frames and must not be produced either.
func PlanShift(entries []Entry, reserved []string, start, delta int, namer Namer) (*RenamePlan, error) {
	if delta != 1 && delta != -1 {
		return nil, fmt.Errorf("invalid shift delta %d", delta)
	}
	plan := NewRenamePlan(start, delta)

	var moved, fixed []Entry
	for _, e := range entries {
		if e.Number >= start {
			moved = append(moved, e)
		} else {
			fixed = append(fixed, e)
		}
	}
	sort.SliceStable(moved, func(i, j int) bool { return moved[i].Number < moved[j].Number })

	for _, e := range moved {
		to := e.Number + delta
		newName := namer(e.Name, to)
		plan.AddRename(Rename{
			ID:       e.ID,
			From:     e.Number,
			To:       to,
			OldName:  e.Name,
			NewName:  newName,
			TempName: newName + TempMarker,
		})
	}

	checkConflicts(plan, fixed, reserved)
	return plan, nil
}

// checkConflicts records every collision the renames would cause.
func checkConflicts(plan *RenamePlan, fixed []Entry, reserved []string) {
	seenFrom := make(map[int]bool)
	for _, r := range plan.Renames {
		if seenFrom[r.From] {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: "duplicate frame number among moved frames",
			})
		}
		seenFrom[r.From] = true

		if r.To < 0 {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: fmt.Sprintf("target number %d is negative", r.To),
			})
		}
	}

	fixedNumbers := make(map[int]string)
	names := make(map[string]bool)
	for _, name := range reserved {
		names[name] = true
	}
	for _, e := range fixed {
		fixedNumbers[e.Number] = e.Name
		names[e.Name] = true
	}

	for _, r := range plan.Renames {
		if holder, ok := fixedNumbers[r.To]; ok {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: fmt.Sprintf("target number %d is held by %q", r.To, holder),
			})
		}
	}

	// Final and staged names must not collide with each other or with frames
	// that stay put.
	finals := make(map[string]int)
	for _, r := range plan.Renames {
		if names[r.NewName] {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: fmt.Sprintf("name %q already in use", r.NewName),
			})
		}
		if prev, ok := finals[r.NewName]; ok && prev != r.From {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: fmt.Sprintf("name %q also produced for frame %d", r.NewName, prev),
			})
		}
		finals[r.NewName] = r.From
	}
	for _, r := range plan.Renames {
		if names[r.TempName] {
			plan.AddConflict(Conflict{
				Number: r.From,
				Reason: fmt.Sprintf("staging name %q already in use", r.TempName),
			})
		}
	}
}
