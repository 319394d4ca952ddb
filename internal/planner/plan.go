package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict indicates a rename plan that would produce colliding frames.
var ErrConflict = errors.New("rename conflict")

// TempMarker is appended to staged names during the first rename pass.
const TempMarker = " ~renumber"

// Entry is one frame root as seen by the planner.
type Entry struct {
	// ID identifies the entry to the caller (typically its scan index)
	ID int

	// Number is the entry's current frame number
	Number int

	// Name is the entry's current name
	Name string
}

// Namer builds the name a frame gets when it takes a new number.
type Namer func(oldName string, number int) string

// RenamePlan represents a plan to shift frame numbers.
type RenamePlan struct {
	// Start is the lowest frame number that moves
	Start int

	// Delta is the amount added to every moved frame number
	Delta int

	// Renames is the ordered list of renames to execute
	Renames []Rename

	// Conflicts is a list of detected conflicts (empty if no conflicts)
	Conflicts []Conflict
}

// Rename moves one frame from one number to another.
type Rename struct {
	ID      int
	From    int
	To      int
	OldName string
	NewName string

	// TempName is the staged name used between the two passes
	TempName string
}

// Conflict represents a collision detected during planning.
type Conflict struct {
	// Number is the frame number involved
	Number int

	// Reason is a human-readable explanation of the conflict
	Reason string
}

// NewRenamePlan creates a new empty RenamePlan.
func NewRenamePlan(start, delta int) *RenamePlan {
	return &RenamePlan{
		Start:     start,
		Delta:     delta,
		Renames:   []Rename{},
		Conflicts: []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *RenamePlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// IsNoop returns true if the plan renames nothing.
func (p *RenamePlan) IsNoop() bool {
	return len(p.Renames) == 0
}

// AddRename adds a rename to the plan.
func (p *RenamePlan) AddRename(r Rename) {
	p.Renames = append(p.Renames, r)
}

// AddConflict adds a conflict to the plan.
func (p *RenamePlan) AddConflict(c Conflict) {
	p.Conflicts = append(p.Conflicts, c)
}

// Err returns nil for a conflict-free plan, otherwise an error wrapping
// ErrConflict that lists every conflict.
func (p *RenamePlan) Err() error {
	if !p.HasConflicts() {
		return nil
	}
	reasons := make([]string, 0, len(p.Conflicts))
	for _, c := range p.Conflicts {
		reasons = append(reasons, fmt.Sprintf("frame %d: %s", c.Number, c.Reason))
	}
	return fmt.Errorf("%w: shift from %d by %+d: %s", ErrConflict, p.Start, p.Delta, strings.Join(reasons, "; "))
}
