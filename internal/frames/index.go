package frames

import (
	"fmt"
	"sort"

	"github.com/danieljhkim/spritedev/internal/host"
)

// Entry is one frame root found by Scan.
type Entry struct {
	Node     host.Node
	Number   int
	Position int
}

// Index is a snapshot of the frame roots of an image at scan time.
type Index struct {
	entries  []Entry
	reserved []string
	lastNum  int
	lastPos  int
}

// Scan walks the top-level nodes of img in host order and indexes the frame
// roots. Rebuild the index after any mutation of the tree.
func Scan(img host.Image) *Index {
	idx := &Index{lastNum: -1, lastPos: -1}
	for _, n := range img.Layers() {
		num, ok := Number(n)
		if !ok {
			idx.reserved = append(idx.reserved, n.Name())
			continue
		}
		pos := img.Position(n)
		idx.entries = append(idx.entries, Entry{Node: n, Number: num, Position: pos})
		if num > idx.lastNum {
			idx.lastNum = num
		}
		idx.lastPos = pos
	}
	return idx
}

// Len returns the number of frame roots.
func (idx *Index) Len() int { return len(idx.entries) }

// Entries returns the frame roots in host order.
func (idx *Index) Entries() []Entry {
	return append([]Entry(nil), idx.entries...)
}

// Roots returns the frame root nodes in host order.
func (idx *Index) Roots() []host.Node {
	out := make([]host.Node, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.Node
	}
	return out
}

// Ordered returns the frame roots sorted by frame number. Ties keep host order.
func (idx *Index) Ordered() []Entry {
	out := idx.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Lookup returns the first frame root in host order numbered n.
func (idx *Index) Lookup(n int) (Entry, bool) {
	for _, e := range idx.entries {
		if e.Number == n {
			return e, true
		}
	}
	return Entry{}, false
}

// LastNumber returns the highest frame number, or -1 with no frames.
func (idx *Index) LastNumber() int { return idx.lastNum }

// LastPosition returns the host position of the last frame root in host
// order, or -1 with no frames. This is not necessarily the highest-numbered
// frame.
func (idx *Index) LastPosition() int { return idx.lastPos }

// Reserved returns the names of top-level nodes that are not frames.
func (idx *Index) Reserved() []string {
	return append([]string(nil), idx.reserved...)
}

// ViolationKind classifies a broken frame-sequence invariant.
type ViolationKind string

const (
	// ViolationDuplicate means two roots share a number.
	ViolationDuplicate ViolationKind = "duplicate"
	// ViolationGap means the numbers are not dense and zero-based.
	ViolationGap ViolationKind = "gap"
	// ViolationOrder means host order disagrees with numeric order.
	ViolationOrder ViolationKind = "order"
)

// Violation describes one broken invariant.
type Violation struct {
	Kind   ViolationKind
	Number int
}

// String formats the violation for logs.
func (v Violation) String() string {
	switch v.Kind {
	case ViolationDuplicate:
		return fmt.Sprintf("frame %d appears more than once", v.Number)
	case ViolationGap:
		return fmt.Sprintf("frame %d is missing", v.Number)
	case ViolationOrder:
		return fmt.Sprintf("frame %d is out of display order", v.Number)
	default:
		return fmt.Sprintf("%s at frame %d", v.Kind, v.Number)
	}
}

// Validate checks that numbers are unique, dense from zero, and that host
// order matches numeric order.
func (idx *Index) Validate() []Violation {
	var out []Violation

	seen := make(map[int]bool)
	for _, e := range idx.entries {
		if seen[e.Number] {
			out = append(out, Violation{Kind: ViolationDuplicate, Number: e.Number})
		}
		seen[e.Number] = true
	}

	for n := 0; n <= idx.lastNum; n++ {
		if !seen[n] {
			out = append(out, Violation{Kind: ViolationGap, Number: n})
		}
	}

	for i := 1; i < len(idx.entries); i++ {
		if idx.entries[i].Number < idx.entries[i-1].Number {
			out = append(out, Violation{Kind: ViolationOrder, Number: idx.entries[i].Number})
		}
	}
	return out
}
