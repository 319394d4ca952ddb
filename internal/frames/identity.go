// Package frames maps a host layer tree onto a numbered frame sequence.
//
// A frame is not stored anywhere. A top-level group named "Frame <n>" is the
// root of frame n and its children are the frame's layers. Everything in this
// package is recomputed from the live tree on every call, so results must not
// be kept across tree mutations.
package frames

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/danieljhkim/spritedev/internal/host"
)

var framePattern = regexp.MustCompile(`^Frame (\d+)`)

// Number resolves the frame number of n.
//
// A top-level group resolves from its own name. A non-group layer resolves
// from its immediate parent when that parent is a group with a frame name.
// Anything else, including nil and nested groups, has no number.
func Number(n host.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	if n.IsGroup() {
		if n.Parent() != nil {
			return 0, false
		}
		return parse(n.Name())
	}
	parent := n.Parent()
	if parent == nil || !parent.IsGroup() {
		return 0, false
	}
	return parse(parent.Name())
}

// IsFrameRoot reports whether n is a top-level group. The name is not checked;
// callers confirm with Number before treating n as a frame.
func IsFrameRoot(n host.Node) bool {
	return n != nil && n.IsGroup() && n.Parent() == nil
}

// Root returns the frame root for n: n itself when it is a group, else its
// parent.
func Root(n host.Node) host.Node {
	if n == nil || n.IsGroup() {
		return n
	}
	return n.Parent()
}

// Name returns the canonical name of frame n.
func Name(n int) string {
	return fmt.Sprintf("Frame %d", n)
}

// Rename returns name renumbered to n, keeping any text after the digits.
// Names that are not frame names get the canonical name.
func Rename(name string, n int) string {
	loc := framePattern.FindStringIndex(name)
	if loc == nil {
		return Name(n)
	}
	return Name(n) + name[loc[1]:]
}

func parse(name string) (int, bool) {
	m := framePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
