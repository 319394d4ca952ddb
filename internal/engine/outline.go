package engine

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/danieljhkim/spritedev/internal/host"
)

// Outline renders the layer tree of img as indented text, one node per line.
// Hidden nodes are marked with "-", visible ones with "+", and the active node
// with "*".
func Outline(img host.Image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "image %dx%d %s\n", img.Width(), img.Height(), img.Mode())
	active := img.ActiveNode()
	for _, n := range img.Layers() {
		writeNode(&b, n, active, 1)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n, active host.Node, depth int) {
	vis := "-"
	if n.Visible() {
		vis = "+"
	}
	mark := " "
	if active != nil && n == active {
		mark = "*"
	}
	kind := "layer"
	if n.IsGroup() {
		kind = "group"
	}
	x, y := n.Offsets()
	w, h := n.Size()
	fmt.Fprintf(b, "%s%s%s %s %q %dx%d@%d,%d\n", strings.Repeat("  ", depth), vis, mark, kind, n.Name(), w, h, x, y)
	for _, c := range n.Children() {
		writeNode(b, c, active, depth+1)
	}
}

// Diff returns a unified diff between two outlines, or "" when they match.
func Diff(before, after, fromLabel, toLabel string) (string, error) {
	if before == after {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(ud)
}
