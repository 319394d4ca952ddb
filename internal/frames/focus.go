package frames

import (
	"fmt"

	"github.com/danieljhkim/spritedev/internal/host"
)

// Goto makes frame target the only visible frame.
//
// Every frame root becomes visible exactly when its number is target. It
// reports whether any root matched; with no match every frame ends up hidden.
// When setActive is true the matched frame's child at member becomes the
// active node (clamped to the children present), or the root itself when the
// frame is empty.
func Goto(ed host.Editor, img host.Image, target, member int, setActive bool) (bool, error) {
	found := false
	var active host.Node
	for _, e := range Scan(img).Entries() {
		if e.Number != target {
			e.Node.SetVisible(false)
			continue
		}
		e.Node.SetVisible(true)
		if !found {
			found = true
			active = memberAt(e.Node, member)
		}
	}

	if found && setActive {
		if err := ed.SetActive(img, active); err != nil {
			return true, fmt.Errorf("failed to activate frame %d: %w", target, err)
		}
	}
	return found, nil
}

// Current returns the frame number and member position of the active node.
// A frame root itself is member position 0.
func Current(img host.Image) (number, member int, ok bool) {
	active := img.ActiveNode()
	number, ok = Number(active)
	if !ok {
		return 0, 0, false
	}
	if active.IsGroup() {
		return number, 0, true
	}
	member = img.Position(active)
	if member < 0 {
		member = 0
	}
	return number, member, true
}

func memberAt(root host.Node, member int) host.Node {
	children := root.Children()
	if len(children) == 0 {
		return root
	}
	if member < 0 {
		member = 0
	}
	if member >= len(children) {
		member = len(children) - 1
	}
	return children[member]
}

// View records frame visibility and the active node so they can be put back.
type View struct {
	visible []nodeVisibility
	active  host.Node
}

type nodeVisibility struct {
	node    host.Node
	visible bool
}

// CaptureView records the visibility of every frame root and the active node.
func CaptureView(img host.Image) *View {
	v := &View{active: img.ActiveNode()}
	for _, root := range Scan(img).Roots() {
		v.visible = append(v.visible, nodeVisibility{node: root, visible: root.Visible()})
	}
	return v
}

// Restore puts back the recorded visibility and active node. Nodes removed
// since capture are skipped.
func (v *View) Restore(ed host.Editor, img host.Image) error {
	for _, nv := range v.visible {
		if img.Position(nv.node) < 0 {
			continue
		}
		nv.node.SetVisible(nv.visible)
	}
	if v.active != nil && img.Position(v.active) >= 0 {
		if err := ed.SetActive(img, v.active); err != nil {
			return fmt.Errorf("failed to restore active layer: %w", err)
		}
	}
	return nil
}
