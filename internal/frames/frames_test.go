package frames

import (
	"errors"
	"testing"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/planner"
)

// build creates a 4x4 image with one top-level group per name, in host order,
// each holding the given member layers.
func build(t *testing.T, names []string, members ...string) (*canvas.Editor, *canvas.Image) {
	t.Helper()
	ed := canvas.New()
	img, err := canvas.NewImage(4, 4, host.RGB)
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	for _, name := range names {
		g := canvas.NewGroup(name)
		if err := ed.Insert(img, g, nil, -1); err != nil {
			t.Fatalf("Insert(%q) error = %v", name, err)
		}
		for _, m := range members {
			l, err := canvas.NewLayer(4, 4, m, 1, host.BlendNormal)
			if err != nil {
				t.Fatalf("NewLayer() error = %v", err)
			}
			if err := ed.Insert(img, l, g, -1); err != nil {
				t.Fatalf("Insert(%q) error = %v", m, err)
			}
		}
	}
	return ed, img
}

func names(img host.Image) []string {
	var out []string
	for _, n := range img.Layers() {
		out = append(out, n.Name())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNumber(t *testing.T) {
	ed, img := build(t, []string{"Frame 3", "Frame 12 walk", "Frames", "frame 1"}, "ink")

	nested := canvas.NewGroup("Frame 7")
	if err := ed.Insert(img, nested, img.TopLayers()[0], -1); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	plain, _ := canvas.NewLayer(4, 4, "Frame 4", 1, host.BlendNormal)
	if err := ed.Insert(img, plain, nil, -1); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	top := img.TopLayers()
	tests := []struct {
		name   string
		node   host.Node
		want   int
		wantOK bool
	}{
		{"frame root", top[0], 3, true},
		{"frame root with suffix", top[1], 12, true},
		{"member of frame", top[0].Members()[0], 3, true},
		{"member of suffixed frame", top[1].Members()[0], 12, true},
		{"name without digits", top[2], 0, false},
		{"lowercase name", top[3], 0, false},
		{"member of non-frame group", top[2].Members()[0], 0, false},
		{"nested group", nested, 0, false},
		{"top-level plain layer", plain, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.node)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Number() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want string
	}{
		{"Frame 1", 2, "Frame 2"},
		{"Frame 1 walk", 2, "Frame 2 walk"},
		{"Frame 10", 9, "Frame 9"},
		{"Frame 007 (idle)", 8, "Frame 8 (idle)"},
		{"junk", 3, "Frame 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rename(tt.name, tt.n); got != tt.want {
				t.Errorf("Rename(%q, %d) = %q, want %q", tt.name, tt.n, got, tt.want)
			}
		})
	}
}

func TestScan(t *testing.T) {
	ed, img := build(t, []string{"Frame 0", "Frame 2", "Frame 1"}, "ink")
	bg, _ := canvas.NewLayer(4, 4, "Background", 1, host.BlendNormal)
	if err := ed.Insert(img, bg, nil, 1); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	idx := Scan(img)
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	if idx.LastNumber() != 2 {
		t.Errorf("LastNumber() = %d, want 2", idx.LastNumber())
	}
	if idx.LastPosition() != 3 {
		t.Errorf("LastPosition() = %d, want 3", idx.LastPosition())
	}
	if got := idx.Reserved(); !equal(got, []string{"Background"}) {
		t.Errorf("Reserved() = %v", got)
	}

	var hostOrder, numeric []int
	for _, e := range idx.Entries() {
		hostOrder = append(hostOrder, e.Number)
	}
	for _, e := range idx.Ordered() {
		numeric = append(numeric, e.Number)
	}
	if len(hostOrder) != 3 || hostOrder[1] != 2 || hostOrder[2] != 1 {
		t.Errorf("Entries() numbers = %v, want [0 2 1]", hostOrder)
	}
	if len(numeric) != 3 || numeric[0] != 0 || numeric[1] != 1 || numeric[2] != 2 {
		t.Errorf("Ordered() numbers = %v, want [0 1 2]", numeric)
	}

	e, ok := idx.Lookup(2)
	if !ok || e.Node.Name() != "Frame 2" || e.Position != 2 {
		t.Errorf("Lookup(2) = %+v, %v", e, ok)
	}
	if _, ok := idx.Lookup(5); ok {
		t.Error("Lookup(5) should miss")
	}

	empty := Scan(mustImage(t))
	if empty.LastNumber() != -1 || empty.LastPosition() != -1 {
		t.Errorf("empty index last = %d/%d, want -1/-1", empty.LastNumber(), empty.LastPosition())
	}
}

func mustImage(t *testing.T) *canvas.Image {
	t.Helper()
	img, err := canvas.NewImage(4, 4, host.RGB)
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	return img
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		frames []string
		want   []Violation
	}{
		{
			name:   "dense and ordered",
			frames: []string{"Frame 0", "Frame 1", "Frame 2"},
			want:   nil,
		},
		{
			name:   "gap",
			frames: []string{"Frame 0", "Frame 2"},
			want:   []Violation{{Kind: ViolationGap, Number: 1}},
		},
		{
			name:   "not zero based",
			frames: []string{"Frame 1"},
			want:   []Violation{{Kind: ViolationGap, Number: 0}},
		},
		{
			name:   "duplicate",
			frames: []string{"Frame 0", "Frame 0 copy"},
			want:   []Violation{{Kind: ViolationDuplicate, Number: 0}},
		},
		{
			name:   "out of order",
			frames: []string{"Frame 1", "Frame 0"},
			want:   []Violation{{Kind: ViolationOrder, Number: 0}},
		},
		{
			name:   "no frames",
			frames: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, img := build(t, tt.frames)
			got := Scan(img).Validate()
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Validate()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestViolation_String(t *testing.T) {
	if got := (Violation{Kind: ViolationGap, Number: 4}).String(); got != "frame 4 is missing" {
		t.Errorf("String() = %q", got)
	}
}

func TestShift(t *testing.T) {
	t.Run("down opens a slot", func(t *testing.T) {
		_, img := build(t, []string{"Frame 0", "Frame 1 walk", "Frame 2"}, "ink")
		plan, err := ShiftDown(img, 1)
		if err != nil {
			t.Fatalf("ShiftDown() error = %v", err)
		}
		if len(plan.Renames) != 2 {
			t.Errorf("renames = %d, want 2", len(plan.Renames))
		}
		want := []string{"Frame 0", "Frame 2 walk", "Frame 3"}
		if got := names(img); !equal(got, want) {
			t.Errorf("names = %v, want %v", got, want)
		}
	})

	t.Run("up closes a gap", func(t *testing.T) {
		_, img := build(t, []string{"Frame 0", "Frame 2", "Frame 3"})
		if _, err := ShiftUp(img, 2); err != nil {
			t.Fatalf("ShiftUp() error = %v", err)
		}
		want := []string{"Frame 0", "Frame 1", "Frame 2"}
		if got := names(img); !equal(got, want) {
			t.Errorf("names = %v, want %v", got, want)
		}
	})

	t.Run("host order reversed", func(t *testing.T) {
		_, img := build(t, []string{"Frame 1", "Frame 0"})
		if _, err := ShiftDown(img, 0); err != nil {
			t.Fatalf("ShiftDown() error = %v", err)
		}
		want := []string{"Frame 2", "Frame 1"}
		if got := names(img); !equal(got, want) {
			t.Errorf("names = %v, want %v", got, want)
		}
	})

	t.Run("conflict leaves names alone", func(t *testing.T) {
		_, img := build(t, []string{"Frame 0", "Frame 1"})
		_, err := ShiftUp(img, 1)
		if !errors.Is(err, planner.ErrConflict) {
			t.Fatalf("ShiftUp() error = %v, want ErrConflict", err)
		}
		want := []string{"Frame 0", "Frame 1"}
		if got := names(img); !equal(got, want) {
			t.Errorf("names = %v, want %v", got, want)
		}
	})

	t.Run("members keep their names", func(t *testing.T) {
		_, img := build(t, []string{"Frame 0"}, "ink", "paper")
		if _, err := ShiftDown(img, 0); err != nil {
			t.Fatalf("ShiftDown() error = %v", err)
		}
		members := img.TopLayers()[0].Members()
		if members[0].Name() != "ink" || members[1].Name() != "paper" {
			t.Errorf("members renamed: %q, %q", members[0].Name(), members[1].Name())
		}
	})
}

func TestGoto(t *testing.T) {
	ed, img := build(t, []string{"Frame 0", "Frame 1", "Frame 2"}, "a", "b")

	found, err := Goto(ed, img, 1, 1, true)
	if err != nil || !found {
		t.Fatalf("Goto(1) = %v, %v", found, err)
	}
	for i, root := range img.TopLayers() {
		if root.Visible() != (i == 1) {
			t.Errorf("Frame %d visible = %v", i, root.Visible())
		}
	}
	if n, m, ok := Current(img); !ok || n != 1 || m != 1 {
		t.Errorf("Current() = %d, %d, %v, want 1, 1, true", n, m, ok)
	}

	// member positions past the end clamp to the last member
	if _, err := Goto(ed, img, 2, 9, true); err != nil {
		t.Fatalf("Goto(2) error = %v", err)
	}
	if n, m, _ := Current(img); n != 2 || m != 1 {
		t.Errorf("Current() = %d, %d, want 2, 1", n, m)
	}

	// without setActive the active layer stays put
	if _, err := Goto(ed, img, 0, 0, false); err != nil {
		t.Fatalf("Goto(0) error = %v", err)
	}
	if n, _, _ := Current(img); n != 2 {
		t.Errorf("Current() = %d, want 2", n)
	}

	found, err = Goto(ed, img, 7, 0, true)
	if err != nil || found {
		t.Errorf("Goto(7) = %v, %v, want false, nil", found, err)
	}
	for _, root := range img.TopLayers() {
		if root.Visible() {
			t.Errorf("%s visible after missing target", root.Name())
		}
	}
}

func TestGoto_EmptyFrame(t *testing.T) {
	ed, img := build(t, []string{"Frame 0"})
	if _, err := Goto(ed, img, 0, 3, true); err != nil {
		t.Fatalf("Goto() error = %v", err)
	}
	if img.ActiveNode() != img.Layers()[0] {
		t.Errorf("active = %v, want the frame root", img.ActiveNode())
	}
	if n, m, ok := Current(img); !ok || n != 0 || m != 0 {
		t.Errorf("Current() = %d, %d, %v", n, m, ok)
	}
}

func TestCurrent_NotAFrame(t *testing.T) {
	ed, img := build(t, nil)
	if _, _, ok := Current(img); ok {
		t.Error("Current() on an image without an active layer should report false")
	}

	bg, _ := canvas.NewLayer(4, 4, "Background", 1, host.BlendNormal)
	if err := ed.Insert(img, bg, nil, -1); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := ed.SetActive(img, bg); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if _, _, ok := Current(img); ok {
		t.Error("Current() on a top-level layer should report false")
	}
}

func TestView(t *testing.T) {
	ed, img := build(t, []string{"Frame 0", "Frame 1"}, "a")
	if _, err := Goto(ed, img, 0, 0, true); err != nil {
		t.Fatalf("Goto() error = %v", err)
	}

	view := CaptureView(img)
	if _, err := Goto(ed, img, 1, 0, true); err != nil {
		t.Fatalf("Goto() error = %v", err)
	}
	if err := view.Restore(ed, img); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	top := img.TopLayers()
	if !top[0].Visible() || top[1].Visible() {
		t.Errorf("visibility = %v, %v, want true, false", top[0].Visible(), top[1].Visible())
	}
	if n, _, _ := Current(img); n != 0 {
		t.Errorf("Current() = %d, want 0", n)
	}

	// removed nodes are skipped
	view = CaptureView(img)
	if err := ed.Remove(img, top[0]); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := view.Restore(ed, img); err != nil {
		t.Errorf("Restore() after removal error = %v", err)
	}
}
