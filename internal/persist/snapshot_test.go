package persist

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/hash"
	"github.com/danieljhkim/spritedev/internal/host"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
)

func fill(t *testing.T, l *canvas.Layer, c color.NRGBA) {
	t.Helper()
	w, h := l.Size()
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	if err := l.SetPixels(src); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
}

func newLayer(t *testing.T, w, h int, name string) *canvas.Layer {
	t.Helper()
	l, err := canvas.NewLayer(w, h, name, 1, host.BlendNormal)
	if err != nil {
		t.Fatalf("NewLayer failed: %v", err)
	}
	return l
}

func insert(t *testing.T, ed *canvas.Editor, img *canvas.Image, l *canvas.Layer, parent *canvas.Layer) {
	t.Helper()
	var p host.Node
	if parent != nil {
		p = parent
	}
	if err := ed.Insert(img, l, p, -1); err != nil {
		t.Fatalf("Insert %q failed: %v", l.Name(), err)
	}
}

// buildFixture creates two frames sharing an identical ink layer, a hidden
// paper layer and an offset, half-transparent background.
func buildFixture(t *testing.T) (*canvas.Editor, *canvas.Image) {
	t.Helper()
	ed := canvas.New()
	img, err := canvas.NewImage(8, 8, host.RGB)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	frame0 := canvas.NewGroup("Frame 0")
	insert(t, ed, img, frame0, nil)
	ink := newLayer(t, 8, 8, "ink")
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(1, 1, red)
	if err := ink.SetPixels(src); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
	insert(t, ed, img, ink, frame0)
	paper := newLayer(t, 8, 8, "paper")
	fill(t, paper, blue)
	paper.SetVisible(false)
	insert(t, ed, img, paper, frame0)

	frame1 := canvas.NewGroup("Frame 1 walk")
	frame1.SetVisible(false)
	insert(t, ed, img, frame1, nil)
	dup, err := ed.Duplicate(ink)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}
	insert(t, ed, img, dup.(*canvas.Layer), frame1)

	bg := newLayer(t, 4, 4, "Background")
	fill(t, bg, green)
	bg.SetOffsets(2, 3)
	bg.SetOpacity(0.5)
	insert(t, ed, img, bg, nil)

	if err := ed.SetActive(img, dup); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	return ed, img
}

func TestCapture(t *testing.T) {
	_, img := buildFixture(t)

	snap, err := Capture(img, hash.NewSHA256Hasher())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	m := snap.Manifest
	if m.Width != 8 || m.Height != 8 || m.Mode != "rgb" {
		t.Errorf("manifest header = %dx%d %s", m.Width, m.Height, m.Mode)
	}
	if len(m.Layers) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(m.Layers))
	}
	if !m.Layers[0].Group || len(m.Layers[0].Children) != 2 {
		t.Errorf("Frame 0 not captured as a group with 2 members: %+v", m.Layers[0])
	}
	if m.Layers[1].Visible {
		t.Error("hidden frame captured as visible")
	}
	bg := m.Layers[2]
	if bg.X != 2 || bg.Y != 3 || bg.Opacity != 0.5 {
		t.Errorf("background = %+v, want offsets 2,3 opacity 0.5", bg)
	}
	if got, want := m.Active, []int{1, 0}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Active = %v, want %v", got, want)
	}

	// Frame 0's ink and its duplicate share one blob.
	if len(snap.Blobs) != 3 {
		t.Errorf("expected 3 distinct blobs, got %d", len(snap.Blobs))
	}
	if m.Layers[0].Children[0].Blob != m.Layers[1].Children[0].Blob {
		t.Error("identical layers should share a blob")
	}
	if err := snap.Verify(hash.NewSHA256Hasher()); err != nil {
		t.Errorf("Verify failed on fresh snapshot: %v", err)
	}
}

func TestRestore(t *testing.T) {
	_, img := buildFixture(t)
	snap, err := Capture(img, hash.NewSHA256Hasher())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	restored, err := snap.Restore(canvas.New())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Width() != 8 || restored.Height() != 8 || restored.Mode() != host.RGB {
		t.Errorf("restored header = %dx%d %v", restored.Width(), restored.Height(), restored.Mode())
	}
	top := restored.TopLayers()
	if len(top) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(top))
	}
	if top[1].Name() != "Frame 1 walk" || top[1].Visible() {
		t.Errorf("frame 1 = %q visible=%v", top[1].Name(), top[1].Visible())
	}
	if x, y := top[2].Offsets(); x != 2 || y != 3 {
		t.Errorf("background offsets = %d,%d, want 2,3", x, y)
	}
	if top[2].Opacity() != 0.5 {
		t.Errorf("background opacity = %v, want 0.5", top[2].Opacity())
	}
	paper := top[0].Members()[1]
	if paper.Visible() {
		t.Error("paper should stay hidden")
	}
	if got := paper.PixelAt(0, 0); got != blue {
		t.Errorf("paper pixel = %v, want %v", got, blue)
	}

	active := restored.ActiveLayer()
	if active == nil || active.Name() != "ink" || active.Parent() == nil || active.Parent().Name() != "Frame 1 walk" {
		t.Errorf("active layer not restored: %v", active)
	}

	if !bytes.Equal(canvas.Composite(img).Pix, canvas.Composite(restored).Pix) {
		t.Error("restored composite differs from the original")
	}
}

func TestEncodeDecode(t *testing.T) {
	_, img := buildFixture(t)
	hasher := hash.NewSHA256Hasher()
	snap, err := Capture(img, hasher)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if err := decoded.Verify(hasher); err != nil {
		t.Errorf("decoded snapshot does not verify: %v", err)
	}
	restored, err := decoded.Restore(canvas.New())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !bytes.Equal(canvas.Composite(img).Pix, canvas.Composite(restored).Pix) {
		t.Error("decoded composite differs from the original")
	}

	if _, err := Decode([]byte("{broken")); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestVerify_Damaged(t *testing.T) {
	_, img := buildFixture(t)
	hasher := hash.NewSHA256Hasher()
	snap, err := Capture(img, hasher)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	keys := snap.BlobKeys()
	snap.Blobs[keys[0]] = []byte("not a png")
	if err := snap.Verify(hasher); err == nil {
		t.Error("expected corrupt blob to fail verification")
	}

	delete(snap.Blobs, keys[0])
	if err := snap.Verify(hasher); err == nil {
		t.Error("expected missing blob to fail verification")
	}
	if _, err := snap.Restore(canvas.New()); err == nil {
		t.Error("expected restore with a missing blob to fail")
	}
}

func TestCapture_BlobKeysFromHasher(t *testing.T) {
	_, img := buildFixture(t)
	hasher := hash.NewFakeHasher()
	snap, err := Capture(img, hasher)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	// keys follow capture order: ink, paper, then the background
	m := snap.Manifest
	got := []string{m.Layers[0].Children[0].Blob, m.Layers[0].Children[1].Blob, m.Layers[1].Children[0].Blob, m.Layers[2].Blob}
	want := []string{"fakehash0", "fakehash1", "fakehash0", "fakehash2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("blob keys = %v, want %v", got, want)
			break
		}
	}
	if err := snap.Verify(hasher); err != nil {
		t.Errorf("Verify with the same hasher failed: %v", err)
	}
}
