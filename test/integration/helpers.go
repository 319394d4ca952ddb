package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/clock"
	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/hash"
	"github.com/danieljhkim/spritedev/internal/history"
	"github.com/danieljhkim/spritedev/internal/persist"
	"github.com/danieljhkim/spritedev/internal/state"
	"github.com/danieljhkim/spritedev/internal/stores"
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	files  map[string][]byte
	dirs   map[string]bool
	writes int
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	_, hasDir := fs.dirs[path]
	return hasFile || hasDir, nil
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	delete(fs.files, path)
	delete(fs.dirs, path)
	return nil
}

func (fs *testFS) RemoveAll(path string) error {
	prefix := path + string(filepath.Separator)
	for p := range fs.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.files, p)
		}
	}
	for p := range fs.dirs {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(fs.dirs, p)
		}
	}
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if !fs.dirs[filepath.Dir(path)] {
		return fmt.Errorf("parent of %s does not exist", path)
	}
	fs.files[path] = append([]byte(nil), data...)
	fs.writes++
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if data, ok := fs.files[path]; ok {
		return data, nil
	}
	return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) List(dir string) ([]string, error) {
	var names []string
	for p := range fs.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (fs *testFS) ValidateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsRune(id, filepath.Separator) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid identifier: %q", id)
	}
	return nil
}

const sessionDir = "/home/.spritedev"

// workbench wires an engine to in-memory document and session storage and a
// real history journal.
type workbench struct {
	fs      *testFS
	clock   *clock.FakeClock
	hasher  hash.Hasher
	editor  *canvas.Editor
	engine  *engine.Engine
	docs    *stores.FileDocumentRepo
	session *state.FileStateStore
	journal *history.Journal
}

func setupWorkbench(t *testing.T) *workbench {
	t.Helper()
	fs := newTestFS()
	_ = fs.MkdirAll(sessionDir, 0755)
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	hasher := hash.NewSHA256Hasher()
	editor := canvas.New()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	j, err := history.Open(filepath.Join(t.TempDir(), history.FileName), clk, 0)
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	return &workbench{
		fs:      fs,
		clock:   clk,
		hasher:  hasher,
		editor:  editor,
		engine:  engine.New(editor, logrus.NewEntry(logger), nil),
		docs:    stores.NewFileDocumentRepo(fs, hasher, clk),
		session: state.NewFileStateStore(fs, filepath.Join(sessionDir, "session.json")),
		journal: j,
	}
}

// load restores the document at dir into the workbench editor.
func (w *workbench) load(t *testing.T, dir string) *canvas.Image {
	t.Helper()
	_, snap, err := w.docs.Load(dir)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", dir, err)
	}
	img, err := snap.Restore(w.editor)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	return img
}

// commit records the state before a command in the journal and saves the
// image as the new document content.
func (w *workbench) commit(t *testing.T, dir, command string, before *persist.Snapshot, img *canvas.Image) {
	t.Helper()
	data, err := persist.Encode(before)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := w.journal.Record(command, data); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	w.save(t, dir, img)
	w.clock.Advance(time.Minute)
}

func (w *workbench) save(t *testing.T, dir string, img *canvas.Image) {
	t.Helper()
	snap := w.capture(t, img)
	if _, err := w.docs.Save(dir, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func (w *workbench) capture(t *testing.T, img *canvas.Image) *persist.Snapshot {
	t.Helper()
	snap, err := persist.Capture(img, w.hasher)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	return snap
}

func names(img *canvas.Image) []string {
	var out []string
	for _, l := range img.TopLayers() {
		out = append(out, l.Name())
	}
	return out
}

func equalNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
