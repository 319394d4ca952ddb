package fsops

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		id        string
		wantError bool
	}{
		{"walk-cycle", false},
		{"hero_idle_2.sprite", false},
		{"sprite123", false},
		{"", true},
		{"   ", true},
		{".", true},
		{"..", true},
		{".hidden", true},
		{"sprite/subdir", true},
		{"sprite\\subdir", true},
		{"/etc/hosts", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	manifest := filepath.Join(dir, "document.yaml")
	if err := os.WriteFile(manifest, []byte("schemaVersion: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	for path, want := range map[string]bool{
		dir:                              true,
		manifest:                         true,
		filepath.Join(dir, "layers"):     false,
		filepath.Join(dir, "history.db"): false,
	} {
		got, err := fs.Exists(path)
		if err != nil {
			t.Errorf("Exists(%s) error = %v", path, err)
		}
		if got != want {
			t.Errorf("Exists(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	blob := filepath.Join(dir, "hero.sprite", "layers", "abc.png")

	t.Run("creates missing parents", func(t *testing.T) {
		if err := fs.AtomicWrite(blob, []byte("png-1"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		data, err := fs.ReadFile(blob)
		if err != nil || string(data) != "png-1" {
			t.Errorf("ReadFile = %q, %v", data, err)
		}
		info, err := os.Stat(blob)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Mode().Perm() != 0644 {
			t.Errorf("mode = %v, want 0644", info.Mode().Perm())
		}
	})

	t.Run("replaces and leaves no temp files", func(t *testing.T) {
		if err := fs.AtomicWrite(blob, []byte("png-2"), 0600); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		data, _ := fs.ReadFile(blob)
		if string(data) != "png-2" {
			t.Errorf("content = %q, want png-2", data)
		}
		entries, err := os.ReadDir(filepath.Dir(blob))
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("directory holds %d entries, want only the blob", len(entries))
		}
	})
}

func TestRealFS_List(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	names, err := fs.List(filepath.Join(dir, "missing"))
	if err != nil || len(names) != 0 {
		t.Errorf("List(missing) = %v, %v; want empty", names, err)
	}

	for _, name := range []string{"b.png", "a.png", ".spritedev-tmp-123"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	names, err = fs.List(dir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := []string{"a.png", "b.png"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List = %v, want %v", names, want)
	}
}

func TestRealFS_ReadFile_Missing(t *testing.T) {
	_, err := NewRealFS().ReadFile(filepath.Join(t.TempDir(), "session.json"))
	if !os.IsNotExist(err) {
		t.Errorf("ReadFile(missing) error = %v, want not-exist", err)
	}
}

func TestRealFS_RemoveAll(t *testing.T) {
	fs := NewRealFS()
	doc := filepath.Join(t.TempDir(), "hero.sprite")
	if err := fs.MkdirAll(filepath.Join(doc, "layers"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := fs.AtomicWrite(filepath.Join(doc, "layers", "a.png"), []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	if err := fs.Remove(filepath.Join(doc, "layers", "a.png")); err != nil {
		t.Errorf("Remove failed: %v", err)
	}
	if err := fs.RemoveAll(doc); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if exists, _ := fs.Exists(doc); exists {
		t.Error("document directory should be gone")
	}
}
