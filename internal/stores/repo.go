// Package stores manages sprite documents on disk.
//
// A document is a directory named <name>.sprite holding a YAML manifest and
// a layers/ directory of content-addressed PNG blobs. Saving writes only
// blobs that are missing and prunes blobs the manifest no longer references.
//
// Key components:
//   - DocumentRepo: Interface for creating, loading and saving documents
//   - Document: Manifest plus identity and timestamps
//   - Layers directory: PNG blobs named by SHA-256 digest
package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/spritedev/internal/clock"
	"github.com/danieljhkim/spritedev/internal/fsops"
	"github.com/danieljhkim/spritedev/internal/hash"
	"github.com/danieljhkim/spritedev/internal/persist"
)

const (
	manifestFile = "document.yaml"
	layersDir    = "layers"
	blobExt      = ".png"
)

// ErrNoDocument is returned when a document directory holds no manifest.
var ErrNoDocument = errors.New("no sprite document")

// DocumentRepo provides an interface for managing sprite documents.
type DocumentRepo interface {
	// Exists reports whether dir holds a document.
	Exists(dir string) (bool, error)

	// Create saves a new document at dir. It fails if one already exists.
	Create(dir string, snap *persist.Snapshot) (*Document, error)

	// Load reads the document at dir with its blobs, verified against
	// their hashes.
	Load(dir string) (*Document, *persist.Snapshot, error)

	// Save replaces the document content at dir, keeping its identity.
	Save(dir string, snap *persist.Snapshot) (*Document, error)

	// Delete removes the document directory.
	Delete(dir string) error
}

// FileDocumentRepo implements DocumentRepo using files on disk.
type FileDocumentRepo struct {
	fs     fsops.FS
	hasher hash.Hasher
	clock  clock.Clock
}

// NewFileDocumentRepo creates a new FileDocumentRepo.
func NewFileDocumentRepo(fs fsops.FS, hasher hash.Hasher, clk clock.Clock) *FileDocumentRepo {
	return &FileDocumentRepo{
		fs:     fs,
		hasher: hasher,
		clock:  clk,
	}
}

// Exists reports whether dir holds a document manifest.
func (r *FileDocumentRepo) Exists(dir string) (bool, error) {
	if err := r.validate(dir); err != nil {
		return false, err
	}
	return r.fs.Exists(filepath.Join(dir, manifestFile))
}

// Create saves a new document at dir.
func (r *FileDocumentRepo) Create(dir string, snap *persist.Snapshot) (*Document, error) {
	exists, err := r.Exists(dir)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("document already exists: %s", dir)
	}

	doc := NewDocument(uuid.NewString(), documentName(dir), r.clock.Now())
	if err := r.write(dir, doc, snap); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads the document at dir.
func (r *FileDocumentRepo) Load(dir string) (*Document, *persist.Snapshot, error) {
	doc, err := r.readManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	snap := &persist.Snapshot{Manifest: doc.Image, Blobs: make(map[string][]byte)}
	for _, key := range snap.BlobKeys() {
		data, err := r.fs.ReadFile(blobPath(dir, key))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read layer blob %s: %w", key, err)
		}
		snap.Blobs[key] = data
	}
	if err := snap.Verify(r.hasher); err != nil {
		return nil, nil, fmt.Errorf("document %s is damaged: %w", dir, err)
	}
	return doc, snap, nil
}

// Save replaces the document content at dir.
func (r *FileDocumentRepo) Save(dir string, snap *persist.Snapshot) (*Document, error) {
	doc, err := r.readManifest(dir)
	if err != nil {
		return nil, err
	}
	doc.UpdatedAt = r.clock.Now()
	if err := r.write(dir, doc, snap); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the document directory.
func (r *FileDocumentRepo) Delete(dir string) error {
	exists, err := r.Exists(dir)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w at %s", ErrNoDocument, dir)
	}
	if err := r.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// write stores missing blobs, then the manifest, then prunes stale blobs so
// a crash part way leaves the previous manifest loadable.
func (r *FileDocumentRepo) write(dir string, doc *Document, snap *persist.Snapshot) error {
	if err := r.fs.MkdirAll(filepath.Join(dir, layersDir), 0755); err != nil {
		return fmt.Errorf("failed to create document directory: %w", err)
	}

	keep := make(map[string]bool)
	for _, key := range snap.BlobKeys() {
		keep[key] = true
		path := blobPath(dir, key)
		exists, err := r.fs.Exists(path)
		if err != nil {
			return fmt.Errorf("failed to check layer blob: %w", err)
		}
		if exists {
			continue
		}
		data, ok := snap.Blobs[key]
		if !ok {
			return fmt.Errorf("snapshot is missing blob %s", key)
		}
		if err := r.fs.AtomicWrite(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write layer blob: %w", err)
		}
	}

	doc.Image = snap.Manifest
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := r.fs.AtomicWrite(filepath.Join(dir, manifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	names, err := r.fs.List(filepath.Join(dir, layersDir))
	if err != nil {
		return err
	}
	for _, name := range names {
		if keep[strings.TrimSuffix(name, blobExt)] {
			continue
		}
		if err := r.fs.Remove(filepath.Join(dir, layersDir, name)); err != nil {
			return fmt.Errorf("failed to prune layer blob %s: %w", name, err)
		}
	}
	return nil
}

func (r *FileDocumentRepo) readManifest(dir string) (*Document, error) {
	if err := r.validate(dir); err != nil {
		return nil, err
	}
	data, err := r.fs.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoDocument, dir)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported document schema version %d", doc.SchemaVersion)
	}
	return &doc, nil
}

func (r *FileDocumentRepo) validate(dir string) error {
	if err := r.fs.ValidateIdentifier(filepath.Base(dir)); err != nil {
		return fmt.Errorf("invalid document path %q: %w", dir, err)
	}
	return nil
}

func blobPath(dir, key string) string {
	return filepath.Join(dir, layersDir, key+blobExt)
}

func documentName(dir string) string {
	return strings.TrimSuffix(filepath.Base(dir), ".sprite")
}
