package stores

import (
	"time"

	"github.com/danieljhkim/spritedev/internal/persist"
)

// SchemaVersion is the current document.yaml schema version.
const SchemaVersion = 1

// Document is the document.yaml file of a sprite document.
type Document struct {
	// SchemaVersion is the version of this schema
	SchemaVersion int `yaml:"schemaVersion"`

	// ID identifies the document across renames and copies
	ID string `yaml:"id"`

	// Name is the human-readable name of the document
	Name string `yaml:"name"`

	// CreatedAt is when the document was created
	CreatedAt time.Time `yaml:"createdAt"`

	// UpdatedAt is when the document was last saved
	UpdatedAt time.Time `yaml:"updatedAt"`

	// Image is the layer tree
	Image persist.Manifest `yaml:"image"`
}

// NewDocument creates a new Document with the given identity.
func NewDocument(id, name string, createdAt time.Time) *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		ID:            id,
		Name:          name,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}
