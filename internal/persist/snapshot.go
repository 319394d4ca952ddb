// Package persist converts in-memory images to and from portable snapshots.
//
// A Snapshot is a manifest describing the layer tree plus a set of PNG blobs
// holding layer pixels, keyed by content hash. Documents on disk and history
// journal entries are both built from snapshots.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"sort"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/hash"
	"github.com/danieljhkim/spritedev/internal/host"
)

// Node describes one layer or group in a manifest.
type Node struct {
	Name    string  `json:"name" yaml:"name"`
	Group   bool    `json:"group,omitempty" yaml:"group,omitempty"`
	Visible bool    `json:"visible" yaml:"visible"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	Blend   string  `json:"blend,omitempty" yaml:"blend,omitempty"`

	// X and Y are the layer offsets (layers only)
	X int `json:"x,omitempty" yaml:"x,omitempty"`
	Y int `json:"y,omitempty" yaml:"y,omitempty"`

	// Blob is the content hash of the layer's PNG (layers only)
	Blob string `json:"blob,omitempty" yaml:"blob,omitempty"`

	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Manifest describes an image without its pixels.
type Manifest struct {
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Mode   string `json:"mode" yaml:"mode"`

	// Active is the child-index path of the active node, empty for none
	Active []int `json:"active,omitempty" yaml:"active,omitempty"`

	Layers []Node `json:"layers" yaml:"layers"`
}

// Snapshot is a manifest plus the PNG blobs it references.
type Snapshot struct {
	Manifest Manifest          `json:"manifest"`
	Blobs    map[string][]byte `json:"blobs"`
}

// Capture snapshots img. Identical layers share one blob.
func Capture(img *canvas.Image, hasher hash.Hasher) (*Snapshot, error) {
	s := &Snapshot{
		Manifest: Manifest{
			Width:  img.Width(),
			Height: img.Height(),
			Mode:   img.Mode().String(),
			Active: img.Path(img.ActiveLayer()),
		},
		Blobs: make(map[string][]byte),
	}

	layers, err := s.captureNodes(img.TopLayers(), hasher)
	if err != nil {
		return nil, err
	}
	s.Manifest.Layers = layers
	return s, nil
}

func (s *Snapshot) captureNodes(layers []*canvas.Layer, hasher hash.Hasher) ([]Node, error) {
	out := make([]Node, 0, len(layers))
	for _, l := range layers {
		n := Node{
			Name:    l.Name(),
			Group:   l.IsGroup(),
			Visible: l.Visible(),
			Opacity: l.Opacity(),
			Blend:   string(l.Blend()),
		}
		if l.IsGroup() {
			children, err := s.captureNodes(l.Members(), hasher)
			if err != nil {
				return nil, err
			}
			n.Children = children
		} else {
			n.X, n.Y = l.Offsets()
			var buf bytes.Buffer
			if err := png.Encode(&buf, l.Pixels()); err != nil {
				return nil, fmt.Errorf("failed to encode layer %q: %w", l.Name(), err)
			}
			n.Blob = hasher.HashBytes(buf.Bytes())
			s.Blobs[n.Blob] = buf.Bytes()
		}
		out = append(out, n)
	}
	return out, nil
}

// Restore builds a new image from the snapshot.
func (s *Snapshot) Restore(ed *canvas.Editor) (*canvas.Image, error) {
	mode, err := host.ParseMode(s.Manifest.Mode)
	if err != nil {
		return nil, err
	}
	img, err := canvas.NewImage(s.Manifest.Width, s.Manifest.Height, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	if err := s.restoreNodes(ed, img, nil, s.Manifest.Layers); err != nil {
		return nil, err
	}
	if len(s.Manifest.Active) > 0 {
		active := img.Resolve(s.Manifest.Active)
		if active == nil {
			return nil, fmt.Errorf("active path %v does not exist", s.Manifest.Active)
		}
		if err := ed.SetActive(img, active); err != nil {
			return nil, fmt.Errorf("failed to set active layer: %w", err)
		}
	}
	return img, nil
}

func (s *Snapshot) restoreNodes(ed *canvas.Editor, img *canvas.Image, parent host.Node, nodes []Node) error {
	for _, n := range nodes {
		var l *canvas.Layer
		if n.Group {
			l = canvas.NewGroup(n.Name)
		} else {
			pix, err := s.decodeBlob(n.Blob)
			if err != nil {
				return fmt.Errorf("failed to load layer %q: %w", n.Name, err)
			}
			b := pix.Bounds()
			l, err = canvas.NewLayer(b.Dx(), b.Dy(), n.Name, n.Opacity, host.BlendMode(n.Blend))
			if err != nil {
				return err
			}
			if err := l.SetPixels(pix); err != nil {
				return fmt.Errorf("failed to fill layer %q: %w", n.Name, err)
			}
			l.SetOffsets(n.X, n.Y)
		}
		l.SetOpacity(n.Opacity)
		l.SetVisible(n.Visible)

		if err := ed.Insert(img, l, parent, -1); err != nil {
			return fmt.Errorf("failed to insert %q: %w", n.Name, err)
		}
		if n.Group {
			if err := s.restoreNodes(ed, img, l, n.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Snapshot) decodeBlob(key string) (image.Image, error) {
	data, ok := s.Blobs[key]
	if !ok {
		return nil, fmt.Errorf("missing blob %s", key)
	}
	pix, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode blob %s: %w", key, err)
	}
	return pix, nil
}

// Verify checks that every referenced blob is present and matches its hash.
func (s *Snapshot) Verify(hasher hash.Hasher) error {
	for _, key := range s.BlobKeys() {
		data, ok := s.Blobs[key]
		if !ok {
			return fmt.Errorf("missing blob %s", key)
		}
		if got := hasher.HashBytes(data); got != key {
			return fmt.Errorf("blob %s is corrupt (hash %s)", key, got)
		}
	}
	return nil
}

// BlobKeys returns the sorted, distinct blob keys the manifest references.
func (s *Snapshot) BlobKeys() []string {
	seen := make(map[string]bool)
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Blob != "" {
				seen[n.Blob] = true
			}
			walk(n.Children)
		}
	}
	walk(s.Manifest.Layers)

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode serializes the snapshot, blobs included, to one JSON document.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if s.Blobs == nil {
		s.Blobs = make(map[string][]byte)
	}
	return &s, nil
}
