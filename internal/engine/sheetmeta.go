package engine

import "github.com/danieljhkim/spritedev/internal/frames"

// SheetMeta is TexturePacker-style JSON describing where each frame sits in
// an exported sprite sheet.
type SheetMeta struct {
	Frames map[string]SheetFrame `json:"frames"`
	Meta   SheetInfo             `json:"meta"`
}

// SheetInfo describes the sheet image.
type SheetInfo struct {
	App     string   `json:"app"`
	Version string   `json:"version,omitempty"`
	Image   string   `json:"image"`
	Format  string   `json:"format"`
	Size    SheetWH  `json:"size"`
	Scale   float64  `json:"scale"`
	Order   []string `json:"order"`
}

// SheetFrame places one frame.
type SheetFrame struct {
	Frame            SheetRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize SheetRect `json:"spriteSourceSize"`
	SourceSize       SheetWH   `json:"sourceSize"`
}

// SheetRect is a pixel rectangle.
type SheetRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// SheetWH is a pixel size.
type SheetWH struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Metadata describes the sheet for the PNG written as imageName. Frames are
// keyed by frame name; Meta.Order lists them in sheet order.
func (r *SheetResult) Metadata(imageName, version string) *SheetMeta {
	w, h := r.Layout.Size()
	m := &SheetMeta{
		Frames: make(map[string]SheetFrame, len(r.Cells)),
		Meta: SheetInfo{
			App:     "spritedev",
			Version: version,
			Image:   imageName,
			Format:  "RGBA8888",
			Size:    SheetWH{W: w, H: h},
			Scale:   1,
			Order:   make([]string, 0, len(r.Cells)),
		},
	}
	for _, c := range r.Cells {
		name := frames.Name(c.Frame)
		cw, ch := c.Rect.Dx(), c.Rect.Dy()
		m.Frames[name] = SheetFrame{
			Frame:            SheetRect{X: c.Rect.Min.X, Y: c.Rect.Min.Y, W: cw, H: ch},
			SpriteSourceSize: SheetRect{W: cw, H: ch},
			SourceSize:       SheetWH{W: cw, H: ch},
		}
		m.Meta.Order = append(m.Meta.Order, name)
	}
	return m
}
