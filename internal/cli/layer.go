package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/host"
)

var layerFrom string

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Add layers and share them across frames",
}

var layerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a layer to the current frame",
	Long: `Add a layer at the top of the current frame and make it active.

With --from the layer is seeded from an image file (PNG, GIF, JPEG, BMP, TIFF
or WebP) and takes that image's size. Otherwise it is a transparent layer the
size of the canvas.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		req := &engine.AddLayerRequest{Name: args[0]}
		if layerFrom != "" {
			if req.Pixels, err = s.decodeImage(layerFrom); err != nil {
				return err
			}
		}
		return runFrameOp("layer add",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.AddLayer(ctx, img, req)
			},
			func(r *engine.FrameResult) string {
				if r.Frame < 0 {
					return fmt.Sprintf("Added layer %q", req.Name)
				}
				return fmt.Sprintf("Added layer %q to Frame %d", req.Name, r.Frame)
			})
	},
}

var layerCopyCmd = &cobra.Command{
	Use:   "copy-to-frames",
	Short: "Copy the active layer into every other frame",
	Long: `Duplicate the active layer into every other frame. Inside a frame each copy
lands at the same position within its frame; a top-level layer is copied to
the bottom of every frame.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrameOp("layer copy-to-frames",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.CopyLayerToAllFrames(ctx, img)
			},
			func(r *engine.FrameResult) string {
				return fmt.Sprintf("Copied layer into %s", PrintCount(r.Copies, "frame", "frames"))
			})
	},
}

// decodeImage reads an image file in any registered format.
func (s *session) decodeImage(path string) (image.Image, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	s.logger.WithField("format", format).Debug("decoded layer image")
	return img, nil
}

func init() {
	layerAddCmd.Flags().StringVar(&layerFrom, "from", "", "Image file to seed the layer with")

	layerCmd.AddCommand(layerAddCmd)
	layerCmd.AddCommand(layerCopyCmd)
}
