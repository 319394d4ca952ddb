package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/config"
	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/layout"
)

var (
	exportReverse bool
	sheetMode     string
	sheetMeta     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export frames as layers or a sprite sheet",
	Long: `Export renders each frame on its own, in frame-number order. The active
document is left showing what it showed before.`,
}

var exportLayersCmd = &cobra.Command{
	Use:   "layers <path>",
	Short: "Flatten every frame into one layer of a new document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		dir, err := config.DocumentDir(args[0])
		if err != nil {
			return err
		}
		doc, err := s.open()
		if err != nil {
			return err
		}

		res, err := s.newEngine("export layers").FlattenToLayers(context.Background(), doc.img, &engine.FlattenRequest{Reverse: exportReverse})
		if err != nil {
			return err
		}
		if _, err := s.create(dir, res.Image); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"path":   dir,
				"frames": res.Frames,
			})
		}
		PrintSuccess(fmt.Sprintf("Exported %s to %s", PrintCount(len(res.Frames), "frame", "frames"), dir))
		return nil
	},
}

var exportSheetCmd = &cobra.Command{
	Use:   "sheet <file.png>",
	Short: "Lay every frame out into a sprite sheet PNG",
	Long: `Lay every frame out into a single PNG. A strip puts all frames in one row;
a grid picks the near-square arrangement with the fewest empty cells.

With --meta a JSON description of each frame's rectangle is written alongside.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		mode := s.settings.SheetMode
		if cmd.Flags().Changed("mode") {
			if mode, err = layout.ParseMode(sheetMode); err != nil {
				return err
			}
		}
		doc, err := s.open()
		if err != nil {
			return err
		}

		res, err := s.newEngine("export sheet").ExportSheet(context.Background(), doc.img, &engine.ExportSheetRequest{Mode: mode})
		if err != nil {
			return err
		}
		sheet, ok := res.Image.(*canvas.Image)
		if !ok {
			return fmt.Errorf("unexpected image type %T", res.Image)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, canvas.Composite(sheet)); err != nil {
			return fmt.Errorf("failed to encode sheet: %w", err)
		}
		out := args[0]
		if err := s.fs.AtomicWrite(out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		if sheetMeta != "" {
			data, err := json.MarshalIndent(res.Metadata(filepath.Base(out), rootCmd.Version), "", "  ")
			if err != nil {
				return err
			}
			if err := s.fs.AtomicWrite(sheetMeta, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", sheetMeta, err)
			}
		}

		w, h := res.Layout.Size()
		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"path":    out,
				"meta":    sheetMeta,
				"width":   w,
				"height":  h,
				"columns": res.Layout.Columns,
				"rows":    res.Layout.Rows,
				"cells":   res.Cells,
			})
		}
		PrintSuccess(fmt.Sprintf("Exported %s to %s (%dx%d, %d x %d cells)",
			PrintCount(len(res.Cells), "frame", "frames"), out, w, h, res.Layout.Columns, res.Layout.Rows))
		return nil
	},
}

func init() {
	exportLayersCmd.Flags().BoolVar(&exportReverse, "reverse", false, "Emit the last frame first")
	exportSheetCmd.Flags().StringVar(&sheetMode, "mode", "", "Sheet arrangement: strip or grid (default: sheet_mode setting)")
	exportSheetCmd.Flags().StringVar(&sheetMeta, "meta", "", "Also write frame rectangles as JSON to this file")

	exportCmd.AddCommand(exportLayersCmd)
	exportCmd.AddCommand(exportSheetCmd)
}
