package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/spritedev/internal/config"
	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/history"
	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/persist"
)

var (
	newWidth  int
	newHeight int
	newMode   string
)

var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create a sprite document",
	Long: `Create a sprite document at <path>.sprite holding a single empty frame,
and make it the active document.

Size and color mode default to the default_width, default_height and
default_mode settings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		dir, err := config.DocumentDir(args[0])
		if err != nil {
			return err
		}

		req := &engine.NewSpriteRequest{
			Width:  s.settings.DefaultWidth,
			Height: s.settings.DefaultHeight,
			Mode:   s.settings.DefaultMode,
		}
		if cmd.Flags().Changed("width") {
			req.Width = newWidth
		}
		if cmd.Flags().Changed("height") {
			req.Height = newHeight
		}
		if cmd.Flags().Changed("mode") {
			if req.Mode, err = host.ParseMode(newMode); err != nil {
				return err
			}
		}

		res, err := s.newEngine("new").NewSprite(context.Background(), req)
		if err != nil {
			return err
		}
		doc, err := s.create(dir, res.Image)
		if err != nil {
			return err
		}
		if err := s.activate(dir); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"path":   dir,
				"id":     doc.ID,
				"width":  req.Width,
				"height": req.Height,
				"mode":   req.Mode.String(),
			})
		}
		PrintSuccess(fmt.Sprintf("Created %s (%dx%d %s)", dir, req.Width, req.Height, req.Mode))
		return nil
	},
}

var useCmd = &cobra.Command{
	Use:   "use <path>",
	Short: "Select the active sprite document",
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
		if _, _, err := s.docs.Load(dir); err != nil {
			return err
		}
		if err := s.activate(dir); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Active document set to: %s", dir))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sprite status",
	Long:  `Display the canvas, the frame sequence and the current frame of the active document.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		doc, err := s.open()
		if err != nil {
			return err
		}
		result := s.newEngine("status").Status(doc.img)

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Sprite")
		PrintLabelValue("Document", doc.dir)
		PrintLabelValue("Canvas", fmt.Sprintf("%dx%d %s", result.Width, result.Height, result.Mode))
		PrintLabelValue("Frames", PrintCount(result.FrameCount, "frame", "frames"))
		if result.FrameCount > 0 {
			PrintLabelValue("Sequence", FormatFrameStrip(result.Frames))
		}
		if result.Current >= 0 {
			PrintLabelValue("Current", fmt.Sprintf("Frame %d, member %d", result.Current, result.Member))
		} else {
			PrintLabelValue("Current", "none")
		}
		if result.ActiveLayer != "" {
			PrintLabelValue("Active layer", result.ActiveLayer)
		}
		for _, p := range result.Problems {
			PrintWarning(p)
		}
		return nil
	},
}

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Crop the canvas to the visible pixels of all frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		var result *engine.TrimResult
		_, err = s.mutate("trim", func(ctx context.Context, eng *engine.Engine, doc *document) (bool, error) {
			res, err := eng.Trim(ctx, doc.img)
			if err != nil {
				return false, err
			}
			result = res
			return res.Changed, nil
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}
		if !result.Changed {
			PrintInfo("Nothing to trim")
			return nil
		}
		PrintSuccess(fmt.Sprintf("Trimmed canvas to %dx%d", result.Width, result.Height))
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Revert the last command",
	Long:  `Restore the active document to how it was before the most recent recorded command.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		dir, err := s.resolveDoc()
		if err != nil {
			return err
		}
		j, err := s.journal(dir)
		if err != nil {
			return err
		}
		defer j.Close()

		entry, err := j.Latest()
		if err != nil {
			if errors.Is(err, history.ErrEmpty) {
				PrintWarning("Nothing to undo")
				return nil
			}
			return err
		}
		snap, err := persist.Decode(entry.Snapshot)
		if err != nil {
			return err
		}
		if err := snap.Verify(s.hasher); err != nil {
			return fmt.Errorf("history entry is damaged: %w", err)
		}
		if _, err := snap.Restore(s.editor); err != nil {
			return fmt.Errorf("history entry cannot be restored: %w", err)
		}
		if _, err := s.docs.Save(dir, snap); err != nil {
			return err
		}
		if _, err := j.Pop(); err != nil {
			return err
		}

		PrintSuccess(fmt.Sprintf("Undid %s", entry.Command))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List undoable commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		dir, err := s.resolveDoc()
		if err != nil {
			return err
		}
		j, err := s.journal(dir)
		if err != nil {
			return err
		}
		defer j.Close()

		entries, err := j.List()
		if err != nil {
			return err
		}
		if jsonOutput {
			if entries == nil {
				entries = []history.Entry{}
			}
			return outputJSON(entries)
		}
		if len(entries) == 0 {
			PrintEmptyState("No history")
			return nil
		}
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{fmt.Sprintf("%d", e.Seq), e.Command, e.CreatedAt.Local().Format("2006-01-02 15:04:05")}
		}
		PrintTable([]string{"SEQ", "COMMAND", "WHEN"}, rows)
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what the last command changed",
	Long: `Show a unified diff of the layer tree between the state saved before the
most recent recorded command and the current document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		doc, err := s.open()
		if err != nil {
			return err
		}
		j, err := s.journal(doc.dir)
		if err != nil {
			return err
		}
		defer j.Close()

		entry, err := j.Latest()
		if err != nil {
			if errors.Is(err, history.ErrEmpty) {
				PrintEmptyState("No history to compare against")
				return nil
			}
			return err
		}
		snap, err := persist.Decode(entry.Snapshot)
		if err != nil {
			return err
		}
		before, err := snap.Restore(s.editor)
		if err != nil {
			return fmt.Errorf("history entry cannot be restored: %w", err)
		}

		diff, err := engine.Diff(engine.Outline(before), engine.Outline(doc.img), "before "+entry.Command, "current")
		if err != nil {
			return err
		}
		if diff == "" {
			PrintInfo("No changes")
			return nil
		}
		PrintDiff(diff)
		return nil
	},
}

func init() {
	newCmd.Flags().IntVar(&newWidth, "width", 0, "Canvas width (default: default_width setting)")
	newCmd.Flags().IntVar(&newHeight, "height", 0, "Canvas height (default: default_height setting)")
	newCmd.Flags().StringVar(&newMode, "mode", "", "Color mode: rgb, gray or indexed (default: default_mode setting)")
}
