package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/host"
)

var gotoMember int

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Add, delete and navigate frames",
	Long: `Frame commands operate on the current frame: the frame holding the active
layer. Frame numbers stay dense from 0 in document order.`,
}

// frameOp adapts a frame operation to a mutating command.
type frameOp func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error)

// runFrameOp runs op against the active document and reports the outcome.
func runFrameOp(label string, op frameOp, success func(*engine.FrameResult) string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	var result *engine.FrameResult
	_, err = s.mutate(label, func(ctx context.Context, eng *engine.Engine, doc *document) (bool, error) {
		res, err := op(ctx, eng, doc.img)
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
		PrintWarning(capitalize(result.Reason))
		return nil
	}
	PrintSuccess(success(result))
	return nil
}

var frameNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Insert a frame after the current one",
	Long: `Insert a frame after the current frame, copying its layers, and focus it.
Later frames are renumbered up by one. With no current frame, an empty frame is
appended instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrameOp("frame new",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.NewFrame(ctx, img)
			},
			func(r *engine.FrameResult) string {
				return fmt.Sprintf("Created Frame %d (%s renumbered)", r.Frame, PrintCount(r.Renumbered, "frame", "frames"))
			})
	},
}

var frameDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the current frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrameOp("frame delete",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.DeleteFrame(ctx, img)
			},
			func(r *engine.FrameResult) string {
				if r.Frame < 0 {
					return "Deleted the last frame"
				}
				return fmt.Sprintf("Deleted frame, now on Frame %d", r.Frame)
			})
	},
}

var framePrevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Show the previous frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrameOp("frame prev",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.PrevFrame(ctx, img)
			},
			focusMessage)
	},
}

var frameNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrameOp("frame next",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.NextFrame(ctx, img)
			},
			focusMessage)
	},
}

var frameGotoCmd = &cobra.Command{
	Use:   "goto <n>",
	Short: "Show frame n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid frame number %q", args[0])
		}
		req := &engine.GotoRequest{Frame: n, Member: gotoMember}
		return runFrameOp("frame goto",
			func(ctx context.Context, eng *engine.Engine, img host.Image) (*engine.FrameResult, error) {
				return eng.GotoFrame(ctx, img, req)
			},
			focusMessage)
	},
}

var frameLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List frames",
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
		infos := s.newEngine("frame ls").Frames(doc.img)

		if jsonOutput {
			return outputJSON(infos)
		}
		if len(infos) == 0 {
			PrintEmptyState("No frames")
			return nil
		}
		rows := make([][]string, len(infos))
		for i, f := range infos {
			marker := ""
			if f.Current {
				marker = "*"
			}
			rows[i] = []string{marker, strconv.Itoa(f.Number), f.Name, strings.Join(f.Members, ", ")}
		}
		PrintTable([]string{"", "FRAME", "NAME", "LAYERS"}, rows)
		return nil
	},
}

func focusMessage(r *engine.FrameResult) string {
	return fmt.Sprintf("Now on Frame %d", r.Frame)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func init() {
	frameGotoCmd.Flags().IntVar(&gotoMember, "member", 0, "Member position to make active")

	frameCmd.AddCommand(frameNewCmd)
	frameCmd.AddCommand(frameDeleteCmd)
	frameCmd.AddCommand(framePrevCmd)
	frameCmd.AddCommand(frameNextCmd)
	frameCmd.AddCommand(frameGotoCmd)
	frameCmd.AddCommand(frameLsCmd)
}
