package engine

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/host"
)

func TestTrim(t *testing.T) {
	eng, ed, _ := newTestEngine(t)
	ctx := context.Background()
	img := sprite(t, eng, 2, 8, 8)
	paint(t, img, 0, 2, 3, red)
	paint(t, img, 1, 5, 4, blue)
	depth := img.UndoDepth()

	res, err := eng.Trim(ctx, img)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, image.Rect(2, 3, 6, 5), res.Bounds)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 2, res.Height)
	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Equal(t, depth+1, img.UndoDepth())

	x, y := member(t, img, 0, 0).Offsets()
	assert.Equal(t, -2, x)
	assert.Equal(t, -3, y)

	// frame 0's pixel now sits at the top-left corner
	_, err = eng.GotoFrame(ctx, img, &GotoRequest{Frame: 0})
	require.NoError(t, err)
	flat := canvas.Composite(img)
	assert.Equal(t, red, flat.NRGBAAt(0, 0))

	require.NoError(t, ed.Undo(img))
	require.NoError(t, ed.Undo(img))
	assert.Equal(t, 8, img.Width(), "trim is a single undo step")
}

func TestTrim_IncludesLooseLayers(t *testing.T) {
	eng, ed, _ := newTestEngine(t)
	img := sprite(t, eng, 1, 8, 8)
	paint(t, img, 0, 4, 4, red)

	bg, err := canvas.NewLayer(8, 8, "Background", 1, host.BlendNormal)
	require.NoError(t, err)
	bg.Pixels().SetNRGBA(1, 6, green)
	require.NoError(t, ed.Insert(img, bg, nil, -1))

	res, err := eng.Trim(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(1, 4, 5, 7), res.Bounds)
}

func TestTrim_NoOps(t *testing.T) {
	t.Run("transparent", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)
		img := sprite(t, eng, 2, 8, 8)
		depth := img.UndoDepth()

		res, err := eng.Trim(context.Background(), img)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.True(t, res.Bounds.Empty())
		assert.Equal(t, 8, img.Width())
		assert.Equal(t, depth, img.UndoDepth())
	})

	t.Run("already tight", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)
		img := sprite(t, eng, 2, 4, 4)
		paint(t, img, 0, 0, 0, red)
		paint(t, img, 1, 3, 3, red)

		res, err := eng.Trim(context.Background(), img)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, 4, res.Width)
		assert.Equal(t, 4, img.Width())
	})

	t.Run("no frames", func(t *testing.T) {
		eng, ed, _ := newTestEngine(t)
		img, err := ed.NewImage(4, 4, host.RGB)
		require.NoError(t, err)

		_, err = eng.Trim(context.Background(), img)
		assert.ErrorIs(t, err, ErrNoFrames)
	})
}

func TestTrim_RestoresView(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	img := sprite(t, eng, 3, 8, 8)
	paint(t, img, 0, 1, 1, red)
	active := img.ActiveLayer()

	_, err := eng.Trim(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, visibleFrames(img))
	assert.Same(t, active, img.ActiveLayer())
}

func TestAlphaBounds(t *testing.T) {
	l, err := canvas.NewLayer(6, 6, "probe", 1, host.BlendNormal)
	require.NoError(t, err)
	assert.True(t, alphaBounds(l).Empty())

	l.Pixels().SetNRGBA(4, 1, red)
	assert.Equal(t, image.Rect(4, 1, 5, 2), alphaBounds(l))

	l.Pixels().SetNRGBA(0, 5, blue)
	assert.Equal(t, image.Rect(0, 1, 5, 6), alphaBounds(l))
}
