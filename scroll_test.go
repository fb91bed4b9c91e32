package ssd1306fx

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

func TestResolveEnd(t *testing.T) {
	tests := []struct {
		name     string
		height   int
		step     int
		end      int
		overflow bool
		want     int
	}{
		{"down to bottom", 128, 1, 0, false, 128},
		{"down negative end", 128, 2, -5, false, 128},
		{"down partial", 128, 1, 32, false, 96},
		{"down past bottom clamped", 128, 1, 100, false, 128},
		{"down past bottom with overflow", 128, 1, 100, true, 164},
		{"up to top", 128, -1, 0, false, 0},
		{"up end too low", 128, -1, 80, false, 64},
		{"up end too low with overflow", 128, -1, 80, true, 80},
		{"up negative end", 128, -1, -10, false, 0},
		{"up negative end with overflow", 128, -1, -10, true, -10},
		{"up short bitmap", 32, -1, 10, false, 0},
		{"down short bitmap", 32, 1, 0, false, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEnd(tt.height, 64, tt.step, tt.end, tt.overflow))
		})
	}
}

func TestResolveEndStaysInsideBitmap(t *testing.T) {
	for _, height := range []int{0, 1, 32, 63, 64, 65, 128, 200} {
		for _, step := range []int{-3, -1, 1, 3} {
			for end := -100; end <= 300; end += 7 {
				got := ResolveEnd(height, 64, step, end, false)
				assert.GreaterOrEqual(t, got, 0, "height=%d step=%d end=%d", height, step, end)
				assert.LessOrEqual(t, got, height, "height=%d step=%d end=%d", height, step, end)
			}
		}
	}
}

func TestScrollStateAdvance(t *testing.T) {
	tests := []struct {
		name   string
		from   int
		target int
		dir    Direction
		step   int
		snap   bool
		want   []int
	}{
		{"full steps", 0, 6, Down, 2, false, []int{2, 4, 6}},
		{"remainder crossed row by row", 0, 5, Down, 2, false, []int{2, 4, 5}},
		{"remainder snapped", 0, 5, Down, 2, true, []int{2, 4}},
		{"up", 10, 4, Up, 3, false, []int{7, 4}},
		{"already there", 3, 3, Down, 1, false, nil},
		{"past target", 9, 3, Down, 1, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ScrollState{CurrentY: tt.from, TargetY: tt.target, Direction: tt.dir, Step: tt.step, SnapToEnd: tt.snap}
			var got []int
			for s.Advance() {
				got = append(got, s.CurrentY)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

// rowBitmap returns a w x h bitmap where row y has pixel y%w lit.
func rowBitmap(w, h int) *image1bit.HorizontalMSB {
	bmp := image1bit.NewHorizontalMSB(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		bmp.SetBit(y%w, y, image1bit.On)
	}
	return bmp
}

func TestScrollDownToBottom(t *testing.T) {
	s, fb, clock, _ := newTestStage()
	bmp := rowBitmap(128, 128)

	err := s.Scroll(context.Background(), bmp, &ScrollOpts{
		Step:         2,
		InitialDelay: 500 * time.Millisecond,
		StepDelay:    5 * time.Millisecond,
		EndDelay:     500 * time.Millisecond,
	})
	require.NoError(t, err)

	// Initial frame, 32 steps of 2 rows, final frame.
	assert.Equal(t, 34, fb.Presents())
	ys := fb.onDraws()
	require.Len(t, ys, 34)
	assert.Equal(t, 0, ys[0])
	for i := 1; i <= 32; i++ {
		assert.Equal(t, -2*i, ys[i])
	}
	assert.Equal(t, -64, ys[33])

	require.Len(t, clock.sleeps, 34)
	assert.Equal(t, 500*time.Millisecond, clock.sleeps[0])
	assert.Equal(t, 5*time.Millisecond, clock.sleeps[1])
	assert.Equal(t, 500*time.Millisecond, clock.sleeps[33])

	// The final frame shows bitmap rows 64..127 and nothing else.
	img := fb.Image()
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			want := image1bit.Bit(x == (y+64)%128)
			if img.BitAt(x, y) != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, img.BitAt(x, y), want)
			}
		}
	}
}

func TestScrollRemainderRowByRow(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 127), &ScrollOpts{Step: 2}))

	ys := fb.onDraws()
	// 31 steps of 2 then 1 single row, plus the initial and final frames.
	require.Len(t, ys, 34)
	assert.Equal(t, -62, ys[31])
	assert.Equal(t, -63, ys[32])
	assert.Equal(t, -63, ys[33])
}

func TestScrollSnapToEnd(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 127), &ScrollOpts{Step: 2, SnapToEnd: true}))

	ys := fb.onDraws()
	// 31 steps of 2, then the final frame jumps the last row.
	require.Len(t, ys, 33)
	assert.Equal(t, -62, ys[31])
	assert.Equal(t, -63, ys[32])

	last := fb.draws[len(fb.draws)-2]
	assert.Equal(t, bitmapDraw{X: 0, Y: -62, Color: image1bit.Off}, last, "the snapped frame is erased first")
}

func TestScrollUp(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 128), &ScrollOpts{Step: -4, OffsetY: -64}))

	ys := fb.onDraws()
	require.Len(t, ys, 18)
	assert.Equal(t, -64, ys[0])
	assert.Equal(t, -60, ys[1])
	assert.Equal(t, 0, ys[16])
	assert.Equal(t, 0, ys[17])
}

func TestScrollNothingToDo(t *testing.T) {
	s, fb, clock, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 64), nil))

	assert.Equal(t, 2, fb.Presents(), "initial and final frame only")
	assert.Equal(t, []int{0, 0}, fb.onDraws())
	assert.Equal(t, []time.Duration{DefaultScrollOpts.InitialDelay, DefaultScrollOpts.EndDelay}, clock.sleeps)
}

func TestScrollShortBitmap(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 32), &ScrollOpts{Step: 1, OffsetY: 8}))

	assert.Equal(t, []int{8, 8}, fb.onDraws())
}

func TestScrollAllowOverflow(t *testing.T) {
	tests := []struct {
		name      string
		height    int
		opts      ScrollOpts
		wantSteps int
		wantFirst int
		wantLast  int
		wantErase bool // the last frame is erased before the jump to the target
	}{
		{"past the bitmap end", 128, ScrollOpts{Step: 1, End: 100, AllowOverflow: true}, 100, 0, -100, false},
		{"snapped past the end", 128, ScrollOpts{Step: 8, End: 100, AllowOverflow: true, SnapToEnd: true}, 12, 0, -100, true},
		{"short bitmap", 32, ScrollOpts{Step: 1, AllowOverflow: true}, 0, 0, 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fb, _, _ := newTestStage()

			require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, tt.height), &tt.opts))

			ys := fb.onDraws()
			require.Len(t, ys, tt.wantSteps+2, "initial frame, steps and final frame")
			assert.Equal(t, tt.wantFirst, ys[0])
			assert.Equal(t, tt.wantLast, ys[len(ys)-1])

			prev := fb.draws[len(fb.draws)-2]
			if tt.wantErase {
				assert.Equal(t, image1bit.Off, prev.Color)
				assert.Equal(t, ys[len(ys)-2], prev.Y)
			} else {
				assert.Equal(t, image1bit.On, prev.Color, "the last step already reached the target")
			}
		})
	}
}

func TestScrollShortBitmapOverflowFrame(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 32), &ScrollOpts{Step: 1, AllowOverflow: true}))

	// The bitmap sits at the bottom of the viewport and the top half is blank.
	img := fb.Image()
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			want := image1bit.Bit(y >= 32 && x == y-32)
			if img.BitAt(x, y) != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, img.BitAt(x, y), want)
			}
		}
	}
}

func TestScrollZeroStepMovesDown(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 66), &ScrollOpts{}))

	assert.Equal(t, []int{0, -1, -2, -2}, fb.onDraws())
}

func TestScrollNegativeDelaysTakeDefaults(t *testing.T) {
	s, _, clock, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), rowBitmap(128, 65), &ScrollOpts{
		Step:         1,
		InitialDelay: -1,
		StepDelay:    -1,
		EndDelay:     -1,
	}))

	assert.Equal(t, []time.Duration{500 * time.Millisecond, 5 * time.Millisecond, 500 * time.Millisecond}, clock.sleeps)
}

func TestScrollEmptyBitmap(t *testing.T) {
	s, fb, _, _ := newTestStage()

	require.NoError(t, s.Scroll(context.Background(), nil, nil))
	require.NoError(t, s.Scroll(context.Background(), image1bit.NewHorizontalMSB(image.Rectangle{}), nil))
	assert.Zero(t, fb.Presents())
}

func TestScrollCanceled(t *testing.T) {
	s, _, _, _ := newTestStage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Scroll(ctx, rowBitmap(128, 128), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "down", Down.String())
	assert.Equal(t, "up", Up.String())
}
