package ssd1306fx

import (
	"context"
	"time"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// Direction is the way a scroll pans the bitmap.
type Direction int

const (
	// Down reveals rows further down the bitmap.
	Down Direction = iota
	// Up reveals rows further up the bitmap.
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ScrollOpts configures Stage.Scroll.
type ScrollOpts struct {
	// Bitmap placement on the frame for the first frame.
	OffsetX int
	OffsetY int

	// Step is the number of rows moved per frame. Positive scrolls down,
	// negative scrolls up. Zero is treated as 1.
	Step int

	// End marks where scrolling stops. Scrolling down it counts viewport
	// heights from the top (End rows past the first screen, <= 0 for the
	// bitmap's bottom); scrolling up it is the bitmap row left at the top.
	End int

	// SnapToEnd jumps to the end frame when the remaining distance is
	// shorter than Step. When false the last rows are crossed one at a time.
	SnapToEnd bool

	// AllowOverflow lets the viewport leave the bitmap's rows.
	AllowOverflow bool

	// Delays; negative values take the defaults.
	InitialDelay time.Duration
	StepDelay    time.Duration
	EndDelay     time.Duration
}

// DefaultScrollOpts are the options used when Scroll is given nil.
var DefaultScrollOpts = ScrollOpts{
	Step:         1,
	InitialDelay: 500 * time.Millisecond,
	StepDelay:    5 * time.Millisecond,
	EndDelay:     500 * time.Millisecond,
}

// ResolveEnd converts an End marker into the absolute bitmap row where the
// scroll stops: the row under the viewport's bottom edge when scrolling
// down, the row at its top edge when scrolling up.
func ResolveEnd(height, viewport, step, end int, allowOverflow bool) int {
	var endY int
	switch {
	case step > 0 && end <= 0:
		endY = height
	case step > 0 && end+viewport > height && !allowOverflow:
		endY = height
	case step > 0:
		endY = end + viewport
	case end+viewport > height && !allowOverflow:
		endY = height - viewport
	case end < 0 && !allowOverflow:
		endY = 0
	default:
		endY = end
	}
	if !allowOverflow {
		endY = clamp(endY, 0, height)
	}
	return endY
}

// ScrollState is the live position of a scroll.
//
// Rows are bitmap rows: CurrentY is the bitmap row shown at the top of the
// viewport, so the bitmap is drawn at y = -CurrentY.
type ScrollState struct {
	Bitmap        *image1bit.HorizontalMSB
	OffsetX       int
	CurrentY      int
	Direction     Direction
	Step          int
	EndY          int
	TargetY       int
	SnapToEnd     bool
	AllowOverflow bool
}

// NewScrollState resolves the end of a scroll of bmp within a viewport of the
// given height and returns the state positioned at the first frame.
func NewScrollState(bmp *image1bit.HorizontalMSB, viewport int, o ScrollOpts) *ScrollState {
	height := bmp.Bounds().Dy()
	step := o.Step
	if step == 0 {
		step = 1
	}

	s := &ScrollState{
		Bitmap:        bmp,
		OffsetX:       o.OffsetX,
		CurrentY:      -o.OffsetY,
		Step:          abs(step),
		SnapToEnd:     o.SnapToEnd,
		AllowOverflow: o.AllowOverflow,
		EndY:          ResolveEnd(height, viewport, step, o.End, o.AllowOverflow),
	}
	if step < 0 {
		s.Direction = Up
		s.TargetY = s.EndY
	} else {
		s.Direction = Down
		s.TargetY = s.EndY - viewport
	}
	// A bitmap shorter than the viewport has nowhere to go without overflow.
	if !o.AllowOverflow && height < viewport {
		s.TargetY = s.CurrentY
	}
	return s
}

// Remaining returns how many rows are left before the target, zero once
// reached or passed.
func (s *ScrollState) Remaining() int {
	var r int
	if s.Direction == Down {
		r = s.TargetY - s.CurrentY
	} else {
		r = s.CurrentY - s.TargetY
	}
	if r < 0 {
		return 0
	}
	return r
}

// Advance moves one frame toward the target and reports whether it moved. A
// remaining distance shorter than Step is crossed one row at a time, or not at
// all when SnapToEnd is set.
func (s *ScrollState) Advance() bool {
	rem := s.Remaining()
	var delta int
	switch {
	case rem <= 0:
		return false
	case rem >= s.Step:
		delta = s.Step
	case !s.SnapToEnd:
		delta = 1
	default:
		return false
	}
	if s.Direction == Up {
		delta = -delta
	}
	s.CurrentY += delta
	return true
}

// Scroll draws bmp, then pans it vertically frame by frame until the resolved
// end, and always finishes with one frame exactly at the end.
//
// The bitmap is erased by redrawing its lit pixels Off before every move, so
// anything else drawn under it is erased with it. opts can be nil to use
// DefaultScrollOpts. The only error returned is ctx.Err().
func (s *Stage) Scroll(ctx context.Context, bmp *image1bit.HorizontalMSB, opts *ScrollOpts) error {
	logger := s.logger.With("component", "scroll")
	if bmp == nil || bmp.Bounds().Empty() {
		logger.Warn("scroll of empty bitmap ignored")
		return nil
	}
	if opts == nil {
		opts = &DefaultScrollOpts
	}
	o := *opts
	if o.Step == 0 {
		logger.Warn("zero scroll step, using 1")
		o.Step = 1
	}
	o.InitialDelay = orDefault(o.InitialDelay, DefaultScrollOpts.InitialDelay)
	o.StepDelay = orDefault(o.StepDelay, DefaultScrollOpts.StepDelay)
	o.EndDelay = orDefault(o.EndDelay, DefaultScrollOpts.EndDelay)

	st := NewScrollState(bmp, s.viewport, o)
	logger.Debug("scroll",
		"direction", st.Direction,
		"height", bmp.Bounds().Dy(),
		"end_y", st.EndY,
		"from", st.CurrentY,
		"to", st.TargetY)

	s.fb.DrawBitmap(st.OffsetX, -st.CurrentY, bmp, image1bit.On)
	if err := s.present(ctx, o.InitialDelay); err != nil {
		return err
	}

	steps := 0
	for {
		prev := st.CurrentY
		if !st.Advance() {
			break
		}
		s.fb.DrawBitmap(st.OffsetX, -prev, bmp, image1bit.Off)
		s.fb.DrawBitmap(st.OffsetX, -st.CurrentY, bmp, image1bit.On)
		steps++
		if err := s.present(ctx, o.StepDelay); err != nil {
			return err
		}
	}

	if st.CurrentY != st.TargetY {
		s.fb.DrawBitmap(st.OffsetX, -st.CurrentY, bmp, image1bit.Off)
		st.CurrentY = st.TargetY
	}
	s.fb.DrawBitmap(st.OffsetX, -st.CurrentY, bmp, image1bit.On)
	logger.Debug("scroll done", "steps", steps, "top", st.CurrentY)
	return s.present(ctx, o.EndDelay)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
