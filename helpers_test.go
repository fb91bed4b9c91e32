package ssd1306fx

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	start  time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	t := time.Unix(1700000000, 0)
	return &fakeClock{now: t, start: t}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) elapsed() time.Duration { return c.now.Sub(c.start) }

// scriptInput fires once it has been polled more than firesAfter times since
// the last Clear.
type scriptInput struct {
	firesAfter int
	polls      int
	clears     int
	consumes   int
}

func (in *scriptInput) HasEvent() bool {
	in.polls++
	return in.polls > in.firesAfter
}

func (in *scriptInput) Consume() { in.consumes++ }

func (in *scriptInput) Clear() {
	in.clears++
	in.polls = 0
}

// neverInput never fires.
type neverInput struct{ clears int }

func (*neverInput) HasEvent() bool { return false }
func (*neverInput) Consume()       {}
func (in *neverInput) Clear()      { in.clears++ }

// bitmapDraw is one recorded DrawBitmap call.
type bitmapDraw struct {
	X, Y  int
	Color image1bit.Bit
}

// recorder is a Canvas that also records what the engines asked of it.
type recorder struct {
	*Canvas
	draws  []bitmapDraw
	text   strings.Builder
	events []string
}

func newRecorder() *recorder {
	return &recorder{Canvas: NewCanvas(nil, nil)}
}

func (r *recorder) DrawBitmap(x, y int, bmp *image1bit.HorizontalMSB, c image1bit.Bit) {
	r.draws = append(r.draws, bitmapDraw{X: x, Y: y, Color: c})
	r.Canvas.DrawBitmap(x, y, bmp, c)
}

func (r *recorder) WriteRune(c rune) {
	r.text.WriteRune(c)
	r.events = append(r.events, "write:"+string(c))
	r.Canvas.WriteRune(c)
}

func (r *recorder) WriteString(s string) {
	for _, c := range textRunes(s) {
		r.WriteRune(c)
	}
}

func (r *recorder) Present() {
	r.events = append(r.events, "present")
	r.Canvas.Present()
}

// onDraws returns the y positions of the lit DrawBitmap calls.
func (r *recorder) onDraws() []int {
	var ys []int
	for _, d := range r.draws {
		if d.Color == image1bit.On {
			ys = append(ys, d.Y)
		}
	}
	return ys
}

// countingConfirmer records every confirm request instead of waiting.
type countingConfirmer struct {
	fb       *recorder
	requests []ConfirmRequest
	// textAt is the text written before each confirm.
	textAt []string
}

func (c *countingConfirmer) Wait(ctx context.Context, req ConfirmRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.requests = append(c.requests, req)
	if c.fb != nil {
		c.textAt = append(c.textAt, c.fb.text.String())
		c.fb.events = append(c.fb.events, "confirm")
	}
	return nil
}

// fakeDrawer is a display.Drawer recording every Draw.
type fakeDrawer struct {
	rect   image.Rectangle
	draws  []image.Rectangle
	fail   bool
	halted bool
}

func (d *fakeDrawer) String() string { return "fake" }

func (d *fakeDrawer) Halt() error {
	d.halted = true
	return nil
}

func (d *fakeDrawer) ColorModel() color.Model { return image1bit.BitModel }

func (d *fakeDrawer) Bounds() image.Rectangle { return d.rect }

func (d *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.fail {
		return errors.New("bus error")
	}
	d.draws = append(d.draws, r)
	return nil
}

// newTestStage returns a Stage on a recorder with a fake clock and a
// counting confirmer.
func newTestStage() (*Stage, *recorder, *fakeClock, *countingConfirmer) {
	fb := newRecorder()
	clock := newFakeClock()
	s := NewStage(fb, nil, &Opts{Clock: clock})
	c := &countingConfirmer{fb: fb}
	s.confirm = c
	return s, fb, clock, c
}

// countLit returns the number of lit pixels of img inside r.
func countLit(img *image1bit.HorizontalMSB, r image.Rectangle) int {
	n := 0
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.BitAt(x, y) {
				n++
			}
		}
	}
	return n
}
