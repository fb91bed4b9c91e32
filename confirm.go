package ssd1306fx

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// ConfirmRequest describes one click-to-confirm wait.
type ConfirmRequest struct {
	// Timeout ends the wait without input once elapsed. Zero or negative
	// waits for input only.
	Timeout time.Duration
}

// Confirmer blocks until the user acknowledges or the request times out.
type Confirmer interface {
	Wait(ctx context.Context, req ConfirmRequest) error
}

// GateOpts is the configuration for a Gate.
type GateOpts struct {
	Clock  Clock
	Logger *slog.Logger

	// IndicatorText blinks while waiting (default: ">>").
	IndicatorText string
	// IndicatorPos is the top-left corner of the indicator. Nil places it
	// flush against the top-right corner of the frame.
	IndicatorPos *image.Point
	// BlinkPeriod is the time between indicator toggles (default: 500ms).
	BlinkPeriod time.Duration
	// PollInterval is the sleep between input polls in Wait (default: 1ms).
	PollInterval time.Duration
}

// Gate is the click-to-confirm primitive: it blinks an indicator until an
// Input event arrives or an optional timeout passes.
//
// A Gate waiting for input only, with no Input or an Input that never fires,
// never returns on its own; cancel ctx to abandon it.
type Gate struct {
	fb     FrameBuffer
	in     Input
	clock  Clock
	logger *slog.Logger

	text   string
	pos    *image.Point
	period time.Duration
	poll   time.Duration
}

// NewGate creates a Gate drawing its indicator on fb and polling in.
// opts can be nil to use defaults.
func NewGate(fb FrameBuffer, in Input, opts *GateOpts) *Gate {
	if opts == nil {
		opts = &GateOpts{}
	}
	g := &Gate{
		fb:     fb,
		in:     in,
		clock:  opts.Clock,
		text:   opts.IndicatorText,
		pos:    opts.IndicatorPos,
		period: opts.BlinkPeriod,
		poll:   opts.PollInterval,
	}
	if g.clock == nil {
		g.clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	g.logger = logger.With("component", "confirm")
	if g.text == "" {
		g.text = ">>"
	}
	if g.period <= 0 {
		g.period = 500 * time.Millisecond
	}
	if g.poll <= 0 {
		g.poll = time.Millisecond
	}
	return g
}

// Wait blocks until Input fires or req.Timeout elapses, sleeping PollInterval
// between polls. If ctx is done first the indicator is still cleared and the
// caller's cursor restored before ctx.Err() is returned.
func (g *Gate) Wait(ctx context.Context, req ConfirmRequest) error {
	p := g.Begin(req)
	var err error
	for !p.Step() {
		if err = g.clock.Sleep(ctx, g.poll); err != nil {
			break
		}
	}
	p.Finish()
	return err
}

// Begin starts a wait that the caller drives with Step and ends with Finish.
// It drops any stale input and saves the caller's cursor and text color.
func (g *Gate) Begin(req ConfirmRequest) *Pending {
	if g.in != nil {
		g.in.Clear()
	} else if req.Timeout <= 0 {
		g.logger.Warn("confirm without input or timeout cannot end")
	}
	now := g.clock.Now()
	g.logger.Debug("confirm begin", "timeout", req.Timeout)
	return &Pending{
		g:          g,
		req:        req,
		start:      now,
		lastToggle: now,
		cursor:     g.fb.Cursor(),
		color:      g.fb.TextColor(),
	}
}

// indicatorPos returns where the indicator is drawn.
func (g *Gate) indicatorPos() image.Point {
	if g.pos != nil {
		return *g.pos
	}
	b := g.fb.Bounds()
	return image.Pt(b.Max.X-textWidth(g.fb, g.text), b.Min.Y)
}

func (g *Gate) drawIndicator(on bool) {
	g.fb.SetCursor(g.indicatorPos())
	g.fb.SetTextColor(image1bit.Bit(on))
	g.fb.WriteString(g.text)
}

// Pending is a confirm wait in progress.
type Pending struct {
	g          *Gate
	req        ConfirmRequest
	start      time.Time
	lastToggle time.Time
	on         bool
	done       bool
	timedOut   bool

	cursor image.Point
	color  image1bit.Bit
}

// Step polls once. It returns true when the wait is over: an input event was
// consumed, or the timeout elapsed. Between those it toggles the indicator
// every BlinkPeriod.
func (p *Pending) Step() bool {
	if p.done {
		return true
	}
	g := p.g
	if g.in != nil && g.in.HasEvent() {
		g.in.Consume()
		p.done = true
		return true
	}

	now := g.clock.Now()
	if p.req.Timeout > 0 && now.Sub(p.start) >= p.req.Timeout {
		p.done = true
		p.timedOut = true
		return true
	}

	if now.Sub(p.lastToggle) > g.period {
		p.lastToggle = now
		p.on = !p.on
		g.drawIndicator(p.on)
		g.fb.Present()
	}
	return false
}

// TimedOut reports whether the wait ended by timeout rather than input.
func (p *Pending) TimedOut() bool {
	return p.timedOut
}

// Finish clears the indicator, drops residual input and restores the caller's
// cursor and text color.
func (p *Pending) Finish() {
	g := p.g
	g.drawIndicator(false)
	g.fb.Present()
	if g.in != nil {
		g.in.Clear()
	}
	g.fb.SetCursor(p.cursor)
	g.fb.SetTextColor(p.color)
	g.logger.Debug("confirm done", "timed_out", p.timedOut, "elapsed", g.clock.Now().Sub(p.start))
}

// textWidth measures s on fb, falling back to a 6px cell per rune.
func textWidth(fb FrameBuffer, s string) int {
	if m, ok := fb.(interface{ GlyphWidth(string) int }); ok {
		return m.GlyphWidth(s)
	}
	return 6 * len([]rune(s))
}
