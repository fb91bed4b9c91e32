package ssd1306fx

import (
	"context"
	"image"
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Opts is the configuration for a Stage.
type Opts struct {
	// Clock drives every delay. Defaults to SystemClock.
	Clock Clock

	// Logger receives debug traces and present failures. Defaults to discarding.
	Logger *slog.Logger

	// Viewport is the height of the scroll window in pixels (default: 64).
	Viewport int

	// Dialog layout: the header line is drawn at HeaderTop and the dialog body
	// starts at DialogTop (default: 0 and 16).
	HeaderTop int
	DialogTop int

	// Confirm indicator; see GateOpts.
	IndicatorText string
	IndicatorPos  *image.Point
	BlinkPeriod   time.Duration
	PollInterval  time.Duration
}

// Stage runs scrolls, dialog reveals, confirms and transitions on a FrameBuffer.
//
// A Stage only holds the handles it was built with; all animation state lives
// for the duration of a single call. Calls must not overlap: a Stage, its
// FrameBuffer and its Input belong to one caller at a time.
type Stage struct {
	fb      FrameBuffer
	clock   Clock
	gate    *Gate
	confirm Confirmer
	logger  *slog.Logger

	viewport  int
	headerTop int
	dialogTop int
}

// NewStage creates a Stage drawing on fb and confirming with in.
//
// in may be nil, in which case only timed confirms ever return.
// opts can be nil to use defaults.
func NewStage(fb FrameBuffer, in Input, opts *Opts) *Stage {
	if opts == nil {
		opts = &Opts{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}

	s := &Stage{
		fb:        fb,
		clock:     clock,
		logger:    logger,
		viewport:  opts.Viewport,
		headerTop: opts.HeaderTop,
		dialogTop: opts.DialogTop,
	}
	if s.viewport <= 0 {
		s.viewport = 64
	}
	if s.dialogTop <= 0 {
		s.dialogTop = 16
	}
	if s.headerTop < 0 || s.headerTop >= s.dialogTop {
		s.headerTop = 0
	}

	s.gate = NewGate(fb, in, &GateOpts{
		Clock:         clock,
		Logger:        logger,
		IndicatorText: opts.IndicatorText,
		IndicatorPos:  opts.IndicatorPos,
		BlinkPeriod:   opts.BlinkPeriod,
		PollInterval:  opts.PollInterval,
	})
	s.confirm = s.gate
	return s
}

// Gate returns the confirm gate used by Reveal and Confirm.
func (s *Stage) Gate() *Gate {
	return s.gate
}

// Confirm blocks until input or, when req.Timeout is positive, the timeout.
func (s *Stage) Confirm(ctx context.Context, req ConfirmRequest) error {
	return s.confirm.Wait(ctx, req)
}

func (s *Stage) sleep(ctx context.Context, d time.Duration) error {
	return s.clock.Sleep(ctx, d)
}

// present flushes the frame and holds it for d.
func (s *Stage) present(ctx context.Context, d time.Duration) error {
	s.fb.Present()
	return s.sleep(ctx, d)
}

// orDefault normalizes a negative duration to def.
func orDefault(d, def time.Duration) time.Duration {
	if d < 0 {
		return def
	}
	return d
}
