package ssd1306fx

import (
	"context"
	"image"
	"time"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// Recommended transition timings, used for negative arguments.
const (
	defaultFadeDelay     = 50 * time.Millisecond
	defaultFadeInHold    = 500 * time.Millisecond
	defaultFillLineDelay = 5 * time.Millisecond
)

// FillSlow lights the whole frame in three interlaced passes (even rows, even
// columns, odd rows), presenting after every line. Useful to spot dead pixels.
func (s *Stage) FillSlow(ctx context.Context) error {
	b := s.fb.Bounds()
	s.fb.Clear()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		s.hline(y, image1bit.On)
		if err := s.present(ctx, defaultFillLineDelay); err != nil {
			return err
		}
	}
	for x := b.Min.X; x < b.Max.X; x += 2 {
		s.vline(x, image1bit.On)
		if err := s.present(ctx, defaultFillLineDelay); err != nil {
			return err
		}
	}
	for y := b.Min.Y + 1; y < b.Max.Y; y += 2 {
		s.hline(y, image1bit.On)
		if err := s.present(ctx, defaultFillLineDelay); err != nil {
			return err
		}
	}
	return nil
}

// FillFast lights the whole frame at once.
func (s *Stage) FillFast() {
	s.fb.FillRect(s.fb.Bounds(), image1bit.On)
	s.fb.Present()
}

// FadeGrid fades the frame to c in three checkerboard-style steps of delay
// each. Fading Off ends with a cleared frame.
func (s *Stage) FadeGrid(ctx context.Context, delay time.Duration, c image1bit.Bit) error {
	delay = orDefault(delay, defaultFadeDelay)
	b := s.fb.Bounds()

	for x := b.Min.X; x < b.Max.X; x += 2 {
		s.vline(x, c)
	}
	if err := s.present(ctx, delay); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		s.hline(y, c)
	}
	if err := s.present(ctx, delay); err != nil {
		return err
	}
	for x := b.Min.X + 1; x < b.Max.X; x += 2 {
		s.vline(x, c)
	}
	if err := s.present(ctx, delay); err != nil {
		return err
	}
	return s.finishFade(ctx, delay, c)
}

// FadeCross fades the frame to c in two steps of interleaved diagonals.
func (s *Stage) FadeCross(ctx context.Context, delay time.Duration, c image1bit.Bit) error {
	delay = orDefault(delay, defaultFadeDelay)
	for pass := 0; pass < 2; pass++ {
		s.diagonals(pass, 2, c)
		if err := s.present(ctx, delay); err != nil {
			return err
		}
	}
	return s.finishFade(ctx, delay, c)
}

// FadeVertical fades the frame to c like vertical blinds: cycles passes each
// drawing every cycles-th column, spread over total. cycles <= 0 takes 4 and
// a negative total takes 10ms per cycle.
func (s *Stage) FadeVertical(ctx context.Context, cycles int, total time.Duration, c image1bit.Bit) error {
	if cycles <= 0 {
		cycles = 4
	}
	total = orDefault(total, time.Duration(cycles)*10*time.Millisecond)
	b := s.fb.Bounds()
	return s.blinds(ctx, cycles, total, c, func(i int) {
		for x := b.Min.X + i; x < b.Max.X; x += cycles {
			s.vline(x, c)
		}
	})
}

// FadeHorizontal fades the frame to c like horizontal blinds. cycles <= 0
// takes 3 and a negative total takes 10ms per cycle.
func (s *Stage) FadeHorizontal(ctx context.Context, cycles int, total time.Duration, c image1bit.Bit) error {
	if cycles <= 0 {
		cycles = 3
	}
	total = orDefault(total, time.Duration(cycles)*10*time.Millisecond)
	b := s.fb.Bounds()
	return s.blinds(ctx, cycles, total, c, func(i int) {
		for y := b.Min.Y + i; y < b.Max.Y; y += cycles {
			s.hline(y, c)
		}
	})
}

// FadeDiagonal fades the frame to c with diagonal blinds. cycles <= 0 takes 4
// and a negative total takes 25ms per cycle.
func (s *Stage) FadeDiagonal(ctx context.Context, cycles int, total time.Duration, c image1bit.Bit) error {
	if cycles <= 0 {
		cycles = 4
	}
	total = orDefault(total, time.Duration(cycles)*25*time.Millisecond)
	return s.blinds(ctx, cycles, total, c, func(i int) {
		s.diagonals(i, cycles, c)
	})
}

// FadeInGridBitmap fades the frame to On with FadeGrid, holds for hold, then
// reveals bmp at (x, y) while the grid is removed in three steps.
func (s *Stage) FadeInGridBitmap(ctx context.Context, delay, hold time.Duration, x, y int, bmp *image1bit.HorizontalMSB) error {
	delay = orDefault(delay, defaultFadeDelay)
	hold = orDefault(hold, defaultFadeInHold)
	if err := s.FadeGrid(ctx, delay, image1bit.On); err != nil {
		return err
	}
	if err := s.sleep(ctx, hold); err != nil {
		return err
	}

	b := s.fb.Bounds()
	steps := []func(){
		func() {
			for i := b.Min.X; i < b.Max.X; i += 2 {
				s.vline(i, image1bit.Off)
			}
		},
		func() {
			for i := b.Min.Y; i < b.Max.Y; i += 2 {
				s.hline(i, image1bit.Off)
			}
		},
		func() {
			for i := b.Min.Y + 1; i < b.Max.Y; i += 2 {
				s.hline(i, image1bit.Off)
			}
		},
	}
	for _, step := range steps {
		step()
		s.fb.DrawBitmap(x, y, bmp, image1bit.On)
		if err := s.present(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// blinds runs cycles passes of draw and spreads total evenly across them.
func (s *Stage) blinds(ctx context.Context, cycles int, total time.Duration, c image1bit.Bit, draw func(i int)) error {
	per := total / time.Duration(cycles)
	for i := 0; i < cycles; i++ {
		draw(i)
		if err := s.present(ctx, per); err != nil {
			return err
		}
	}
	return s.finishFade(ctx, per, c)
}

// finishFade clears the frame after a fade to Off.
func (s *Stage) finishFade(ctx context.Context, delay time.Duration, c image1bit.Bit) error {
	if c {
		return nil
	}
	s.fb.Clear()
	return s.present(ctx, delay)
}

// diagonals draws the anti-diagonals x+y = k for k = first, first+every, ...
func (s *Stage) diagonals(first, every int, c image1bit.Bit) {
	b := s.fb.Bounds()
	for k := first; k < b.Dx()+b.Dy(); k += every {
		s.fb.DrawLine(b.Min.X, b.Min.Y+k, b.Min.X+k, b.Min.Y, c)
	}
}

func (s *Stage) hline(y int, c image1bit.Bit) {
	b := s.fb.Bounds()
	s.fb.FillRect(image.Rect(b.Min.X, y, b.Max.X, y+1), c)
}

func (s *Stage) vline(x int, c image1bit.Bit) {
	b := s.fb.Bounds()
	s.fb.FillRect(image.Rect(x, b.Min.Y, x+1, b.Max.Y), c)
}
