package ssd1306fx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"unicode/utf8"

	"github.com/flavioheleno/ssd1306fx/image1bit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
)

var errHalted = errors.New("ssd1306fx: canvas halted")

// CanvasOpts is the configuration for a Canvas.
type CanvasOpts struct {
	// Frame dimensions in pixels. Zero takes the output's bounds, or 128x64
	// when there is no output.
	W int
	H int

	// Face renders text. Defaults to basicfont.Face7x13.
	Face font.Face

	// NoWrap disables wrapping text onto the next line at the right edge.
	NoWrap bool

	Logger *slog.Logger
}

// Canvas is an in-memory 1-bit FrameBuffer that presents to a periph.io
// display.Drawer, such as an ssd1306.Dev.
//
// Present sends only the smallest byte-aligned rectangle that changed since
// the previous Present.
type Canvas struct {
	out  display.Drawer
	rect image.Rectangle

	// Pixel buffers
	img  *image1bit.HorizontalMSB // Frame being drawn
	last *image1bit.HorizontalMSB // Last presented frame for differential updates

	// Text state
	face       font.Face
	ascent     int
	lineHeight int
	wrap       bool
	cursor     image.Point
	textColor  image1bit.Bit

	// State
	synced   bool // last mirrors what out shows
	halted   bool
	presents int

	logger *slog.Logger
}

// NewCanvas creates a Canvas presenting to out. out may be nil, in which case
// Present only records the frame.
func NewCanvas(out display.Drawer, opts *CanvasOpts) *Canvas {
	if opts == nil {
		opts = &CanvasOpts{}
	}

	w, h := opts.W, opts.H
	if w <= 0 || h <= 0 {
		w, h = 128, 64
		if out != nil {
			b := out.Bounds()
			w, h = b.Dx(), b.Dy()
		}
	}

	face := opts.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	metrics := face.Metrics()

	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}

	rect := image.Rect(0, 0, w, h)
	c := &Canvas{
		out:        out,
		rect:       rect,
		img:        image1bit.NewHorizontalMSB(rect),
		last:       image1bit.NewHorizontalMSB(rect),
		face:       face,
		ascent:     metrics.Ascent.Ceil(),
		lineHeight: metrics.Height.Ceil(),
		wrap:       !opts.NoWrap,
		textColor:  image1bit.On,
		logger:     logger.With("component", "canvas"),
	}
	if c.lineHeight <= 0 {
		c.lineHeight = c.ascent + metrics.Descent.Ceil()
	}
	return c
}

// Bounds returns the frame bounds.
func (c *Canvas) Bounds() image.Rectangle {
	return c.rect
}

// ColorModel returns the color model of the frame.
func (c *Canvas) ColorModel() color.Model {
	return image1bit.BitModel
}

// Image returns the frame being drawn. It is live: later drawing calls change it.
func (c *Canvas) Image() *image1bit.HorizontalMSB {
	return c.img
}

// Presents returns how many times Present was called.
func (c *Canvas) Presents() int {
	return c.presents
}

// Clear sets every pixel Off.
func (c *Canvas) Clear() {
	c.img.Fill(image1bit.Off)
}

// SetPixel sets a single pixel; out-of-bounds coordinates are ignored.
func (c *Canvas) SetPixel(x, y int, b image1bit.Bit) {
	c.img.SetBit(x, y, b)
}

// DrawLine draws a line between both end points, inclusive.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, b image1bit.Bit) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.img.SetBit(x0, y0, b)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FillRect fills r, clipped to the frame.
func (c *Canvas) FillRect(r image.Rectangle, b image1bit.Bit) {
	r = r.Canon().Intersect(c.rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.img.SetBit(x, y, b)
		}
	}
}

// DrawBitmap paints the lit pixels of bmp in color b at (x, y).
func (c *Canvas) DrawBitmap(x, y int, bmp *image1bit.HorizontalMSB, b image1bit.Bit) {
	if bmp == nil {
		return
	}
	src := bmp.Bounds()
	// Only visit the part of the bitmap that lands on the frame
	vis := src.Add(image.Pt(x, y).Sub(src.Min)).Intersect(c.rect)
	for dy := vis.Min.Y; dy < vis.Max.Y; dy++ {
		sy := dy - y + src.Min.Y
		for dx := vis.Min.X; dx < vis.Max.X; dx++ {
			if bmp.BitAt(dx-x+src.Min.X, sy) {
				c.img.SetBit(dx, dy, b)
			}
		}
	}
}

// SetCursor moves the text cursor. p is the top-left corner of the next glyph cell.
func (c *Canvas) SetCursor(p image.Point) {
	c.cursor = p
}

// Cursor returns the text cursor.
func (c *Canvas) Cursor() image.Point {
	return c.cursor
}

// SetTextColor sets the color used by WriteRune and WriteString.
func (c *Canvas) SetTextColor(b image1bit.Bit) {
	c.textColor = b
}

// TextColor returns the current text color.
func (c *Canvas) TextColor() image1bit.Bit {
	return c.textColor
}

// WriteRune draws r at the cursor with a transparent background and advances
// the cursor, wrapping at the right edge unless wrapping is disabled.
func (c *Canvas) WriteRune(r rune) {
	switch r {
	case '\n':
		c.newline()
		return
	case '\r':
		return
	}

	adv, ok := c.face.GlyphAdvance(r)
	if !ok {
		adv, _ = c.face.GlyphAdvance(fallbackGlyph)
	}
	width := adv.Ceil()
	if c.wrap && c.cursor.X > c.rect.Min.X && c.cursor.X+width > c.rect.Max.X {
		c.newline()
	}

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.textColor),
		Face: c.face,
		Dot:  fixed.P(c.cursor.X, c.cursor.Y+c.ascent),
	}
	d.DrawString(string(r))
	c.cursor.X += width
}

// WriteString writes every character of s. Each byte that is not part of
// valid UTF-8 is written as one '?'.
func (c *Canvas) WriteString(s string) {
	for _, r := range textRunes(s) {
		c.WriteRune(r)
	}
}

// fallbackGlyph stands in for bytes and runes the face cannot draw.
const fallbackGlyph = '?'

// textRunes decodes s one character at a time, mapping every invalid byte to
// its own fallbackGlyph.
func textRunes(s string) []rune {
	runes := make([]rune, 0, len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			r = fallbackGlyph
		}
		runes = append(runes, r)
		s = s[size:]
	}
	return runes
}

// GlyphWidth returns the advance of s in pixels with the canvas face.
func (c *Canvas) GlyphWidth(s string) int {
	return font.MeasureString(c.face, s).Ceil()
}

// LineHeight returns the vertical advance of one text line.
func (c *Canvas) LineHeight() int {
	return c.lineHeight
}

func (c *Canvas) newline() {
	c.cursor.X = c.rect.Min.X
	c.cursor.Y += c.lineHeight
}

// Present flushes the frame to the output. Output errors are logged and
// otherwise ignored so an unattended display loop keeps running.
func (c *Canvas) Present() {
	c.presents++
	if err := c.flush(); err != nil {
		c.logger.Warn("present failed", "err", err)
	}
}

// flush sends the changed region of the frame to the output.
func (c *Canvas) flush() error {
	if c.halted {
		return errHalted
	}
	if c.out == nil {
		copy(c.last.Pix, c.img.Pix)
		return nil
	}

	dirty := c.rect
	if c.synced {
		dirty = c.calculateDiff()
		if dirty.Empty() {
			return nil
		}
	}

	if err := c.out.Draw(dirty, c.img, dirty.Min); err != nil {
		c.synced = false
		return fmt.Errorf("ssd1306fx: draw %v: %w", dirty, err)
	}
	copy(c.last.Pix, c.img.Pix)
	c.synced = true
	return nil
}

// calculateDiff compares the current and last presented frames and returns the
// minimal byte-aligned rectangle containing every change. It is empty when
// nothing changed.
func (c *Canvas) calculateDiff() image.Rectangle {
	width := c.rect.Dx()
	height := c.rect.Dy()
	stride := c.img.Stride

	minRow, maxRow := height, -1
	minCol, maxCol := width, -1

	for y := 0; y < height; y++ {
		rowStart := y * stride
		rowEnd := rowStart + stride

		if bytes.Equal(c.last.Pix[rowStart:rowEnd], c.img.Pix[rowStart:rowEnd]) {
			continue
		}
		if y < minRow {
			minRow = y
		}
		if y > maxRow {
			maxRow = y
		}

		// Each byte covers 8 pixels
		for x := 0; x < stride; x++ {
			if c.last.Pix[rowStart+x] != c.img.Pix[rowStart+x] {
				if x*8 < minCol {
					minCol = x * 8
				}
				if x*8+7 > maxCol {
					maxCol = x*8 + 7
				}
			}
		}
	}

	if maxRow < 0 {
		return image.Rectangle{}
	}
	if maxCol > width-1 {
		maxCol = width - 1
	}
	return image.Rect(minCol, minRow, maxCol+1, maxRow+1).Add(c.rect.Min)
}

// Halt stops presenting and halts the output.
// After calling Halt, Present logs an error instead of drawing.
func (c *Canvas) Halt() error {
	c.halted = true
	if c.out == nil {
		return nil
	}
	return c.out.Halt()
}

// String returns a string representation of the canvas.
func (c *Canvas) String() string {
	return fmt.Sprintf("ssd1306fx.Canvas{%dx%d}", c.rect.Dx(), c.rect.Dy())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
