// Package fbdev shows a small monochrome frame on a Linux framebuffer device.
//
// Dev implements the periph.io display.Drawer interface, so a Canvas can
// present to /dev/fb0 exactly as it would to an SSD1306. Each logical pixel is
// scaled up by the largest whole factor that fits the screen and the result is
// centered.
package fbdev

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/ssd1306fx/image1bit"
	fb "github.com/gonutz/framebuffer"
)

// Opts is the configuration for a Dev.
type Opts struct {
	// Logical display dimensions in pixels (default: 128x64).
	W int
	H int

	// Colors for lit and unlit pixels (default: white on black).
	On  color.Color
	Off color.Color
}

// Dev is a logical monochrome display backed by a draw.Image, normally the
// Linux framebuffer.
type Dev struct {
	dst     draw.Image
	release func() // closes the device opened by Open

	rect   image.Rectangle
	scale  int
	origin image.Point

	on, off color.Color
	halted  bool
}

// Open opens the framebuffer device at path, e.g. "/dev/fb0".
// opts can be nil to use defaults.
func Open(path string, opts *Opts) (*Dev, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", path, err)
	}
	d := New(dev, opts)
	d.release = dev.Close
	return d, nil
}

// New creates a Dev drawing into dst. opts can be nil to use defaults.
func New(dst draw.Image, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	w, h := opts.W, opts.H
	if w <= 0 || h <= 0 {
		w, h = 128, 64
	}
	d := &Dev{
		dst:  dst,
		rect: image.Rect(0, 0, w, h),
		on:   opts.On,
		off:  opts.Off,
	}
	if d.on == nil {
		d.on = color.White
	}
	if d.off == nil {
		d.off = color.Black
	}

	// Largest whole scale that fits, centered
	bounds := dst.Bounds()
	d.scale = bounds.Dx() / w
	if s := bounds.Dy() / h; s < d.scale {
		d.scale = s
	}
	if d.scale < 1 {
		d.scale = 1
	}
	d.origin = image.Pt(
		bounds.Min.X+(bounds.Dx()-w*d.scale)/2,
		bounds.Min.Y+(bounds.Dy()-h*d.scale)/2,
	)
	return d
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the logical bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw copies the dstRect region of the logical display from src at sp,
// scaling every pixel into a block on the framebuffer.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("fbdev: halted")
	}
	off := sp.Sub(dstRect.Min)
	dstRect = dstRect.Intersect(d.rect)
	if dstRect.Empty() {
		return nil
	}
	for y := dstRect.Min.Y; y < dstRect.Max.Y; y++ {
		for x := dstRect.Min.X; x < dstRect.Max.X; x++ {
			c := d.off
			if image1bit.BitModel.Convert(src.At(x+off.X, y+off.Y)).(image1bit.Bit) {
				c = d.on
			}
			d.fillBlock(x, y, c)
		}
	}
	return nil
}

// fillBlock paints the framebuffer block of logical pixel (x, y).
func (d *Dev) fillBlock(x, y int, c color.Color) {
	x0 := d.origin.X + x*d.scale
	y0 := d.origin.Y + y*d.scale
	for py := y0; py < y0+d.scale; py++ {
		for px := x0; px < x0+d.scale; px++ {
			d.dst.Set(px, py, c)
		}
	}
}

// Halt blanks the display area and stops accepting draws.
func (d *Dev) Halt() error {
	for y := d.rect.Min.Y; y < d.rect.Max.Y; y++ {
		for x := d.rect.Min.X; x < d.rect.Max.X; x++ {
			d.fillBlock(x, y, d.off)
		}
	}
	d.halted = true
	return nil
}

// Close halts the display and releases the framebuffer device, if any.
func (d *Dev) Close() error {
	if !d.halted {
		_ = d.Halt()
	}
	if d.release != nil {
		d.release()
		d.release = nil
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("fbdev.Dev{%dx%d@%dx}", d.rect.Dx(), d.rect.Dy(), d.scale)
}
