package image1bit

import (
	"errors"
	"image"
	"image/color"
)

// Bit represents a monochrome pixel: On is lit, Off is dark.
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA (white or black).
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// String returns "On" or "Off".
func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Off
	}
	// Same luma weights as the grayscale models, thresholded at half scale
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// ErrShortBuffer is returned by FromBytes when pix holds fewer bytes than
// the declared dimensions need.
var ErrShortBuffer = errors.New("image1bit: pixel buffer too short for dimensions")

// HorizontalMSB is a 1-bit image stored row-major, 8 pixels per byte, MSB first.
type HorizontalMSB struct {
	Pix    []byte          // Pixel data (8 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewHorizontalMSB creates a new blank HorizontalMSB image with the specified bounds.
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &HorizontalMSB{Rect: r}
	}
	stride := (w + 7) / 8
	return &HorizontalMSB{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// FromBytes wraps a raw packed asset of w×h pixels. The slice is not copied.
//
// Non-positive dimensions yield an empty image rather than an error.
func FromBytes(pix []byte, w, h int) (*HorizontalMSB, error) {
	if w <= 0 || h <= 0 {
		return &HorizontalMSB{}, nil
	}
	stride := (w + 7) / 8
	if len(pix) < stride*h {
		return nil, ErrShortBuffer
	}
	return &HorizontalMSB{
		Pix:    pix[:stride*h],
		Stride: stride,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// ColorModel returns the color model of the image.
func (p *HorizontalMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *HorizontalMSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *HorizontalMSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit of the pixel at (x, y). Pixels outside the bounds are Off.
func (p *HorizontalMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.pixOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set sets the color of the pixel at (x, y).
func (p *HorizontalMSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the pixel at (x, y) without color conversion.
func (p *HorizontalMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Fill sets every pixel in the image to b.
func (p *HorizontalMSB) Fill(b Bit) {
	v := byte(0)
	if b {
		v = 0xFF
	}
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// Bit 7 of each byte is the leftmost of its eight pixels.
func (p *HorizontalMSB) pixOffset(x, y int) (offset int, mask byte) {
	dx := x - p.Rect.Min.X
	offset = (y-p.Rect.Min.Y)*p.Stride + dx/8
	mask = 0x80 >> uint(dx&7)
	return
}
