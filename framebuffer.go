package ssd1306fx

import (
	"image"

	"github.com/flavioheleno/ssd1306fx/image1bit"
)

// FrameBuffer is the drawing surface the engines render into.
//
// Coordinates have their origin at the top-left. Drawing calls only touch the
// in-memory frame; nothing reaches the panel until Present is called.
type FrameBuffer interface {
	Bounds() image.Rectangle
	Clear()
	SetPixel(x, y int, c image1bit.Bit)
	DrawLine(x0, y0, x1, y1 int, c image1bit.Bit)
	FillRect(r image.Rectangle, c image1bit.Bit)
	// DrawBitmap paints the lit pixels of bmp in color c with its top-left
	// corner at (x, y). Unlit bitmap pixels leave the frame untouched.
	DrawBitmap(x, y int, bmp *image1bit.HorizontalMSB, c image1bit.Bit)

	SetCursor(p image.Point)
	Cursor() image.Point
	SetTextColor(c image1bit.Bit)
	TextColor() image1bit.Bit
	WriteRune(r rune)
	WriteString(s string)

	Present()
}
