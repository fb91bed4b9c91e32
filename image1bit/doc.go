// Package image1bit provides a 1-bit monochrome image format for SSD1306 class displays.
//
// Pixels are stored row-major, eight horizontal pixels per byte, with the most
// significant bit holding the leftmost pixel. Each row starts on a byte
// boundary, so the row stride is ceil(width/8). This is the layout produced by
// the common image-to-byte-array converters used for OLED assets, so raw asset
// bytes can be wrapped without conversion.
//
// Memory layout example for a 10-pixel row:
//
//	Pixels: 0 1 2 3 4 5 6 7 | 8 9
//	Values: 1 0 1 1 0 0 0 1 | 1 1
//	Bytes:  0xB1              0xC0
//
// This package provides:
//
// - Bit: A color type representing a lit or unlit pixel
// - BitModel: A color model for converting standard Go colors to Bit
// - HorizontalMSB: An image.Image implementation with the packed layout above
//
// Example usage:
//
//	// Wrap a 128x128 asset
//	bmp, err := image1bit.FromBytes(assetBytes, 128, 128)
//
//	// Create a blank 128x64 canvas
//	img := image1bit.NewHorizontalMSB(image.Rect(0, 0, 128, 64))
//	img.SetBit(10, 20, image1bit.On)
//	println(img.BitAt(10, 20)) // Output: true
package image1bit
