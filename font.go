package ssd1306fx

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// LoadFace parses a TrueType or OpenType font and returns a face at size
// points, rendered at 72 DPI so one point is one pixel. Hinting is full so
// glyph stems land on whole pixels, which matters on a 1-bit panel.
//
// The opentype parser is tried first; fonts it rejects are retried with the
// freetype parser.
func LoadFace(data []byte, size float64) (font.Face, error) {
	if size <= 0 {
		size = 8
	}
	otf, err := opentype.Parse(data)
	if err == nil {
		face, ferr := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if ferr == nil {
			return face, nil
		}
		err = ferr
	}

	ttf, terr := truetype.Parse(data)
	if terr != nil {
		return nil, fmt.Errorf("ssd1306fx: parse font: %w (truetype: %v)", err, terr)
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}
