// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"
)

// Dot geometry of a character cell.
const (
	cellDotsX = 5
	cellDotsY = 8
	pitchX    = cellDotsX + 1
	pitchY    = cellDotsY + 1
	margin    = 4
)

var (
	inkColor  = color.NRGBA{0x10, 0x10, 0x18, 0xff}
	cellShade = color.NRGBA{0, 0, 0, 0x28}
)

// frame is a copy of the glass taken under lock.
type frame struct {
	cols, rows int
	backlight  hd44780.Color
	control    hd44780.DisplayControl
	codes      [][]byte
	cursor     image.Point // Cell of the address counter, X < 0 when hidden.
	cgram      [cgramSize]byte
}

func (s *Sim) capture() frame {
	f := frame{cols: s.cols, rows: s.rows, backlight: s.Backlight(), cursor: image.Point{X: -1}}
	s.mu.Lock()
	defer s.mu.Unlock()
	f.control = hd44780.DisplayControl(s.control)
	f.cgram = s.cgram
	f.codes = make([][]byte, s.rows)
	for row := range f.codes {
		f.codes[row] = make([]byte, s.cols)
		for col := range f.codes[row] {
			addr := s.cell(col, row)
			f.codes[row][col] = s.ddram[addr]
			if !s.cgMode && addr == s.ac {
				f.cursor = image.Point{X: col, Y: row}
			}
		}
	}
	return f
}

// Snapshot draws the glass as an image, each display dot being scale x scale
// pixels.
func (s *Sim) Snapshot(scale int) (image.Image, error) {
	if scale < 1 {
		return nil, fmt.Errorf("lcdsim: invalid scale %d", scale)
	}
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("lcdsim: %w", err)
	}
	f := s.capture()
	d := float64(scale)
	w := (2*margin + f.cols*pitchX - 1) * scale
	h := (2*margin + f.rows*pitchY - 1) * scale

	dc := gg.NewContext(w, h)
	dc.SetColor(BacklightColor(f.backlight))
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: float64(cellDotsY+1) * d}))

	for row, codes := range f.codes {
		for col, c := range codes {
			x := float64(margin+col*pitchX) * d
			y := float64(margin+row*pitchY) * d
			dc.SetColor(cellShade)
			dc.DrawRectangle(x, y, cellDotsX*d, cellDotsY*d)
			dc.Fill()
			if f.control&hd44780.DisplayOn == 0 {
				continue
			}
			dc.SetColor(inkColor)
			if f.cursor.X == col && f.cursor.Y == row {
				if f.control&hd44780.BlinkOn != 0 {
					dc.DrawRectangle(x, y, cellDotsX*d, cellDotsY*d)
					dc.Fill()
					continue
				}
				if f.control&hd44780.CursorOn != 0 {
					dc.DrawRectangle(x, y+(cellDotsY-1)*d, cellDotsX*d, d)
					dc.Fill()
				}
			}
			switch {
			case c < 0x10:
				drawGlyph(dc, f.cgram[(c&0x7)<<3:], x, y, d)
			case c != blankSymbol:
				dc.DrawStringAnchored(string(toRune(c)), x+cellDotsX*d/2, y+cellDotsY*d/2, 0.5, 0.5)
			}
		}
	}
	return dc.Image(), nil
}

// drawGlyph draws the 5x8 dots of a custom character from its CGRAM rows.
func drawGlyph(dc *gg.Context, rows []byte, x, y, d float64) {
	for r := 0; r < cellDotsY; r++ {
		for b := 0; b < cellDotsX; b++ {
			if rows[r]&(0x10>>uint(b)) != 0 {
				dc.DrawRectangle(x+float64(b)*d, y+float64(r)*d, d, d)
			}
		}
	}
	dc.Fill()
}

// SavePNG writes a Snapshot of the glass to path.
func (s *Sim) SavePNG(path string, scale int) error {
	img, err := s.Snapshot(scale)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("lcdsim: %w", err)
	}
	return nil
}
