// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// ScreenOpts represents the options available for a Screen.
type ScreenOpts struct {
	// W defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette

	_ struct{}
}

// Screen draws a Sim to a terminal using ANSI color codes. The backlight is
// the frame around the text.
type Screen struct {
	sim     *Sim
	w       io.Writer
	palette ansi256.Palette

	drawn bool
	buf   bytes.Buffer
}

// NewScreen returns a Screen that renders sim.
func NewScreen(sim *Sim, opts *ScreenOpts) *Screen {
	if opts == nil {
		opts = &ScreenOpts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Screen{sim: sim, w: w, palette: *p}
}

// BacklightColor returns the RGB color of the lit LEDs of c. An unlit
// backlight is dark grey.
func BacklightColor(c hd44780.Color) color.NRGBA {
	if c == hd44780.Off {
		return color.NRGBA{0x20, 0x20, 0x20, 0xff}
	}
	out := color.NRGBA{A: 0xff}
	if c&hd44780.Red != 0 {
		out.R = 0xff
	}
	if c&hd44780.Green != 0 {
		out.G = 0xff
	}
	if c&hd44780.Blue != 0 {
		out.B = 0xff
	}
	return out
}

func (s *Screen) String() string {
	return fmt.Sprintf("Screen(%s)", s.sim)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\033[0m\n"))
	return err
}

// Refresh redraws the display over the previous drawing.
func (s *Screen) Refresh() error {
	lines := s.sim.Lines()
	cols, _ := s.sim.Geometry()
	frame := s.palette.Block(BacklightColor(s.sim.Backlight()))

	s.buf.Reset()
	if s.drawn {
		// Back to the top of the previous frame.
		fmt.Fprintf(&s.buf, "\033[%dA", len(lines)+2)
	}
	_, _ = s.buf.WriteString("\r\033[0m")
	edge := strings.Repeat(frame, cols+2) + "\033[0m\n"
	_, _ = s.buf.WriteString(edge)
	for _, l := range lines {
		_, _ = s.buf.WriteString(frame)
		_, _ = s.buf.WriteString("\033[0m")
		_, _ = s.buf.WriteString(l)
		_, _ = s.buf.WriteString(frame)
		_, _ = s.buf.WriteString("\033[0m\n")
	}
	_, _ = s.buf.WriteString(edge)
	_, err := s.buf.WriteTo(s.w)
	s.drawn = true
	return err
}
