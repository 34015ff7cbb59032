// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcdsim

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
)

type noDelay struct{}

func (noDelay) Sleep(time.Duration) {}

func getDev(t *testing.T, pins hd44780.PinMap, cols, rows int) (*hd44780.Dev, *Sim) {
	sim := New(pins, cols, rows)
	lcd := hd44780.New(sim, &hd44780.Opts{Pins: &pins, Clock: noDelay{}})
	if err := lcd.Start(cols, rows); err != nil {
		t.Fatal(err)
	}
	return lcd, sim
}

func equalLines(t *testing.T, sim *Sim, want ...string) {
	t.Helper()
	if diff := cmp.Diff(sim.Lines(), want); diff != "" {
		t.Errorf("Lines() difference (-got +want):\n%s", diff)
	}
}

func TestHelloWorld(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	if sim.FunctionSet() != hd44780.TwoLine {
		t.Errorf("FunctionSet() = %s, expected 4 bit 2 lines", sim.FunctionSet())
	}
	if !sim.DisplayOn() {
		t.Error("display off after Start")
	}
	if sim.Backlight() != hd44780.White {
		t.Errorf("Backlight() = %s", sim.Backlight())
	}
	if err := lcd.Print("Hello, world!\nJetson Xavier"); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "Hello, world!   ", "Jetson Xavier   ")
	if ac, cg := sim.Address(); ac != 0x4d || cg {
		t.Errorf("Address() = 0x%02x, %t", ac, cg)
	}
}

func TestEightBit(t *testing.T) {
	pins := hd44780.PinMap{
		RS:        8,
		RW:        9,
		Enable:    10,
		Data:      []int{0, 1, 2, 3, 4, 5, 6, 7},
		Backlight: [3]int{11, hd44780.NoPin, hd44780.NoPin},
		Buttons:   [5]int{12, 13, 14, 15, hd44780.NoPin},
	}
	lcd, sim := getDev(t, pins, 20, 4)
	if sim.FunctionSet() != hd44780.Mode8Bit|hd44780.TwoLine {
		t.Errorf("FunctionSet() = %s", sim.FunctionSet())
	}
	if err := lcd.Print("one\ntwo\nthree\nfour"); err != nil {
		t.Fatal(err)
	}
	blank := strings.Repeat(" ", 20)
	equalLines(t, sim, "one"+blank[3:], "two"+blank[3:], "three"+blank[5:], "four"+blank[4:])
	if sim.Backlight() != hd44780.Red {
		t.Errorf("Backlight() = %s", sim.Backlight())
	}
}

func TestWrapFourRows(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 20, 4)
	text := strings.Repeat("0123456789", 8) + "X"
	if err := lcd.Print(text); err != nil {
		t.Fatal(err)
	}
	row := strings.Repeat("0123456789", 2)
	equalLines(t, sim, "X"+row[1:], row, row, row)
}

func TestCustomChar(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	heart := [8]byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}
	if err := lcd.CreateChar(3, heart); err != nil {
		t.Fatal(err)
	}
	if g := sim.CGRAM(3); g != heart {
		t.Errorf("CGRAM(3) = %v", g)
	}
	if err := lcd.Print(string(rune(3)) + "ok"); err != nil {
		t.Fatal(err)
	}
	if c := sim.DDRAM(0); c != 3 {
		t.Errorf("DDRAM(0) = 0x%02x", c)
	}
	equalLines(t, sim, "▒ok             ", strings.Repeat(" ", 16))
}

func TestShiftAndDirection(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	if err := lcd.Print("Hello, world!"); err != nil {
		t.Fatal(err)
	}
	if err := lcd.ScrollDisplayLeft(); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "ello, world!    ", strings.Repeat(" ", 16))
	if err := lcd.ScrollDisplayRight(); err != nil {
		t.Fatal(err)
	}
	if sim.Shift() != 0 {
		t.Errorf("Shift() = %d", sim.Shift())
	}

	if _, err := lcd.RightToLeft(); err != nil {
		t.Fatal(err)
	}
	if err := lcd.SetCursor(15, 1); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Print("abc"); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "Hello, world!   ", "             cba")
}

func TestClearRightToLeft(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	if _, err := lcd.RightToLeft(); err != nil {
		t.Fatal(err)
	}
	if err := lcd.ClearDisplay(); err != nil {
		t.Fatal(err)
	}
	if err := lcd.SetCursor(15, 0); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Print("abc"); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "             cba", "                ")
	if pos := lcd.Position(); pos != (hd44780.CursorState{Line: 0, Col: 12}) {
		t.Errorf("Position() = %+v", pos)
	}
	if ac, _ := sim.Address(); ac != 0x0c {
		t.Errorf("Address() = 0x%02x", ac)
	}
}

func TestDisplayControl(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 8, 1)
	if err := lcd.Print("abc"); err != nil {
		t.Fatal(err)
	}
	if _, err := lcd.DisplayOff(); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "        ")
	if _, err := lcd.DisplayOn(); err != nil {
		t.Fatal(err)
	}
	if _, err := lcd.CursorOn(); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "abc     ")
	if c := sim.DisplayControl(); c != hd44780.DisplayOn|hd44780.CursorOn {
		t.Errorf("DisplayControl() = %s", c)
	}
	if err := lcd.ClearDisplay(); err != nil {
		t.Fatal(err)
	}
	equalLines(t, sim, "        ")
}

func TestButtons(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	sim.Press(hd44780.ButtonUp | hd44780.ButtonSelect)
	if m, err := lcd.ReadButtons(); err != nil || m != hd44780.ButtonUp|hd44780.ButtonSelect {
		t.Errorf("ReadButtons() = %s, %v", m, err)
	}
	sim.Release(hd44780.ButtonSelect)
	if m, err := lcd.ReadButtons(); err != nil || m != hd44780.ButtonUp {
		t.Errorf("ReadButtons() = %s, %v", m, err)
	}
	sim.Release(hd44780.ButtonUp)
	if m, err := lcd.ReadButtons(); err != nil || m != 0 {
		t.Errorf("ReadButtons() = %s, %v", m, err)
	}
}

func TestBacklight(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	for c := hd44780.Off; c <= hd44780.White; c++ {
		if err := lcd.SetBacklight(c); err != nil {
			t.Fatal(err)
		}
		if got := sim.Backlight(); got != c {
			t.Errorf("SetBacklight(%s): Backlight() = %s", c, got)
		}
	}
}

func TestPinErrors(t *testing.T) {
	sim := New(hd44780.AdafruitRGBPlate, 16, 2)
	if err := sim.DigitalWrite(15, gpio.High); err == nil {
		t.Error("expected error writing an input")
	}
	if err := sim.SetPinMode(16, gpio.OUT); err == nil {
		t.Error("expected error for pin 16")
	}
	if err := sim.SetPinMode(0, gpio.PWM); err == nil {
		t.Error("expected error for PWM")
	}
	if _, err := sim.DigitalRead(-1); err == nil {
		t.Error("expected error for pin -1")
	}
	if s := sim.String(); s != "lcdsim(16x2)" {
		t.Errorf("String() = %q", s)
	}
}

func TestSnapshot(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	if err := lcd.SetBacklight(hd44780.Blue); err != nil {
		t.Fatal(err)
	}
	if err := lcd.Print("Hi"); err != nil {
		t.Fatal(err)
	}
	img, err := sim.Snapshot(2)
	if err != nil {
		t.Fatal(err)
	}
	want := (2*margin + 16*pitchX - 1) * 2
	if b := img.Bounds(); b.Dx() != want || b.Dy() != (2*margin+2*pitchY-1)*2 {
		t.Errorf("Bounds() = %v", b)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0xffff {
		t.Errorf("corner color = %x %x %x, expected blue", r, g, b)
	}
	if _, err := sim.Snapshot(0); err == nil {
		t.Error("expected error for scale 0")
	}

	path := filepath.Join(t.TempDir(), "lcd.png")
	if err := sim.SavePNG(path, 1); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("SavePNG() wrote nothing: %v", err)
	}
}

func TestScreen(t *testing.T) {
	lcd, sim := getDev(t, hd44780.AdafruitRGBPlate, 16, 2)
	if err := lcd.Print("Hello"); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s := NewScreen(sim, &ScreenOpts{W: &buf})
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "Hello           ") || strings.Contains(out, "\033[4A") {
		t.Errorf("first Refresh() = %q", out)
	}
	buf.Reset()
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.HasPrefix(out, "\033[4A") {
		t.Errorf("second Refresh() = %q", out)
	}
	if err := s.Halt(); err != nil {
		t.Fatal(err)
	}
}
