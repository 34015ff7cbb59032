// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcdsim emulates an HD44780 display and its keypad behind a GPIO
// expander, so the hd44780 driver can run without hardware.
//
// The Sim decodes the expander pin activity the way the controller does:
// data lines are latched on the falling edge of Enable, the interface starts
// in 8 bit mode after power on and follows function set instructions.
// Screen renders the glass to a terminal and Snapshot to an image.
package lcdsim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// NumPins is the number of expander lines of the simulated MCP23017.
const NumPins = 16

const (
	ddramSize   = 0x80
	lineLength  = 40 // Characters per line in 2 line mode.
	singleLine  = 80 // Characters in 1 line mode.
	secondLine  = 0x40
	cgramSize   = 0x40
	blankSymbol = 0x20
)

// Runes shown for character ROM codes that differ from ASCII.
var romRunes = map[byte]rune{
	0x5c: '¥',
	0x7e: '→',
	0x7f: '←',
	0xdf: '°',
	0xe4: 'µ',
}

// Sim is a simulated expander wired to an HD44780 and a keypad.
type Sim struct {
	mu   sync.Mutex
	pins hd44780.PinMap
	cols int
	rows int
	log  logrus.Ext1FieldLogger

	modes   [NumPins]pin.Func
	levels  [NumPins]gpio.Level
	pullups [NumPins]bool
	pressed hd44780.ButtonMask

	// Controller state.
	eightBit bool
	pending  bool
	nibble   byte
	function byte
	control  byte
	entry    byte
	cgMode   bool
	ac       byte
	shift    int
	ddram    [ddramSize]byte
	cgram    [cgramSize]byte
	latches  int
}

// New returns a powered on display of cols x rows characters wired to the
// expander as described by pins.
func New(pins hd44780.PinMap, cols, rows int) *Sim {
	s := &Sim{
		pins:     pins,
		cols:     cols,
		rows:     rows,
		log:      logrus.WithField("device", "lcdsim"),
		eightBit: true,
		entry:    byte(hd44780.EntryLeft),
	}
	for i := range s.ddram {
		s.ddram[i] = blankSymbol
	}
	for i := range s.modes {
		s.modes[i] = gpio.IN
	}
	return s
}

func (s *Sim) check(number int) error {
	if number < 0 || number >= NumPins {
		return fmt.Errorf("lcdsim: pin %d out of range", number)
	}
	return nil
}

// Open implements hd44780.Expander.
func (s *Sim) Open() error {
	return nil
}

// SetPinMode implements hd44780.Expander.
func (s *Sim) SetPinMode(number int, fn pin.Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(number); err != nil {
		return err
	}
	if fn != gpio.IN && fn != gpio.OUT {
		return fmt.Errorf("lcdsim: pin %d: unsupported function %s", number, fn)
	}
	s.modes[number] = fn
	return nil
}

// PullUp implements hd44780.Expander.
func (s *Sim) PullUp(number int, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(number); err != nil {
		return err
	}
	s.pullups[number] = enabled
	return nil
}

// DigitalWrite implements hd44780.Expander. A falling edge on Enable makes
// the controller latch the data lines.
func (s *Sim) DigitalWrite(number int, l gpio.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(number); err != nil {
		return err
	}
	if s.modes[number] != gpio.OUT {
		return fmt.Errorf("lcdsim: pin %d is not an output", number)
	}
	prev := s.levels[number]
	s.levels[number] = l
	if number == s.pins.Enable && prev == gpio.High && l == gpio.Low {
		s.latch()
	}
	return nil
}

// DigitalRead implements hd44780.Expander. Button lines read low while
// pressed, other inputs read their pull-up.
func (s *Sim) DigitalRead(number int) (gpio.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(number); err != nil {
		return gpio.Low, err
	}
	if s.modes[number] == gpio.OUT {
		return s.levels[number], nil
	}
	for i, p := range s.pins.Buttons {
		if p == number && s.pressed.Has(hd44780.Buttons[i]) {
			return gpio.Low, nil
		}
	}
	return gpio.Level(s.pullups[number]), nil
}

// Press holds down the buttons in m.
func (s *Sim) Press(m hd44780.ButtonMask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed |= m
}

// Release lets go of the buttons in m.
func (s *Sim) Release(m hd44780.ButtonMask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed &^= m
}

// latch reads the data lines as the controller does on a falling Enable.
func (s *Sim) latch() {
	if s.pins.RW != hd44780.NoPin && s.levels[s.pins.RW] == gpio.High {
		s.log.Warn("read cycle ignored")
		return
	}
	s.latches++
	rs := s.levels[s.pins.RS] == gpio.High
	var v byte
	for i, p := range s.pins.Data {
		if s.levels[p] == gpio.High {
			v |= 1 << uint(i)
		}
	}
	if !s.pins.Is8Bit() {
		// Only DB7..DB4 are wired.
		v <<= 4
	}
	switch {
	case s.eightBit:
		s.execute(rs, v)
	case !s.pending:
		s.nibble = v & 0xf0
		s.pending = true
	default:
		s.pending = false
		s.execute(rs, s.nibble|v>>4)
	}
}

func (s *Sim) execute(rs bool, v byte) {
	if rs {
		s.write(v)
		return
	}
	s.log.Tracef("instruction 0x%02x", v)
	switch {
	case v&hd44780.CmdSetDDRAMAddr != 0:
		s.cgMode = false
		s.ac = v & 0x7f
	case v&hd44780.CmdSetCGRAMAddr != 0:
		s.cgMode = true
		s.ac = v & 0x3f
	case v&hd44780.CmdFunctionSet != 0:
		s.function = v & 0x1f
		s.eightBit = v&byte(hd44780.Mode8Bit) != 0
		s.pending = false
	case v&hd44780.CmdCursorShift != 0:
		right := v&hd44780.ShiftRight != 0
		if v&hd44780.ShiftDisplay != 0 {
			if right {
				s.shift--
			} else {
				s.shift++
			}
		} else {
			s.step(right)
		}
	case v&hd44780.CmdDisplayControl != 0:
		s.control = v & 0x07
	case v&hd44780.CmdEntryModeSet != 0:
		s.entry = v & 0x03
	case v&hd44780.CmdReturnHome != 0:
		s.cgMode = false
		s.ac = 0
		s.shift = 0
	case v&hd44780.CmdClearDisplay != 0:
		for i := range s.ddram {
			s.ddram[i] = blankSymbol
		}
		s.cgMode = false
		s.ac = 0
		s.shift = 0
		// Clear also forces increment mode.
		s.entry |= byte(hd44780.EntryLeft)
	}
}

func (s *Sim) write(v byte) {
	increment := s.entry&byte(hd44780.EntryLeft) != 0
	if s.cgMode {
		s.cgram[s.ac&0x3f] = v & 0x1f
		if increment {
			s.ac = (s.ac + 1) & 0x3f
		} else {
			s.ac = (s.ac - 1) & 0x3f
		}
		return
	}
	s.ddram[s.ac&0x7f] = v
	s.step(increment)
	if s.entry&byte(hd44780.EntryShiftIncrement) != 0 {
		if increment {
			s.shift++
		} else {
			s.shift--
		}
	}
}

// step moves the DDRAM address counter, skipping the unused addresses
// between the two lines.
func (s *Sim) step(forward bool) {
	if s.twoLine() {
		switch {
		case forward && s.ac == 0x27:
			s.ac = secondLine
		case forward && s.ac == 0x67:
			s.ac = 0
		case !forward && s.ac == secondLine:
			s.ac = 0x27
		case !forward && s.ac == 0:
			s.ac = 0x67
		case forward:
			s.ac++
		default:
			s.ac--
		}
		return
	}
	switch {
	case forward && s.ac >= singleLine-1:
		s.ac = 0
	case !forward && s.ac == 0:
		s.ac = singleLine - 1
	case forward:
		s.ac++
	default:
		s.ac--
	}
}

func (s *Sim) twoLine() bool {
	return s.function&byte(hd44780.TwoLine) != 0
}

// cell returns the DDRAM address shown at the 0-based col and row of the
// glass, taking the display shift into account.
func (s *Sim) cell(col, row int) byte {
	if !s.twoLine() {
		return byte(mod(col+s.shift, singleLine))
	}
	off := hd44780.RowOffsets[row%len(hd44780.RowOffsets)]
	base, start := off&secondLine, int(off&^secondLine)
	return base + byte(mod(start+col+s.shift, lineLength))
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// toRune returns how a character code looks on the glass. Custom characters
// are shown as a shaded block.
func toRune(c byte) rune {
	if r, ok := romRunes[c]; ok {
		return r
	}
	switch {
	case c < 0x10:
		return '▒'
	case c < 0x80:
		return rune(c)
	}
	return '?'
}

// Lines returns the text visible on each row. It is blank while the display
// is off.
func (s *Sim) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, s.rows)
	for row := range out {
		if s.control&byte(hd44780.DisplayOn) == 0 {
			out[row] = strings.Repeat(" ", s.cols)
			continue
		}
		var b strings.Builder
		for col := 0; col < s.cols; col++ {
			b.WriteRune(toRune(s.ddram[s.cell(col, row)]))
		}
		out[row] = b.String()
	}
	return out
}

// Text returns the visible text, one row per line.
func (s *Sim) Text() string {
	return strings.Join(s.Lines(), "\n")
}

func (s *Sim) String() string {
	return fmt.Sprintf("lcdsim(%dx%d)", s.cols, s.rows)
}

// DDRAM returns the character code stored at address.
func (s *Sim) DDRAM(address byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ddram[address&0x7f]
}

// CGRAM returns the glyph of custom character slot.
func (s *Sim) CGRAM(slot byte) [8]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var g [8]byte
	copy(g[:], s.cgram[(slot&0x7)<<3:])
	return g
}

// Address returns the address counter and whether it points in CGRAM.
func (s *Sim) Address() (ac byte, cgram bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ac, s.cgMode
}

// DisplayControl returns the display on, cursor and blink bits.
func (s *Sim) DisplayControl() hd44780.DisplayControl {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hd44780.DisplayControl(s.control)
}

// DisplayOn reports whether the glass shows the DDRAM content.
func (s *Sim) DisplayOn() bool {
	return s.DisplayControl()&hd44780.DisplayOn != 0
}

// FunctionSet returns the interface, line count and font bits.
func (s *Sim) FunctionSet() hd44780.FunctionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hd44780.FunctionSet(s.function)
}

// Shift returns how many columns the display is shifted left.
func (s *Sim) Shift() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shift
}

// Latches returns the number of transfers the controller latched.
func (s *Sim) Latches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latches
}

// Backlight returns the lit backlight LEDs.
func (s *Sim) Backlight() hd44780.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c hd44780.Color
	for bit, p := range s.pins.Backlight {
		if p == hd44780.NoPin || s.modes[p] != gpio.OUT {
			continue
		}
		if s.levels[p] == gpio.Level(s.pins.BacklightActiveHigh) {
			c |= 1 << uint(bit)
		}
	}
	return c
}

// Geometry returns the size of the glass.
func (s *Sim) Geometry() (cols, rows int) {
	return s.cols, s.rows
}

var _ hd44780.Expander = &Sim{}
