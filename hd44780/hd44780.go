// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 wired to
// a GPIO expander, such as the MCP23017 of the Adafruit RGB LCD plate, and
// reads the keypad that shares the expander.
//
// The controller has no reset line and is never read back, so the driver
// keeps a shadow of every register it writes and replays the datasheet
// initialization sequence on Start.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

const packageName = "hd44780"

var (
	// ErrNotStarted is returned by operations issued before Start.
	ErrNotStarted = errors.New("hd44780: display not started")
	// ErrInvalidGeometry is returned by Start for unsupported sizes.
	ErrInvalidGeometry = errors.New("hd44780: invalid geometry")
	// ErrNotImplemented wraps display.ErrNotImplemented.
	ErrNotImplemented = fmt.Errorf("%s: %w", packageName, display.ErrNotImplemented)
)

// CursorState is the host side copy of the controller address counter,
// expressed as a 0-based line and column.
type CursorState struct {
	Line int
	Col  int
}

// Opts holds the optional parameters of New.
type Opts struct {
	// Pins is the wiring. It defaults to AdafruitRGBPlate.
	Pins *PinMap
	// Clock performs the blocking delays. It defaults to SystemClock.
	Clock Clock
	// Logger defaults to the logrus standard logger.
	Logger logrus.Ext1FieldLogger
	// Font5x10 selects the 5x10 dot font. Only 1 line displays support it.
	Font5x10 bool
}

// Dev is an HD44780 display and keypad behind a GPIO expander.
//
// Dev is not safe for concurrent use; interleaved transfers on the shared
// enable and data lines corrupt the controller state.
//
// Implements display.TextDisplay, display.DisplayBacklight and
// display.DisplayRGBBacklight.
type Dev struct {
	exp   Expander
	pins  PinMap
	clock Clock
	log   logrus.Ext1FieldLogger
	font  bool

	cols    int
	rows    int
	started bool

	function FunctionSet
	control  DisplayControl
	entry    EntryMode
	pos      CursorState
}

// New returns a Dev that drives the display through exp. Call Start before
// any other operation.
func New(exp Expander, opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	lcd := &Dev{
		exp:   exp,
		pins:  AdafruitRGBPlate,
		clock: opts.Clock,
		log:   opts.Logger,
		font:  opts.Font5x10,
	}
	if opts.Pins != nil {
		lcd.pins = *opts.Pins
	}
	if lcd.clock == nil {
		lcd.clock = SystemClock
	}
	if lcd.log == nil {
		lcd.log = logrus.StandardLogger()
	}
	if lcd.pins.Is8Bit() {
		lcd.function = Mode8Bit
	}
	return lcd
}

// Start configures the expander lines and runs the power-up initialization
// of the controller for a display of cols x rows characters. It must run
// once per power cycle.
func (lcd *Dev) Start(cols, rows int) error {
	if (rows != 1 && rows != 2 && rows != 4) || cols < 1 || cols > 40 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, cols, rows)
	}
	if err := lcd.pins.validate(); err != nil {
		return err
	}
	lcd.log.Debugf("hd44780: starting %dx%d display", cols, rows)
	lcd.started = false
	lcd.cols = cols
	lcd.rows = rows
	lcd.pos = CursorState{}

	if err := lcd.exp.Open(); err != nil {
		return fmt.Errorf("hd44780: open expander: %w", err)
	}
	if err := lcd.setupPins(); err != nil {
		return err
	}

	lcd.function &= Mode8Bit
	if rows > 1 {
		lcd.function |= TwoLine
	} else if lcd.font {
		lcd.function |= Font5x10
	}
	if err := lcd.init(); err != nil {
		return err
	}
	lcd.started = true
	lcd.log.Debugf("hd44780: started, %s", lcd.function)
	return nil
}

func (lcd *Dev) setupPins() error {
	for _, p := range lcd.pins.Backlight {
		if p == NoPin {
			continue
		}
		if err := lcd.exp.SetPinMode(p, gpio.OUT); err != nil {
			return fmt.Errorf("hd44780: backlight pin %d: %w", p, err)
		}
	}
	if err := lcd.setBacklight(White); err != nil {
		return err
	}
	outputs := []int{lcd.pins.RW, lcd.pins.RS, lcd.pins.Enable}
	outputs = append(outputs, lcd.pins.Data...)
	for _, p := range outputs {
		if p == NoPin {
			continue
		}
		if err := lcd.exp.SetPinMode(p, gpio.OUT); err != nil {
			return fmt.Errorf("hd44780: pin %d: %w", p, err)
		}
	}
	for _, p := range lcd.pins.Buttons {
		if p == NoPin {
			continue
		}
		if err := lcd.exp.SetPinMode(p, gpio.IN); err != nil {
			return fmt.Errorf("hd44780: button pin %d: %w", p, err)
		}
		if err := lcd.exp.PullUp(p, true); err != nil {
			return fmt.Errorf("hd44780: button pin %d: %w", p, err)
		}
	}
	return nil
}

// init is the startup sequence for the Hitachi HD44780U as documented in
// figures 23 and 24 of the datasheet. The controller may be in any state,
// since resetting the host does not reset the display.
func (lcd *Dev) init() error {
	lcd.clock.Sleep(powerOnDelay)
	if err := lcd.out(lcd.pins.RS, gpio.Low); err != nil {
		return err
	}
	if err := lcd.out(lcd.pins.Enable, gpio.Low); err != nil {
		return err
	}
	if lcd.pins.RW != NoPin {
		if err := lcd.out(lcd.pins.RW, gpio.Low); err != nil {
			return err
		}
	}

	if lcd.function&Mode8Bit == 0 {
		// Three times 8 bit mode to get out of any half transferred byte,
		// then switch to 4 bit mode.
		for _, d := range []time.Duration{resetDelayLong, resetDelayLong, resetDelay} {
			if err := lcd.write4Bits(0x03); err != nil {
				return err
			}
			lcd.clock.Sleep(d)
		}
		if err := lcd.write4Bits(0x02); err != nil {
			return err
		}
	} else {
		fs := CmdFunctionSet | byte(lcd.function)
		for _, d := range []time.Duration{resetDelayLong, resetDelay} {
			if err := lcd.command(fs); err != nil {
				return err
			}
			lcd.clock.Sleep(d)
		}
		if err := lcd.command(fs); err != nil {
			return err
		}
	}

	// Number of lines and font can't be changed after this.
	if err := lcd.command(CmdFunctionSet | byte(lcd.function)); err != nil {
		return err
	}
	lcd.control = 0
	if _, err := lcd.setControl(DisplayOn, true); err != nil {
		return err
	}
	if err := lcd.clearDisplay(); err != nil {
		return err
	}
	lcd.entry = 0
	if _, err := lcd.setEntry(EntryLeft, true); err != nil {
		return err
	}
	return lcd.setCursor(0, 0)
}

func (lcd *Dev) ready() error {
	if !lcd.started {
		return ErrNotStarted
	}
	return nil
}

// ClearDisplay blanks the display and moves the cursor to (0, 0). The text
// direction is kept.
func (lcd *Dev) ClearDisplay() error {
	if err := lcd.ready(); err != nil {
		return err
	}
	if err := lcd.clearDisplay(); err != nil {
		return err
	}
	// The clear instruction sets I/D to increment.
	if lcd.entry&EntryLeft == 0 {
		return lcd.command(CmdEntryModeSet | byte(lcd.entry))
	}
	return nil
}

func (lcd *Dev) clearDisplay() error {
	if err := lcd.command(CmdClearDisplay); err != nil {
		return err
	}
	lcd.clock.Sleep(clearDelay)
	lcd.pos = CursorState{}
	return nil
}

// Home moves the cursor to (0, 0) and undoes any display shift.
func (lcd *Dev) Home() error {
	if err := lcd.ready(); err != nil {
		return err
	}
	if err := lcd.command(CmdReturnHome); err != nil {
		return err
	}
	lcd.clock.Sleep(clearDelay)
	lcd.pos = CursorState{}
	return nil
}

// SetCursor moves the cursor to the 0-based column col of row. A row past
// the last one is clamped to the last row.
func (lcd *Dev) SetCursor(col, row int) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	return lcd.setCursor(col, row)
}

func (lcd *Dev) setCursor(col, row int) error {
	if row >= lcd.rows {
		row = lcd.rows - 1
	}
	if row < 0 {
		row = 0
	}
	lcd.pos = CursorState{Line: row, Col: col}
	addr := (RowOffsets[row] + byte(col)) & 0x7f
	return lcd.command(CmdSetDDRAMAddr | addr)
}

func (lcd *Dev) setControl(flag DisplayControl, on bool) (DisplayControl, error) {
	if on {
		lcd.control |= flag
	} else {
		lcd.control &^= flag
	}
	return lcd.control, lcd.command(CmdDisplayControl | byte(lcd.control))
}

func (lcd *Dev) toggleControl(flag DisplayControl, on bool) (DisplayControl, error) {
	if err := lcd.ready(); err != nil {
		return lcd.control, err
	}
	return lcd.setControl(flag, on)
}

// DisplayOn turns the display on. It returns the new display control byte.
func (lcd *Dev) DisplayOn() (DisplayControl, error) {
	return lcd.toggleControl(DisplayOn, true)
}

// DisplayOff turns the display off without losing its content.
func (lcd *Dev) DisplayOff() (DisplayControl, error) {
	return lcd.toggleControl(DisplayOn, false)
}

// CursorOn shows the underline cursor.
func (lcd *Dev) CursorOn() (DisplayControl, error) {
	return lcd.toggleControl(CursorOn, true)
}

// CursorOff hides the underline cursor.
func (lcd *Dev) CursorOff() (DisplayControl, error) {
	return lcd.toggleControl(CursorOn, false)
}

// BlinkOn blinks the character at the cursor.
func (lcd *Dev) BlinkOn() (DisplayControl, error) {
	return lcd.toggleControl(BlinkOn, true)
}

// BlinkOff stops blinking.
func (lcd *Dev) BlinkOff() (DisplayControl, error) {
	return lcd.toggleControl(BlinkOn, false)
}

// ScrollDisplayLeft shifts the whole display one column left without
// changing the DDRAM content.
func (lcd *Dev) ScrollDisplayLeft() error {
	if err := lcd.ready(); err != nil {
		return err
	}
	return lcd.command(CmdCursorShift | ShiftDisplay)
}

// ScrollDisplayRight shifts the whole display one column right.
func (lcd *Dev) ScrollDisplayRight() error {
	if err := lcd.ready(); err != nil {
		return err
	}
	return lcd.command(CmdCursorShift | ShiftDisplay | ShiftRight)
}

func (lcd *Dev) setEntry(flag EntryMode, on bool) (EntryMode, error) {
	if on {
		lcd.entry |= flag
	} else {
		lcd.entry &^= flag
	}
	return lcd.entry, lcd.command(CmdEntryModeSet | byte(lcd.entry))
}

func (lcd *Dev) toggleEntry(flag EntryMode, on bool) (EntryMode, error) {
	if err := lcd.ready(); err != nil {
		return lcd.entry, err
	}
	return lcd.setEntry(flag, on)
}

// LeftToRight makes text flow left to right.
func (lcd *Dev) LeftToRight() (EntryMode, error) {
	return lcd.toggleEntry(EntryLeft, true)
}

// RightToLeft makes text flow right to left.
func (lcd *Dev) RightToLeft() (EntryMode, error) {
	return lcd.toggleEntry(EntryLeft, false)
}

// AutoscrollOn shifts the display on every write, which right justifies
// text from the cursor.
func (lcd *Dev) AutoscrollOn() (EntryMode, error) {
	return lcd.toggleEntry(EntryShiftIncrement, true)
}

// AutoscrollOff left justifies text from the cursor.
func (lcd *Dev) AutoscrollOff() (EntryMode, error) {
	return lcd.toggleEntry(EntryShiftIncrement, false)
}

// CreateChar defines the 5x8 glyph of custom character slot (0-7). Each
// byte of glyph is one row, top first, using the low 5 bits. Writing the
// CGRAM moves the address counter, so the cursor is reset to (0, 0).
func (lcd *Dev) CreateChar(slot byte, glyph [8]byte) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	slot &= 0x7
	if err := lcd.command(CmdSetCGRAMAddr | slot<<3); err != nil {
		return err
	}
	for _, row := range glyph {
		if err := lcd.send(row, modeData); err != nil {
			return err
		}
	}
	lcd.pos = CursorState{}
	return lcd.command(CmdSetDDRAMAddr)
}

// Position returns the host copy of the cursor position.
func (lcd *Dev) Position() CursorState {
	return lcd.pos
}

// Geometry returns the size passed to Start.
func (lcd *Dev) Geometry() (cols, rows int) {
	return lcd.cols, lcd.rows
}

// FunctionSet returns the last function set operand sent.
func (lcd *Dev) FunctionSet() FunctionSet {
	return lcd.function
}

// DisplayControl returns the last display control operand sent.
func (lcd *Dev) DisplayControl() DisplayControl {
	return lcd.control
}

// EntryMode returns the last entry mode operand sent.
func (lcd *Dev) EntryMode() EntryMode {
	return lcd.entry
}

// Direction returns the current text direction.
func (lcd *Dev) Direction() TextDirection {
	return TextDirection(lcd.entry&EntryLeft != 0)
}

// String returns info about the display.
func (lcd *Dev) String() string {
	return fmt.Sprintf("HD44780::%v - Rows: %d, Cols: %d", lcd.exp, lcd.rows, lcd.cols)
}

var _ conn.Resource = &Dev{}
