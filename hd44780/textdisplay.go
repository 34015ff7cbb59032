// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/display"
)

// AutoScroll enables or disables the shift of the display on every write.
func (lcd *Dev) AutoScroll(enabled bool) error {
	_, err := lcd.toggleEntry(EntryShiftIncrement, enabled)
	return err
}

// Clear clears the screen and moves the cursor to the first position.
func (lcd *Dev) Clear() error {
	return lcd.ClearDisplay()
}

// Cols returns the number of columns the display supports.
func (lcd *Dev) Cols() int {
	return lcd.cols
}

// Rows returns the number of rows the display supports.
func (lcd *Dev) Rows() int {
	return lcd.rows
}

// MinCol returns the min column position.
func (lcd *Dev) MinCol() int {
	return 1
}

// MinRow returns the min row position.
func (lcd *Dev) MinRow() int {
	return 1
}

// Cursor sets the cursor mode. You can pass multiple arguments.
// Cursor(CursorOff, CursorUnderline)
func (lcd *Dev) Cursor(modes ...display.CursorMode) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	val := lcd.control
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			val &^= CursorOn | BlinkOn
		case display.CursorUnderline:
			val |= CursorOn
		case display.CursorBlink, display.CursorBlock:
			val |= BlinkOn
		default:
			return fmt.Errorf("%s: unexpected cursor: %d", packageName, mode)
		}
	}
	lcd.control = val
	return lcd.command(CmdDisplayControl | byte(lcd.control))
}

// Display turns the display on or off.
func (lcd *Dev) Display(on bool) error {
	_, err := lcd.toggleControl(DisplayOn, on)
	return err
}

// Move moves the cursor forward or backward.
func (lcd *Dev) Move(dir display.CursorDirection) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	switch dir {
	case display.Backward:
		lcd.pos.Col--
		return lcd.command(CmdCursorShift)
	case display.Forward:
		lcd.pos.Col++
		return lcd.command(CmdCursorShift | ShiftRight)
	}
	return ErrNotImplemented
}

// MoveTo moves the cursor to the 1-based row and col.
func (lcd *Dev) MoveTo(row, col int) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	if row < lcd.MinRow() || row > lcd.rows || col < lcd.MinCol() || col > lcd.cols {
		return fmt.Errorf("%s: MoveTo(%d,%d) value out of range", packageName, row, col)
	}
	return lcd.setCursor(col-1, row-1)
}

// Write writes p as character codes through the same line handling as Print,
// without converting the text.
func (lcd *Dev) Write(p []byte) (int, error) {
	if err := lcd.ready(); err != nil {
		return 0, err
	}
	return lcd.layout(p)
}

// WriteString prints text. On success n is len(text).
func (lcd *Dev) WriteString(text string) (int, error) {
	if err := lcd.Print(text); err != nil {
		return 0, err
	}
	return len(text), nil
}

// Halt clears the display, turns the backlight off, and turns the display off.
func (lcd *Dev) Halt() error {
	if !lcd.started {
		return nil
	}
	return errors.Join(lcd.Clear(), lcd.SetBacklight(Off), lcd.Display(false))
}

var _ display.TextDisplay = &Dev{}
