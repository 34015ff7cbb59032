// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strings"
)

// Instruction codes of the HD44780 command set. The low bits of each
// instruction carry the flags defined below.
const (
	CmdClearDisplay   byte = 0x01
	CmdReturnHome     byte = 0x02
	CmdEntryModeSet   byte = 0x04
	CmdDisplayControl byte = 0x08
	CmdCursorShift    byte = 0x10
	CmdFunctionSet    byte = 0x20
	CmdSetCGRAMAddr   byte = 0x40
	CmdSetDDRAMAddr   byte = 0x80
)

// Flags for CmdCursorShift.
const (
	ShiftDisplay byte = 0x08 // S/C: move the display instead of the cursor.
	ShiftRight   byte = 0x04 // R/L
)

// FunctionSet is the shadow of the last CmdFunctionSet operand.
type FunctionSet byte

const (
	Mode8Bit FunctionSet = 0x10 // DL, bit 4
	TwoLine  FunctionSet = 0x08 // N, bit 3
	Font5x10 FunctionSet = 0x04 // F, bit 2
)

func (f FunctionSet) String() string {
	s := make([]string, 0, 3)
	if f&Mode8Bit != 0 {
		s = append(s, "8bit")
	} else {
		s = append(s, "4bit")
	}
	if f&TwoLine != 0 {
		s = append(s, "2line")
	} else {
		s = append(s, "1line")
	}
	if f&Font5x10 != 0 {
		s = append(s, "5x10")
	} else {
		s = append(s, "5x8")
	}
	return strings.Join(s, "|")
}

// DisplayControl is the shadow of the last CmdDisplayControl operand.
type DisplayControl byte

const (
	DisplayOn DisplayControl = 0x04 // D, bit 2
	CursorOn  DisplayControl = 0x02 // C, bit 1
	BlinkOn   DisplayControl = 0x01 // B, bit 0
)

func (d DisplayControl) String() string {
	return fmt.Sprintf("display=%t cursor=%t blink=%t", d&DisplayOn != 0, d&CursorOn != 0, d&BlinkOn != 0)
}

// EntryMode is the shadow of the last CmdEntryModeSet operand.
type EntryMode byte

const (
	EntryLeft           EntryMode = 0x02 // I/D, bit 1: increment the address.
	EntryShiftIncrement EntryMode = 0x01 // S, bit 0: shift the display on write.
)

func (e EntryMode) String() string {
	dir := LeftToRight
	if e&EntryLeft == 0 {
		dir = RightToLeft
	}
	return fmt.Sprintf("%s autoscroll=%t", dir, e&EntryShiftIncrement != 0)
}

// TextDirection controls both the entry mode of the controller and the way
// Print wraps lines.
type TextDirection bool

const (
	LeftToRight TextDirection = true
	RightToLeft TextDirection = false
)

func (t TextDirection) String() string {
	if t == LeftToRight {
		return "left-to-right"
	}
	return "right-to-left"
}

// RowOffsets holds the DDRAM address of the first column of each row.
var RowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}
