// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// ButtonMask has one bit per keypad button. Bit i reports the line
// PinMap.Buttons[i].
type ButtonMask byte

const (
	ButtonSelect ButtonMask = 0x01
	ButtonRight  ButtonMask = 0x02
	ButtonDown   ButtonMask = 0x04
	ButtonUp     ButtonMask = 0x08
	ButtonLeft   ButtonMask = 0x10
)

// Buttons lists the keypad buttons by bit position.
var Buttons = [5]ButtonMask{ButtonSelect, ButtonRight, ButtonDown, ButtonUp, ButtonLeft}

var buttonNames = [5]string{"SELECT", "RIGHT", "DOWN", "UP", "LEFT"}

// Has reports whether all buttons of b are in m.
func (m ButtonMask) Has(b ButtonMask) bool {
	return m&b == b
}

func (m ButtonMask) String() string {
	if m == 0 {
		return "none"
	}
	var s []string
	for i, b := range Buttons {
		if m.Has(b) {
			s = append(s, buttonNames[i])
		}
	}
	return strings.Join(s, "|")
}

// ReadButtons returns the buttons held down. The lines are pulled up, so a
// low level is a press. This is a snapshot: there is no debouncing.
func (lcd *Dev) ReadButtons() (ButtonMask, error) {
	if err := lcd.ready(); err != nil {
		return 0, err
	}
	var m ButtonMask
	for i, p := range lcd.pins.Buttons {
		if p == NoPin {
			continue
		}
		l, err := lcd.exp.DigitalRead(p)
		if err != nil {
			return 0, fmt.Errorf("hd44780: read button pin %d: %w", p, err)
		}
		if l == gpio.Low {
			m |= Buttons[i]
		}
	}
	return m, nil
}
