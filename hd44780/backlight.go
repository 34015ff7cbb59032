// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// Color is a 3 bit backlight code: bit 0 red, bit 1 green, bit 2 blue.
type Color byte

const (
	Off    Color = 0x0
	Red    Color = 0x1
	Green  Color = 0x2
	Yellow Color = 0x3
	Blue   Color = 0x4
	Violet Color = 0x5
	Teal   Color = 0x6
	White  Color = 0x7
)

var colorNames = [...]string{"off", "red", "green", "yellow", "blue", "violet", "teal", "white"}

func (c Color) String() string {
	return colorNames[c&0x7]
}

// ParseColor returns the Color named s, case insensitive.
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if strings.EqualFold(s, name) {
			return Color(i), nil
		}
	}
	return Off, fmt.Errorf("hd44780: unknown color %q", s)
}

// SetBacklight lights the backlight LEDs selected by c. On active low
// wiring each line is driven with the inverse of its bit.
func (lcd *Dev) SetBacklight(c Color) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	return lcd.setBacklight(c)
}

func (lcd *Dev) setBacklight(c Color) error {
	for bit, p := range lcd.pins.Backlight {
		if p == NoPin {
			continue
		}
		on := (c>>uint(bit))&0x1 == 0x1
		if err := lcd.out(p, gpio.Level(on == lcd.pins.BacklightActiveHigh)); err != nil {
			return err
		}
	}
	return nil
}

// Backlight turns the backlight white or off. The LEDs can't be dimmed.
func (lcd *Dev) Backlight(intensity display.Intensity) error {
	if intensity > 0 {
		return lcd.SetBacklight(White)
	}
	return lcd.SetBacklight(Off)
}

// RGBBacklight lights each LED whose intensity is not zero.
func (lcd *Dev) RGBBacklight(red, green, blue display.Intensity) error {
	var c Color
	if red > 0 {
		c |= Red
	}
	if green > 0 {
		c |= Green
	}
	if blue > 0 {
		c |= Blue
	}
	return lcd.SetBacklight(c)
}

var _ display.DisplayBacklight = &Dev{}
var _ display.DisplayRGBBacklight = &Dev{}
