// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Expander is the set of pin primitives the driver needs from a GPIO
// expander. Pin numbers are 0-based within the expander, and the pin mode is
// either gpio.IN or gpio.OUT.
type Expander interface {
	Open() error
	SetPinMode(number int, fn pin.Func) error
	PullUp(pin int, enabled bool) error
	DigitalWrite(pin int, level gpio.Level) error
	DigitalRead(pin int) (gpio.Level, error)
}

// NoPin marks a PinMap line that is not wired.
const NoPin = -1

// PinMap assigns expander lines to the LCD and keypad signals.
type PinMap struct {
	RS     int
	RW     int // NoPin when R/W is tied to ground.
	Enable int
	// Data lines, D4..D7 for a 4 bit bus or D0..D7 for an 8 bit bus.
	Data []int
	// Backlight lines in red, green, blue order. A single LED line is wired
	// as red.
	Backlight [3]int
	// BacklightActiveHigh is set when the LEDs light on a high level. The
	// RGB plate sinks the LED current, so its lines are active low.
	BacklightActiveHigh bool
	// Buttons[i] is the line reported as bit i of a ButtonMask.
	Buttons [5]int
}

// AdafruitRGBPlate is the wiring of the Adafruit RGB LCD Pi plate and its
// clones. All lines are MCP23017 lines; 0-7 is port A, 8-15 port B.
//
// https://www.adafruit.com/product/1109
var AdafruitRGBPlate = PinMap{
	RS:        15,
	RW:        14,
	Enable:    13,
	Data:      []int{12, 11, 10, 9},
	Backlight: [3]int{6, 7, 8},
	Buttons:   [5]int{0, 1, 2, 3, 4},
}

// Is8Bit reports whether the map wires all eight data lines.
func (p *PinMap) Is8Bit() bool {
	return len(p.Data) >= 8
}

func (p *PinMap) validate() error {
	if len(p.Data) != 4 && len(p.Data) != 8 {
		return fmt.Errorf("hd44780: %d data lines wired, need 4 or 8", len(p.Data))
	}
	if p.RS < 0 || p.Enable < 0 {
		return fmt.Errorf("hd44780: RS and Enable must be wired")
	}
	return nil
}

// PinBank is an Expander made of periph.io GPIO pins. Pin n of the expander
// is the n-th pin passed to NewPinBank. It lets the driver run directly on
// host GPIO lines.
type PinBank struct {
	pins []gpio.PinIO
}

// NewPinBank returns an Expander over pins. A nil entry is a line that is not
// connected.
func NewPinBank(pins ...gpio.PinIO) *PinBank {
	return &PinBank{pins: pins}
}

func (pb *PinBank) get(pin int) (gpio.PinIO, error) {
	if pin < 0 || pin >= len(pb.pins) || pb.pins[pin] == nil {
		return nil, fmt.Errorf("hd44780: pin %d not in bank", pin)
	}
	return pb.pins[pin], nil
}

// Open implements Expander. Host pins need no opening.
func (pb *PinBank) Open() error {
	return nil
}

// SetPinMode implements Expander. Output lines start low.
func (pb *PinBank) SetPinMode(number int, fn pin.Func) error {
	p, err := pb.get(number)
	if err != nil {
		return err
	}
	switch fn {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT:
		return p.Out(gpio.Low)
	}
	return fmt.Errorf("hd44780: pin %d: unsupported function %s", number, fn)
}

// PullUp implements Expander.
func (pb *PinBank) PullUp(pin int, enabled bool) error {
	p, err := pb.get(pin)
	if err != nil {
		return err
	}
	pull := gpio.Float
	if enabled {
		pull = gpio.PullUp
	}
	return p.In(pull, gpio.NoEdge)
}

// DigitalWrite implements Expander.
func (pb *PinBank) DigitalWrite(pin int, level gpio.Level) error {
	p, err := pb.get(pin)
	if err != nil {
		return err
	}
	return p.Out(level)
}

// DigitalRead implements Expander.
func (pb *PinBank) DigitalRead(pin int) (gpio.Level, error) {
	p, err := pb.get(pin)
	if err != nil {
		return gpio.Low, err
	}
	return p.Read(), nil
}

var _ Expander = &PinBank{}
