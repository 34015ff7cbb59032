// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/pin"
)

// Variant is the chip model.
type Variant string

const (
	MCP23008 Variant = "MCP23008"
	MCP23017 Variant = "MCP23017"

	// DefaultAddress is the address with A2, A1 and A0 grounded.
	DefaultAddress uint16 = 0x20
)

// ErrPinRange is returned for a line the chip doesn't have.
var ErrPinRange = errors.New("mcp23xxx: pin out of range")

// Register addresses of port A with IOCON.BANK = 0. Port B registers of the
// MCP23017 follow their port A counterpart.
type registerMap struct {
	iodir uint8
	gppu  uint8
	gpio  uint8
	olat  uint8
}

type variant struct {
	ports int
	regs  registerMap
}

var variants = map[Variant]variant{
	MCP23008: {ports: 1, regs: registerMap{iodir: 0x00, gppu: 0x06, gpio: 0x09, olat: 0x0a}},
	MCP23017: {ports: 2, regs: registerMap{iodir: 0x00, gppu: 0x0c, gpio: 0x12, olat: 0x14}},
}

// Dev is an MCP23xxx expander.
type Dev struct {
	mu      sync.Mutex
	d       *i2c.Dev
	variant Variant
	ports   []*port
}

// NewI2C returns an expander on bus at address, which must be in the 0x20 to
// 0x27 range. The bus isn't accessed until the first operation.
func NewI2C(bus i2c.Bus, v Variant, address uint16) (*Dev, error) {
	layout, ok := variants[v]
	if !ok {
		return nil, fmt.Errorf("mcp23xxx: unsupported variant %q", string(v))
	}
	if address < 0x20 || address > 0x27 {
		return nil, fmt.Errorf("mcp23xxx: address 0x%x not supported by %s, must be 0x20-0x27", address, v)
	}
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: address}, variant: v}
	for i := range layout.ports {
		dev.ports = append(dev.ports, newPort(dev.d, layout.regs, i))
	}
	return dev, nil
}

// Pins returns the number of lines of the chip.
func (dev *Dev) Pins() int {
	return 8 * len(dev.ports)
}

func (dev *Dev) locate(number int) (*port, uint8, error) {
	if number < 0 || number >= dev.Pins() {
		return nil, 0, fmt.Errorf("%w: %d on %s", ErrPinRange, number, dev)
	}
	return dev.ports[number/8], uint8(number % 8), nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("mcp23xxx: %w", err)
}

// Open loads the register caches from the chip, so that later writes keep
// the state set by a previous user of the chip.
func (dev *Dev) Open() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	for _, p := range dev.ports {
		for _, r := range []register{regIODIR, regGPPU, regOLAT} {
			if _, err := p.load(r, false); err != nil {
				return wrap(err)
			}
		}
	}
	return nil
}

// SetPinMode sets line number as an input (gpio.IN) or output (gpio.OUT).
func (dev *Dev) SetPinMode(number int, fn pin.Func) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	p, bit, err := dev.locate(number)
	if err != nil {
		return err
	}
	switch fn {
	case gpio.IN:
		return wrap(p.setBit(regIODIR, bit, true))
	case gpio.OUT:
		return wrap(p.setBit(regIODIR, bit, false))
	}
	return fmt.Errorf("mcp23xxx: function not supported: %s", fn)
}

// PullUp enables or disables the 100kΩ pull-up of line number.
func (dev *Dev) PullUp(number int, enabled bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	p, bit, err := dev.locate(number)
	if err != nil {
		return err
	}
	return wrap(p.setBit(regGPPU, bit, enabled))
}

// DigitalWrite sets the output latch of line number.
func (dev *Dev) DigitalWrite(number int, l gpio.Level) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	p, bit, err := dev.locate(number)
	if err != nil {
		return err
	}
	return wrap(p.setBit(regOLAT, bit, l == gpio.High))
}

// DigitalRead returns the level at line number.
func (dev *Dev) DigitalRead(number int) (gpio.Level, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	p, bit, err := dev.locate(number)
	if err != nil {
		return gpio.Low, err
	}
	v, err := p.bit(regGPIO, bit)
	if err != nil {
		return gpio.Low, wrap(err)
	}
	return gpio.Level(v), nil
}

// Halt stops driving all lines by setting them as inputs.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	for _, p := range dev.ports {
		if err := p.store(regIODIR, 0xff); err != nil {
			return wrap(err)
		}
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("%s_%x", dev.variant, dev.d.Addr)
}

var _ conn.Resource = &Dev{}
