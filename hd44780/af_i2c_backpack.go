// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"github.com/GermanBionicSystems/rgblcd/mcp23xxx"
	"periph.io/x/conn/v3/i2c"
)

// AdafruitI2CBackpack is the wiring of the I2C side of the Adafruit I2C/SPI
// LCD backpack. It is an MCP23008 with a single backlight line and no keypad.
//
// https://www.adafruit.com/product/292
var AdafruitI2CBackpack = PinMap{
	RS:                  1,
	RW:                  NoPin,
	Enable:              2,
	Data:                []int{3, 4, 5, 6},
	Backlight:           [3]int{7, NoPin, NoPin},
	BacklightActiveHigh: true,
	Buttons:             [5]int{NoPin, NoPin, NoPin, NoPin, NoPin},
}

// NewAdafruitRGBPlate returns a display configured to use the Adafruit RGB
// LCD plate, an MCP23017 at address on bus driving the display, a three LED
// backlight and a five button keypad. opts.Pins is ignored.
//
// Call Start with the display size before use.
func NewAdafruitRGBPlate(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	return newMCP(bus, mcp23xxx.MCP23017, address, AdafruitRGBPlate, opts)
}

// NewAdafruitI2CBackpack returns a display configured to use the I2C side of
// the Adafruit I2C/SPI backpack. opts.Pins is ignored.
func NewAdafruitI2CBackpack(bus i2c.Bus, address uint16, opts *Opts) (*Dev, error) {
	return newMCP(bus, mcp23xxx.MCP23008, address, AdafruitI2CBackpack, opts)
}

func newMCP(bus i2c.Bus, v mcp23xxx.Variant, address uint16, pins PinMap, opts *Opts) (*Dev, error) {
	mcp, err := mcp23xxx.NewI2C(bus, v, address)
	if err != nil {
		return nil, err
	}
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	o.Pins = &pins
	return New(mcp, &o), nil
}
