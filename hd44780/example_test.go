// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/GermanBionicSystems/rgblcd/lcdsim"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// This example drives the Adafruit RGB LCD plate on the first I²C bus.
func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	lcd, err := hd44780.NewAdafruitRGBPlate(bus, 0x20, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := lcd.Start(16, 2); err != nil {
		log.Fatal(err)
	}
	defer lcd.Halt()

	_ = lcd.SetBacklight(hd44780.Teal)
	_ = lcd.Print("Hello, world!\nPress a button")
	for {
		m, err := lcd.ReadButtons()
		if err != nil {
			log.Fatal(err)
		}
		if m != 0 {
			_ = lcd.ClearDisplay()
			_ = lcd.Print(m.String())
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Run the generic text display checks on an Adafruit I2C backpack.
func ExampleNewAdafruitI2CBackpack() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	lcd, err := hd44780.NewAdafruitI2CBackpack(bus, 0x20, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := lcd.Start(20, 4); err != nil {
		log.Fatal(err)
	}
	for _, e := range displaytest.TestTextDisplay(lcd, true) {
		if !errors.Is(e, display.ErrNotImplemented) {
			log.Println(e)
		}
	}
}

// The simulator stands in for the hardware.
func ExampleNew() {
	sim := lcdsim.New(hd44780.AdafruitRGBPlate, 16, 2)
	lcd := hd44780.New(sim, nil)
	if err := lcd.Start(16, 2); err != nil {
		log.Fatal(err)
	}
	_ = lcd.Print("Hello, world!\nJetson Xavier")
	_ = lcd.SetBacklight(hd44780.Violet)
	for _, l := range sim.Lines() {
		fmt.Println(strings.TrimRight(l, " "))
	}
	fmt.Println(sim.Backlight())
	// Output:
	// Hello, world!
	// Jetson Xavier
	// violet
}
