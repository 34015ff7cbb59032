// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23xxx provides a driver for the MCP23008 and MCP23017 I²C GPIO
// expanders, exposing each line through the pin primitives used by the
// hd44780 package.
//
// Lines are numbered from 0. On the MCP23017, lines 0-7 are port A and lines
// 8-15 are port B.
//
// The direction, pull-up and output latch registers are cached, so writing
// a line costs a single I²C transaction and writing an unchanged level costs
// none. Input levels are always read from the chip.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/20001952C.pdf
package mcp23xxx
