// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgblcd is a container for the character LCD plate drivers.
//
// hd44780 drives the display and reads the keypad, mcp23xxx is the I²C GPIO
// expander of the plate and lcdsim simulates both. cmd/rgblcd is a command
// line tool built on them.
package rgblcd
