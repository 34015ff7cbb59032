// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// register indexes the per port registers the driver uses.
type register int

const (
	regIODIR register = iota // direction, 1 is input
	regGPPU                  // pull-up enable
	regGPIO                  // input level, never cached
	regOLAT                  // output latch
	numRegisters
)

func (r register) String() string {
	return [...]string{"IODIR", "GPPU", "GPIO", "OLAT"}[r]
}

// port is one 8 line port of the chip with a shadow copy of its registers.
type port struct {
	d     *i2c.Dev
	addr  [numRegisters]uint8
	value [numRegisters]uint8
	valid [numRegisters]bool
}

// newPort returns port index of a chip whose port A registers are at base.
// Port B registers follow their port A counterpart.
func newPort(d *i2c.Dev, base registerMap, index int) *port {
	off := uint8(index)
	return &port{
		d:    d,
		addr: [numRegisters]uint8{base.iodir + off, base.gppu + off, base.gpio + off, base.olat + off},
	}
}

// load reads r from the chip unless a valid shadow exists and cached is set.
func (p *port) load(r register, cached bool) (uint8, error) {
	if cached && p.valid[r] {
		return p.value[r], nil
	}
	var rx [1]byte
	if err := p.d.Tx([]byte{p.addr[r]}, rx[:]); err != nil {
		return 0, fmt.Errorf("read %s: %w", r, err)
	}
	if r != regGPIO {
		p.value[r] = rx[0]
		p.valid[r] = true
	}
	return rx[0], nil
}

// store writes v to r, skipping the transaction when the shadow already
// holds v.
func (p *port) store(r register, v uint8) error {
	if p.valid[r] && p.value[r] == v {
		return nil
	}
	if err := p.d.Tx([]byte{p.addr[r], v}, nil); err != nil {
		// The chip state is unknown now.
		p.valid[r] = false
		return fmt.Errorf("write %s: %w", r, err)
	}
	p.value[r] = v
	p.valid[r] = true
	return nil
}

// setBit changes one bit of r with a read-modify-write on the shadow.
func (p *port) setBit(r register, bit uint8, on bool) error {
	v, err := p.load(r, true)
	if err != nil {
		return err
	}
	if on {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	return p.store(r, v)
}

// bit reads one bit of r from the chip.
func (p *port) bit(r register, bit uint8) (bool, error) {
	v, err := p.load(r, false)
	return v&(1<<bit) != 0, err
}
