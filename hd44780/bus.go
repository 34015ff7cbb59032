// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true
)

func (lcd *Dev) out(pin int, l gpio.Level) error {
	if err := lcd.exp.DigitalWrite(pin, l); err != nil {
		return fmt.Errorf("hd44780: write pin %d: %w", pin, err)
	}
	return nil
}

// send writes either a command or data, with automatic 4/8-bit selection.
func (lcd *Dev) send(value byte, mode writeMode) error {
	if err := lcd.out(lcd.pins.RS, gpio.Level(mode)); err != nil {
		return err
	}
	if lcd.pins.RW != NoPin {
		if err := lcd.out(lcd.pins.RW, gpio.Low); err != nil {
			return err
		}
	}
	if lcd.function&Mode8Bit != 0 {
		return lcd.write8Bits(value)
	}
	if err := lcd.write4Bits(value >> 4); err != nil {
		return err
	}
	return lcd.write4Bits(value)
}

func (lcd *Dev) write4Bits(value byte) error {
	return lcd.writeBits(value, lcd.pins.Data[len(lcd.pins.Data)-4:])
}

func (lcd *Dev) write8Bits(value byte) error {
	return lcd.writeBits(value, lcd.pins.Data)
}

// writeBits presents bit i of value on lines[i] and latches it.
func (lcd *Dev) writeBits(value byte, lines []int) error {
	for i, pin := range lines {
		if err := lcd.out(pin, gpio.Level((value>>uint(i))&0x01 == 0x01)); err != nil {
			return err
		}
	}
	return lcd.pulseEnable()
}

func (lcd *Dev) pulseEnable() error {
	if err := lcd.out(lcd.pins.Enable, gpio.Low); err != nil {
		return err
	}
	lcd.clock.Sleep(pulseDelay)
	if err := lcd.out(lcd.pins.Enable, gpio.High); err != nil {
		return err
	}
	lcd.clock.Sleep(pulseDelay)
	if err := lcd.out(lcd.pins.Enable, gpio.Low); err != nil {
		return err
	}
	lcd.clock.Sleep(settleDelay)
	return nil
}

// Command sends value as an instruction. The host cursor is not updated, so
// instructions that move the address counter should go through the dedicated
// methods.
func (lcd *Dev) Command(value byte) error {
	if !lcd.started {
		return ErrNotStarted
	}
	return lcd.command(value)
}

func (lcd *Dev) command(value byte) error {
	lcd.log.Tracef("hd44780: command 0x%02x", value)
	return lcd.send(value, modeCommand)
}

// WriteByte writes value at the cursor and advances the host column in the
// current text direction. It does not wrap.
func (lcd *Dev) WriteByte(value byte) error {
	if !lcd.started {
		return ErrNotStarted
	}
	return lcd.writeGlyph(value)
}

func (lcd *Dev) writeGlyph(value byte) error {
	if err := lcd.send(value, modeData); err != nil {
		return err
	}
	if lcd.entry&EntryLeft != 0 {
		lcd.pos.Col++
	} else {
		lcd.pos.Col--
	}
	return nil
}
