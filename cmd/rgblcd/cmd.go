// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/GermanBionicSystems/rgblcd/lcdsim"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const demoPause = 2 * time.Second

// target is the display a command runs on: the plate on an I²C bus, or a
// simulation drawn in the terminal.
type target struct {
	lcd    *hd44780.Dev
	color  hd44780.Color
	sim    *lcdsim.Sim
	screen *lcdsim.Screen
	bus    io.Closer
}

func openTarget(conf *Config, simulate bool) (*target, error) {
	opts := &hd44780.Opts{Logger: log.StandardLogger()}
	if simulate {
		return newSimTarget(conf, opts, nil)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(conf.Bus)
	if err != nil {
		return nil, err
	}
	lcd, err := hd44780.NewAdafruitRGBPlate(bus, conf.Address, opts)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	log.Debugf("Using %s on %s", lcd, bus)
	t := &target{lcd: lcd, bus: bus}
	if err := t.start(conf); err != nil {
		_ = bus.Close()
		return nil, err
	}
	return t, nil
}

// newSimTarget returns a target on a simulated plate, drawn to w or to the
// terminal when w is nil.
func newSimTarget(conf *Config, opts *hd44780.Opts, w io.Writer) (*target, error) {
	sim := lcdsim.New(hd44780.AdafruitRGBPlate, conf.Cols, conf.Rows)
	t := &target{
		lcd:    hd44780.New(sim, opts),
		sim:    sim,
		screen: lcdsim.NewScreen(sim, &lcdsim.ScreenOpts{W: w}),
	}
	if err := t.start(conf); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *target) start(conf *Config) error {
	c, err := hd44780.ParseColor(conf.Color)
	if err != nil {
		return err
	}
	t.color = c
	if err := t.lcd.Start(conf.Cols, conf.Rows); err != nil {
		return err
	}
	if err := t.lcd.SetBacklight(c); err != nil {
		return err
	}
	return t.refresh()
}

// refresh redraws the simulated display.
func (t *target) refresh() error {
	if t.screen == nil {
		return nil
	}
	return t.screen.Refresh()
}

func (t *target) Close() error {
	if t.screen != nil {
		return t.screen.Halt()
	}
	if t.bus != nil {
		return t.bus.Close()
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

var heart = [8]byte{0x00, 0x0a, 0x1f, 0x1f, 0x0e, 0x04, 0x00, 0x00}

// runDemo walks through the display features, pausing between steps. It
// stops between two steps when ctx is cancelled.
func runDemo(ctx context.Context, t *target, pause time.Duration) error {
	lcd := t.lcd
	cols, _ := lcd.Geometry()
	steps := []struct {
		name string
		run  func() error
	}{
		{"hello", func() error {
			return lcd.Print("Hello, world!\nJetson Xavier")
		}},
		{"colors", func() error {
			for c := hd44780.Red; c <= hd44780.White; c++ {
				if err := lcd.SetBacklight(c); err != nil {
					return err
				}
				if err := lcd.ClearDisplay(); err != nil {
					return err
				}
				if err := lcd.Print("Color: " + c.String()); err != nil {
					return err
				}
				if err := t.refresh(); err != nil {
					return err
				}
				if err := sleep(ctx, pause/4); err != nil {
					return err
				}
			}
			return lcd.SetBacklight(t.color)
		}},
		{"custom character", func() error {
			if err := lcd.CreateChar(0, heart); err != nil {
				return err
			}
			if err := lcd.ClearDisplay(); err != nil {
				return err
			}
			return lcd.Print("I \x00 HD44780\n25°C 10µs →")
		}},
		{"cursor", func() error {
			if err := lcd.ClearDisplay(); err != nil {
				return err
			}
			if err := lcd.Print("Cursor:"); err != nil {
				return err
			}
			if _, err := lcd.CursorOn(); err != nil {
				return err
			}
			if _, err := lcd.BlinkOn(); err != nil {
				return err
			}
			if err := t.refresh(); err != nil {
				return err
			}
			if err := sleep(ctx, pause); err != nil {
				return err
			}
			if _, err := lcd.BlinkOff(); err != nil {
				return err
			}
			_, err := lcd.CursorOff()
			return err
		}},
		{"scroll", func() error {
			if err := lcd.ClearDisplay(); err != nil {
				return err
			}
			if err := lcd.Print("Scrolling text"); err != nil {
				return err
			}
			for i := 0; i < cols; i++ {
				if err := lcd.ScrollDisplayRight(); err != nil {
					return err
				}
				if err := t.refresh(); err != nil {
					return err
				}
				if err := sleep(ctx, pause/time.Duration(cols)); err != nil {
					return err
				}
			}
			return lcd.Home()
		}},
		{"right to left", func() error {
			if err := lcd.ClearDisplay(); err != nil {
				return err
			}
			if _, err := lcd.RightToLeft(); err != nil {
				return err
			}
			if err := lcd.SetCursor(cols-1, 0); err != nil {
				return err
			}
			if err := lcd.Print("tfel ot thgir"); err != nil {
				return err
			}
			_, err := lcd.LeftToRight()
			return err
		}},
		{"goodbye", func() error {
			if err := lcd.ClearDisplay(); err != nil {
				return err
			}
			return lcd.Print("Goodbye!")
		}},
	}
	for _, s := range steps {
		log.Debugf("Demo: %s", s.name)
		if err := s.run(); err != nil {
			return err
		}
		if err := t.refresh(); err != nil {
			return err
		}
		if err := sleep(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// runPrint prints text, where the two characters \n start a new line.
func runPrint(t *target, text, color string, clear bool) error {
	if color != "" {
		c, err := hd44780.ParseColor(color)
		if err != nil {
			return err
		}
		if err := t.lcd.SetBacklight(c); err != nil {
			return err
		}
	}
	if clear {
		if err := t.lcd.ClearDisplay(); err != nil {
			return err
		}
	}
	if err := t.lcd.Print(strings.ReplaceAll(text, `\n`, "\n")); err != nil {
		return err
	}
	return t.refresh()
}

// watchButtons polls the keypad every interval and reports each press and
// release until ctx is done. The held buttons, or the configured message of
// a single held button, are shown on the display.
func watchButtons(ctx context.Context, t *target, interval time.Duration, messages map[string]string) error {
	texts := map[hd44780.ButtonMask]string{}
	for name, text := range messages {
		b, err := parseButton(name)
		if err != nil {
			return err
		}
		texts[b] = text
	}

	log.Info("Waiting for buttons, Ctrl-C to stop")
	var last hd44780.ButtonMask
	for {
		m, err := t.lcd.ReadButtons()
		if err != nil {
			return err
		}
		if m != last {
			for _, b := range hd44780.Buttons {
				switch {
				case m.Has(b) && !last.Has(b):
					log.Infof("%s pressed", b)
				case !m.Has(b) && last.Has(b):
					log.Infof("%s released", b)
				}
			}
			last = m
			if err := showButtons(t, m, texts); err != nil {
				return err
			}
		}
		if err := sleep(ctx, interval); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func showButtons(t *target, m hd44780.ButtonMask, texts map[hd44780.ButtonMask]string) error {
	if err := t.lcd.ClearDisplay(); err != nil {
		return err
	}
	text, ok := texts[m]
	if !ok {
		text = "Buttons:\n" + m.String()
	}
	if err := t.lcd.Print(text); err != nil {
		return err
	}
	return t.refresh()
}
