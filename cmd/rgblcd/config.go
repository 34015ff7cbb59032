// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/GermanBionicSystems/rgblcd/mcp23xxx"
	"gopkg.in/yaml.v3"
)

const (
	defaultCols         = 16
	defaultRows         = 2
	defaultColor        = "white"
	defaultPollInterval = 50 * time.Millisecond
)

type Config struct {
	Bus          string        `yaml:"bus"`
	Address      uint16        `yaml:"address"`
	Cols         int           `yaml:"cols"`
	Rows         int           `yaml:"rows"`
	Color        string        `yaml:"color"`
	PollInterval time.Duration `yaml:"pollInterval"`
	// Messages maps a button name to the text shown while it is held.
	Messages map[string]string `yaml:"messages"`
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Address == 0 {
		c.Address = mcp23xxx.DefaultAddress
	}
	if c.Cols == 0 {
		c.Cols = defaultCols
	}
	if c.Rows == 0 {
		c.Rows = defaultRows
	}
	if c.Color == "" {
		c.Color = defaultColor
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Address < 0x20 || c.Address > 0x27 {
		return fmt.Errorf("address 0x%x is not in the 0x20-0x27 range", c.Address)
	}
	if c.Rows != 1 && c.Rows != 2 && c.Rows != 4 {
		return fmt.Errorf("rows must be 1, 2 or 4, got %d", c.Rows)
	}
	if c.Cols < 1 || c.Cols > 40 {
		return fmt.Errorf("cols must be between 1 and 40, got %d", c.Cols)
	}
	if _, err := hd44780.ParseColor(c.Color); err != nil {
		return err
	}
	for name := range c.Messages {
		if _, err := parseButton(name); err != nil {
			return err
		}
	}
	return nil
}

// override replaces the values set on the command line.
func (c *Config) override(bus string, address uint16, cols, rows int) error {
	if bus != "" {
		c.Bus = bus
	}
	if address != 0 {
		c.Address = address
	}
	if cols != 0 {
		c.Cols = cols
	}
	if rows != 0 {
		c.Rows = rows
	}
	return c.validate()
}

// readConfig returns the defaults when path is empty.
func readConfig(path string) (*Config, error) {
	if path == "" {
		return parseConfig(nil)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := parseConfig(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// parseButton returns the mask of the button called name, case insensitive.
func parseButton(name string) (hd44780.ButtonMask, error) {
	for _, b := range hd44780.Buttons {
		if strings.EqualFold(b.String(), name) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", name)
}
