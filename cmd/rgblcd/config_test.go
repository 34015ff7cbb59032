// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GermanBionicSystems/rgblcd/hd44780"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	c, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "", c.Bus)
	assert.Equal(t, uint16(0x20), c.Address)
	assert.Equal(t, 16, c.Cols)
	assert.Equal(t, 2, c.Rows)
	assert.Equal(t, "white", c.Color)
	assert.Equal(t, 50*time.Millisecond, c.PollInterval)
	assert.Empty(t, c.Messages)
}

func TestConfig(t *testing.T) {
	c, err := parseConfig([]byte(`
bus: /dev/i2c-8
address: 0x21
cols: 20
rows: 4
color: Teal
pollInterval: 20ms
messages:
  up: Volume +
  SELECT: "Menu"
`))
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-8", c.Bus)
	assert.Equal(t, uint16(0x21), c.Address)
	assert.Equal(t, 20, c.Cols)
	assert.Equal(t, 4, c.Rows)
	assert.Equal(t, "Teal", c.Color)
	assert.Equal(t, 20*time.Millisecond, c.PollInterval)
	assert.Equal(t, "Volume +", c.Messages["up"])
	assert.Equal(t, "Menu", c.Messages["SELECT"])
}

func TestConfigInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"address": "address: 0x30",
		"rows":    "rows: 3",
		"cols":    "cols: 41",
		"color":   "color: purple",
		"button":  "messages:\n  middle: hi",
		"yaml":    "cols: [1",
	} {
		_, err := parseConfig([]byte(content))
		assert.Error(t, err, name)
	}
}

func TestOverride(t *testing.T) {
	c, err := parseConfig(nil)
	require.NoError(t, err)
	require.NoError(t, c.override("", 0, 0, 0))
	assert.Equal(t, uint16(0x20), c.Address)

	require.NoError(t, c.override("1", 0x27, 8, 1))
	assert.Equal(t, "1", c.Bus)
	assert.Equal(t, uint16(0x27), c.Address)
	assert.Equal(t, 8, c.Cols)
	assert.Equal(t, 1, c.Rows)

	assert.Error(t, c.override("", 0, 0, 3))
}

func TestReadConfig(t *testing.T) {
	c, err := readConfig("")
	require.NoError(t, err)
	assert.Equal(t, 16, c.Cols)

	path := filepath.Join(t.TempDir(), "rgblcd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: 1\ncols: 8\n"), 0o644))
	c, err = readConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Cols)
	assert.Equal(t, 1, c.Rows)

	require.NoError(t, os.WriteFile(path, []byte("rows: 5\n"), 0o644))
	_, err = readConfig(path)
	assert.ErrorContains(t, err, path)

	_, err = readConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseButton(t *testing.T) {
	b, err := parseButton("left")
	require.NoError(t, err)
	assert.Equal(t, hd44780.ButtonLeft, b)
	_, err = parseButton("none")
	assert.Error(t, err)
}
