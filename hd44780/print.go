// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Codes of the A00 character ROM that have a Unicode counterpart outside
// ASCII.
var romSymbols = map[rune]byte{
	'¥': 0x5c,
	'→': 0x7e,
	'←': 0x7f,
	'°': 0xdf,
	'µ': 0xe4,
	'μ': 0xe4,
}

// foldText converts s to character ROM codes. Accents are stripped, runes 0
// to 7 select the custom characters and anything else becomes '?'.
func foldText(s string) []byte {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := romSymbols[r]; ok {
			out = append(out, b)
			continue
		}
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		f, _, err := transform.String(t, string(r))
		if err != nil || f == "" || !isASCII(f) {
			out = append(out, '?')
			continue
		}
		out = append(out, f...)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Print writes text at the cursor. A '\n' moves to the start of the next
// line, and text reaching the edge of the display continues on the next
// line. Lines past the last row wrap to the first row. Start of line is the
// right edge when the text flows right to left.
func (lcd *Dev) Print(text string) error {
	if err := lcd.ready(); err != nil {
		return err
	}
	_, err := lcd.layout(foldText(text))
	return err
}

// layout writes p one byte at a time, keeping lcd.pos in step with the
// controller address counter.
func (lcd *Dev) layout(p []byte) (int, error) {
	for n, c := range p {
		if c == '\n' {
			if err := lcd.newLine(); err != nil {
				return n, err
			}
			continue
		}
		if lcd.pos.Col > lcd.cols-1 || lcd.pos.Col < 0 {
			if err := lcd.newLine(); err != nil {
				return n, err
			}
		}
		if err := lcd.writeGlyph(c); err != nil {
			return n, err
		}
	}
	return len(p), nil
}

func (lcd *Dev) newLine() error {
	line := (lcd.pos.Line + 1) % lcd.rows
	col := 0
	if lcd.entry&EntryLeft == 0 {
		col = lcd.cols - 1
	}
	return lcd.setCursor(col, line)
}
