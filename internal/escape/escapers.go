// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package escape implements the escapers used to write attribute values and
// JavaScript string literals.
package escape

import (
	"io"
	"strings"
)

// StrWriter is implemented by *strings.Builder and *bytes.Buffer.
type StrWriter interface {
	Write(b []byte) (int, error)
	WriteString(s string) (int, error)
}

type strWriterWrapper struct {
	w io.Writer
}

func (wr strWriterWrapper) Write(b []byte) (int, error) {
	return wr.w.Write(b)
}

func (wr strWriterWrapper) WriteString(s string) (int, error) {
	return wr.w.Write([]byte(s))
}

// NewStrWriter returns w as a StrWriter.
func NewStrWriter(w io.Writer) StrWriter {
	if sw, ok := w.(StrWriter); ok {
		return sw
	}
	return strWriterWrapper{w}
}

// HTML escapes the string s, so it can be placed inside HTML or in a quoted
// attribute value, and writes it to w.
func HTML(w StrWriter, s string) error {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '"':
			esc = "&#34;"
		case '\'':
			esc = "&#39;"
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		default:
			continue
		}
		if last != i {
			_, err := w.WriteString(s[last:i])
			if err != nil {
				return err
			}
		}
		_, err := w.WriteString(esc)
		if err != nil {
			return err
		}
		last = i + 1
	}
	if last != len(s) {
		_, err := w.WriteString(s[last:])
		return err
	}
	return nil
}

// HTMLString returns s escaped as HTML does.
func HTMLString(s string) string {
	if !strings.ContainsAny(s, "\"'&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 10)
	_ = HTML(&b, s)
	return b.String()
}

// jsStringEscapes contains the runes that must be escaped when placed within
// a JavaScript and JSON string with single or double quotes, in addition to
// the runes U+2028 and U+2029.
var jsStringEscapes = []string{
	0:    `\u0000`,
	1:    `\u0001`,
	2:    `\u0002`,
	3:    `\u0003`,
	4:    `\u0004`,
	5:    `\u0005`,
	6:    `\u0006`,
	7:    `\u0007`,
	'\b': `\b`,
	'\t': `\t`,
	'\n': `\n`,
	'\v': `\u000b`,
	'\f': `\f`,
	'\r': `\r`,
	14:   `\u000e`,
	15:   `\u000f`,
	16:   `\u0010`,
	17:   `\u0011`,
	18:   `\u0012`,
	19:   `\u0013`,
	20:   `\u0014`,
	21:   `\u0015`,
	22:   `\u0016`,
	23:   `\u0017`,
	24:   `\u0018`,
	25:   `\u0019`,
	26:   `\u001a`,
	27:   `\u001b`,
	28:   `\u001c`,
	29:   `\u001d`,
	30:   `\u001e`,
	31:   `\u001f`,
	'"':  `\"`,
	'&':  `\u0026`,
	'\'': `\u0027`,
	'<':  `\u003c`,
	'>':  `\u003e`,
	'\\': `\\`,
}

// JSString escapes the string s so it can be placed within a JavaScript or
// JSON string with single or double quotes, and writes it to w. The escaped
// string never contains '<', so it cannot close a script element.
func JSString(w StrWriter, s string) error {
	last := 0
	for i, c := range s {
		var esc string
		switch {
		case int(c) < len(jsStringEscapes):
			esc = jsStringEscapes[c]
		case c == '\u2028':
			esc = `\u2028`
		case c == '\u2029':
			esc = `\u2029`
		}
		if esc == "" {
			continue
		}
		if last != i {
			_, err := w.WriteString(s[last:i])
			if err != nil {
				return err
			}
		}
		_, err := w.WriteString(esc)
		if err != nil {
			return err
		}
		if c == '\u2028' || c == '\u2029' {
			last = i + 3
		} else {
			last = i + 1
		}
	}
	if last != len(s) {
		_, err := w.WriteString(s[last:])
		return err
	}
	return nil
}

// QuotedJSString writes s to w as a double quoted JavaScript string.
func QuotedJSString(w StrWriter, s string) error {
	_, err := w.WriteString(`"`)
	if err == nil {
		err = JSString(w, s)
	}
	if err == nil {
		_, err = w.WriteString(`"`)
	}
	return err
}
