// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"io"
	"strings"

	"github.com/Velocidex/ordereddict"

	"github.com/open2b/tablesbuilder/internal/escape"
)

// Table builds the HTML code of a table. Create a Table with New, configure
// it with its methods and render it with Render. A Table can be rendered
// many times, rendering does not change it.
type Table struct {
	attributes Attributes
	sections   [2]section
	options    *ordereddict.Dict
	translator Translator
	filterMode FilterMode
}

// New returns a new table with the given table attributes and widget
// options. options can be nil. The options are merged over the default
// options when the widget initialization script is rendered.
//
// attributes and options are copied, later changes to them do not change
// the table.
func New(attributes Attributes, options *ordereddict.Dict) *Table {
	return &Table{
		attributes: attributes.Clone(),
		options:    copyDict(options),
		translator: defaultTranslator(),
	}
}

// section returns the section s. It panics if s is not a valid section.
func (t *Table) section(s Section) *section {
	if !s.valid() {
		panic(&InvalidSectionError{Name: s.String()})
	}
	return &t.sections[s]
}

// AddColumns appends columns to the section s.
func (t *Table) AddColumns(s Section, columns ...Column) *Table {
	t.section(s).addColumns(columns)
	return t
}

// AddColumn appends a column, with the given text and attributes, to the
// section s.
func (t *Table) AddColumn(s Section, text string, attributes Attributes) *Table {
	return t.AddColumns(s, Column{Text: text, Attributes: attributes})
}

// SetRowAttributes replaces the attributes of the tr element of the section
// s.
func (t *Table) SetRowAttributes(s Section, attributes Attributes) *Table {
	t.section(s).setRowAttributes(attributes)
	return t
}

// AddHeadColumns appends columns to the header.
func (t *Table) AddHeadColumns(columns ...Column) *Table {
	return t.AddColumns(Header, columns...)
}

// AddFootColumns appends columns to the footer.
func (t *Table) AddFootColumns(columns ...Column) *Table {
	return t.AddColumns(Footer, columns...)
}

// AddHeadColumn appends a column to the header.
func (t *Table) AddHeadColumn(text string, attributes Attributes) *Table {
	return t.AddColumn(Header, text, attributes)
}

// AddFootColumn appends a column to the footer.
func (t *Table) AddFootColumn(text string, attributes Attributes) *Table {
	return t.AddColumn(Footer, text, attributes)
}

// AddHeadAttr replaces the attributes of the header row.
func (t *Table) AddHeadAttr(attributes Attributes) *Table {
	return t.SetRowAttributes(Header, attributes)
}

// AddFootAttr replaces the attributes of the footer row.
func (t *Table) AddFootAttr(attributes Attributes) *Table {
	return t.SetRowAttributes(Footer, attributes)
}

// SetOption sets a widget option. It overrides the default option, or the
// option passed to New, with the same key.
func (t *Table) SetOption(key string, value interface{}) *Table {
	if t.options == nil {
		t.options = ordereddict.NewDict()
	}
	t.options.Set(key, value)
	return t
}

// SetTranslator sets the translator of the default widget options texts.
// If tr is nil, the English catalog is used.
func (t *Table) SetTranslator(tr Translator) *Table {
	if tr == nil {
		tr = defaultTranslator()
	}
	t.translator = tr
	return t
}

// SetFilterMode sets how the footer filter controls are bound to the
// widget columns. The default mode is FilterDetected.
func (t *Table) SetFilterMode(mode FilterMode) *Table {
	t.filterMode = mode
	return t
}

// Attributes returns a copy of the table attributes.
func (t *Table) Attributes() Attributes {
	return t.attributes.Clone()
}

// Columns returns a copy of the columns of the section s.
func (t *Table) Columns(s Section) []Column {
	sec := t.section(s)
	columns := make([]Column, len(sec.columns))
	for i, c := range sec.columns {
		columns[i] = Column{Text: c.Text, Attributes: c.Attributes.Clone()}
	}
	return columns
}

// RowAttributes returns a copy of the row attributes of the section s.
func (t *Table) RowAttributes(s Section) Attributes {
	return t.section(s).rowAttributes.Clone()
}

// Options returns a copy of the widget options set with New and SetOption,
// without the default options.
func (t *Table) Options() *ordereddict.Dict {
	if t.options == nil {
		return ordereddict.NewDict()
	}
	return copyDict(t.options)
}

// Clone returns a copy of the table. Changes to the copy do not change t.
func (t *Table) Clone() *Table {
	c := &Table{
		attributes: t.attributes.Clone(),
		options:    copyDict(t.options),
		translator: t.translator,
		filterMode: t.filterMode,
	}
	for i := range t.sections {
		c.sections[i] = t.sections[i].clone()
	}
	return c
}

// id returns the value of the id attribute and reports whether it is
// present and not empty.
func (t *Table) id() (string, bool) {
	id, ok := t.attributes.Get("id")
	return id, ok && id != ""
}

// Render renders the table and returns its HTML code. If initialize is true
// and the table has a non empty id attribute, the code ends with the script
// that initializes the widget.
func (t *Table) Render(initialize bool) string {
	var b strings.Builder
	_ = t.RenderTo(&b, initialize)
	return b.String()
}

// RenderTo renders the table as Render does, writing the code to out. It
// returns the first error returned by out.
func (t *Table) RenderTo(out io.Writer, initialize bool) error {
	w := &stickyWriter{w: escape.NewStrWriter(out)}
	w.WriteString("<table")
	_ = writeAttributes(w, t.attributes)
	w.WriteString(">")
	t.sections[Header].render(w, sectionTags[Header])
	t.sections[Footer].render(w, sectionTags[Footer])
	w.WriteString("</table>")
	if initialize {
		if id, ok := t.id(); ok {
			t.renderScript(w, id)
		}
	}
	return w.err
}

// stickyWriter is an escape.StrWriter that, after the first error, does not
// write anymore and returns that error.
type stickyWriter struct {
	w   escape.StrWriter
	err error
}

func (sw *stickyWriter) Write(p []byte) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.Write(p)
	sw.err = err
	return n, err
}

func (sw *stickyWriter) WriteString(s string) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.WriteString(s)
	sw.err = err
	return n, err
}

// copyDict returns a shallow copy of d. If d is nil, it returns nil.
func copyDict(d *ordereddict.Dict) *ordereddict.Dict {
	if d == nil {
		return nil
	}
	c := ordereddict.NewDict()
	for _, key := range d.Keys() {
		value, _ := d.Get(key)
		c.Set(key, value)
	}
	return c
}
