// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"strconv"
	"strings"
)

// A Section is a row group of a table, the header or the footer.
type Section int

const (
	Header Section = iota
	Footer
)

var sectionNames = [...]string{
	Header: "header",
	Footer: "footer",
}

var sectionTags = [...]string{
	Header: "thead",
	Footer: "tfoot",
}

// String returns the name of the section.
func (s Section) String() string {
	if s.valid() {
		return sectionNames[s]
	}
	return "Section(" + strconv.Itoa(int(s)) + ")"
}

func (s Section) valid() bool {
	return s == Header || s == Footer
}

// ParseSection parses a section name. It accepts "header", "head", "footer"
// and "foot", in any case. For any other name it returns an
// *InvalidSectionError.
func ParseSection(name string) (Section, error) {
	switch strings.ToLower(name) {
	case "header", "head":
		return Header, nil
	case "footer", "foot":
		return Footer, nil
	}
	return 0, &InvalidSectionError{Name: name}
}

// Column is a th cell of a section. Text is HTML code and is written as is.
type Column struct {
	Text       string
	Attributes Attributes
}

// section holds the columns and the row attributes of a section.
type section struct {
	rowAttributes Attributes
	columns       []Column
}

func (s *section) addColumns(columns []Column) {
	for _, c := range columns {
		s.columns = append(s.columns, Column{Text: c.Text, Attributes: c.Attributes.Clone()})
	}
}

func (s *section) setRowAttributes(attrs Attributes) {
	s.rowAttributes = attrs.Clone()
}

func (s *section) clone() section {
	c := section{rowAttributes: s.rowAttributes.Clone()}
	c.addColumns(s.columns)
	return c
}

// render writes the section, using tag as the wrapping tag, to w. A section
// without columns is not written.
func (s *section) render(w *stickyWriter, tag string) {
	if len(s.columns) == 0 {
		return
	}
	w.WriteString("<")
	w.WriteString(tag)
	w.WriteString("><tr")
	_ = writeAttributes(w, s.rowAttributes)
	w.WriteString(">")
	for _, c := range s.columns {
		w.WriteString("<th")
		_ = writeAttributes(w, c.Attributes)
		w.WriteString(">")
		w.WriteString(c.Text)
		w.WriteString("</th>")
	}
	w.WriteString("</tr></")
	w.WriteString(tag)
	w.WriteString(">")
}
