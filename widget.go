// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"

	"github.com/open2b/tablesbuilder/internal/escape"
	"github.com/open2b/tablesbuilder/internal/jsliteral"
	"github.com/open2b/tablesbuilder/locale"
)

// TranslationNamespace is the namespace of the keys passed to a Translator.
const TranslationNamespace = locale.Namespace

// Keys of the texts of the default widget options, without namespace.
const (
	KeyLengthMenu       = "datatables.lengthMenu"
	KeyZeroRecords      = "datatables.zeroRecords"
	KeyInfo             = "datatables.info"
	KeyInfoEmpty        = "datatables.infoEmpty"
	KeySearch           = "datatables.search"
	KeyInfoFiltered     = "datatables.infoFiltered"
	KeyPaginateFirst    = "datatables.paginate.first"
	KeyPaginateLast     = "datatables.paginate.last"
	KeyPaginateNext     = "datatables.paginate.next"
	KeyPaginatePrevious = "datatables.paginate.previous"
)

// Translator is implemented by values that translate the texts of the
// default widget options. Translate is called with a key as
// "tables_builder::datatables.search" and returns plain text.
type Translator interface {
	Translate(key string) string
}

// TranslatorFunc is a function that implements Translator.
type TranslatorFunc func(key string) string

// Translate calls f(key).
func (f TranslatorFunc) Translate(key string) string {
	return f(key)
}

func defaultTranslator() Translator {
	return locale.English()
}

// JS is JavaScript code. A widget option with a JS value is written as is,
// for example:
//
//	t.SetOption("fnDrawCallback", tablesbuilder.JS("function () { return initToggles() }"))
type JS string

// JS returns js as a string.
func (js JS) JS() string {
	return string(js)
}

// A FilterMode determines which footer columns are bound to a column search
// of the widget.
type FilterMode int

const (
	// FilterDetected binds the footer columns whose text contains a select
	// element or an input element that is not a button or hidden.
	FilterDetected FilterMode = iota

	// FilterAll binds every column. Columns without a control in the
	// footer are skipped by the browser.
	FilterAll

	// FilterNone does not bind columns.
	FilterNone
)

var filterModeNames = [...]string{
	FilterDetected: "detected",
	FilterAll:      "all",
	FilterNone:     "none",
}

// String returns the name of the mode.
func (mode FilterMode) String() string {
	if 0 <= mode && int(mode) < len(filterModeNames) {
		return filterModeNames[mode]
	}
	return "FilterMode(" + strconv.Itoa(int(mode)) + ")"
}

// ParseFilterMode parses the name of a filter mode: "detected", "all" or
// "none". An empty name is "detected".
func ParseFilterMode(name string) (FilterMode, error) {
	switch strings.ToLower(name) {
	case "", "detected":
		return FilterDetected, nil
	case "all":
		return FilterAll, nil
	case "none":
		return FilterNone, nil
	}
	return 0, &InvalidFilterModeError{Name: name}
}

// DefaultOptions returns the default widget options with the texts
// translated by tr. If tr is nil, the English catalog is used.
func DefaultOptions(tr Translator) *ordereddict.Dict {
	if tr == nil {
		tr = defaultTranslator()
	}
	text := func(key string) string {
		return tr.Translate(TranslationNamespace + "::" + key)
	}
	return ordereddict.NewDict().
		Set("sPaginationType", "bootstrap_alt").
		Set("bProcessing", true).
		Set("bServerSide", true).
		Set("ajax", "").
		Set("sAjaxSource", "").
		Set("columnDefs", []interface{}{
			ordereddict.NewDict().Set("targets", "_all").Set("defaultContent", ""),
		}).
		Set("oLanguage", ordereddict.NewDict().
			Set("sLengthMenu", text(KeyLengthMenu)).
			Set("sZeroRecords", text(KeyZeroRecords)).
			Set("sInfo", text(KeyInfo)).
			Set("sInfoEmpty", text(KeyInfoEmpty)).
			Set("sSearch", text(KeySearch)).
			Set("sInfoFiltered", text(KeyInfoFiltered)).
			Set("oPaginate", ordereddict.NewDict().
				Set("sFirst", text(KeyPaginateFirst)).
				Set("sLast", text(KeyPaginateLast)).
				Set("sNext", text(KeyPaginateNext)).
				Set("sPrevious", text(KeyPaginatePrevious))))
}

// MergeOptions returns the shallow merge of options over defaults. A key
// present in both takes the value in options and keeps its position in
// defaults, the keys only in options follow in their order. The arguments
// are not changed and can be nil.
func MergeOptions(defaults, options *ordereddict.Dict) *ordereddict.Dict {
	merged := ordereddict.NewDict()
	if defaults != nil {
		for _, key := range defaults.Keys() {
			value, _ := defaults.Get(key)
			if options != nil {
				if v, ok := options.Get(key); ok {
					value = v
				}
			}
			merged.Set(key, value)
		}
	}
	if options != nil {
		for _, key := range options.Keys() {
			if defaults != nil {
				if _, ok := defaults.Get(key); ok {
					continue
				}
			}
			value, _ := options.Get(key)
			merged.Set(key, value)
		}
	}
	return merged
}

// WidgetOptions returns the options of the widget initialization script,
// the default options merged with the table options.
func (t *Table) WidgetOptions() *ordereddict.Dict {
	return MergeOptions(DefaultOptions(t.translator), t.options)
}

// renderScript writes the widget initialization script for the table with
// the given id.
func (t *Table) renderScript(w *stickyWriter, id string) {
	w.WriteString(`<script>$(document).ready(function () {var t = $(`)
	_ = escape.QuotedJSString(w, "#"+id)
	w.WriteString(`).DataTable(`)
	_ = jsliteral.Write(w, t.WidgetOptions())
	w.WriteString(`);`)
	switch t.filterMode {
	case FilterDetected:
		for _, i := range filterableColumns(t.sections[Footer].columns) {
			writeListener(w, strconv.Itoa(i))
		}
	case FilterAll:
		w.WriteString(`t.columns().eq(0).each(function (i) {`)
		writeListener(w, "i")
		w.WriteString(`});`)
	}
	w.WriteString(`});</script>`)
}

// writeListener writes the statement that filters the column with the given
// index, a number or a variable name, when its footer control changes.
func writeListener(w *stickyWriter, index string) {
	w.WriteString(`$("select, input", t.column(`)
	w.WriteString(index)
	w.WriteString(`).footer()).on("keyup change", function () {t.column(`)
	w.WriteString(index)
	w.WriteString(`).search(this.value).draw();});`)
}
