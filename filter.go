// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// filterableColumns returns the indexes of the columns whose text contains
// a filter control.
func filterableColumns(columns []Column) []int {
	var indexes []int
	for i, c := range columns {
		if hasFilterControl(c.Text) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// hasFilterControl reports whether the HTML code src contains a select
// element or an input element that a user can type into or change.
func hasFilterControl(src string) bool {
	if !strings.Contains(src, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch atom.Lookup(name) {
			case atom.Select:
				return true
			case atom.Input:
				if isFilterInput(z, hasAttr) {
					return true
				}
			}
		}
	}
}

// isFilterInput reports whether the input tag, just read by z, is a control
// whose value can be used as a search.
func isFilterInput(z *html.Tokenizer, hasAttr bool) bool {
	typ := ""
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "type" {
			typ = strings.ToLower(strings.TrimSpace(string(val)))
		}
	}
	switch typ {
	case "hidden", "button", "submit", "reset", "image", "file":
		return false
	}
	return true
}
