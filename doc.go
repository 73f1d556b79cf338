// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tablesbuilder builds the HTML code of a table, with its header and
// footer, and the script that initializes a DataTables grid on it.
//
//	t := tablesbuilder.New(tablesbuilder.Attrs("id", "users"), nil).
//	    AddHeadColumn("Name", nil).
//	    AddHeadColumn("Email", tablesbuilder.Attrs("class", "wide"))
//	html := t.Render(false)
//
// renders
//
//	<table id="users"><thead><tr><th>Name</th><th class="wide">Email</th></tr></thead></table>
//
// # Header and footer
//
// The header and the footer are sections, each one is a single row of th
// cells. A section without columns is not rendered. Columns are rendered in
// the order they have been added and the text of a column is written as is,
// so it can contain HTML code, as a filter control in a footer cell. Use
// HTMLEscape to write plain text.
//
// # Attributes
//
// Attributes is an ordered mapping from attribute names to values. A null
// entry, added with SetNull, is never written. An entry added with Add has a
// non-negative integer as key and it is written as a boolean attribute:
//
//	tablesbuilder.Attributes{}.Add("required", "disabled").String()
//
// returns ` required="required" disabled="disabled"`.
//
// # Widget initialization
//
// If Render is called with initialize set to true and the table has a non
// empty id attribute, the table is followed by a script that initializes a
// DataTables grid. The options of the grid are the default options, with
// texts translated by the table's Translator, merged with the options
// passed to New and SetOption.
//
// A Table is not safe for concurrent use, distinct tables can be used
// concurrently.
package tablesbuilder
