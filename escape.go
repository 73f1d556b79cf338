// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"github.com/open2b/tablesbuilder/internal/escape"
)

// HTMLEscape escapes s, replacing the characters <, >, &, " and ', and
// returns the escaped string.
//
// Use HTMLEscape to put a trusted or untrusted string into the text of a
// column or into an attribute value. Attribute values are already escaped
// when rendered, so don't escape them twice.
func HTMLEscape(s string) string {
	return escape.HTMLString(s)
}
