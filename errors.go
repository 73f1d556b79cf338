// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"errors"
	"strconv"
)

// ErrInvalidSection is the error matched by an *InvalidSectionError.
var ErrInvalidSection = errors.New("invalid section")

// InvalidSectionError represents an error that occurs when a section name or
// value does not denote the header or the footer.
type InvalidSectionError struct {
	Name string
}

// Error returns a string representation of the error.
func (err *InvalidSectionError) Error() string {
	return "tablesbuilder: invalid section " + strconv.Quote(err.Name)
}

// Is reports whether target is ErrInvalidSection.
func (err *InvalidSectionError) Is(target error) bool {
	return target == ErrInvalidSection
}

// InvalidFilterModeError represents an error that occurs parsing a filter
// mode.
type InvalidFilterModeError struct {
	Name string
}

// Error returns a string representation of the error.
func (err *InvalidFilterModeError) Error() string {
	return "tablesbuilder: invalid filter mode " + strconv.Quote(err.Name)
}
