// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tablesbuilder

import (
	"strconv"
	"strings"

	"github.com/open2b/tablesbuilder/internal/escape"
)

// Attr is an entry of an Attributes mapping.
type Attr struct {
	Key   string // attribute name or non-negative integer index
	Value string
	Null  bool // the entry is never written
}

// Attributes is an ordered mapping of HTML attributes. Keys are unique.
//
// The methods that change the mapping return the updated mapping, as append
// does, and can be chained:
//
//	attrs := tablesbuilder.Attrs("class", "table").Set("id", "users").Add("hidden")
type Attributes []Attr

// Attrs returns an Attributes with the given name and value pairs. It panics
// if the number of arguments is odd.
func Attrs(pairs ...string) Attributes {
	if len(pairs)%2 == 1 {
		panic("tablesbuilder: odd argument count")
	}
	a := make(Attributes, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		a = a.Set(pairs[i], pairs[i+1])
	}
	return a
}

// index returns the index of the entry with the given key or -1.
func (a Attributes) index(key string) int {
	for i, attr := range a {
		if attr.Key == key {
			return i
		}
	}
	return -1
}

// Set sets the value of the attribute with the given key. If the key is
// already present its value is replaced, keeping its position.
func (a Attributes) Set(key, value string) Attributes {
	if i := a.index(key); i >= 0 {
		a[i] = Attr{Key: key, Value: value}
		return a
	}
	return append(a, Attr{Key: key, Value: value})
}

// SetNull sets a null entry for key. Null entries are not written, they let
// an optional attribute be passed without a condition at the call site.
func (a Attributes) SetNull(key string) Attributes {
	if i := a.index(key); i >= 0 {
		a[i] = Attr{Key: key, Null: true}
		return a
	}
	return append(a, Attr{Key: key, Null: true})
}

// Add adds boolean attributes, as required or disabled. Each one is added
// with the next free non-negative integer as key and is written as
// name="name".
func (a Attributes) Add(names ...string) Attributes {
	next := 0
	for _, attr := range a {
		if n, ok := indexKey(attr.Key); ok && n >= next {
			next = n + 1
		}
	}
	for _, name := range names {
		a = append(a, Attr{Key: strconv.Itoa(next), Value: name})
		next++
	}
	return a
}

// Get returns the value of the attribute with the given name and reports
// whether it is present. A null entry is not present.
//
// For boolean attributes added with Add, name is the attribute name and not
// its index.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Null {
			continue
		}
		if attr.Key == name {
			return attr.Value, true
		}
		if _, ok := indexKey(attr.Key); ok && attr.Value == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Len returns the number of entries, null entries included.
func (a Attributes) Len() int {
	return len(a)
}

// Clone returns a copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	b := make(Attributes, len(a))
	copy(b, a)
	return b
}

// String returns the attributes as they are written in a start tag, in
// order and with escaped values. If there are no entries to write, it
// returns an empty string, otherwise the returned string starts with a
// space.
func (a Attributes) String() string {
	var b strings.Builder
	_ = writeAttributes(&b, a)
	return b.String()
}

// writeAttributes writes the attributes a to w.
func writeAttributes(w escape.StrWriter, a Attributes) error {
	for _, attr := range a {
		if attr.Null {
			continue
		}
		name := attr.Key
		if _, ok := indexKey(name); ok {
			name = attr.Value
		}
		_, err := w.WriteString(" ")
		if err == nil {
			_, err = w.WriteString(name)
		}
		if err == nil {
			_, err = w.WriteString(`="`)
		}
		if err == nil {
			err = escape.HTML(w, attr.Value)
		}
		if err == nil {
			_, err = w.WriteString(`"`)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// indexKey parses key as a non-negative integer index.
func indexKey(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if c := key[i]; c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n, true
}
