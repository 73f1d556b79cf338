// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsliteral writes Go values as JavaScript object literals that can
// be placed inside a script element.
package jsliteral

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"

	"github.com/open2b/tablesbuilder/internal/escape"
)

// JSStringer is implemented by values that are written verbatim as
// JavaScript code.
type JSStringer interface {
	JS() string
}

// Write writes value to out as a JSON literal.
//
// Values implementing JSStringer are written as returned by their JS method,
// so the result is JSON only if no such values are present. Keys of
// *ordereddict.Dict values keep their order, keys of maps are sorted.
// Nil pointers, and values that cannot be represented as channels and
// functions, are written as null.
func Write(out io.Writer, value interface{}) error {
	return write(escape.NewStrWriter(out), value)
}

// String returns value as a literal.
func String(value interface{}) string {
	var b strings.Builder
	_ = Write(&b, value)
	return b.String()
}

func write(w escape.StrWriter, value interface{}) error {

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
		_, err := w.WriteString("null")
		return err
	}

	switch v := value.(type) {
	case nil:
		_, err := w.WriteString("null")
		return err
	case JSStringer:
		_, err := w.WriteString(v.JS())
		return err
	case *ordereddict.Dict:
		return writeDict(w, v)
	case time.Time:
		return escape.QuotedJSString(w, v.Format(time.RFC3339))
	case json.Marshaler:
		b, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		json.HTMLEscape(&buf, b)
		_, err = w.Write(buf.Bytes())
		return err
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return err
		}
		return escape.QuotedJSString(w, string(text))
	case error:
		value = v.Error()
	}

	v := reflect.ValueOf(value)

	var s string

	switch v.Kind() {
	case reflect.Bool:
		s = "false"
		if v.Bool() {
			s = "true"
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s = strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s = strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			s = "null"
			break
		}
		bits := 64
		if v.Kind() == reflect.Float32 {
			bits = 32
		}
		s = strconv.FormatFloat(f, 'f', -1, bits)
	case reflect.String:
		return escape.QuotedJSString(w, v.String())
	case reflect.Slice:
		if v.IsNil() {
			s = "null"
			break
		}
		fallthrough
	case reflect.Array:
		if v.Len() == 0 {
			s = "[]"
			break
		}
		_, err := w.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if err != nil {
				return err
			}
			if i > 0 {
				_, err = w.WriteString(",")
			}
			if err == nil {
				err = write(w, v.Index(i).Interface())
			}
		}
		if err == nil {
			_, err = w.WriteString("]")
		}
		return err
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			s = "null"
			break
		}
		return write(w, v.Elem().Interface())
	case reflect.Struct:
		return writeStruct(w, v)
	case reflect.Map:
		if v.IsNil() {
			s = "null"
			break
		}
		return writeMap(w, v)
	default:
		s = "null"
	}

	_, err := w.WriteString(s)
	return err
}

// writeDict writes an ordered dictionary keeping the order of its keys.
func writeDict(w escape.StrWriter, dict *ordereddict.Dict) error {
	_, err := w.WriteString("{")
	for i, key := range dict.Keys() {
		if err != nil {
			return err
		}
		value, _ := dict.Get(key)
		err = writeMember(w, i == 0, key, value)
	}
	if err == nil {
		_, err = w.WriteString("}")
	}
	return err
}

func writeMap(w escape.StrWriter, v reflect.Value) error {
	type keyPair struct {
		key string
		val interface{}
	}
	keyPairs := make([]keyPair, v.Len())
	iter := v.MapRange()
	for i := 0; iter.Next(); i++ {
		key := iter.Key()
		switch k := key.Interface().(type) {
		case string:
			keyPairs[i].key = k
		case encoding.TextMarshaler:
			text, err := k.MarshalText()
			if err != nil {
				return err
			}
			keyPairs[i].key = string(text)
		default:
			keyPairs[i].key = keyString(key)
		}
		keyPairs[i].val = iter.Value().Interface()
	}
	sort.Slice(keyPairs, func(i, j int) bool {
		return keyPairs[i].key < keyPairs[j].key
	})
	_, err := w.WriteString("{")
	for i, keyPair := range keyPairs {
		if err != nil {
			return err
		}
		err = writeMember(w, i == 0, keyPair.key, keyPair.val)
	}
	if err == nil {
		_, err = w.WriteString("}")
	}
	return err
}

func writeStruct(w escape.StrWriter, v reflect.Value) error {
	t := v.Type()
	n := t.NumField()
	first := true
	_, err := w.WriteString(`{`)
	for i := 0; i < n; i++ {
		if err != nil {
			return err
		}
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		value := v.Field(i)
		if tag := field.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}
			tagName, omitempty := parseTagValue(tag)
			if omitempty && isEmptyValue(value) {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		err = writeMember(w, first, name, value.Interface())
		first = false
	}
	if err == nil {
		_, err = w.WriteString(`}`)
	}
	return err
}

// writeMember writes a member of an object.
func writeMember(w escape.StrWriter, first bool, key string, value interface{}) error {
	var err error
	if first {
		_, err = w.WriteString(`"`)
	} else {
		_, err = w.WriteString(`,"`)
	}
	if err == nil {
		err = escape.JSString(w, key)
	}
	if err == nil {
		_, err = w.WriteString(`":`)
	}
	if err == nil {
		err = write(w, value)
	}
	return err
}

// keyString returns the string representation of a map key with a basic
// kind.
func keyString(key reflect.Value) string {
	switch key.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(key.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(key.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(key.Bool())
	case reflect.String:
		return key.String()
	}
	return fmt.Sprint(key.Interface())
}

// parseTagValue parses a 'json' tag value and returns its name and whether
// its options contain 'omitempty'.
func parseTagValue(tag string) (name string, omitempty bool) {
	sep := strings.IndexByte(tag, ',')
	if sep == -1 {
		return tag, false
	}
	name = tag[:sep]
	for _, opt := range strings.Split(tag[sep+1:], ",") {
		if opt == "omitempty" {
			return name, true
		}
	}
	return name, false
}

// isEmptyValue reports whether v is an empty value for JSON.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
