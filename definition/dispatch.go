// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package definition

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/open2b/tablesbuilder"
)

// operation decodes the argument of a step and returns the function that
// applies the step to a table.
type operation func(method string, args *yaml.Node) (func(t *tablesbuilder.Table), error)

// operations contains the operations of the steps. Each one calls a method
// of tablesbuilder.Table.
var operations = map[string]operation{
	"addHead":       columnsOperation((*tablesbuilder.Table).AddHeadColumns),
	"addFoot":       columnsOperation((*tablesbuilder.Table).AddFootColumns),
	"addHeadColumn": columnOperation((*tablesbuilder.Table).AddHeadColumn),
	"addFootColumn": columnOperation((*tablesbuilder.Table).AddFootColumn),
	"addHeadAttr":   attrOperation((*tablesbuilder.Table).AddHeadAttr),
	"addFootAttr":   attrOperation((*tablesbuilder.Table).AddFootAttr),
}

// Dispatch calls on t the method of the operation with the given name,
// passing the decoded args. The operations are
//
//	addHead, addFoot              a sequence of columns or null
//	addHeadColumn, addFootColumn  a column
//	addHeadAttr, addFootAttr      the row attributes
//
// A column is a string, its text, or a mapping with the keys text and
// attributes.
//
// A nil args is a null argument: no columns, an empty column or no
// attributes.
//
// If method is not an operation, Dispatch returns an *UnknownOperationError.
// If args cannot be decoded, it returns a *SyntaxError.
func Dispatch(t *tablesbuilder.Table, method string, args *yaml.Node) error {
	op, ok := operations[method]
	if !ok {
		return &UnknownOperationError{Method: method}
	}
	if args == nil {
		args = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}
	}
	apply, err := op(method, args)
	if err != nil {
		return err
	}
	apply(t)
	return nil
}

func columnsOperation(add func(*tablesbuilder.Table, ...tablesbuilder.Column) *tablesbuilder.Table) operation {
	return func(method string, args *yaml.Node) (func(t *tablesbuilder.Table), error) {
		if args.ShortTag() == "!!null" {
			return func(t *tablesbuilder.Table) {}, nil
		}
		if args.Kind != yaml.SequenceNode {
			return nil, syntaxError(args, "%s argument must be a sequence", method)
		}
		columns := make([]tablesbuilder.Column, len(args.Content))
		for i, n := range args.Content {
			var err error
			columns[i], err = decodeColumn(n)
			if err != nil {
				return nil, err
			}
		}
		return func(t *tablesbuilder.Table) { add(t, columns...) }, nil
	}
}

func columnOperation(add func(*tablesbuilder.Table, string, tablesbuilder.Attributes) *tablesbuilder.Table) operation {
	return func(method string, args *yaml.Node) (func(t *tablesbuilder.Table), error) {
		c, err := decodeColumn(args)
		if err != nil {
			return nil, err
		}
		return func(t *tablesbuilder.Table) { add(t, c.Text, c.Attributes) }, nil
	}
}

func attrOperation(set func(*tablesbuilder.Table, tablesbuilder.Attributes) *tablesbuilder.Table) operation {
	return func(method string, args *yaml.Node) (func(t *tablesbuilder.Table), error) {
		attrs, err := decodeAttributes(args)
		if err != nil {
			return nil, err
		}
		return func(t *tablesbuilder.Table) { set(t, attrs) }, nil
	}
}

// decodeColumn decodes a column.
func decodeColumn(n *yaml.Node) (tablesbuilder.Column, error) {
	var c tablesbuilder.Column
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() != "!!null" {
			c.Text = n.Value
		}
		return c, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "text":
				if value.Kind != yaml.ScalarNode {
					return c, syntaxError(value, "column text must be a string")
				}
				if value.ShortTag() != "!!null" {
					c.Text = value.Value
				}
			case "attributes":
				var err error
				c.Attributes, err = decodeAttributes(value)
				if err != nil {
					return c, err
				}
			default:
				return c, syntaxError(key, "unknown column key %q", key.Value)
			}
		}
		return c, nil
	}
	return c, syntaxError(n, "column must be a string or a mapping")
}

// SyntaxError records an error in a definition with the path and the
// position where the error occurred.
type SyntaxError struct {
	Path   string // empty if the definition has not been read from a file
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxError(n *yaml.Node, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Line: n.Line, Column: n.Column, Err: errors.Errorf(format, args...)}
}

// UnknownOperationError represents an error that occurs when a step names
// an operation that does not exist.
type UnknownOperationError struct {
	Method string
}

func (err *UnknownOperationError) Error() string {
	return "unknown operation " + strconv.Quote(err.Method)
}
