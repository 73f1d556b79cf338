// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package definition reads tables from YAML definitions.
//
// A definition describes the table attributes, the widget options and the
// steps that add the columns:
//
//	description: Users of the shop.
//	attributes: {id: users, class: table}
//	initialize: true
//	filter: detected
//	options:
//	  bServerSide: false
//	  fnDrawCallback: !js 'function () { initToggles(); }'
//	steps:
//	  - addHead: [{text: Name}, {text: Email, attributes: {class: wide}}]
//	  - addHeadAttr: {class: head}
//	  - addFootColumn: {text: '<select></select>'}
//	  - addFootColumn: Plain text
//
// Each step names an operation of the table, see Dispatch.
package definition

import (
	"io"
	"os"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/open2b/tablesbuilder"
)

// Definition is a table definition.
type Definition struct {
	Description string                   // Markdown description
	Attributes  tablesbuilder.Attributes // table attributes
	Initialize  bool                     // render the widget initialization script
	Filter      tablesbuilder.FilterMode
	Options     *ordereddict.Dict // widget options, can be nil
	Steps       []Step
}

// Step is a step of a definition. Steps read by Load are decoded once, other
// steps are decoded by Build through Dispatch.
type Step struct {
	Method string
	Args   *yaml.Node // nil is the same as a null argument
	Line   int
	apply  func(t *tablesbuilder.Table)
}

// Load reads a definition from r.
func Load(r io.Reader) (*Definition, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "definition: cannot decode")
	}
	d := &Definition{Initialize: true}
	if err == io.EOF || len(doc.Content) == 0 {
		return d, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, syntaxError(root, "definition must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "description":
			if value.Kind != yaml.ScalarNode {
				return nil, syntaxError(value, "description must be a string")
			}
			d.Description = value.Value
		case "attributes":
			d.Attributes, err = decodeAttributes(value)
		case "initialize":
			if value.Decode(&d.Initialize) != nil {
				return nil, syntaxError(value, "initialize must be a boolean")
			}
		case "filter":
			if value.Kind != yaml.ScalarNode {
				return nil, syntaxError(value, "filter must be a string")
			}
			d.Filter, err = tablesbuilder.ParseFilterMode(value.Value)
			if err != nil {
				err = &SyntaxError{Line: value.Line, Column: value.Column, Err: err}
			}
		case "options":
			d.Options, err = decodeOptions(value)
		case "steps":
			d.Steps, err = decodeSteps(value)
		default:
			return nil, syntaxError(key, "unknown key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// LoadFile reads the definition in the named file.
func LoadFile(name string) (*Definition, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "definition: cannot open")
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		var e *SyntaxError
		if errors.As(err, &e) {
			e.Path = name
		} else {
			err = errors.Wrap(err, name)
		}
		return nil, err
	}
	return d, nil
}

// Build returns a new table as described by the definition. The texts of the
// default widget options are translated by tr, if tr is nil the English
// catalog is used.
//
// Build returns an error only if a step not read by Load cannot be
// dispatched.
func (d *Definition) Build(tr tablesbuilder.Translator) (*tablesbuilder.Table, error) {
	t := tablesbuilder.New(d.Attributes, d.Options).
		SetTranslator(tr).
		SetFilterMode(d.Filter)
	for i, step := range d.Steps {
		if step.apply != nil {
			step.apply(t)
			continue
		}
		if err := Dispatch(t, step.Method, step.Args); err != nil {
			return nil, errors.Wrapf(err, "definition: step %d", i+1)
		}
	}
	return t, nil
}

// Render builds the table and renders it.
func (d *Definition) Render(tr tablesbuilder.Translator) (string, error) {
	t, err := d.Build(tr)
	if err != nil {
		return "", err
	}
	return t.Render(d.Initialize), nil
}

// decodeSteps decodes the steps in the sequence n.
func decodeSteps(n *yaml.Node) ([]Step, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, syntaxError(n, "steps must be a sequence")
	}
	steps := make([]Step, len(n.Content))
	for i, s := range n.Content {
		if s.Kind != yaml.MappingNode || len(s.Content) != 2 {
			return nil, syntaxError(s, "step must be a mapping with one key")
		}
		method, args := s.Content[0], s.Content[1]
		op, ok := operations[method.Value]
		if !ok {
			return nil, &SyntaxError{Line: method.Line, Column: method.Column, Err: &UnknownOperationError{Method: method.Value}}
		}
		apply, err := op(method.Value, args)
		if err != nil {
			return nil, err
		}
		steps[i] = Step{Method: method.Value, Args: args, Line: method.Line, apply: apply}
	}
	return steps, nil
}

// decodeOptions decodes the widget options in the mapping n.
func decodeOptions(n *yaml.Node) (*ordereddict.Dict, error) {
	if n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, syntaxError(n, "options must be a mapping")
	}
	v, err := decodeValue(n)
	if err != nil {
		return nil, err
	}
	return v.(*ordereddict.Dict), nil
}

// decodeValue decodes an option value. Mappings are decoded as
// *ordereddict.Dict values, so their keys keep the order, and scalars with
// the !js tag as tablesbuilder.JS values.
func decodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeValue(n.Alias)
	case yaml.MappingNode:
		d := ordereddict.NewDict()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, syntaxError(key, "option key must be a string")
			}
			v, err := decodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			d.Set(key.Value, v)
		}
		return d, nil
	case yaml.SequenceNode:
		s := make([]interface{}, len(n.Content))
		for i, e := range n.Content {
			v, err := decodeValue(e)
			if err != nil {
				return nil, err
			}
			s[i] = v
		}
		return s, nil
	case yaml.ScalarNode:
		if n.Tag == "!js" {
			return tablesbuilder.JS(n.Value), nil
		}
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, &SyntaxError{Line: n.Line, Column: n.Column, Err: err}
		}
		return v, nil
	}
	return nil, syntaxError(n, "unexpected option value")
}

// decodeAttributes decodes attributes. n is a mapping, where a null value is
// a null entry, or a sequence, where a string is a boolean attribute and a
// mapping with one key is an attribute with a value.
func decodeAttributes(n *yaml.Node) (tablesbuilder.Attributes, error) {
	if n.ShortTag() == "!!null" {
		return nil, nil
	}
	var attrs tablesbuilder.Attributes
	switch n.Kind {
	case yaml.MappingNode:
		attrs = tablesbuilder.Attributes{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			var err error
			attrs, err = setAttribute(attrs, n.Content[i], n.Content[i+1])
			if err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		attrs = tablesbuilder.Attributes{}
		for _, e := range n.Content {
			switch {
			case e.Kind == yaml.ScalarNode && e.ShortTag() != "!!null":
				attrs = attrs.Add(e.Value)
			case e.Kind == yaml.MappingNode && len(e.Content) == 2:
				var err error
				attrs, err = setAttribute(attrs, e.Content[0], e.Content[1])
				if err != nil {
					return nil, err
				}
			default:
				return nil, syntaxError(e, "attribute must be a name or a mapping with one key")
			}
		}
	default:
		return nil, syntaxError(n, "attributes must be a mapping or a sequence")
	}
	return attrs, nil
}

func setAttribute(attrs tablesbuilder.Attributes, key, value *yaml.Node) (tablesbuilder.Attributes, error) {
	if key.Kind != yaml.ScalarNode || key.Value == "" {
		return nil, syntaxError(key, "attribute name must be a non empty string")
	}
	if value.ShortTag() == "!!null" {
		return attrs.SetNull(key.Value), nil
	}
	if value.Kind != yaml.ScalarNode {
		return nil, syntaxError(value, "value of attribute %q must be a scalar", key.Value)
	}
	return attrs.Set(key.Value, value.Value), nil
}
