// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locale implements message catalogs that translate the texts of
// the grid widget.
//
// Keys have the form "namespace::group.name", for example
// "tables_builder::datatables.search". A catalog is read from a YAML
// document in which nested mappings are groups:
//
//	datatables:
//	  search: "Search:"
//	  paginate:
//	    next: "Next"
package locale

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Namespace is the namespace of the embedded catalogs.
const Namespace = "tables_builder"

// Catalog contains the messages of a language in a namespace.
type Catalog struct {
	tag       language.Tag
	namespace string
	messages  map[string]string
}

// NewCatalog returns a catalog with the given language, namespace and
// messages. Keys in messages do not have the namespace.
func NewCatalog(tag language.Tag, namespace string, messages map[string]string) *Catalog {
	c := &Catalog{tag: tag, namespace: namespace, messages: make(map[string]string, len(messages))}
	for k, v := range messages {
		c.messages[k] = v
	}
	return c
}

// LoadCatalog reads a catalog from the YAML document in r.
func LoadCatalog(tag language.Tag, namespace string, r io.Reader) (*Catalog, error) {
	var doc map[string]interface{}
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "locale: cannot decode %s catalog", tag)
	}
	c := &Catalog{tag: tag, namespace: namespace, messages: map[string]string{}}
	err = c.flatten("", doc)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// flatten adds to c the messages in m, prefixing their keys with prefix.
func (c *Catalog) flatten(prefix string, m map[string]interface{}) error {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]interface{}:
			err := c.flatten(key, v)
			if err != nil {
				return err
			}
		case string:
			c.messages[key] = v
		case nil:
			c.messages[key] = ""
		case []interface{}:
			return errors.Errorf("locale: %s catalog: message %q is a sequence", c.tag, key)
		default:
			c.messages[key] = fmt.Sprint(v)
		}
	}
	return nil
}

// Language returns the language of the catalog.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Namespace returns the namespace of the catalog.
func (c *Catalog) Namespace() string {
	return c.namespace
}

// Keys returns the sorted keys, without namespace, of the messages.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the message with the given key and reports whether it is
// present. A key with a namespace different from the catalog's one is never
// present.
func (c *Catalog) Lookup(key string) (string, bool) {
	if ns, name, ok := strings.Cut(key, "::"); ok {
		if ns != c.namespace {
			return "", false
		}
		key = name
	}
	msg, ok := c.messages[key]
	return msg, ok
}

// Translate returns the message with the given key. If it is not present,
// it returns the key.
func (c *Catalog) Translate(key string) string {
	if msg, ok := c.Lookup(key); ok {
		return msg
	}
	return key
}
