// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locale

import (
	"embed"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Bundle is a set of catalogs of different languages.
type Bundle struct {
	catalogs []*Catalog
	matcher  language.Matcher
}

// NewBundle returns a bundle with the given catalogs. The first catalog is
// returned when no other catalog matches. It panics if no catalog is given.
func NewBundle(catalogs ...*Catalog) *Bundle {
	if len(catalogs) == 0 {
		panic("locale: no catalogs")
	}
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.tag
	}
	return &Bundle{
		catalogs: catalogs,
		matcher:  language.NewMatcher(tags),
	}
}

// Languages returns the languages of the catalogs.
func (b *Bundle) Languages() []language.Tag {
	tags := make([]language.Tag, len(b.catalogs))
	for i, c := range b.catalogs {
		tags[i] = c.tag
	}
	return tags
}

// Match returns the catalog that best matches the given languages. Each
// language is a BCP 47 tag or an Accept-Language header value, as
// "it-IT,it;q=0.9,en;q=0.8". Invalid values are ignored.
func (b *Bundle) Match(languages ...string) *Catalog {
	var tags []language.Tag
	for _, l := range languages {
		t, _, err := language.ParseAcceptLanguage(l)
		if err != nil {
			continue
		}
		tags = append(tags, t...)
	}
	if len(tags) == 0 {
		return b.catalogs[0]
	}
	_, i, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.catalogs[0]
	}
	return b.catalogs[i]
}

//go:embed lang/*.yaml
var langFS embed.FS

var defaultBundle struct {
	sync.Once
	*Bundle
}

// Default returns the bundle of the embedded catalogs, English and Italian,
// with namespace Namespace. English is the fallback catalog.
func Default() *Bundle {
	defaultBundle.Do(func() {
		catalogs := []*Catalog{mustLoadEmbedded("en.yaml")}
		entries, err := langFS.ReadDir("lang")
		if err != nil {
			panic(err)
		}
		for _, entry := range entries {
			if entry.Name() == "en.yaml" {
				continue
			}
			catalogs = append(catalogs, mustLoadEmbedded(entry.Name()))
		}
		defaultBundle.Bundle = NewBundle(catalogs...)
	})
	return defaultBundle.Bundle
}

// English returns the embedded English catalog.
func English() *Catalog {
	return Default().catalogs[0]
}

// mustLoadEmbedded loads an embedded catalog. The language is the file name
// without the extension.
func mustLoadEmbedded(name string) *Catalog {
	f, err := langFS.Open(path.Join("lang", name))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	tag := language.MustParse(strings.TrimSuffix(name, path.Ext(name)))
	c, err := LoadCatalog(tag, Namespace, f)
	if err != nil {
		panic(err)
	}
	return c
}
