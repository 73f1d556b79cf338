// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// files implements a definitionReader that reads the files from a map.
type files map[string]string

func (fsys files) ReadFile(name string) ([]byte, error) {
	data, ok := fsys[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(data), nil
}

func (fsys files) Glob(pattern string) ([]string, error) {
	var names []string
	for name := range fsys {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func newTestServer(fsys definitionReader, lang string) (*server, *httptest.Server) {
	a := &app{config: viper.New(), log: logrus.New()}
	a.log.SetOutput(io.Discard)
	a.config.Set("lang", lang)
	srv := newServer(a, fsys, prometheus.NewRegistry())
	return srv, httptest.NewServer(srv.handler())
}

func get(t *testing.T, url, acceptLanguage string) (int, string) {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestServe(t *testing.T) {
	fsys := files{
		"users.yaml": usersDefinition + "\n",
		"bad.yaml":   "steps:\n  - addBody: []\n",
		"xss.yaml":   "description: 'Hello <script>alert(1)</script> <a href=\"javascript:alert(2)\">x</a>'\n",
	}
	_, ts := newTestServer(fsys, "")
	defer ts.Close()

	status, body := get(t, ts.URL+"/users", "it-IT,it;q=0.9,en;q=0.8")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<table id="users">`)
	assert.Contains(t, body, `"sSearch":"Cerca:"`)
	assert.Contains(t, body, `<p>Users of the <strong>shop</strong>.</p>`)

	status, body = get(t, ts.URL+"/users", "fr")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"sSearch":"Search:"`)

	status, body = get(t, ts.URL+"/xss", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "alert(1)</script>")
	assert.NotContains(t, body, "javascript:")

	status, body = get(t, ts.URL+"/bad", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, `bad.yaml:2:5: unknown operation "addBody"`)

	status, _ = get(t, ts.URL+"/missing", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get(t, ts.URL+"/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<a href="/bad">bad</a>`)
	assert.Contains(t, body, `<a href="/users">users</a>`)

	status, body = get(t, ts.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "tablesbuilder_definition_cache_hits_total 1")
	assert.Contains(t, body, `tablesbuilder_http_requests_total{code="200"} 4`)
	assert.Contains(t, body, `tablesbuilder_http_requests_total{code="404"} 1`)
	assert.Contains(t, body, "tablesbuilder_definitions_cached 2")
}

func TestServeLanguage(t *testing.T) {
	_, ts := newTestServer(files{"users.yaml": usersDefinition}, "en")
	defer ts.Close()
	_, body := get(t, ts.URL+"/users", "it")
	assert.Contains(t, body, `"sSearch":"Search:"`)
}

func TestServeForget(t *testing.T) {
	fsys := files{"users.yaml": "steps:\n  - addHeadColumn: Name\n"}
	srv, ts := newTestServer(fsys, "")
	defer ts.Close()

	_, body := get(t, ts.URL+"/users", "")
	assert.Contains(t, body, "<th>Name</th>")

	fsys["users.yaml"] = "steps:\n  - addHeadColumn: Email\n"
	_, body = get(t, ts.URL+"/users", "")
	assert.Contains(t, body, "<th>Name</th>")

	srv.forget("users.yaml")
	_, body = get(t, ts.URL+"/users", "")
	assert.Contains(t, body, "<th>Email</th>")
}

func TestDefinitionFS(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", usersDefinition)
	fsys, err := newDefinitionFS(dir)
	require.NoError(t, err)
	defer fsys.Close()

	data, err := fsys.ReadFile("users.yaml")
	require.NoError(t, err)
	assert.Equal(t, usersDefinition, string(data))

	_, err = fsys.ReadFile("missing.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	names, err := fsys.Glob("*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"users.yaml"}, names)

	require.NoError(t, os.WriteFile(dir+"/users.yaml", []byte("steps: []\n"), 0644))
	select {
	case name := <-fsys.Changed():
		assert.Equal(t, "users.yaml", name)
	case err := <-fsys.Errors():
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("expecting a change notification")
	}
}

func TestDefinitionFSCloseWithPendingChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", usersDefinition)
	fsys, err := newDefinitionFS(dir)
	require.NoError(t, err)

	_, err = fsys.ReadFile("users.yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dir+"/users.yaml", []byte("steps: []\n"), 0644))
	time.Sleep(100 * time.Millisecond)

	closed := make(chan error)
	go func() { closed <- fsys.Close() }()
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close does not return with a pending change")
	}
	assert.NoError(t, fsys.Close())
}
