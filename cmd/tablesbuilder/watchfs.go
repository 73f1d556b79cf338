// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// definitionFS implements a file system that reads the definitions in a
// directory and notifies when a read file changes.
type definitionFS struct {
	root    string
	fsys    fs.FS
	watcher *fsnotify.Watcher
	changed chan string
	errors  chan error
	done    chan struct{} // closed by Close
	stopped chan struct{} // closed when the watching goroutine returns
	closing sync.Once

	sync.Mutex
	watched map[string]bool
}

func newDefinitionFS(root string) (*definitionFS, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := &definitionFS{
		root:    root,
		fsys:    os.DirFS(root),
		watcher: watcher,
		watched: map[string]bool{},
		changed: make(chan string),
		errors:  make(chan error),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(dir.stopped)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				name, err := filepath.Rel(root, event.Name)
				if err != nil {
					continue
				}
				name = filepath.ToSlash(name)
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					dir.unwatch(name)
				}
				select {
				case dir.changed <- name:
				case <-dir.done:
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case dir.errors <- err:
				case <-dir.done:
					return
				}
			case <-dir.done:
				return
			}
		}
	}()
	return dir, nil
}

// Changed returns the channel that receives the names of the changed files.
func (d *definitionFS) Changed() <-chan string {
	return d.changed
}

// Errors returns the channel that receives the errors of the watcher.
func (d *definitionFS) Errors() <-chan error {
	return d.errors
}

// Close stops watching the files. Pending notifications are discarded.
func (d *definitionFS) Close() error {
	var err error
	d.closing.Do(func() {
		close(d.done)
		err = d.watcher.Close()
		<-d.stopped
	})
	return err
}

func (d *definitionFS) Open(name string) (fs.File, error) {
	return d.fsys.Open(name)
}

// ReadFile reads the named file and watches it.
func (d *definitionFS) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, err
	}
	err = d.watch(name)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Glob returns the names of the files matching pattern.
func (d *definitionFS) Glob(pattern string) ([]string, error) {
	return fs.Glob(d.fsys, pattern)
}

func (d *definitionFS) watch(name string) error {
	d.Lock()
	defer d.Unlock()
	if !d.watched[name] {
		err := d.watcher.Add(filepath.Join(d.root, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		d.watched[name] = true
	}
	return nil
}

func (d *definitionFS) unwatch(name string) {
	d.Lock()
	delete(d.watched, name)
	d.Unlock()
}
