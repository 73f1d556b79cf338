// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/open2b/tablesbuilder/definition"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [DIR]",
		Short: "Preview the definitions of a directory",
		Long: "Serve starts a web server that renders the definition NAME.yaml of DIR,\n" +
			"by default the current directory, at the path /NAME. The definitions are\n" +
			"read again when they change. Metrics are exposed at /metrics.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.serve(cmd.Context(), dir)
		},
	}
	cmd.Flags().String("addr", ":8080", "address to listen on")
	return cmd
}

// serve serves the definitions in dir until ctx is done.
func (a *app) serve(ctx context.Context, dir string) error {

	fsys, err := newDefinitionFS(dir)
	if err != nil {
		return err
	}
	defer fsys.Close()

	srv := newServer(a, fsys, prometheus.NewRegistry())
	go func() {
		for {
			select {
			case name := <-fsys.Changed():
				srv.forget(name)
			case err := <-fsys.Errors():
				a.log.WithError(err).Warn("watching definitions")
			case <-ctx.Done():
				return
			}
		}
	}()

	s := &http.Server{
		Addr:           a.config.GetString("addr"),
		Handler:        srv.handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdown)
	}()

	a.log.WithFields(logrus.Fields{"addr": s.Addr, "dir": dir}).Info("web server started")

	err = s.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// definitionReader is implemented by the file system of the server.
type definitionReader interface {
	ReadFile(name string) ([]byte, error)
	Glob(pattern string) ([]string, error)
}

type server struct {
	app      *app
	fsys     definitionReader
	metrics  *serverMetrics
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	registry *prometheus.Registry

	sync.Mutex
	definitions map[string]*definition.Definition
}

func newServer(a *app, fsys definitionReader, registry *prometheus.Registry) *server {
	return &server{
		app:         a,
		fsys:        fsys,
		metrics:     newServerMetrics(registry),
		markdown:    goldmark.New(),
		policy:      bluemonday.UGCPolicy(),
		registry:    registry,
		definitions: map[string]*definition.Definition{},
	}
}

// handler returns the handler of the server.
func (srv *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(srv.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", srv)
	return srv.logRequests(mux)
}

func (srv *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		srv.serveIndex(w)
		return
	}

	start := time.Now()
	d, err := srv.definition(name + ".yaml")
	if err != nil {
		var e *definition.SyntaxError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			http.NotFound(w, r)
		case errors.As(err, &e):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			srv.app.log.WithError(err).WithField("definition", name).Error("cannot read definition")
		}
		return
	}

	var description bytes.Buffer
	if d.Description != "" {
		err = srv.markdown.Convert([]byte(d.Description), &description)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			srv.app.log.WithError(err).WithField("definition", name).Error("cannot convert description")
			return
		}
	}
	table, err := d.Build(srv.app.translator(r.Header.Get("Accept-Language")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var b bytes.Buffer
	err = pageTemplate.Execute(&b, page{
		Title:       name,
		Description: template.HTML(srv.policy.SanitizeBytes(description.Bytes())),
		Table:       template.HTML(table.Render(d.Initialize)),
	})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		srv.app.log.WithError(err).WithField("definition", name).Error("cannot execute page template")
		return
	}
	srv.metrics.renderDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = b.WriteTo(w)
	if err != nil {
		srv.app.log.WithError(err).Debug("cannot write response")
	}
}

// serveIndex serves the list of the definitions.
func (srv *server) serveIndex(w http.ResponseWriter) {
	files, err := srv.fsys.Glob("*.yaml")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		srv.app.log.WithError(err).Error("cannot list definitions")
		return
	}
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = strings.TrimSuffix(file, ".yaml")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, names)
	if err != nil {
		srv.app.log.WithError(err).Debug("cannot write response")
	}
}

// definition returns the named definition, reading it if it is not cached.
func (srv *server) definition(name string) (*definition.Definition, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}
	srv.Lock()
	d, ok := srv.definitions[name]
	srv.Unlock()
	if ok {
		srv.metrics.cacheHits.Inc()
		return d, nil
	}
	data, err := srv.fsys.ReadFile(name)
	if err != nil {
		return nil, err
	}
	d, err = definition.Load(bytes.NewReader(data))
	if err != nil {
		var e *definition.SyntaxError
		if errors.As(err, &e) {
			e.Path = name
		}
		return nil, err
	}
	srv.Lock()
	srv.definitions[name] = d
	srv.metrics.cached.Set(float64(len(srv.definitions)))
	srv.Unlock()
	srv.app.log.WithFields(logrus.Fields{"definition": name, "steps": len(d.Steps)}).Debug("definition loaded")
	return d, nil
}

// forget removes the named definition from the cache.
func (srv *server) forget(name string) {
	srv.Lock()
	_, ok := srv.definitions[name]
	delete(srv.definitions, name)
	srv.metrics.cached.Set(float64(len(srv.definitions)))
	srv.Unlock()
	if ok {
		srv.app.log.WithField("definition", name).Info("definition changed")
	}
}

// statusRecorder records the status code written to a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs the requests served by next and counts them.
func (srv *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		srv.metrics.requests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		srv.app.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// serverMetrics are the Prometheus metrics of the server.
type serverMetrics struct {
	requests       *prometheus.CounterVec
	renderDuration prometheus.Histogram
	cacheHits      prometheus.Counter
	cached         prometheus.Gauge
}

func newServerMetrics(registry *prometheus.Registry) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tablesbuilder_http_requests_total",
			Help: "A count of the served requests.",
		}, []string{"code"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "tablesbuilder_render_duration_seconds",
			Help: "A histogram of the duration of the page renderings.",
			Buckets: []float64{
				1e-5,
				5e-5,
				1e-4,
				5e-4,
				1e-3, // 1 millisecond
				0.01,
				0.1,
				1, // 1 second
			},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tablesbuilder_definition_cache_hits_total",
			Help: "A count of the definitions read from the cache.",
		}),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tablesbuilder_definitions_cached",
			Help: "The number of cached definitions.",
		}),
	}
	registry.MustRegister(m.requests, m.renderDuration, m.cacheHits, m.cached)
	return m
}
