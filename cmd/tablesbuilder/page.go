// Copyright (c) 2019 Open2b Software Snc. All rights reserved.
// https://www.open2b.com

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "html/template"

// page is the data of pageTemplate.
type page struct {
	Title       string
	Description template.HTML // sanitized HTML
	Table       template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<link rel="stylesheet" href="https://cdn.datatables.net/1.13.8/css/jquery.dataTables.min.css">
<script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
<script src="https://cdn.datatables.net/1.13.8/js/jquery.dataTables.min.js"></script>
</head>
<body>
<h1>{{ .Title }}</h1>
{{ with .Description }}<div class="description">{{ . }}</div>
{{ end }}{{ .Table }}
</body>
</html>
`))

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Definitions</title>
</head>
<body>
<ul>
{{ range . }}<li><a href="/{{ . }}">{{ . }}</a></li>
{{ else }}<li>No definitions</li>
{{ end }}</ul>
</body>
</html>
`))
