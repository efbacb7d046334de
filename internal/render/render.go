// Package render produces the static HTML page for one digest record. It is
// the presentation collaborator: its only input is the persisted record.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/vvnmails-cpu/answeree/internal/agg"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

var pageTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.SiteTitle}} - {{.Record.Date}}</title>
<link rel="icon" href="/favicon.png">
</head>
<body>
<h1>{{.SiteTitle}} &mdash; {{.Record.Date}}</h1>
{{if .Groups.Trending}}<p>Trending: {{range $i, $c := .Groups.Trending}}{{if $i}}, {{end}}{{$c}}{{end}}</p>{{end}}
{{range .Groups.Categories}}
<h2>{{.}}</h2>
<ul>
{{range index $.Groups.ByCategory .}}
<li>
{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}
<em>({{.Source}}, {{.Votes}} votes)</em>
{{if .Summary}}<p>{{.Summary}}</p>{{end}}
</li>
{{end}}
</ul>
{{end}}
{{if not .Record.Items}}<p>No items today.</p>{{end}}
</body>
</html>
`))

type pageData struct {
	SiteTitle string
	Record    store.Record
	Groups    agg.Result
}

// Page writes the HTML for one record.
func Page(w io.Writer, siteTitle string, rec store.Record) error {
	return pageTemplate.Execute(w, pageData{
		SiteTitle: siteTitle,
		Record:    rec,
		Groups:    agg.Aggregate(rec.Items),
	})
}

// WriteFile renders a record to <outputDir>/<date>/index.html and returns the
// written path.
func WriteFile(outputDir, siteTitle string, rec store.Record) (string, error) {
	dir := filepath.Join(outputDir, rec.Date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer f.Close()

	if err := Page(f, siteTitle, rec); err != nil {
		return "", fmt.Errorf("rendering %s: %w", rec.Date, err)
	}
	return path, nil
}
