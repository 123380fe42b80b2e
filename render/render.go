// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// Layout every page is parsed together with. It must define "base".
const layoutFile = "base.html"

// ReverseFunc resolves a route name and arguments to a path
type ReverseFunc func(name string, args ...any) (string, error)

// Renderer executes pre-parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every *.html page in fsys together with the layout.
// Pages are referred to by file name, e.g. "detail.html".
func New(fsys fs.FS, reverse ReverseFunc) (*Renderer, error) {
	funcs := template.FuncMap{
		"url": func(name string, args ...any) (string, error) {
			return reverse(name, args...)
		},
		"naturaltime": func(t, now time.Time) string {
			return humanize.RelTime(t, now, "ago", "from now")
		},
		"pluralize": english.Plural,
	}

	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		ts, err := template.New(name).Funcs(funcs).ParseFS(fsys, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = ts
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	return &Renderer{pages: pages}, nil
}

// Render executes a page into a buffer and copies it to w only when the
// whole page rendered, so a failing template never leaves half a page.
func (rd *Renderer) Render(w io.Writer, name string, data any) error {
	ts, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
