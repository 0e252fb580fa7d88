// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the page templates and renders them with a shared
// layout. Markdown content is converted with goldmark and sanitized with
// bluemonday before it reaches a template.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/portfolio-go/internal/model"
)

const (
	baseLayout  = "layouts/base.html"
	partialsDir = "partials"
	pagesDir    = "pages"
)

// blankLinesRegex matches runs of blank lines in rendered output.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	policy    *bluemonday.Policy
	isDev     bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	IsDev       bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		isDev:  cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page with the base layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, partialsDir)
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	pages, err := templateFiles(templatesFS, pagesDir)
	if err != nil {
		return fmt.Errorf("getting pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates in %s", pagesDir)
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(path.Base(tmplPath), ".html")

		// Parse in order: base layout, partials, page template
		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing
// directory yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Markdown converts Markdown source to sanitized HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(s string) template.HTML {
			if r.markdown == nil {
				return template.HTML(template.HTMLEscapeString(s))
			}
			return r.Markdown(s)
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			if utf8.RuneCountInString(s) <= length {
				return s
			}
			return string([]rune(s)[:length]) + "..."
		},
		"join": strings.Join,
		"safeURL": func(s string) template.URL {
			// Only data:image references and http(s) URLs reach templates.
			if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
				return template.URL(s) //nolint:gosec // restricted to image data URIs and http(s)
			}
			return template.URL("about:blank")
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Session     *model.Session
	Path        string
	CurrentYear int
}

// SignedIn reports whether the page is rendered for a signed-in visitor.
func (d TemplateData) SignedIn() bool {
	return d.Session.Valid(time.Now())
}

// Render renders a page template with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Path == "" {
		data.Path = req.URL.Path
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	out := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
	return nil
}
