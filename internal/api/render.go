package api

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

// pageTemplates lists the pages rendered inside the base layout.
var pageTemplates = []string{"index"}

// Renderer executes the embedded page templates for echo.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the base layout and the
// shared components.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pageTemplates))}
	for _, page := range pageTemplates {
		t, err := template.New(page).Funcs(funcMap()).ParseFS(fsys,
			"layouts/base.html",
			"pages/"+page+".html",
			"components/*.html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"rating": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"decimal": func(v float64) string {
			return humanize.FormatFloat("#,###.#", v)
		},
	}
}
