package echoapi

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const webTemplatesDir = "assets/templates/web"

// templateRenderer renders the pages: each page is executed within _layout.gohtml,
// along with the other shared `_` templates.
type templateRenderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

func newTemplateRenderer(fsys fs.FS, strict bool) (*templateRenderer, error) {
	fps, err := fs.Glob(fsys, path.Join(webTemplatesDir, "*.gohtml"))
	if err != nil {
		return nil, err
	}

	layout := path.Join(webTemplatesDir, "_layout.gohtml")
	shared := []string{layout}
	pages := make([]string, 0, len(fps))
	for _, fp := range fps {
		switch {
		case fp == layout:
		case strings.HasPrefix(path.Base(fp), "_"):
			shared = append(shared, fp)
		default:
			pages = append(pages, fp)
		}
	}

	r := &templateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, fp := range pages {
		name := strings.TrimSuffix(path.Base(fp), path.Ext(fp))
		tmpl, err := template.ParseFS(fsys, append(shared, fp)...)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
		if strict {
			tmpl = tmpl.Option("missingkey=error")
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return tmpl.Execute(w, data)
}
