package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/artmann/folio/article"
)

//go:embed default.html
var defaultTemplate string

// TemplateDir holds custom templates that override the defaults.
const TemplateDir = "template"

// page is what is passed to templates.
type page struct {
	Site     Config            // site configuration
	Title    string            // document title
	Path     string            // URL path of the page
	Articles []article.Article // home page listing
	Article  *article.Article  // article page
	Content  template.HTML     // rendered article body
	Projects []Project         // projects page
	Message  string            // passed to the error template
}

// displayDate formats a YYYY-MM-DD date for readers, like "March 05, 2021".
// Values that do not parse are shown as they are.
func displayDate(s string) string {
	t, err := time.Parse(article.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("January 02, 2006")
}

// loadTemplates parses the default templates and then any custom templates
// in the template folder, which may redefine them.
func loadTemplates(fsys fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"path":      article.Path,
		"slug":      article.Slug,
		"date":      displayDate,
		"join":      strings.Join,
		"trimspace": strings.TrimSpace,
		"now":       time.Now,
	}
	tpl, err := template.New("folio").Funcs(funcMap).Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}
	// Check if there are custom templates
	fi, err := fs.Stat(fsys, TemplateDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		return tpl, nil
	} else if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}
	matches, err := fs.Glob(fsys, TemplateDir+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}
	if len(matches) == 0 {
		return tpl, nil
	}
	tpl, err = tpl.ParseFS(fsys, matches...)
	if err != nil {
		return nil, fmt.Errorf("loadTemplates: %w", err)
	}
	return tpl, nil
}

// execute runs the named template into a buffer so that a failing template
// does not leave a half written response.
func (s *Site) execute(name string, p page) ([]byte, error) {
	tpl, cfg := s.current()
	p.Site = cfg
	if p.Title == "" {
		p.Title = cfg.Title
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, p); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
