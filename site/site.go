/*
Package site serves a personal blog and portfolio from a folder of markdown
articles, and can export the same pages as a static site.

The site root is an fs.FS laid out like this:

	folio.cfg        site configuration in TOML (optional)
	articles/        one markdown file per article, see package article
	public/          static files served under /static/
	template/*.html  custom templates (optional)

Routes

	GET /                  list of published articles, newest first
	GET /projects          projects from the [[projects]] section of folio.cfg
	GET /articles/{slug}   a single article
	GET /sitemap.xml       XML sitemap (also at /api/sitemap)
	GET /highlight.css     stylesheet for highlighted code
	GET /static/...        files from public/

Articles are read from disk on every request; nothing about them is cached.

Templates

Templates use html/template. The defaults define "home", "projects",
"article", "notfound" and "error", built from the partials "head" and "foot".
Any of these can be redefined by a file in the template folder. Templates
receive the site Config as .Site and can call:

	path(article.Article) string
		Canonical URL path of an article
	slug(article.Article) string
		Slug of an article
	date(string) string
		Format a YYYY-MM-DD date as "January 02, 2006"
	join([]string, string) string
		The same as strings.Join
	trimspace(string) string
		The same as strings.TrimSpace
	now() time.Time
		Current time
*/
package site

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"sync"

	"github.com/artmann/folio/article"
	"github.com/artmann/folio/markdown"
)

// Site renders the blog from a file system.
type Site struct {
	fs     fs.FS
	mu     sync.RWMutex
	cfg    Config
	tpl    *template.Template
	md     *markdown.Renderer
	loader *article.Loader
}

// New returns a Site over fsys, reading its configuration and templates.
func New(fsys fs.FS) (*Site, error) {
	s := Site{fs: fsys}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reload re-reads folio.cfg and the templates. Requests in flight keep using
// the previous ones.
func (s *Site) Reload() error {
	cfg, err := LoadConfig(s.fs)
	if err != nil {
		return fmt.Errorf("Reload: %w", err)
	}
	tpl, err := loadTemplates(s.fs)
	if err != nil {
		return fmt.Errorf("Reload: %w", err)
	}
	md := markdown.New(
		markdown.WithStyle(cfg.CodeStyle),
		markdown.WithDefaultLanguage(cfg.DefaultLanguage),
	)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.tpl = tpl
	s.md = md
	s.loader = article.NewLoader(s.fs, cfg.Articles)
	return nil
}

// Config returns the current configuration.
func (s *Site) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// current returns the templates and configuration in use.
func (s *Site) current() (*template.Template, Config) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tpl, s.cfg
}

// renderer returns the markdown renderer in use.
func (s *Site) renderer() *markdown.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.md
}

// Articles loads the published articles, newest first, and indexes them by
// slug. Two articles with the same slug are an error.
func (s *Site) Articles(ctx context.Context) (*article.Index, error) {
	s.mu.RLock()
	loader := s.loader
	s.mu.RUnlock()
	articles, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return article.NewIndex(articles)
}
