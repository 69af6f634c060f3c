package site

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/artmann/folio/article"
)

const siteCfg = `
hostname = "https://www.example.com"
title = "Example Blog"
codestyle = "monokai"
expires = "10m"
staticexpires = "24h"

[headers]
X-Frame-Options = "DENY"

[[projects]]
name = "Esix"
github = "example/esix"
description = "A really slick ORM for MongoDB."

[[projects]]
name = "Correlations"
github = "example/correlations"
description = "Pearson correlation coefficients."
homepage = "https://correlations.example.com"
`

const cypress = `---
title: Waiting for Network Resources in Cypress
blurb: How to wait for XHR requests.
imageUrl: /static/images/cypress.jpg
publishedAt: 2021-03-05
status: Published
tags: testing, cypress
---
# Waiting

` + "```js\ncy.wait('@getUsers')\n```\n"

const modules = `+++
title = "Go Modules"
blurb = "Notes on modules."
imageUrl = "/static/images/go.png"
publishedAt = 2022-01-10
status = "Published"
tags = "go"
+++
Plain body.
`

const draft = `---
title: Secret Draft
blurb: Hidden.
imageUrl: /x.png
publishedAt: 2023-01-01
status: Draft
---
Draft.
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"folio.cfg":                 {Data: []byte(siteCfg)},
		"articles/cypress.md":       {Data: []byte(cypress)},
		"articles/modules.md":       {Data: []byte(modules)},
		"articles/draft.md":         {Data: []byte(draft)},
		"public/images/cypress.jpg": {Data: []byte("JPEGDATA")},
		"public/.secret":            {Data: []byte("hidden")},
	}
}

func newSite(t *testing.T, fsys fstest.MapFS) *Site {
	t.Helper()
	s, err := New(fsys)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res, string(b)
}

func TestConfig(t *testing.T) {
	cfg, err := LoadConfig(testFS())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hostname != "https://www.example.com" || cfg.Title != "Example Blog" {
		t.Errorf("Unexpected config %#v", cfg)
	}
	if time.Duration(cfg.Expires) != 10*time.Minute || time.Duration(cfg.StaticExpires) != 24*time.Hour {
		t.Errorf("Unexpected durations %s %s", cfg.Expires, cfg.StaticExpires)
	}
	if cfg.Articles != article.DefaultDir || cfg.DefaultLanguage != "typescript" {
		t.Errorf("Expected defaults to be kept, got %#v", cfg)
	}
	if len(cfg.Projects) != 2 || cfg.Projects[0].GitHubURL() != "https://github.com/example/esix" {
		t.Errorf("Unexpected projects %#v", cfg.Projects)
	}
	if cfg.Headers["X-Frame-Options"] != "DENY" {
		t.Errorf("Unexpected headers %#v", cfg.Headers)
	}

	cfg, err = LoadConfig(fstest.MapFS{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Hostname != "http://localhost" {
		t.Errorf("Expected default hostname, got %q", cfg.Hostname)
	}

	_, err = LoadConfig(fstest.MapFS{"folio.cfg": {Data: []byte("expires = \"forever\"")}})
	if err == nil {
		t.Error("Expected error for bad duration")
	}
}

func TestHome(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	res, body := get(t, h, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", res.StatusCode, body)
	}
	if !strings.HasPrefix(res.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Unexpected content type %q", res.Header.Get("Content-Type"))
	}
	for _, want := range []string{
		`href="/articles/waiting-for-network-resources-in-cypress"`,
		`href="/articles/go-modules"`,
		"Example Blog",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in home page", want)
		}
	}
	if strings.Contains(body, "Secret Draft") {
		t.Error("Draft article should not be listed")
	}
	if strings.Index(body, "Go Modules") > strings.Index(body, "Waiting for Network") {
		t.Error("Expected newest article first")
	}
}

func TestArticle(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	res, body := get(t, h, "/articles/waiting-for-network-resources-in-cypress")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", res.StatusCode, body)
	}
	for _, want := range []string{
		"<title>Waiting for Network Resources in Cypress</title>",
		`<meta name="description" content="How to wait for XHR requests.">`,
		"March 05, 2021",
		`<h1>Waiting</h1>`,
		`class="chroma"`,
		"<li>cypress</li>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in article page:\n%s", want, body)
		}
	}
}

func TestArticleNotFound(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	for _, target := range []string{
		"/articles/no-such-article",
		"/articles/secret-draft",
		"/articles/Waiting-For-Network-Resources-In-Cypress",
		"/nope",
	} {
		res, body := get(t, h, target)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, res.StatusCode)
		}
		if !strings.Contains(body, "Not Found") {
			t.Errorf("%s: expected not found page, got %s", target, body)
		}
	}
}

func TestSitemap(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	for _, target := range []string{"/sitemap.xml", "/api/sitemap"} {
		res, body := get(t, h, target)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); ct != "text/xml" {
			t.Errorf("%s: expected text/xml, got %q", target, ct)
		}
		for _, want := range []string{
			"<loc>https://www.example.com/</loc>",
			"<loc>https://www.example.com/projects</loc>",
			"<loc>https://www.example.com/articles/go-modules</loc>",
			"<lastmod>2021-03-05T00:00:00Z</lastmod>",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("%s: expected %q in:\n%s", target, want, body)
			}
		}
		if strings.Count(body, "<url>") != 4 {
			t.Errorf("%s: expected 4 entries:\n%s", target, body)
		}
	}
}

func TestSitemapNoArticles(t *testing.T) {
	fsys := fstest.MapFS{
		"articles": {Mode: fs.ModeDir | 0o755},
	}
	h := newSite(t, fsys).Handler(nil)
	res, body := get(t, h, "/sitemap.xml")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	if strings.Count(body, "<url>") != 2 {
		t.Errorf("Expected only static entries:\n%s", body)
	}
}

func TestBadArticle(t *testing.T) {
	fsys := testFS()
	fsys["articles/broken.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Broken\n---\nno fields")}
	h := newSite(t, fsys).Handler(nil)
	for _, target := range []string{"/", "/sitemap.xml", "/articles/go-modules"} {
		res, body := get(t, h, target)
		if res.StatusCode != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", target, res.StatusCode)
		}
		if !strings.Contains(body, "articles/broken.md") {
			t.Errorf("%s: expected error to name the file:\n%s", target, body)
		}
	}
}

func TestSlugCollision(t *testing.T) {
	fsys := testFS()
	fsys["articles/copy.md"] = &fstest.MapFile{Data: []byte(strings.Replace(modules, "Go Modules", "Go modules!", 1))}
	s := newSite(t, fsys)
	_, err := s.Articles(context.Background())
	if !errors.Is(err, article.ErrSlugCollision) {
		t.Errorf("Expected ErrSlugCollision, got %v", err)
	}
}

func TestProjects(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	res, body := get(t, h, "/projects")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", res.StatusCode)
	}
	for _, want := range []string{"Esix", "https://github.com/example/correlations", "https://correlations.example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in projects page", want)
		}
	}
}

func TestHighlightCSS(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	res, body := get(t, h, "/highlight.css")
	if res.StatusCode != http.StatusOK || !strings.HasPrefix(res.Header.Get("Content-Type"), "text/css") {
		t.Fatalf("Unexpected response %d %q", res.StatusCode, res.Header.Get("Content-Type"))
	}
	if !strings.Contains(body, ".chroma") {
		t.Errorf("Expected chroma rules")
	}
}

func TestStatic(t *testing.T) {
	h := newSite(t, testFS()).Handler(nil)
	res, body := get(t, h, "/static/images/cypress.jpg")
	if res.StatusCode != http.StatusOK || body != "JPEGDATA" {
		t.Errorf("Expected image data, got %d %q", res.StatusCode, body)
	}
	for _, target := range []string{"/static/.secret", "/static/images/missing.png"} {
		res, body = get(t, h, target)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, res.StatusCode)
		}
		if !strings.Contains(body, "Not Found") {
			t.Errorf("%s: expected not found page, got %q", target, body)
		}
	}
}

func TestCustomTemplate(t *testing.T) {
	fsys := testFS()
	fsys["template/home.html"] = &fstest.MapFile{Data: []byte(`{{define "home"}}custom {{len .Articles}}{{end}}`)}
	h := newSite(t, fsys).Handler(nil)
	_, body := get(t, h, "/")
	if body != "custom 2" {
		t.Errorf("Expected custom template output, got %q", body)
	}
}

func TestReload(t *testing.T) {
	fsys := testFS()
	s := newSite(t, fsys)
	fsys["folio.cfg"] = &fstest.MapFile{Data: []byte(`title = "Renamed"`)}
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	if s.Config().Title != "Renamed" {
		t.Errorf("Expected reloaded title, got %q", s.Config().Title)
	}
}

func TestConcurrentRequests(t *testing.T) {
	const count = 10
	h := newSite(t, testFS()).Handler(nil)
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles/go-modules", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", rec.Code)
			}
		}()
	}
	wg.Wait()
}

func TestBuild(t *testing.T) {
	out := t.TempDir()
	n, err := newSite(t, testFS()).Build(context.Background(), out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Expected 4 pages, got %d", n)
	}
	for _, name := range []string{
		"index.html",
		"projects/index.html",
		"articles/waiting-for-network-resources-in-cypress/index.html",
		"articles/go-modules/index.html",
		"404.html",
		"sitemap.xml",
		"highlight.css",
		"static/images/cypress.jpg",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "static", ".secret")); err == nil {
		t.Error("Hidden static file should not be copied")
	}
	if _, err := os.Stat(filepath.Join(out, "articles", "secret-draft")); err == nil {
		t.Error("Draft should not be built")
	}
}

func TestBuildFails(t *testing.T) {
	fsys := testFS()
	fsys["articles/copy.md"] = &fstest.MapFile{Data: []byte(strings.Replace(cypress, "Cypress", "cypress", 1))}
	out := t.TempDir()
	_, err := newSite(t, fsys).Build(context.Background(), out)
	if !errors.Is(err, article.ErrSlugCollision) {
		t.Errorf("Expected ErrSlugCollision, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "index.html")); err == nil {
		t.Error("Expected no pages to be written")
	}
}
