package site

import (
	"bytes"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/artmann/folio/article"
	"github.com/artmann/folio/sitemap"
	"github.com/artmann/folio/web"
)

// StaticDir holds the files served under /static/.
const StaticDir = "public"

// Handler returns the HTTP handler for the site. cache configures the static
// file cache; nil uses defaults.
func (s *Site) Handler(cache *web.CacheConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /projects", s.projects)
	mux.HandleFunc("GET /articles/{slug}", s.article)
	mux.HandleFunc("GET /sitemap.xml", s.sitemap)
	mux.HandleFunc("GET /api/sitemap", s.sitemap)
	mux.HandleFunc("GET /highlight.css", s.css)
	if static, err := fs.Sub(s.fs, StaticDir); err == nil {
		mux.Handle("GET "+web.StaticPrefix, web.Static(static, cache, s))
	} else {
		log.Printf("Handler: no static files: %s", err)
	}
	mux.HandleFunc("/", s.notFound)
	return mux
}

// home is an http.HandlerFunc that renders the list of articles.
func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	idx, err := s.Articles(r.Context())
	if err != nil {
		log.Printf("home: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	b, err := s.execute("home", page{Path: r.URL.Path, Articles: idx.Articles()})
	if err != nil {
		log.Printf("home: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	write(w, http.StatusOK, "text/html; charset=utf-8", b)
}

// projects is an http.HandlerFunc that renders the projects page.
func (s *Site) projects(w http.ResponseWriter, r *http.Request) {
	cfg := s.Config()
	b, err := s.execute("projects", page{Title: "Projects", Path: r.URL.Path, Projects: cfg.Projects})
	if err != nil {
		log.Printf("projects: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	write(w, http.StatusOK, "text/html; charset=utf-8", b)
}

// article is an http.HandlerFunc that renders a single article by slug.
func (s *Site) article(w http.ResponseWriter, r *http.Request) {
	idx, err := s.Articles(r.Context())
	if err != nil {
		log.Printf("article: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	a, ok := idx.Lookup(r.PathValue("slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	b, err := s.renderArticle(a, r.URL.Path)
	if err != nil {
		log.Printf("article: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	write(w, http.StatusOK, "text/html; charset=utf-8", b)
}

// renderArticle renders the markdown of a and executes the article template.
func (s *Site) renderArticle(a article.Article, urlPath string) ([]byte, error) {
	return s.execute("article", page{
		Title:   a.Title,
		Path:    urlPath,
		Article: &a,
		Content: s.renderer().Render(a.Text),
	})
}

// sitemap is an http.HandlerFunc that renders the XML site map.
func (s *Site) sitemap(w http.ResponseWriter, r *http.Request) {
	b, err := s.buildSitemap(r)
	if err != nil {
		log.Printf("sitemap: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	write(w, http.StatusOK, sitemap.ContentType, b)
}

func (s *Site) buildSitemap(r *http.Request) ([]byte, error) {
	idx, err := s.Articles(r.Context())
	if err != nil {
		return nil, err
	}
	return sitemap.Build(s.Config().Hostname, idx.Articles())
}

// css is an http.HandlerFunc that serves the code highlighting stylesheet.
func (s *Site) css(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer().WriteCSS(&buf); err != nil {
		log.Printf("css: %s", err)
		s.serverError(w, r, err.Error())
		return
	}
	write(w, http.StatusOK, "text/css; charset=utf-8", buf.Bytes())
}

// notFound is a handler for rendering our 404 page.
func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	b, ok := s.ErrorPage(http.StatusNotFound)
	if !ok {
		http.NotFound(w, r)
		return
	}
	write(w, http.StatusNotFound, "text/html; charset=utf-8", b)
}

// serverError is a handler for rendering our error page.
func (s *Site) serverError(w http.ResponseWriter, r *http.Request, errMsg string) {
	b, err := s.execute("error", page{Title: "Server Error", Path: r.URL.Path, Message: errMsg})
	if err != nil {
		log.Printf("serverError: %s", err)
		http.Error(w, errMsg, http.StatusInternalServerError)
		return
	}
	write(w, http.StatusInternalServerError, "text/html; charset=utf-8", b)
}

// ErrorPage renders the not found or error template for status.
func (s *Site) ErrorPage(status int) ([]byte, bool) {
	var p page
	name := "notfound"
	switch status {
	case http.StatusNotFound:
		p.Title = "Not Found"
	case http.StatusInternalServerError:
		name = "error"
		p.Title = "Server Error"
		p.Message = http.StatusText(status)
	default:
		return nil, false
	}
	b, err := s.execute(name, p)
	if err != nil {
		log.Printf("ErrorPage: %s", err)
		return nil, false
	}
	return b, true
}

// write sends b with the given status and content type.
func write(w http.ResponseWriter, status int, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		log.Printf("write: %s", err)
	}
}
