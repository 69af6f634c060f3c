package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/artmann/folio/article"
	"github.com/artmann/folio/sitemap"
	"github.com/artmann/folio/web"
	"golang.org/x/sync/errgroup"
)

// Build writes the whole site as static files into outDir and returns the
// number of pages written. Articles are loaded once for the whole build.
// Any error stops the build; a partial site is never reported as success.
func (s *Site) Build(ctx context.Context, outDir string) (int, error) {
	idx, err := s.Articles(ctx)
	if err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}

	// sitemap first so that a bad date fails before any page is written
	sm, err := sitemap.Build(s.Config().Hostname, idx.Articles())
	if err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}

	pages := 0
	home, err := s.execute("home", page{Path: "/", Articles: idx.Articles()})
	if err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}
	if err := writeFile(outDir, "index.html", home); err != nil {
		return 0, err
	}
	pages++
	projects, err := s.execute("projects", page{Title: "Projects", Path: "/projects", Projects: s.Config().Projects})
	if err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}
	if err := writeFile(outDir, "projects/index.html", projects); err != nil {
		return 0, err
	}
	pages++

	// articles render independently
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	articles, slugs := idx.Articles(), idx.Slugs()
	for i := range articles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := article.PathPrefix + slugs[i]
			b, err := s.renderArticle(articles[i], p)
			if err != nil {
				return fmt.Errorf("Build: %s: %w", p, err)
			}
			return writeFile(outDir, strings.TrimPrefix(p, "/")+"/index.html", b)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	pages += len(articles)

	if b, ok := s.ErrorPage(http.StatusNotFound); ok {
		if err := writeFile(outDir, "404.html", b); err != nil {
			return 0, err
		}
	}
	if err := writeFile(outDir, "sitemap.xml", sm); err != nil {
		return 0, err
	}
	var css bytes.Buffer
	if err := s.renderer().WriteCSS(&css); err != nil {
		return 0, fmt.Errorf("Build: %w", err)
	}
	if err := writeFile(outDir, "highlight.css", css.Bytes()); err != nil {
		return 0, err
	}
	if err := s.copyStatic(outDir); err != nil {
		return 0, err
	}
	return pages, nil
}

// copyStatic copies the public folder to the static folder of outDir,
// skipping hidden files. A missing public folder is not an error.
func (s *Site) copyStatic(outDir string) error {
	dest := strings.Trim(web.StaticPrefix, "/")
	err := fs.WalkDir(s.fs, StaticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		b, err := fs.ReadFile(s.fs, p)
		if err != nil {
			return err
		}
		return writeFile(outDir, path.Join(dest, strings.TrimPrefix(p, StaticDir+"/")), b)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("copyStatic: %w", err)
	}
	return nil
}

// writeFile writes b to name, a slash separated path below outDir.
func writeFile(outDir, name string, b []byte) error {
	target := filepath.Join(outDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("writeFile: %w", err)
	}
	if err := os.WriteFile(target, b, 0o644); err != nil {
		return fmt.Errorf("writeFile: %w", err)
	}
	return nil
}
