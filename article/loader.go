package article

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultDir is the folder articles are read from.
const DefaultDir = "articles"

// Loader reads articles from a folder of a file system. It holds no state
// between calls; every Load re-reads every file.
type Loader struct {
	fs  fs.FS
	dir string
}

// NewLoader returns a Loader for the given folder of fsys.
// An empty dir means DefaultDir.
func NewLoader(fsys fs.FS, dir string) *Loader {
	if dir == "" {
		dir = DefaultDir
	}
	return &Loader{fs: fsys, dir: path.Clean(dir)}
}

// Load reads the articles from the default folder of fsys.
func Load(ctx context.Context, fsys fs.FS) ([]Article, error) {
	return NewLoader(fsys, DefaultDir).Load(ctx)
}

// Load reads and parses every file in the folder and returns the published
// articles, newest first. An unreadable folder or file returns the
// underlying *fs.PathError; bad front matter returns a *ParseError.
// Either fails the whole load.
func (l *Loader) Load(ctx context.Context) ([]Article, error) {
	entries, err := fs.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		names = append(names, path.Join(l.dir, entry.Name()))
	}

	// read concurrently; each goroutine owns one slot
	contents := make([][]byte, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := fs.ReadFile(l.fs, name)
			if err != nil {
				return err
			}
			contents[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	articles := make([]Article, 0, len(names))
	for i, name := range names {
		a, err := parseDocument(name, contents[i])
		if err != nil {
			return nil, err
		}
		if a.Status == Published {
			articles = append(articles, a)
		}
	}
	Sort(articles)
	return articles, nil
}

// Sort orders articles newest first. Articles published the same day are
// ordered by title so the order does not depend on the file system.
func Sort(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].PublishedAt != articles[j].PublishedAt {
			return articles[i].PublishedAt > articles[j].PublishedAt
		}
		return articles[i].Title < articles[j].Title
	})
}

// isHidden reports whether the file name starts with a period.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
