package web

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/ancientlore/cachefs"
)

// CacheConfig stores the groupcache settings of the static file cache.
type CacheConfig = cachefs.Config

// Static serves the files of fsys under StaticPrefix through a read-only
// groupcache cache. Hidden files are not served and missing files get the
// not found page from pages. A nil config uses a 1MB cache with a random
// group name.
func Static(fsys fs.FS, config *CacheConfig, pages ErrorPages) http.Handler {
	cached := cachefs.New(hiddenFS{fsys}, config)
	return http.StripPrefix(strings.TrimSuffix(StaticPrefix, "/"),
		ErrorHandler(http.FileServer(http.FS(cached)), pages))
}

// hiddenFS hides files and folders starting with a period.
type hiddenFS struct {
	fs fs.FS
}

// Open opens the named file unless it is hidden.
func (h hiddenFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name != "." && containsSpecialFile(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return h.fs.Open(name)
}

// containsSpecialFile reports whether name contains a path element starting with a period.
// The name is assumed to be a delimited by forward slashes, as guaranteed by the fs.FS interface.
func containsSpecialFile(name string) bool {
	parts := strings.Split(name, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
