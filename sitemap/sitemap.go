// Package sitemap builds the XML sitemap of the site.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/artmann/folio/article"
)

// ContentType is served with the sitemap.
const ContentType = "text/xml"

// Namespace is the sitemaps.org schema.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticPages are listed before any article, without a modification time.
var StaticPages = []string{"/", "/projects"}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Build returns the sitemap for the static pages and articles. Locations are
// hostname joined with the page path; an empty hostname yields bare paths.
// A publish date that does not parse as article.DateLayout fails the whole
// sitemap with an *article.ParseError.
func Build(hostname string, articles []article.Article) ([]byte, error) {
	base := strings.TrimRight(strings.TrimSpace(hostname), "/")
	set := urlset{
		Xmlns: Namespace,
		URLs:  make([]entry, 0, len(StaticPages)+len(articles)),
	}
	for _, p := range StaticPages {
		set.URLs = append(set.URLs, entry{Loc: base + p})
	}
	for _, a := range articles {
		p, err := article.Path(a)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		d, err := a.Date()
		if err != nil {
			return nil, fmt.Errorf("Build: %q: %w", a.Title, err)
		}
		set.URLs = append(set.URLs, entry{
			Loc:     base + p,
			LastMod: d.UTC().Format(time.RFC3339),
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
