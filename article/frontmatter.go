package article

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// formats are the accepted front matter delimiters.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// dateLayouts are accepted for publishedAt when it is given as a string.
// The value is always normalized to DateLayout.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// record is the strict shape front matter is coerced into before validation.
type record struct {
	Title       string `json:"title"`
	Blurb       string `json:"blurb"`
	ImageURL    string `json:"imageUrl"`
	PublishedAt string `json:"publishedAt"`
	Status      string `json:"status"`
	Tags        []string
}

// Validate checks required fields.
func (r record) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Blurb, validation.Required),
		validation.Field(&r.ImageURL, validation.Required),
		validation.Field(&r.PublishedAt, validation.Required, validation.Date(DateLayout)),
	)
}

// parseDocument splits front matter from the body and builds an Article.
func parseDocument(name string, b []byte) (Article, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(b), &raw, formats...)
	if err != nil {
		return Article{}, &ParseError{File: name, Err: err}
	}
	rec, err := coerce(raw)
	if err != nil {
		return Article{}, &ParseError{File: name, Field: "publishedAt", Err: err}
	}
	if err := rec.Validate(); err != nil {
		return Article{}, &ParseError{File: name, Err: err}
	}
	return Article{
		Title:       rec.Title,
		Blurb:       rec.Blurb,
		ImageURL:    rec.ImageURL,
		PublishedAt: rec.PublishedAt,
		Status:      ParseStatus(rec.Status),
		Tags:        rec.Tags,
		Text:        strings.TrimSpace(string(body)),
	}, nil
}

// coerce maps the loosely typed front matter onto a record. Missing values
// are left empty for Validate to report.
func coerce(raw map[string]any) (record, error) {
	var (
		rec record
		err error
	)
	rec.Title = strings.TrimSpace(text(raw["title"]))
	rec.Blurb = strings.TrimSpace(text(raw["blurb"]))
	rec.ImageURL = strings.TrimSpace(text(raw["imageUrl"]))
	rec.Status = text(raw["status"])
	rec.Tags = splitTags(raw["tags"])
	rec.PublishedAt, err = normalizeDate(raw["publishedAt"])
	return rec, err
}

// text converts a scalar front matter value to a string.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// normalizeDate formats a date value as DateLayout. YAML and TOML dates
// arrive as time.Time or toml.LocalDate; strings are parsed.
func normalizeDate(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return x.Format(DateLayout), nil
	case toml.LocalDate:
		return x.String(), nil
	case toml.LocalDateTime:
		return x.LocalDate.String(), nil
	}
	s := strings.TrimSpace(text(v))
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("cannot parse %q as %s", s, DateLayout)
}

// splitTags accepts a comma separated string or a list and returns trimmed,
// non-empty, de-duplicated tags in order.
func splitTags(v any) []string {
	var parts []string
	switch x := v.(type) {
	case nil:
		return []string{}
	case []any:
		for _, p := range x {
			parts = append(parts, text(p))
		}
	case []string:
		parts = x
	default:
		parts = strings.Split(text(x), ",")
	}
	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		tags = append(tags, p)
	}
	return tags
}
