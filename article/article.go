/*
Package article loads blog articles from markdown files with front matter and
derives their URL slugs.

Articles live as flat files in a single directory. Each file starts with a
front matter block, either YAML delimited by "---" or TOML delimited by "+++",
followed by the markdown body:

	---
	title: Waiting for Network Resources in Cypress
	blurb: How to wait for XHR requests in end-to-end tests.
	imageUrl: /static/images/cypress.jpg
	publishedAt: 2021-03-05
	status: Published
	tags: testing, cypress
	---
	# Body

Front matter fields:

	Name         Description
	-----------  -------------------------------------------------------------
	title        Title of the article, required
	blurb        Short summary used in listings and meta tags, required
	imageUrl     Cover image, required
	publishedAt  Publish date as YYYY-MM-DD, required
	status       "Published" or "Draft"; anything else is treated as Draft
	tags         Comma separated string or a list

Only published articles are ever returned by the loader.
*/
package article

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the only format publish dates are stored and parsed in.
const DateLayout = "2006-01-02"

// Status is the visibility of an article.
type Status int

const (
	Draft Status = iota
	Published
)

// String returns the front matter literal for the status.
func (s Status) String() string {
	if s == Published {
		return "Published"
	}
	return "Draft"
}

// ParseStatus maps a front matter literal to a Status. Only the exact
// string "Published" is published.
func ParseStatus(s string) Status {
	if s == "Published" {
		return Published
	}
	return Draft
}

// Article is a single blog post.
type Article struct {
	Title       string
	Blurb       string
	ImageURL    string
	PublishedAt string // YYYY-MM-DD
	Status      Status
	Tags        []string
	Text        string // raw markdown body
}

// Date parses PublishedAt as a calendar date at midnight UTC.
func (a Article) Date() (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, a.PublishedAt, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Field: "publishedAt", Err: err}
	}
	return t, nil
}

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
	// ErrInvalidInput is returned when a slug is requested for an article without a usable title.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSlugCollision is returned when two articles resolve to the same slug.
	ErrSlugCollision = errors.New("slug collision")
)

// ParseError reports front matter that is missing or malformed.
type ParseError struct {
	File  string // source file, empty when not loaded from disk
	Field string // front matter field, empty for structural errors
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("%s: field %q: %v", e.File, e.Field, e.Err)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	case e.Field != "":
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
