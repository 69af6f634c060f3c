package article

import (
	"errors"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Waiting for Network Resources in Cypress": "waiting-for-network-resources-in-cypress",
		"  Hello,   World!  ":                      "hello-world",
		"camelCaseTitle":                           "camel-case-title",
		"Parsing HTMLDocuments in Go":              "parsing-html-documents-in-go",
		"React & Koa: a Template":                  "react-koa-a-template",
		"Top 10 Tips":                              "top-10-tips",
		"version2Release":                          "version2-release",
		"Don't Panic":                              "don-t-panic",
		"--already-slugged--":                      "already-slugged",
	}
	for title, want := range tests {
		got, err := Slug(Article{Title: title})
		if err != nil {
			t.Errorf("Slug(%q): %v", title, err)
			continue
		}
		if got != want {
			t.Errorf("Slug(%q) = %q, want %q", title, got, want)
		}
		again, _ := Slug(Article{Title: title})
		if again != got {
			t.Errorf("Slug(%q) is not stable: %q vs %q", title, got, again)
		}
	}
}

func TestSlugInvalid(t *testing.T) {
	for _, title := range []string{"", "   ", "!!!"} {
		_, err := Slug(Article{Title: title})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Slug(%q): expected ErrInvalidInput, got %v", title, err)
		}
		_, err = Path(Article{Title: title})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Path(%q): expected ErrInvalidInput, got %v", title, err)
		}
	}
}

func TestPath(t *testing.T) {
	a := Article{Title: "Waiting for Network Resources in Cypress", Blurb: "ignored"}
	p, err := Path(a)
	if err != nil {
		t.Fatal(err)
	}
	slug, _ := Slug(a)
	if p != "/articles/"+slug {
		t.Errorf("Path = %q, want /articles/%s", p, slug)
	}
	if p != "/articles/waiting-for-network-resources-in-cypress" {
		t.Errorf("Unexpected path %q", p)
	}
}

func TestIndex(t *testing.T) {
	articles := []Article{
		{Title: "First Post", PublishedAt: "2021-03-05"},
		{Title: "Second Post", PublishedAt: "2021-02-01"},
	}
	idx, err := NewIndex(articles)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Errorf("Expected 2 articles, got %d", idx.Len())
	}
	a, ok := idx.Lookup("second-post")
	if !ok || a.Title != "Second Post" {
		t.Errorf("Lookup(second-post) = %#v, %v", a, ok)
	}
	if _, ok := idx.Lookup("third-post"); ok {
		t.Error("Expected third-post to be missing")
	}
	if s := idx.Slugs(); len(s) != 2 || s[0] != "first-post" || s[1] != "second-post" {
		t.Errorf("Unexpected slugs %#v", s)
	}
}

func TestIndexCollision(t *testing.T) {
	articles := []Article{
		{Title: "Hello World"},
		{Title: "hello, world!"},
	}
	_, err := NewIndex(articles)
	if !errors.Is(err, ErrSlugCollision) {
		t.Errorf("Expected ErrSlugCollision, got %v", err)
	}
	_, err = NewIndex([]Article{{Title: ""}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSort(t *testing.T) {
	articles := []Article{
		{Title: "B", PublishedAt: "2020-01-01"},
		{Title: "C", PublishedAt: "2022-05-01"},
		{Title: "A", PublishedAt: "2020-01-01"},
	}
	Sort(articles)
	got := articles[0].Title + articles[1].Title + articles[2].Title
	if got != "CAB" {
		t.Errorf("Expected CAB, got %s", got)
	}
}
