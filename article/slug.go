package article

import (
	"fmt"
	"regexp"
	"strings"
)

// PathPrefix is prepended to a slug to form an article URL.
const PathPrefix = "/articles/"

var (
	// lowerUpper splits "fooBar" and "foo1Bar".
	lowerUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	// upperWord splits "HTMLParser" into "HTML Parser".
	upperWord = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	// separators are runs of anything that is not an ASCII letter or digit.
	separators = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// Slug returns the param-case form of the article title:
// "Waiting for Network Resources in Cypress" becomes
// "waiting-for-network-resources-in-cypress". It depends on the title only.
func Slug(a Article) (string, error) {
	s := lowerUpper.ReplaceAllString(a.Title, "$1 $2")
	s = upperWord.ReplaceAllString(s, "$1 $2")
	s = separators.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		return "", fmt.Errorf("slug for %q: %w", a.Title, ErrInvalidInput)
	}
	return strings.ToLower(s), nil
}

// Path returns the canonical URL path of the article.
func Path(a Article) (string, error) {
	slug, err := Slug(a)
	if err != nil {
		return "", err
	}
	return PathPrefix + slug, nil
}
