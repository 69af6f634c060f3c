package article

import "fmt"

// Index resolves slugs to articles.
type Index struct {
	articles []Article
	slugs    []string
	bySlug   map[string]int
}

// NewIndex builds an index over articles, keeping their order. It fails if
// any title has no slug or if two titles share one.
func NewIndex(articles []Article) (*Index, error) {
	idx := Index{
		articles: articles,
		slugs:    make([]string, len(articles)),
		bySlug:   make(map[string]int, len(articles)),
	}
	for i, a := range articles {
		slug, err := Slug(a)
		if err != nil {
			return nil, fmt.Errorf("NewIndex: %w", err)
		}
		if j, ok := idx.bySlug[slug]; ok {
			return nil, fmt.Errorf("NewIndex: %q and %q both map to %q: %w", articles[j].Title, a.Title, slug, ErrSlugCollision)
		}
		idx.bySlug[slug] = i
		idx.slugs[i] = slug
	}
	return &idx, nil
}

// Lookup returns the article with the given slug.
func (idx *Index) Lookup(slug string) (Article, bool) {
	i, ok := idx.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return idx.articles[i], true
}

// Articles returns the indexed articles in their original order.
func (idx *Index) Articles() []Article {
	return idx.articles
}

// Slugs returns the slug of each article, in the same order as Articles.
func (idx *Index) Slugs() []string {
	return idx.slugs
}

// Len returns the number of articles.
func (idx *Index) Len() int {
	return len(idx.articles)
}
