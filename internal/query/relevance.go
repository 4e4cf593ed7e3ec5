package query

import (
	"slices"
	"strings"
	"time"
)

// Weights added per query term.
const (
	weightTitle       = 10
	weightTitlePrefix = 5
	weightExcerpt     = 5
	weightContent     = 3
	weightTag         = 8
)

// Document is the searchable projection of a post.
type Document struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Tags     []string
}

// Scored pairs an item with its relevance score.
type Scored[T any] struct {
	Item  T
	Score int
}

// Terms lowercases q and splits it on whitespace.
func Terms(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

// Matches reports whether every term occurs somewhere in the document's
// searchable text. No terms matches everything.
func Matches(doc Document, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	hay := strings.ToLower(strings.Join([]string{
		doc.Title, doc.Excerpt, doc.Content, doc.Category, strings.Join(doc.Tags, " "),
	}, " "))
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

// Score sums the per-term field weights. Fields are checked independently,
// so one term can score in several of them.
func Score(doc Document, terms []string) int {
	title := strings.ToLower(doc.Title)
	excerpt := strings.ToLower(doc.Excerpt)
	content := strings.ToLower(doc.Content)
	tags := make([]string, len(doc.Tags))
	for i, t := range doc.Tags {
		tags[i] = strings.ToLower(t)
	}

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += weightTitle
			if strings.HasPrefix(title, term) {
				score += weightTitlePrefix
			}
		}
		if strings.Contains(excerpt, term) {
			score += weightExcerpt
		}
		if strings.Contains(content, term) {
			score += weightContent
		}
		if slices.ContainsFunc(tags, func(tag string) bool { return strings.Contains(tag, term) }) {
			score += weightTag
		}
	}
	return score
}

// Rank keeps the items matching every term of q and orders them by score,
// newest first on ties. With an empty q it is a plain newest-first sort.
func Rank[T any](items []T, q string, doc func(T) Document, date func(T) time.Time) []Scored[T] {
	terms := Terms(q)

	out := make([]Scored[T], 0, len(items))
	for _, it := range items {
		d := doc(it)
		if !Matches(d, terms) {
			continue
		}
		out = append(out, Scored[T]{Item: it, Score: Score(d, terms)})
	}

	slices.SortStableFunc(out, func(a, b Scored[T]) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return date(b.Item).Compare(date(a.Item))
	})
	return out
}
