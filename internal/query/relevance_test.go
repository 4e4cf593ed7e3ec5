package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type doc struct {
	id  string
	d   Document
	pub time.Time
}

func TestScoreReactHooksExample(t *testing.T) {
	post := Document{
		Title: "React Hooks in Depth",
		Tags:  []string{"React", "JavaScript"},
	}
	assert.Equal(t, 33, Score(post, Terms("react hooks")))

	contentOnly := Document{Title: "Weekly notes", Content: "we talked about react hooks"}
	assert.Equal(t, 6, Score(contentOnly, Terms("react hooks")))
	assert.Greater(t, Score(post, Terms("react hooks")), Score(contentOnly, Terms("react hooks")))
}

func TestScoreFieldsAreIndependent(t *testing.T) {
	d := Document{
		Title:   "Go generics",
		Excerpt: "Generics explained",
		Content: "generics everywhere",
		Tags:    []string{"generics"},
	}
	// title 10 + excerpt 5 + content 3 + tag 8, no prefix
	assert.Equal(t, 26, Score(d, Terms("GENERICS")))
	// title 10 + prefix 5
	assert.Equal(t, 15, Score(d, Terms("go")))
}

func TestMatchesRequiresEveryTerm(t *testing.T) {
	d := Document{Title: "Rust ownership", Category: "Systems", Tags: []string{"memory"}}

	assert.True(t, Matches(d, Terms("rust")))
	assert.True(t, Matches(d, Terms("systems MEMORY")))
	assert.False(t, Matches(d, Terms("rust python")))
	assert.True(t, Matches(d, nil))
}

func TestRankMonotonicity(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []doc{
		{id: "1", d: Document{Title: "React hooks", Content: "state effects"}, pub: base},
		{id: "2", d: Document{Title: "Vue", Content: "react comparison hooks"}, pub: base.Add(time.Hour)},
		{id: "3", d: Document{Title: "Go", Tags: []string{"backend"}}, pub: base.Add(2 * time.Hour)},
		{id: "4", d: Document{Title: "State machines", Excerpt: "react"}, pub: base.Add(3 * time.Hour)},
	}
	get := func(d doc) Document { return d.d }
	at := func(d doc) time.Time { return d.pub }

	set := func(q string) map[string]bool {
		m := map[string]bool{}
		for _, s := range Rank(docs, q, get, at) {
			m[s.Item.id] = true
		}
		return m
	}

	full := set("react hooks state")
	for _, q := range []string{"react hooks", "react state", "hooks state", "react", "hooks", "state", ""} {
		sub := set(q)
		for id := range full {
			assert.True(t, sub[id], "query %q dropped %s", q, id)
		}
	}
	assert.Len(t, set(""), 4)
}

func TestRankOrdering(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []doc{
		{id: "old-title", d: Document{Title: "Kubernetes basics"}, pub: base},
		{id: "content", d: Document{Title: "Ops", Content: "kubernetes"}, pub: base.Add(48 * time.Hour)},
		{id: "new-title", d: Document{Title: "Kubernetes advanced"}, pub: base.Add(24 * time.Hour)},
	}
	get := func(d doc) Document { return d.d }
	at := func(d doc) time.Time { return d.pub }

	ranked := Rank(docs, "kubernetes", get, at)
	var order []string
	for _, r := range ranked {
		order = append(order, r.Item.id)
	}
	assert.Equal(t, []string{"new-title", "old-title", "content"}, order)
	assert.Equal(t, 15, ranked[0].Score)

	// no query: newest first
	order = order[:0]
	for _, r := range Rank(docs, "  ", get, at) {
		order = append(order, r.Item.id)
		assert.Zero(t, r.Score)
	}
	assert.Equal(t, []string{"content", "new-title", "old-title"}, order)
}
