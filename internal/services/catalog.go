package services

import (
	"context"
	"strings"

	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"
)

// catalog: снимок справочников (категории, теги, авторы) для сборки
// ответов по постам и поисковых документов.
type catalog struct {
	categories map[string]models.Category
	tags       map[string]models.Tag
	authors    map[string]models.Author
	parents    map[string]string
}

func loadCatalog(
	ctx context.Context,
	cats repository.Repository[models.Category],
	tags repository.Repository[models.Tag],
	authors repository.Repository[models.Author],
) catalog {
	c := catalog{
		categories: map[string]models.Category{},
		tags:       map[string]models.Tag{},
		authors:    map[string]models.Author{},
		parents:    map[string]string{},
	}
	for _, cat := range cats.List(ctx) {
		c.categories[cat.ID] = cat
		c.parents[cat.ID] = cat.ParentID
	}
	for _, t := range tags.List(ctx) {
		c.tags[t.ID] = t
	}
	for _, a := range authors.List(ctx) {
		c.authors[a.ID] = a
	}
	return c
}

func (c catalog) document(p models.Post) query.Document {
	doc := query.Document{
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Content:  p.Content,
		Category: c.categories[p.CategoryID].Name,
	}
	for _, id := range p.TagIDs {
		if t, ok := c.tags[id]; ok {
			doc.Tags = append(doc.Tags, t.Name)
		}
	}
	return doc
}

func (c catalog) view(p models.Post) models.PostView {
	v := models.PostView{Post: p, Tags: []models.Tag{}}
	if p.TagIDs == nil {
		v.TagIDs = []string{}
	}
	if a, ok := c.authors[p.AuthorID]; ok {
		v.Author = &a
	}
	if cat, ok := c.categories[p.CategoryID]; ok {
		v.Category = &cat
	}
	for _, id := range p.TagIDs {
		if t, ok := c.tags[id]; ok {
			v.Tags = append(v.Tags, t)
		}
	}
	return v
}

// Ссылки из query-параметров принимают и id, и slug.

func (c catalog) category(ref string) (models.Category, bool) {
	if cat, ok := c.categories[ref]; ok {
		return cat, true
	}
	for _, cat := range c.categories {
		if cat.Slug == ref {
			return cat, true
		}
	}
	return models.Category{}, false
}

func (c catalog) tag(ref string) (models.Tag, bool) {
	if t, ok := c.tags[ref]; ok {
		return t, true
	}
	for _, t := range c.tags {
		if t.Slug == ref || strings.EqualFold(t.Name, ref) {
			return t, true
		}
	}
	return models.Tag{}, false
}

func (c catalog) author(ref string) (models.Author, bool) {
	if a, ok := c.authors[ref]; ok {
		return a, true
	}
	for _, a := range c.authors {
		if a.Slug == ref {
			return a, true
		}
	}
	return models.Author{}, false
}

// inCategory: предикат "пост в категории ref или в любой её подкатегории".
// Неизвестная категория не совпадает ни с чем.
func (c catalog) inCategory(ref string) query.Predicate[models.Post] {
	cat, ok := c.category(ref)
	if !ok {
		return func(models.Post) bool { return false }
	}
	ids := query.Descendants(cat.ID, c.parents)
	return func(p models.Post) bool {
		_, in := ids[p.CategoryID]
		return in
	}
}

func (c catalog) byAuthor(ref string) query.Predicate[models.Post] {
	a, ok := c.author(ref)
	if !ok {
		return func(models.Post) bool { return false }
	}
	return func(p models.Post) bool { return p.AuthorID == a.ID }
}

func (c catalog) withTag(ref string) query.Predicate[models.Post] {
	t, ok := c.tag(ref)
	if !ok {
		return func(models.Post) bool { return false }
	}
	return func(p models.Post) bool { return p.HasTag(t.ID) }
}

var postSortKeys = query.SortKeys[models.Post]{
	Date:       models.Post.EffectiveDate,
	Title:      func(p models.Post) string { return p.Title },
	Popularity: func(p models.Post) float64 { return float64(p.ViewCount) },
}
