package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"

	"go.uber.org/zap"
)

const (
	SearchDateDesc  = "date_desc"
	SearchDateAsc   = "date_asc"
	SearchRelevance = "relevance"
)

var searchSorts = []string{SearchDateDesc, SearchDateAsc, SearchRelevance}

type SearchParams struct {
	Q        string
	Tags     []string // пост должен нести хотя бы один из тегов
	Category string
	Author   string
	Sort     string
	Page     query.Page
}

type SearchService struct {
	posts      repository.Repository[models.Post]
	categories repository.Repository[models.Category]
	tags       repository.Repository[models.Tag]
	authors    repository.Repository[models.Author]
}

func NewSearchService(
	posts repository.Repository[models.Post],
	categories repository.Repository[models.Category],
	tags repository.Repository[models.Tag],
	authors repository.Repository[models.Author],
) *SearchService {
	return &SearchService{posts: posts, categories: categories, tags: tags, authors: authors}
}

// Search ищет по опубликованным постам. Без явной сортировки: по релевантности,
// если есть запрос, иначе по дате.
func (s *SearchService) Search(ctx context.Context, p SearchParams) (models.SearchResult, error) {
	logger.Log.Debug("Сервис: поиск постов",
		zap.Int("query_len", len(p.Q)),
		zap.Strings("tags", p.Tags),
		zap.String("sort", p.Sort),
	)

	if p.Sort == "" {
		p.Sort = SearchDateDesc
		if strings.TrimSpace(p.Q) != "" {
			p.Sort = SearchRelevance
		}
	}
	if !slices.Contains(searchSorts, p.Sort) {
		return models.SearchResult{}, invalid("sort", fmt.Sprintf("invalid value %q", p.Sort), searchSorts...)
	}

	cat := loadCatalog(ctx, s.categories, s.tags, s.authors)
	published := query.Filter(s.posts.List(ctx), func(p models.Post) bool { return p.Status == models.PostPublished })

	preds := []query.Predicate[models.Post]{}
	if len(p.Tags) > 0 {
		var anyOf []query.Predicate[models.Post]
		for _, t := range p.Tags {
			anyOf = append(anyOf, cat.withTag(t))
		}
		preds = append(preds, func(post models.Post) bool {
			return slices.ContainsFunc(anyOf, func(match query.Predicate[models.Post]) bool { return match(post) })
		})
	}
	if p.Category != "" {
		preds = append(preds, cat.inCategory(p.Category))
	}
	if p.Author != "" {
		preds = append(preds, cat.byAuthor(p.Author))
	}

	ranked := query.Rank(query.Filter(published, preds...), p.Q, cat.document, models.Post.EffectiveDate)
	switch p.Sort {
	case SearchDateDesc:
		slices.SortStableFunc(ranked, func(a, b query.Scored[models.Post]) int {
			return b.Item.EffectiveDate().Compare(a.Item.EffectiveDate())
		})
	case SearchDateAsc:
		slices.SortStableFunc(ranked, func(a, b query.Scored[models.Post]) int {
			return a.Item.EffectiveDate().Compare(b.Item.EffectiveDate())
		})
	}

	page := query.Paginate(ranked, p.Page)
	res := models.SearchResult{
		Query:   p.Q,
		Sort:    p.Sort,
		Items:   make([]models.SearchHit, 0, len(page.Items)),
		Total:   page.Total,
		HasMore: page.HasMore,
		Facets:  facets(cat, published),
	}
	for _, sc := range page.Items {
		res.Items = append(res.Items, models.SearchHit{PostView: cat.view(sc.Item), Score: sc.Score})
	}

	logger.Log.Debug("Сервис: поиск выполнен", zap.Int("total", res.Total))
	return res, nil
}

// facets считает теги, категории и авторов по всем опубликованным постам.
func facets(cat catalog, posts []models.Post) models.SearchFacets {
	tagCounts := map[string]int{}
	catCounts := map[string]int{}
	authorCounts := map[string]int{}
	for _, p := range posts {
		for _, id := range p.TagIDs {
			tagCounts[id]++
		}
		catCounts[p.CategoryID]++
		authorCounts[p.AuthorID]++
	}

	out := models.SearchFacets{Tags: []models.Facet{}, Categories: []models.Facet{}, Authors: []models.Facet{}}
	for id, n := range tagCounts {
		if t, ok := cat.tags[id]; ok {
			out.Tags = append(out.Tags, models.Facet{ID: id, Name: t.Name, Slug: t.Slug, Count: n})
		}
	}
	for id, n := range catCounts {
		if c, ok := cat.categories[id]; ok {
			out.Categories = append(out.Categories, models.Facet{ID: id, Name: c.Name, Slug: c.Slug, Count: n})
		}
	}
	for id, n := range authorCounts {
		if a, ok := cat.authors[id]; ok {
			out.Authors = append(out.Authors, models.Facet{ID: id, Name: a.Name, Slug: a.Slug, Count: n})
		}
	}
	for _, list := range [][]models.Facet{out.Tags, out.Categories, out.Authors} {
		slices.SortFunc(list, func(a, b models.Facet) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return strings.Compare(a.Name, b.Name)
		})
	}
	return out
}
