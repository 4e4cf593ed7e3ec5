package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaxonomyService struct {
	categories repository.Repository[models.Category]
	tags       repository.Repository[models.Tag]
	posts      repository.Repository[models.Post]
	now        func() time.Time
}

func NewTaxonomyService(
	categories repository.Repository[models.Category],
	tags repository.Repository[models.Tag],
	posts repository.Repository[models.Post],
) *TaxonomyService {
	return &TaxonomyService{categories: categories, tags: tags, posts: posts, now: time.Now}
}

// ---------- Категории ----------

func (s *TaxonomyService) parents(ctx context.Context) map[string]string {
	parents := map[string]string{}
	for _, c := range s.categories.List(ctx) {
		parents[c.ID] = c.ParentID
	}
	return parents
}

// withCounts считает опубликованные посты категории вместе с подкатегориями.
func (s *TaxonomyService) withCounts(ctx context.Context) []models.CategoryWithCount {
	cats := s.categories.List(ctx)
	parents := s.parents(ctx)

	direct := map[string]int{}
	for _, p := range s.posts.List(ctx) {
		if p.Status == models.PostPublished {
			direct[p.CategoryID]++
		}
	}

	out := make([]models.CategoryWithCount, 0, len(cats))
	for _, c := range cats {
		n := 0
		for id := range query.Descendants(c.ID, parents) {
			n += direct[id]
		}
		out = append(out, models.CategoryWithCount{Category: c, PostCount: n})
	}
	return out
}

func (s *TaxonomyService) ListCategories(ctx context.Context) []models.CategoryWithCount {
	logger.Log.Debug("Сервис: список категорий")
	return s.withCounts(ctx)
}

// CategoryTree строит дерево. Категории с несуществующим родителем считаются корнями.
func (s *TaxonomyService) CategoryTree(ctx context.Context) []models.CategoryTree {
	flat := s.withCounts(ctx)
	known := map[string]bool{}
	children := map[string][]models.CategoryWithCount{}
	var roots []models.CategoryWithCount
	for _, c := range flat {
		known[c.ID] = true
	}
	for _, c := range flat {
		if c.ParentID == "" || !known[c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[c.ParentID] = append(children[c.ParentID], c)
	}

	seen := map[string]bool{}
	var build func(c models.CategoryWithCount) models.CategoryTree
	build = func(c models.CategoryWithCount) models.CategoryTree {
		seen[c.ID] = true
		node := models.CategoryTree{CategoryWithCount: c, Children: []models.CategoryTree{}}
		for _, ch := range children[c.ID] {
			if !seen[ch.ID] {
				node.Children = append(node.Children, build(ch))
			}
		}
		return node
	}

	out := make([]models.CategoryTree, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}

func (s *TaxonomyService) GetCategory(ctx context.Context, slug string) (models.CategoryDetail, error) {
	for _, c := range s.withCounts(ctx) {
		if c.Slug != slug && c.ID != slug {
			continue
		}
		ids := []string{}
		for id := range query.Descendants(c.ID, s.parents(ctx)) {
			if id != c.ID {
				ids = append(ids, id)
			}
		}
		return models.CategoryDetail{CategoryWithCount: c, DescendantIDs: ids}, nil
	}
	return models.CategoryDetail{}, notFound("category")
}

func sameCategory(name, slug string) func(models.Category) bool {
	return func(c models.Category) bool { return strings.EqualFold(c.Name, name) || c.Slug == slug }
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, req models.CategoryRequest) (models.Category, error) {
	logger.Log.Info("Сервис: создание категории", zap.String("name", req.Name))

	if err := validateStruct(req); err != nil {
		return models.Category{}, err
	}
	name := strings.TrimSpace(req.Name)
	slug := Slugify(name)
	if slug == "" {
		return models.Category{}, invalid("name", "must contain at least one letter or digit")
	}
	if req.ParentID != "" {
		if _, err := s.categories.Get(ctx, req.ParentID); err != nil {
			return models.Category{}, invalid("parentId", fmt.Sprintf("category %q not found", req.ParentID))
		}
	}

	now := s.now().UTC()
	c := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		ParentID:    req.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Insert(ctx, c, sameCategory(name, slug)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Category{}, conflict("category %q already exists", name)
		}
		return models.Category{}, err
	}

	logger.Log.Info("Сервис: категория создана", zap.String("category_id", c.ID))
	return c, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, req models.CategoryRequest) (models.Category, error) {
	logger.Log.Info("Сервис: обновление категории", zap.String("category_id", id))

	if err := validateStruct(req); err != nil {
		return models.Category{}, err
	}
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return models.Category{}, fromRepo("category", err)
	}

	if req.ParentID != "" {
		if _, err := s.categories.Get(ctx, req.ParentID); err != nil {
			return models.Category{}, invalid("parentId", fmt.Sprintf("category %q not found", req.ParentID))
		}
		if query.IsAncestor(id, req.ParentID, s.parents(ctx)) {
			return models.Category{}, invalid("parentId", "category cannot be its own ancestor")
		}
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Slug = Slugify(c.Name)
	if c.Slug == "" {
		return models.Category{}, invalid("name", "must contain at least one letter or digit")
	}
	c.Description = strings.TrimSpace(req.Description)
	c.ParentID = req.ParentID
	c.UpdatedAt = s.now().UTC()

	if err := s.categories.Update(ctx, c, sameCategory(c.Name, c.Slug)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Category{}, conflict("category %q already exists", c.Name)
		}
		return models.Category{}, fromRepo("category", err)
	}
	return c, nil
}

// DeleteCategory запрещено, пока на категорию ссылаются посты или подкатегории.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	logger.Log.Info("Сервис: удаление категории", zap.String("category_id", id))

	if _, err := s.categories.Get(ctx, id); err != nil {
		return fromRepo("category", err)
	}
	if _, used := s.posts.Find(ctx, func(p models.Post) bool { return p.CategoryID == id }); used {
		return conflict("category is used by posts")
	}
	if _, used := s.categories.Find(ctx, func(c models.Category) bool { return c.ParentID == id }); used {
		return conflict("category has subcategories")
	}
	return fromRepo("category", s.categories.Delete(ctx, id))
}

// ---------- Теги ----------

var tagSortKeys = query.SortKeys[models.Tag]{
	Title:      func(t models.Tag) string { return t.Name },
	Popularity: func(t models.Tag) float64 { return float64(t.PostCount) },
}

var tagSorts = map[string]query.SortKey{
	"name":    query.SortTitle,
	"popular": query.SortPopular,
}

func (s *TaxonomyService) ListTags(ctx context.Context, sort string, page query.Page) (query.Result[models.Tag], error) {
	if sort == "" {
		sort = "name"
	}
	key, ok := tagSorts[sort]
	if !ok {
		return query.Result[models.Tag]{}, invalid("sort", fmt.Sprintf("invalid value %q", sort), "name", "popular")
	}
	return query.Apply(s.tags.List(ctx), query.Options[models.Tag]{Sort: key, Keys: tagSortKeys, Page: page})
}

func (s *TaxonomyService) GetTag(ctx context.Context, slug string) (models.Tag, error) {
	t, ok := s.tags.Find(ctx, func(t models.Tag) bool { return t.Slug == slug || t.ID == slug })
	if !ok {
		return models.Tag{}, notFound("tag")
	}
	return t, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req models.TagRequest) (models.Tag, error) {
	logger.Log.Info("Сервис: создание тега", zap.String("name", req.Name))

	if err := validateStruct(req); err != nil {
		return models.Tag{}, err
	}
	name := strings.TrimSpace(req.Name)
	slug := Slugify(name)
	if slug == "" {
		return models.Tag{}, invalid("name", "must contain at least one letter or digit")
	}

	t := models.Tag{ID: uuid.NewString(), Name: name, Slug: slug, CreatedAt: s.now().UTC()}
	if err := s.tags.Insert(ctx, t, sameTag(name, slug)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Tag{}, conflict("tag %q already exists", name)
		}
		return models.Tag{}, err
	}
	return t, nil
}

// DeleteTag запрещено, пока тег стоит хотя бы на одном посте.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id string) error {
	logger.Log.Info("Сервис: удаление тега", zap.String("tag_id", id))

	if _, err := s.tags.Get(ctx, id); err != nil {
		return fromRepo("tag", err)
	}
	if _, used := s.posts.Find(ctx, func(p models.Post) bool { return p.HasTag(id) }); used {
		return conflict("tag is used by posts")
	}
	return fromRepo("tag", s.tags.Delete(ctx, id))
}
