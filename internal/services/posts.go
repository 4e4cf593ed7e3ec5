package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const StatusAll = "all"

type PostService struct {
	posts      repository.Repository[models.Post]
	categories repository.Repository[models.Category]
	tags       repository.Repository[models.Tag]
	authors    repository.Repository[models.Author]
	comments   repository.Repository[models.Comment]
	policy     *bluemonday.Policy
	now        func() time.Time
}

func NewPostService(
	posts repository.Repository[models.Post],
	categories repository.Repository[models.Category],
	tags repository.Repository[models.Tag],
	authors repository.Repository[models.Author],
	comments repository.Repository[models.Comment],
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		tags:       tags,
		authors:    authors,
		comments:   comments,
		policy:     bluemonday.UGCPolicy(),
		now:        time.Now,
	}
}

// PostFilter: параметры списка постов. Category, Author и Tag принимают id или slug.
type PostFilter struct {
	Status   string
	Search   string
	Author   string
	Category string
	Tag      string
	From     *time.Time
	To       *time.Time
	Sort     string
	Page     query.Page
}

func (s *PostService) catalog(ctx context.Context) catalog {
	return loadCatalog(ctx, s.categories, s.tags, s.authors)
}

func (s *PostService) List(ctx context.Context, f PostFilter) (query.Result[models.PostView], error) {
	logger.Log.Debug("Сервис: список постов",
		zap.String("status", f.Status),
		zap.String("sort", f.Sort),
		zap.Int("limit", f.Page.Limit),
		zap.Int("offset", f.Page.Offset),
	)

	if f.Status == "" {
		f.Status = string(models.PostPublished)
	}
	if f.Status != StatusAll && !slices.Contains(models.PostStatuses, f.Status) {
		return query.Result[models.PostView]{}, invalid("status", fmt.Sprintf("invalid value %q", f.Status),
			append(slices.Clone(models.PostStatuses), StatusAll)...)
	}
	if f.Sort == "" {
		f.Sort = string(query.SortLatest)
	}

	cat := s.catalog(ctx)
	preds := []query.Predicate[models.Post]{}
	if f.Status != StatusAll {
		status := models.PostStatus(f.Status)
		preds = append(preds, func(p models.Post) bool { return p.Status == status })
	}
	if f.Author != "" {
		preds = append(preds, cat.byAuthor(f.Author))
	}
	if f.Category != "" {
		preds = append(preds, cat.inCategory(f.Category))
	}
	if f.Tag != "" {
		preds = append(preds, cat.withTag(f.Tag))
	}
	if f.From != nil {
		from := *f.From
		preds = append(preds, func(p models.Post) bool { return !p.EffectiveDate().Before(from) })
	}
	if f.To != nil {
		to := *f.To
		preds = append(preds, func(p models.Post) bool { return !p.EffectiveDate().After(to) })
	}
	if terms := query.Terms(f.Search); len(terms) > 0 {
		preds = append(preds, func(p models.Post) bool { return query.Matches(cat.document(p), terms) })
	}

	res, err := query.Apply(s.posts.List(ctx), query.Options[models.Post]{
		Filters: preds,
		Sort:    query.SortKey(f.Sort),
		Keys:    postSortKeys,
		Page:    f.Page,
	})
	if err != nil {
		return query.Result[models.PostView]{}, invalid("sort", fmt.Sprintf("invalid value %q", f.Sort), postSortKeys.Supported()...)
	}

	out := query.Result[models.PostView]{Items: make([]models.PostView, 0, len(res.Items)), Total: res.Total, HasMore: res.HasMore}
	for _, p := range res.Items {
		out.Items = append(out.Items, cat.view(p))
	}

	logger.Log.Debug("Сервис: список постов получен", zap.Int("count", len(out.Items)), zap.Int("total", out.Total))
	return out, nil
}

func (s *PostService) findBySlug(ctx context.Context, slug string) (models.Post, error) {
	p, ok := s.posts.Find(ctx, func(p models.Post) bool { return p.Slug == slug })
	if !ok {
		return models.Post{}, notFound("post")
	}
	return p, nil
}

// Get возвращает пост по slug и увеличивает счётчик просмотров.
// Неопубликованные посты видны только при includeUnpublished.
func (s *PostService) Get(ctx context.Context, slug string, includeUnpublished bool) (models.PostView, error) {
	logger.Log.Info("Сервис: получение поста", zap.String("slug", slug))

	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return models.PostView{}, err
	}
	if p.Status != models.PostPublished && !includeUnpublished {
		return models.PostView{}, notFound("post")
	}

	p, err = s.posts.Mutate(ctx, p.ID, func(p *models.Post) error {
		p.ViewCount++
		return nil
	})
	if err != nil {
		return models.PostView{}, fromRepo("post", err)
	}
	return s.catalog(ctx).view(p), nil
}

func (s *PostService) Like(ctx context.Context, slug string) (models.Post, error) {
	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return models.Post{}, err
	}
	if p.Status != models.PostPublished {
		return models.Post{}, notFound("post")
	}

	p, err = s.posts.Mutate(ctx, p.ID, func(p *models.Post) error {
		p.LikeCount++
		return nil
	})
	if err != nil {
		return models.Post{}, fromRepo("post", err)
	}
	logger.Log.Info("Сервис: лайк поста", zap.String("post_id", p.ID), zap.Int("likes", p.LikeCount))
	return p, nil
}

func (s *PostService) Create(ctx context.Context, req models.CreatePostRequest, by *auth.Principal) (models.PostView, error) {
	logger.Log.Info("Сервис: создание поста", zap.String("title", req.Title))

	if err := validateStruct(req); err != nil {
		return models.PostView{}, err
	}

	now := s.now().UTC()
	p := models.Post{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, &p, req, by); err != nil {
		return models.PostView{}, err
	}

	tagIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return models.PostView{}, err
	}
	p.TagIDs = tagIDs

	if err := s.posts.Insert(ctx, p, sameSlug(p.Slug)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.PostView{}, conflict("post with slug %q already exists", p.Slug)
		}
		logger.Log.Error("Сервис: ошибка создания поста", zap.Error(err))
		return models.PostView{}, err
	}
	s.adjustTagCounts(ctx, nil, p.TagIDs)

	logger.Log.Info("Сервис: пост создан", zap.String("post_id", p.ID), zap.String("slug", p.Slug))
	return s.catalog(ctx).view(p), nil
}

func (s *PostService) Update(ctx context.Context, slug string, req models.CreatePostRequest, by *auth.Principal) (models.PostView, error) {
	logger.Log.Info("Сервис: обновление поста", zap.String("slug", slug))

	if err := validateStruct(req); err != nil {
		return models.PostView{}, err
	}
	existing, err := s.findBySlug(ctx, slug)
	if err != nil {
		return models.PostView{}, err
	}

	p := existing
	p.UpdatedAt = s.now().UTC()
	if req.AuthorID == "" {
		req.AuthorID = existing.AuthorID
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if req.PublishedAt == nil && req.Status == existing.Status {
		req.PublishedAt = existing.PublishedAt
	}
	if err := s.apply(ctx, &p, req, by); err != nil {
		return models.PostView{}, err
	}

	tagIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return models.PostView{}, err
	}
	p.TagIDs = tagIDs

	if err := s.posts.Update(ctx, p, sameSlug(p.Slug)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.PostView{}, conflict("post with slug %q already exists", p.Slug)
		}
		logger.Log.Error("Сервис: ошибка обновления поста", zap.String("post_id", p.ID), zap.Error(err))
		return models.PostView{}, fromRepo("post", err)
	}
	s.adjustTagCounts(ctx, existing.TagIDs, p.TagIDs)

	logger.Log.Info("Сервис: пост обновлён", zap.String("post_id", p.ID), zap.String("slug", p.Slug))
	return s.catalog(ctx).view(p), nil
}

// Delete удаляет пост вместе с его комментариями.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	logger.Log.Info("Сервис: удаление поста", zap.String("slug", slug))

	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return fromRepo("post", err)
	}
	s.adjustTagCounts(ctx, p.TagIDs, nil)

	removed := 0
	for _, c := range s.comments.List(ctx) {
		if c.PostID == p.ID && s.comments.Delete(ctx, c.ID) == nil {
			removed++
		}
	}

	logger.Log.Info("Сервис: пост удалён", zap.String("post_id", p.ID), zap.Int("comments_removed", removed))
	return nil
}

// UpdateStatus публикует, снимает с публикации или планирует пост.
func (s *PostService) UpdateStatus(ctx context.Context, slug string, req models.UpdatePostStatusRequest) (models.PostView, error) {
	logger.Log.Info("Сервис: смена статуса поста", zap.String("slug", slug), zap.String("status", string(req.Status)))

	if err := validateStruct(req); err != nil {
		return models.PostView{}, err
	}
	p, err := s.findBySlug(ctx, slug)
	if err != nil {
		return models.PostView{}, err
	}

	publishedAt := req.PublishedAt
	if req.Status == models.PostPublished && publishedAt == nil && p.Status == models.PostPublished {
		publishedAt = p.PublishedAt
	}
	at, err := s.publicationDate(req.Status, publishedAt)
	if err != nil {
		return models.PostView{}, err
	}

	p, err = s.posts.Mutate(ctx, p.ID, func(p *models.Post) error {
		p.Status = req.Status
		p.PublishedAt = at
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return models.PostView{}, fromRepo("post", err)
	}
	return s.catalog(ctx).view(p), nil
}

// apply переносит поля запроса в пост: slug, автор, категория, статус и дата публикации.
func (s *PostService) apply(ctx context.Context, p *models.Post, req models.CreatePostRequest, by *auth.Principal) error {
	p.Title = strings.TrimSpace(req.Title)
	p.Slug = Slugify(p.Title)
	if p.Slug == "" {
		return invalid("title", "must contain at least one Latin letter or digit (a-z, 0-9)")
	}
	p.Excerpt = strings.TrimSpace(req.Excerpt)
	p.Content = s.policy.Sanitize(req.Content)
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content", "is empty after sanitizing")
	}

	if _, err := s.categories.Get(ctx, req.CategoryID); err != nil {
		return invalid("categoryId", fmt.Sprintf("category %q not found", req.CategoryID))
	}
	p.CategoryID = req.CategoryID

	authorID, err := s.resolveAuthor(ctx, req.AuthorID, by)
	if err != nil {
		return err
	}
	p.AuthorID = authorID

	if req.Status == "" {
		req.Status = models.PostDraft
	}
	at, err := s.publicationDate(req.Status, req.PublishedAt)
	if err != nil {
		return err
	}
	p.Status = req.Status
	p.PublishedAt = at
	return nil
}

// publicationDate: черновик без даты, опубликованный: дата или сейчас,
// запланированный: обязательно дата в будущем.
func (s *PostService) publicationDate(status models.PostStatus, at *time.Time) (*time.Time, error) {
	now := s.now().UTC()
	switch status {
	case models.PostDraft:
		return nil, nil
	case models.PostPublished:
		if at == nil {
			return &now, nil
		}
		if at.After(now) {
			return nil, invalid("publishedAt", "is in the future, use status scheduled")
		}
		t := at.UTC()
		return &t, nil
	case models.PostScheduled:
		if at == nil || !at.After(now) {
			return nil, invalid("publishedAt", "scheduled posts need a publishedAt in the future")
		}
		t := at.UTC()
		return &t, nil
	}
	return nil, invalid("status", fmt.Sprintf("invalid value %q", status), models.PostStatuses...)
}

// resolveAuthor: явный authorId должен существовать; без него автором
// становится текущий пользователь (запись автора создаётся при первом посте).
func (s *PostService) resolveAuthor(ctx context.Context, authorID string, by *auth.Principal) (string, error) {
	if authorID != "" {
		if _, err := s.authors.Get(ctx, authorID); err != nil {
			return "", invalid("authorId", fmt.Sprintf("author %q not found", authorID))
		}
		return authorID, nil
	}
	if by == nil {
		return "", invalid("authorId", "is required")
	}
	if _, err := s.authors.Get(ctx, by.UserID); err == nil {
		return by.UserID, nil
	}

	name := by.Name
	if name == "" {
		name = "User " + by.UserID
	}
	a := models.Author{ID: by.UserID, Name: name, Slug: Slugify(name)}
	if err := s.authors.Insert(ctx, a); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return "", err
	}
	return a.ID, nil
}

// resolveTags находит теги по имени (без учёта регистра) и создаёт недостающие.
func (s *PostService) resolveTags(ctx context.Context, names []string) ([]string, error) {
	ids := []string{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if slug == "" {
			return nil, invalid("tags", fmt.Sprintf("tag %q must contain at least one letter or digit", name))
		}

		t, ok := s.tags.Find(ctx, func(t models.Tag) bool { return strings.EqualFold(t.Name, name) || t.Slug == slug })
		if !ok {
			t = models.Tag{ID: uuid.NewString(), Name: name, Slug: slug, CreatedAt: s.now().UTC()}
			if err := s.tags.Insert(ctx, t, sameTag(name, slug)); err != nil {
				// параллельный запрос мог создать тот же тег
				if t, ok = s.tags.Find(ctx, func(t models.Tag) bool { return t.Slug == slug }); !ok {
					return nil, err
				}
			}
			logger.Log.Info("Сервис: создан тег", zap.String("tag", name))
		}
		if !slices.Contains(ids, t.ID) {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// adjustTagCounts поддерживает Tag.PostCount при смене набора тегов поста.
func (s *PostService) adjustTagCounts(ctx context.Context, before, after []string) {
	for _, id := range before {
		if !slices.Contains(after, id) {
			s.bumpTag(ctx, id, -1)
		}
	}
	for _, id := range after {
		if !slices.Contains(before, id) {
			s.bumpTag(ctx, id, 1)
		}
	}
}

func (s *PostService) bumpTag(ctx context.Context, id string, delta int) {
	_, err := s.tags.Mutate(ctx, id, func(t *models.Tag) error {
		t.PostCount += delta
		if t.PostCount < 0 {
			t.PostCount = 0
		}
		return nil
	})
	if err != nil {
		logger.Log.Warn("Сервис: не удалось обновить счётчик тега", zap.String("tag_id", id), zap.Error(err))
	}
}

func sameSlug(slug string) func(models.Post) bool {
	return func(p models.Post) bool { return p.Slug == slug }
}

func sameTag(name, slug string) func(models.Tag) bool {
	return func(t models.Tag) bool { return strings.EqualFold(t.Name, name) || t.Slug == slug }
}
