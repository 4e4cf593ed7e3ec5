package services

import (
	"context"
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

var commentSorts = map[string]query.SortKey{
	"newest":  query.SortLatest,
	"oldest":  query.SortOldest,
	"popular": query.SortPopular,
}

var commentSortKeys = query.SortKeys[models.Comment]{
	Date:       func(c models.Comment) time.Time { return c.CreatedAt },
	Popularity: func(c models.Comment) float64 { return float64(c.LikeCount) },
}

type CommentService struct {
	comments repository.Repository[models.Comment]
	posts    repository.Repository[models.Post]
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewCommentService(comments repository.Repository[models.Comment], posts repository.Repository[models.Post]) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// List возвращает ветки комментариев поста: корневые сортируются и
// пагинируются, ответы вложены от старых к новым.
func (s *CommentService) List(ctx context.Context, postID, sort string, page query.Page) (query.Result[models.CommentThread], error) {
	logger.Log.Debug("Сервис: комментарии поста", zap.String("post_id", postID), zap.String("sort", sort))

	if postID == "" {
		return query.Result[models.CommentThread]{}, invalid("postId", "is required")
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return query.Result[models.CommentThread]{}, fromRepo("post", err)
	}
	if sort == "" {
		sort = "newest"
	}
	key, ok := commentSorts[sort]
	if !ok {
		return query.Result[models.CommentThread]{}, invalid("sort", fmt.Sprintf("invalid value %q", sort), "newest", "oldest", "popular")
	}

	all := query.Filter(s.comments.List(ctx), func(c models.Comment) bool { return c.PostID == postID })
	replies := map[string][]models.Comment{}
	for _, c := range all {
		if c.ParentID != "" {
			replies[c.ParentID] = append(replies[c.ParentID], c)
		}
	}
	for id := range replies {
		slices.SortStableFunc(replies[id], func(a, b models.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	}

	res, err := query.Apply(all, query.Options[models.Comment]{
		Filters: []query.Predicate[models.Comment]{func(c models.Comment) bool { return c.ParentID == "" }},
		Sort:    key,
		Keys:    commentSortKeys,
		Page:    page,
	})
	if err != nil {
		return query.Result[models.CommentThread]{}, err
	}

	out := query.Result[models.CommentThread]{Items: make([]models.CommentThread, 0, len(res.Items)), Total: res.Total, HasMore: res.HasMore}
	for _, c := range res.Items {
		out.Items = append(out.Items, thread(c, replies, map[string]bool{}))
	}
	return out, nil
}

func thread(c models.Comment, replies map[string][]models.Comment, seen map[string]bool) models.CommentThread {
	seen[c.ID] = true
	t := models.CommentThread{Comment: c, Replies: []models.CommentThread{}}
	for _, r := range replies[c.ID] {
		if !seen[r.ID] {
			t.Replies = append(t.Replies, thread(r, replies, seen))
		}
	}
	return t
}

// Create добавляет комментарий. Авторизованный пользователь подставляется
// как автор; ответ допустим только на комментарий того же поста.
func (s *CommentService) Create(ctx context.Context, req models.CreateCommentRequest, by *auth.Principal) (models.Comment, error) {
	logger.Log.Info("Сервис: новый комментарий", zap.String("post_id", req.PostID))

	if by != nil {
		req.Author.UserID = by.UserID
		if strings.TrimSpace(req.Author.Name) == "" {
			req.Author.Name = by.Name
		}
	} else {
		req.Author.UserID = ""
	}
	req.Author.Name = strings.TrimSpace(req.Author.Name)
	if err := validateStruct(req); err != nil {
		return models.Comment{}, err
	}

	post, err := s.posts.Get(ctx, req.PostID)
	if err != nil || post.Status != models.PostPublished {
		return models.Comment{}, notFound("post")
	}
	if req.ParentID != "" {
		parent, err := s.comments.Get(ctx, req.ParentID)
		if err != nil {
			return models.Comment{}, invalid("parentId", fmt.Sprintf("comment %q not found", req.ParentID))
		}
		if parent.PostID != req.PostID {
			return models.Comment{}, invalid("parentId", "parent comment belongs to another post")
		}
	}

	content := strings.TrimSpace(s.policy.Sanitize(req.Content))
	if content == "" {
		return models.Comment{}, invalid("content", "is empty after sanitizing")
	}

	now := s.now().UTC()
	c := models.Comment{
		ID:        uuid.NewString(),
		PostID:    req.PostID,
		Author:    models.CommentAuthor{Name: s.policy.Sanitize(req.Author.Name), UserID: req.Author.UserID, Email: req.Author.Email},
		Content:   content,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Insert(ctx, c); err != nil {
		logger.Log.Error("Сервис: ошибка сохранения комментария", zap.Error(err))
		return models.Comment{}, err
	}
	s.bumpPost(ctx, req.PostID, 1)

	logger.Log.Info("Сервис: комментарий создан", zap.String("comment_id", c.ID))
	return c, nil
}

// Delete удаляет комментарий со всеми ответами. Разрешено автору и администратору.
func (s *CommentService) Delete(ctx context.Context, id string, by *auth.Principal) (int, error) {
	logger.Log.Info("Сервис: удаление комментария", zap.String("comment_id", id))

	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return 0, fromRepo("comment", err)
	}
	if !by.IsAdmin() && !by.Owns(c.Author.UserID) {
		return 0, fmt.Errorf("only the author or an admin can delete a comment: %w", ErrForbidden)
	}

	parents := map[string]string{}
	for _, other := range s.comments.List(ctx) {
		if other.PostID == c.PostID {
			parents[other.ID] = other.ParentID
		}
	}

	removed := 0
	for cid := range query.Descendants(c.ID, parents) {
		if s.comments.Delete(ctx, cid) == nil {
			removed++
		}
	}
	s.bumpPost(ctx, c.PostID, -removed)

	logger.Log.Info("Сервис: комментарий удалён", zap.String("comment_id", id), zap.Int("removed", removed))
	return removed, nil
}

func (s *CommentService) Like(ctx context.Context, id string) (models.Comment, error) {
	c, err := s.comments.Mutate(ctx, id, func(c *models.Comment) error {
		c.LikeCount++
		return nil
	})
	return c, fromRepo("comment", err)
}

// Recent: последние комментарии по всем постам.
func (s *CommentService) Recent(ctx context.Context, n int) []models.Comment {
	res, _ := query.Apply(s.comments.List(ctx), query.Options[models.Comment]{
		Sort: query.SortLatest,
		Keys: commentSortKeys,
		Page: query.Page{Limit: n},
	})
	return res.Items
}

func (s *CommentService) bumpPost(ctx context.Context, postID string, delta int) {
	_, err := s.posts.Mutate(ctx, postID, func(p *models.Post) error {
		p.CommentCount += delta
		if p.CommentCount < 0 {
			p.CommentCount = 0
		}
		return nil
	})
	if err != nil {
		logger.Log.Warn("Сервис: не удалось обновить счётчик комментариев", zap.String("post_id", postID), zap.Error(err))
	}
}
