package handlers

import (
	"net/http"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PostHandler struct {
	posts   *services.PostService
	maxPage int
}

func NewPostHandler(posts *services.PostService, maxPage int) *PostHandler {
	return &PostHandler{posts: posts, maxPage: maxPage}
}

type postListResponse struct {
	Posts      []models.PostView `json:"posts"`
	Pagination pagination        `json:"pagination"`
}

// ListPosts godoc
// @Summary Список постов
// @Description Фильтры, сортировка и пагинация. status=all и неопубликованные статусы доступны только admin.
// @Tags posts
// @Produce json
// @Param status query string false "published | draft | scheduled | all"
// @Param search query string false "Поиск по заголовку, тексту, тегам"
// @Param author query string false "ID или slug автора"
// @Param category query string false "ID или slug категории (включая подкатегории)"
// @Param tag query string false "ID или slug тега"
// @Param from query string false "Дата от (YYYY-MM-DD или RFC3339)"
// @Param to query string false "Дата до (YYYY-MM-DD или RFC3339)"
// @Param sort query string false "latest | oldest | title | popular"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=postListResponse}
// @Failure 400 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	q := r.URL.Query()

	status := q.Get("status")
	if status != "" && status != string(models.PostPublished) && !auth.FromContext(r.Context()).IsAdmin() {
		log.Warn("Запрос неопубликованных постов без прав", zap.String("status", status))
		helpers.Error(w, http.StatusForbidden, "Forbidden", "only admins can list unpublished posts")
		return
	}

	from, err := parseDate("from", q.Get("from"), false)
	if err != nil {
		fail(w, r, "Invalid date", err)
		return
	}
	to, err := parseDate("to", q.Get("to"), true)
	if err != nil {
		fail(w, r, "Invalid date", err)
		return
	}

	page := pageParams(r, h.maxPage)
	res, err := h.posts.List(r.Context(), services.PostFilter{
		Status:   status,
		Search:   q.Get("search"),
		Author:   q.Get("author"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		From:     from,
		To:       to,
		Sort:     q.Get("sort"),
		Page:     page,
	})
	if err != nil {
		fail(w, r, "Failed to fetch posts", err)
		return
	}

	log.Info("Посты получены", zap.Int("count", len(res.Items)), zap.Int("total", res.Total))
	helpers.JSON(w, http.StatusOK, "Posts retrieved successfully", postListResponse{
		Posts:      res.Items,
		Pagination: paginationOf(res, page),
	})
}

// GetPost godoc
// @Summary Пост по slug
// @Tags posts
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} helpers.Response{data=models.PostView}
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{slug} [get]
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	logger.WithCtx(r.Context()).Info("Запрос поста", zap.String("slug", slug))

	post, err := h.posts.Get(r.Context(), slug, auth.FromContext(r.Context()).IsAdmin())
	if err != nil {
		fail(w, r, "Failed to fetch post", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Post retrieved successfully", post)
}

// LikePost godoc
// @Summary Лайкнуть пост
// @Tags posts
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} helpers.Response{data=models.Post}
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{slug}/like [post]
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Like(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		fail(w, r, "Failed to like post", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Post liked", map[string]any{"id": post.ID, "likeCount": post.LikeCount})
}

// CreatePost godoc
// @Summary Создать пост (только admin)
// @Description Slug строится из заголовка по символам a-z и 0-9; заголовок без них (например, только кириллица) отклоняется с 400.
// @Tags admin-posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreatePostRequest true "Данные поста"
// @Success 201 {object} helpers.Response{data=models.PostView}
// @Failure 400 {object} helpers.Response "Ошибка валидации, в том числе заголовок без латинских букв и цифр"
// @Failure 409 {object} helpers.Response
// @Router /api/posts [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	log.Info("Запрос на создание поста")

	var req models.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), req, auth.FromContext(r.Context()))
	if err != nil {
		fail(w, r, "Failed to create post", err)
		return
	}

	log.Info("Пост создан", zap.String("post_id", post.ID), zap.String("slug", post.Slug))
	helpers.JSON(w, http.StatusCreated, "Post created successfully", post)
}

// UpdatePost godoc
// @Summary Обновить пост (только admin)
// @Tags admin-posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Slug поста"
// @Param input body models.CreatePostRequest true "Новые данные"
// @Success 200 {object} helpers.Response{data=models.PostView}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{slug} [put]
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	log := logger.WithCtx(r.Context())
	log.Info("Запрос на обновление поста", zap.String("slug", slug))

	var req models.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Update(r.Context(), slug, req, auth.FromContext(r.Context()))
	if err != nil {
		fail(w, r, "Failed to update post", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Post updated successfully", post)
}

// DeletePost godoc
// @Summary Удалить пост (только admin)
// @Tags admin-posts
// @Security ApiKeyAuth
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/{slug} [delete]
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if err := h.posts.Delete(r.Context(), slug); err != nil {
		fail(w, r, "Failed to delete post", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Пост удалён", zap.String("slug", slug))
	helpers.JSON(w, http.StatusOK, "Post deleted successfully", nil)
}

// UpdatePostStatus godoc
// @Summary Опубликовать, снять с публикации или запланировать пост (только admin)
// @Tags admin-posts
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param slug path string true "Slug поста"
// @Param input body models.UpdatePostStatusRequest true "Новый статус"
// @Success 200 {object} helpers.Response{data=models.PostView}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/posts/{slug}/status [patch]
func (h *PostHandler) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.UpdateStatus(r.Context(), mux.Vars(r)["slug"], req)
	if err != nil {
		fail(w, r, "Failed to update post status", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Post status updated", post)
}
