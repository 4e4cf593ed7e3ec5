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

type CommentHandler struct {
	comments *services.CommentService
	maxPage  int
}

func NewCommentHandler(comments *services.CommentService, maxPage int) *CommentHandler {
	return &CommentHandler{comments: comments, maxPage: maxPage}
}

type commentListResponse struct {
	Comments   []models.CommentThread `json:"comments"`
	Pagination pagination             `json:"pagination"`
}

// ListComments godoc
// @Summary Комментарии поста (ветками)
// @Tags comments
// @Produce json
// @Param postId query string true "ID поста"
// @Param sort query string false "newest | oldest | popular"
// @Param limit query int false "Лимит корневых комментариев"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=commentListResponse}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/comments [get]
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageParams(r, h.maxPage)

	res, err := h.comments.List(r.Context(), q.Get("postId"), q.Get("sort"), page)
	if err != nil {
		fail(w, r, "Failed to fetch comments", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Comments retrieved successfully", commentListResponse{
		Comments:   res.Items,
		Pagination: paginationOf(res, page),
	})
}

// CreateComment godoc
// @Summary Оставить комментарий
// @Description С Bearer-токеном автор привязывается к пользователю.
// @Tags comments
// @Accept json
// @Produce json
// @Param input body models.CreateCommentRequest true "Комментарий"
// @Success 201 {object} helpers.Response{data=models.Comment}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/comments [post]
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.comments.Create(r.Context(), req, auth.FromContext(r.Context()))
	if err != nil {
		fail(w, r, "Failed to create comment", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Комментарий создан", zap.String("comment_id", c.ID), zap.String("post_id", c.PostID))
	helpers.JSON(w, http.StatusCreated, "Comment created successfully", c)
}

// DeleteComment godoc
// @Summary Удалить комментарий вместе с ответами
// @Description Доступно автору комментария и администратору.
// @Tags comments
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID комментария"
// @Success 200 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Failure 403 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/posts/comments/{id} [delete]
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	removed, err := h.comments.Delete(r.Context(), id, auth.FromContext(r.Context()))
	if err != nil {
		fail(w, r, "Failed to delete comment", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Комментарий удалён", zap.String("comment_id", id), zap.Int("removed", removed))
	helpers.JSON(w, http.StatusOK, "Comment deleted successfully", map[string]int{"deleted": removed})
}

// LikeComment godoc
// @Summary Лайкнуть комментарий
// @Tags comments
// @Produce json
// @Param id path string true "ID комментария"
// @Success 200 {object} helpers.Response{data=models.Comment}
// @Failure 404 {object} helpers.Response
// @Router /api/posts/comments/{id}/like [post]
func (h *CommentHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.comments.Like(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, r, "Failed to like comment", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Comment liked", c)
}
