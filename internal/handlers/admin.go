package handlers

import (
	"net/http"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	admin    *services.AdminService
	comments *services.CommentService
}

func NewAdminHandler(admin *services.AdminService, comments *services.CommentService) *AdminHandler {
	return &AdminHandler{admin: admin, comments: comments}
}

// Stats godoc
// @Summary Счётчики дашборда (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response{data=models.DashboardStats}
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, "Dashboard stats retrieved successfully", h.admin.Stats(r.Context()))
}

// ModerateComment godoc
// @Summary Удалить комментарий модератором (только admin)
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID комментария"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/comments/{id} [delete]
func (h *AdminHandler) ModerateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	removed, err := h.comments.Delete(r.Context(), id, auth.FromContext(r.Context()))
	if err != nil {
		fail(w, r, "Failed to delete comment", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Комментарий удалён модератором", zap.String("comment_id", id), zap.Int("removed", removed))
	helpers.JSON(w, http.StatusOK, "Comment removed", map[string]int{"deleted": removed})
}
