package handlers

import (
	"net/http"

	"devblog/internal/auth"
	"devblog/internal/logger"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Вход администратора
// @Description Проверяет email и пароль (bcrypt) и выдаёт JWT access-токен.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginRequest true "Учётные данные"
// @Success 200 {object} helpers.Response{data=services.TokenResponse}
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		fail(w, r, "Login failed", err)
		return
	}

	logger.WithCtx(r.Context()).Info("Успешный вход", zap.String("user_id", res.User.UserID))
	helpers.JSON(w, http.StatusOK, "Login successful", res)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.Response{data=auth.Principal}
// @Failure 401 {object} helpers.Response
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	if p == nil {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	helpers.JSON(w, http.StatusOK, "Current user", p)
}
