package handlers

import (
	"net/http"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type TaxonomyHandler struct {
	svc     *services.TaxonomyService
	maxPage int
}

func NewTaxonomyHandler(svc *services.TaxonomyService, maxPage int) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc, maxPage: maxPage}
}

// ListCategories godoc
// @Summary Категории с количеством постов
// @Description tree=true возвращает вложенное дерево.
// @Tags categories
// @Produce json
// @Param tree query bool false "Вложенная форма"
// @Success 200 {object} helpers.Response{data=[]models.CategoryWithCount}
// @Router /api/categories [get]
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if parseBool(r.URL.Query().Get("tree")) {
		helpers.JSON(w, http.StatusOK, "Category tree retrieved successfully", h.svc.CategoryTree(r.Context()))
		return
	}
	list := h.svc.ListCategories(r.Context())
	logger.WithCtx(r.Context()).Debug("Категории получены", zap.Int("count", len(list)))
	helpers.JSON(w, http.StatusOK, "Categories retrieved successfully", list)
}

// GetCategory godoc
// @Summary Категория по slug вместе с id подкатегорий
// @Tags categories
// @Produce json
// @Param slug path string true "Slug категории"
// @Success 200 {object} helpers.Response{data=models.CategoryDetail}
// @Failure 404 {object} helpers.Response
// @Router /api/categories/{slug} [get]
func (h *TaxonomyHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		fail(w, r, "Failed to fetch category", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category retrieved successfully", c)
}

// CreateCategory godoc
// @Summary Создать категорию (только admin)
// @Tags admin-categories
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CategoryRequest true "Категория"
// @Success 201 {object} helpers.Response{data=models.Category}
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/categories [post]
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to create category", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Категория создана", zap.String("category_id", c.ID))
	helpers.JSON(w, http.StatusCreated, "Category created successfully", c)
}

// UpdateCategory godoc
// @Summary Обновить категорию (только admin)
// @Tags admin-categories
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID категории"
// @Param input body models.CategoryRequest true "Категория"
// @Success 200 {object} helpers.Response{data=models.Category}
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		fail(w, r, "Failed to update category", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category updated successfully", c)
}

// DeleteCategory godoc
// @Summary Удалить категорию (только admin)
// @Description Категорию с постами или подкатегориями удалить нельзя (409).
// @Tags admin-categories
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID категории"
// @Success 200 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		fail(w, r, "Cannot delete category", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Категория удалена", zap.String("category_id", id))
	helpers.JSON(w, http.StatusOK, "Category deleted successfully", nil)
}

type tagListResponse struct {
	Tags       []models.Tag `json:"tags"`
	Pagination pagination   `json:"pagination"`
}

// ListTags godoc
// @Summary Список тегов
// @Tags tags
// @Produce json
// @Param sort query string false "name | popular"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=tagListResponse}
// @Failure 400 {object} helpers.Response
// @Router /api/tags [get]
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	page := pageParams(r, h.maxPage)
	res, err := h.svc.ListTags(r.Context(), r.URL.Query().Get("sort"), page)
	if err != nil {
		fail(w, r, "Failed to fetch tags", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tags retrieved successfully", tagListResponse{
		Tags:       res.Items,
		Pagination: paginationOf(res, page),
	})
}

// GetTag godoc
// @Summary Тег по slug
// @Tags tags
// @Produce json
// @Param slug path string true "Slug тега"
// @Success 200 {object} helpers.Response{data=models.Tag}
// @Failure 404 {object} helpers.Response
// @Router /api/tags/{slug} [get]
func (h *TaxonomyHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTag(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		fail(w, r, "Failed to fetch tag", err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Tag retrieved successfully", t)
}

// CreateTag godoc
// @Summary Создать тег (только admin)
// @Tags admin-tags
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.TagRequest true "Тег"
// @Success 201 {object} helpers.Response{data=models.Tag}
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/tags [post]
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.CreateTag(r.Context(), req)
	if err != nil {
		fail(w, r, "Failed to create tag", err)
		return
	}
	logger.WithCtx(r.Context()).Info("Тег создан", zap.String("tag_id", t.ID), zap.String("slug", t.Slug))
	helpers.JSON(w, http.StatusCreated, "Tag created successfully", t)
}

// DeleteTag godoc
// @Summary Удалить тег (только admin)
// @Description Тег, который стоит на постах, удалить нельзя (400).
// @Tags admin-tags
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID тега"
// @Success 200 {object} helpers.Response
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteTag(r.Context(), id); err != nil {
		failWithConflict(w, r, "Cannot delete tag", err, http.StatusBadRequest)
		return
	}
	logger.WithCtx(r.Context()).Info("Тег удалён", zap.String("tag_id", id))
	helpers.JSON(w, http.StatusOK, "Tag deleted successfully", nil)
}
