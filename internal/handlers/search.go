package handlers

import (
	"net/http"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/services"
	"devblog/internal/utils/helpers"

	"go.uber.org/zap"
)

type SearchHandler struct {
	search  *services.SearchService
	maxPage int
}

func NewSearchHandler(search *services.SearchService, maxPage int) *SearchHandler {
	return &SearchHandler{search: search, maxPage: maxPage}
}

type searchResponse struct {
	Query      string              `json:"query"`
	Sort       string              `json:"sort"`
	Posts      []models.SearchHit  `json:"posts"`
	Pagination pagination          `json:"pagination"`
	Facets     models.SearchFacets `json:"facets"`
}

// Search godoc
// @Summary Поиск постов с релевантностью и фасетами
// @Tags search
// @Produce json
// @Param q query string false "Поисковый запрос"
// @Param tags query string false "Теги через запятую (достаточно одного совпадения)"
// @Param category query string false "ID или slug категории"
// @Param author query string false "ID или slug автора"
// @Param sort query string false "date_desc | date_asc | relevance"
// @Param limit query int false "Лимит (по умолчанию 10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} helpers.Response{data=searchResponse}
// @Failure 400 {object} helpers.Response
// @Router /api/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())
	q := r.URL.Query()
	page := pageParams(r, h.maxPage)

	res, err := h.search.Search(r.Context(), services.SearchParams{
		Q:        q.Get("q"),
		Tags:     parseCSV(q.Get("tags")),
		Category: q.Get("category"),
		Author:   q.Get("author"),
		Sort:     q.Get("sort"),
		Page:     page,
	})
	if err != nil {
		fail(w, r, "Search failed", err)
		return
	}

	log.Info("Поиск выполнен", zap.Int("total", res.Total), zap.String("sort", res.Sort))
	helpers.JSON(w, http.StatusOK, "Search completed", searchResponse{
		Query:  res.Query,
		Sort:   res.Sort,
		Posts:  res.Items,
		Facets: res.Facets,
		Pagination: pagination{
			Total:   res.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
			HasMore: res.HasMore,
		},
	})
}
