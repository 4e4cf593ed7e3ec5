package routes

import (
	"net/http"

	"devblog/internal/auth"
	"devblog/internal/handlers"
	"devblog/internal/middleware"
	"devblog/internal/utils/helpers"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

func InitRoutes(
	router *mux.Router,
	authenticator auth.Authenticator,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	searchHandler *handlers.SearchHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	commentHandler *handlers.CommentHandler,
	shareHandler *handlers.ShareHandler,
	newsletterHandler *handlers.NewsletterHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer, middleware.Authenticate(authenticator))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		helpers.Error(w, http.StatusNotFound, "Route not found", r.Method+" "+r.URL.Path)
	})

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	// /posts/comments и /posts/share регистрируются раньше /posts/{slug}
	api.HandleFunc("/posts", postHandler.ListPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/comments", commentHandler.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/posts/comments", commentHandler.CreateComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/comments/{id}/like", commentHandler.LikeComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/share", shareHandler.ShareStats).Methods(http.MethodGet)
	api.HandleFunc("/posts/share", shareHandler.RecordShare).Methods(http.MethodPost)
	api.HandleFunc("/posts/{slug}", postHandler.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/{slug}/like", postHandler.LikePost).Methods(http.MethodPost)

	api.HandleFunc("/search", searchHandler.Search).Methods(http.MethodGet)

	api.HandleFunc("/categories", taxonomyHandler.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{slug}", taxonomyHandler.GetCategory).Methods(http.MethodGet)
	api.HandleFunc("/tags", taxonomyHandler.ListTags).Methods(http.MethodGet)
	api.HandleFunc("/tags/{slug}", taxonomyHandler.GetTag).Methods(http.MethodGet)

	api.HandleFunc("/newsletter/subscribe", newsletterHandler.Subscribe).Methods(http.MethodPost)
	api.HandleFunc("/newsletter/unsubscribe", newsletterHandler.Unsubscribe).Methods(http.MethodPost)

	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// --- Требуют токен ---
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.RequireAuth)

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/posts/comments/{id}", commentHandler.DeleteComment).Methods(http.MethodDelete)

	// --- Только admin ---
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.OnlyRole(auth.RoleAdmin))

	admin.HandleFunc("/posts", postHandler.CreatePost).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{slug}", postHandler.UpdatePost).Methods(http.MethodPut)
	admin.HandleFunc("/posts/{slug}", postHandler.DeletePost).Methods(http.MethodDelete)
	admin.HandleFunc("/admin/posts/{slug}/status", postHandler.UpdatePostStatus).Methods(http.MethodPatch)

	admin.HandleFunc("/categories", taxonomyHandler.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}", taxonomyHandler.UpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id}", taxonomyHandler.DeleteCategory).Methods(http.MethodDelete)
	admin.HandleFunc("/tags", taxonomyHandler.CreateTag).Methods(http.MethodPost)
	admin.HandleFunc("/tags/{id}", taxonomyHandler.DeleteTag).Methods(http.MethodDelete)

	admin.HandleFunc("/admin/comments/{id}", adminHandler.ModerateComment).Methods(http.MethodDelete)
	admin.HandleFunc("/admin/stats", adminHandler.Stats).Methods(http.MethodGet)

	nl := admin.PathPrefix("/newsletter").Subrouter()
	nl.HandleFunc("/subscribers", newsletterHandler.ListSubscribers).Methods(http.MethodGet)
	nl.HandleFunc("/subscribers/{id}", newsletterHandler.DeleteSubscriber).Methods(http.MethodDelete)
	nl.HandleFunc("/segments", newsletterHandler.ListSegments).Methods(http.MethodGet)
	nl.HandleFunc("/segments", newsletterHandler.CreateSegment).Methods(http.MethodPost)
	nl.HandleFunc("/segments/{id}/subscribers", newsletterHandler.SegmentSubscribers).Methods(http.MethodGet)
	nl.HandleFunc("/segments/{id}", newsletterHandler.DeleteSegment).Methods(http.MethodDelete)
	nl.HandleFunc("/templates", newsletterHandler.ListTemplates).Methods(http.MethodGet)
	nl.HandleFunc("/templates", newsletterHandler.CreateTemplate).Methods(http.MethodPost)
	nl.HandleFunc("/templates/{id}/preview", newsletterHandler.PreviewTemplate).Methods(http.MethodPost)
	nl.HandleFunc("/campaigns", newsletterHandler.ListCampaigns).Methods(http.MethodGet)
	nl.HandleFunc("/campaigns", newsletterHandler.CreateCampaign).Methods(http.MethodPost)
	nl.HandleFunc("/campaigns/{id}/send", newsletterHandler.SendCampaign).Methods(http.MethodPost)
	nl.HandleFunc("/analytics", newsletterHandler.Analytics).Methods(http.MethodGet)
}
