package app

import (
	"context"
	"sync"
	"time"

	"devblog/internal/auth"
	"devblog/internal/config"
	"devblog/internal/handlers"
	"devblog/internal/logger"
	"devblog/internal/repository"
	"devblog/internal/routes"
	"devblog/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const schedulerInterval = time.Minute

// InitApp собирает хранилище, сервисы и маршруты. Возвращаемая функция
// останавливает фоновые задачи и закрывает хранилище.
func InitApp(cfg *config.Config) (*mux.Router, func(), error) {
	store, err := repository.NewStore()
	if err != nil {
		return nil, nil, err
	}
	if cfg.SeedData {
		if err := repository.Seed(context.Background(), store, time.Now()); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		logger.Log.Info("Демо-данные загружены")
	}

	queue := services.NewMailQueue(services.LogMailer{}, 100)
	queue.Start()

	// Аутентификация: статические токены, затем JWT
	jwt := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL())
	authenticator := auth.Chain{auth.NewStaticTokens(cfg.APITokens), jwt}
	admin := auth.AdminCredentials{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash}

	// Сервисы
	postSvc := services.NewPostService(store.Posts, store.Categories, store.Tags, store.Authors, store.Comments)
	searchSvc := services.NewSearchService(store.Posts, store.Categories, store.Tags, store.Authors)
	taxonomySvc := services.NewTaxonomyService(store.Categories, store.Tags, store.Posts)
	commentSvc := services.NewCommentService(store.Comments, store.Posts)
	shareSvc := services.NewShareService(store.Shares, store.Posts)
	newsletterSvc := services.NewNewsletterService(store.Subscribers, store.Segments, store.Templates, store.Campaigns, queue, cfg.SiteURL)
	analyticsSvc := services.NewAnalyticsService(store.Subscribers, store.Segments, store.Campaigns)
	adminSvc := services.NewAdminService(store, commentSvc)
	authSvc := services.NewAuthService(admin, jwt)

	// Хендлеры
	maxPage := cfg.MaxPageSize
	router := mux.NewRouter()
	routes.InitRoutes(router, authenticator,
		handlers.NewAuthHandler(authSvc),
		handlers.NewPostHandler(postSvc, maxPage),
		handlers.NewSearchHandler(searchSvc, maxPage),
		handlers.NewTaxonomyHandler(taxonomySvc, maxPage),
		handlers.NewCommentHandler(commentSvc, maxPage),
		handlers.NewShareHandler(shareSvc),
		handlers.NewNewsletterHandler(newsletterSvc, analyticsSvc, maxPage),
		handlers.NewAdminHandler(adminSvc, commentSvc),
	)

	stopScheduler := StartCampaignScheduler(newsletterSvc, schedulerInterval)

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			stopScheduler()
			queue.Close()
			if err := store.Close(); err != nil {
				logger.Log.Error("Ошибка закрытия хранилища", zap.Error(err))
			}
		})
	}
	return router, cleanup, nil
}

// StartCampaignScheduler периодически отправляет наступившие запланированные кампании.
func StartCampaignScheduler(svc *services.NewsletterService, every time.Duration) (stop func()) {
	t := time.NewTicker(every)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for {
			select {
			case <-t.C:
				if n := svc.SendDue(context.Background()); n > 0 {
					logger.Log.Info("Планировщик: отправлены кампании", zap.Int("count", n))
				}
			case <-done:
				t.Stop()
				return
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
