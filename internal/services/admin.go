package services

import (
	"context"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/repository"
)

const recentComments = 5

type AdminService struct {
	store    *repository.Store
	comments *CommentService
}

func NewAdminService(store *repository.Store, comments *CommentService) *AdminService {
	return &AdminService{store: store, comments: comments}
}

// Stats: счётчики для дашборда администратора.
func (s *AdminService) Stats(ctx context.Context) models.DashboardStats {
	logger.Log.Debug("Сервис: статистика дашборда")

	out := models.DashboardStats{
		Posts:          map[string]int{},
		Campaigns:      map[string]int{},
		Categories:     s.store.Categories.Len(ctx),
		Tags:           s.store.Tags.Len(ctx),
		RecentComments: s.comments.Recent(ctx, recentComments),
	}
	for _, st := range models.PostStatuses {
		out.Posts[st] = 0
	}
	for _, st := range models.CampaignStatuses {
		out.Campaigns[st] = 0
	}

	for _, p := range s.store.Posts.List(ctx) {
		out.TotalPosts++
		out.Posts[string(p.Status)]++
		out.TotalViews += p.ViewCount
		out.TotalLikes += p.LikeCount
	}
	out.TotalComments = s.store.Comments.Len(ctx)
	for _, sub := range s.store.Subscribers.List(ctx) {
		if sub.Status == models.SubscriberActive {
			out.ActiveSubscribers++
		}
	}
	for _, c := range s.store.Campaigns.List(ctx) {
		out.Campaigns[string(c.Status)]++
	}
	return out
}
