package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"devblog/internal/logger"
	"devblog/internal/models"
	"devblog/internal/query"
	"devblog/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultShareDays = 30
	MaxShareDays     = 365
)

// ShareLog: журнал событий шеринга.
type ShareLog interface {
	Record(ctx context.Context, ev models.ShareEvent) error
	List(ctx context.Context, postID string, from, to time.Time) ([]models.ShareEvent, error)
}

type ShareService struct {
	log   ShareLog
	posts repository.Repository[models.Post]
	now   func() time.Time
}

func NewShareService(log ShareLog, posts repository.Repository[models.Post]) *ShareService {
	return &ShareService{log: log, posts: posts, now: time.Now}
}

func (s *ShareService) Record(ctx context.Context, req models.ShareRequest) (models.ShareEvent, error) {
	logger.Log.Info("Сервис: шеринг поста", zap.String("post_id", req.PostID), zap.String("platform", req.Platform))

	if err := validateStruct(req); err != nil {
		return models.ShareEvent{}, err
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if !slices.Contains(models.Platforms, platform) {
		return models.ShareEvent{}, invalid("platform", fmt.Sprintf("invalid value %q", req.Platform), models.Platforms...)
	}
	if _, err := s.posts.Get(ctx, req.PostID); err != nil {
		return models.ShareEvent{}, fromRepo("post", err)
	}

	ev := models.ShareEvent{
		ID:        uuid.NewString(),
		PostID:    req.PostID,
		Platform:  models.Platform(platform),
		Timestamp: s.now().UTC(),
		UserID:    req.UserID,
		SessionID: req.SessionID,
	}
	if err := s.log.Record(ctx, ev); err != nil {
		logger.Log.Error("Сервис: ошибка записи шеринга", zap.Error(err))
		return models.ShareEvent{}, err
	}
	return ev, nil
}

// Stats: сводка шерингов за последние days дней: итог, разбивка по
// платформам и таймлайн (шаг выбирается по длине периода).
// Пустой postID: по всем постам.
func (s *ShareService) Stats(ctx context.Context, postID string, days int) (models.ShareStats, error) {
	logger.Log.Debug("Сервис: статистика шерингов", zap.String("post_id", postID), zap.Int("days", days))

	if days == 0 {
		days = DefaultShareDays
	}
	if days < 1 || days > MaxShareDays {
		return models.ShareStats{}, invalid("days", fmt.Sprintf("must be between 1 and %d", MaxShareDays))
	}
	if postID != "" {
		if _, err := s.posts.Get(ctx, postID); err != nil {
			return models.ShareStats{}, fromRepo("post", err)
		}
	}

	to := s.now().UTC()
	from := to.AddDate(0, 0, -days)
	events, err := s.log.List(ctx, postID, from, to)
	if err != nil {
		logger.Log.Error("Сервис: ошибка чтения журнала шерингов", zap.Error(err))
		return models.ShareStats{}, err
	}

	byPlatform := make(map[string]int, len(models.Platforms))
	for _, p := range models.Platforms {
		byPlatform[p] = 0
	}
	points := make([]query.Event, 0, len(events))
	for _, ev := range events {
		byPlatform[string(ev.Platform)]++
		points = append(points, query.Event{At: ev.Timestamp, Category: string(ev.Platform)})
	}

	g := query.PickGranularity(query.DaySpan(from, to))
	return models.ShareStats{
		PostID:      postID,
		From:        from,
		To:          to,
		Total:       len(events),
		ByPlatform:  byPlatform,
		Granularity: string(g),
		Timeline:    query.Bucketize(points, g),
	}, nil
}
