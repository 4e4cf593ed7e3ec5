package services

import (
	"context"
	"testing"
	"time"

	"devblog/internal/auth"
	"devblog/internal/repository"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fixture struct {
	store      *repository.Store
	posts      *PostService
	search     *SearchService
	taxonomy   *TaxonomyService
	comments   *CommentService
	shares     *ShareService
	newsletter *NewsletterService
	analytics  *AnalyticsService
	admin      *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := repository.NewStore()
	require.NoError(t, err)
	require.NoError(t, repository.Seed(context.Background(), store, testNow))

	queue := NewMailQueue(LogMailer{}, 10)
	queue.Start()
	t.Cleanup(func() {
		queue.Close()
		_ = store.Close()
	})

	f := &fixture{
		store:      store,
		posts:      NewPostService(store.Posts, store.Categories, store.Tags, store.Authors, store.Comments),
		search:     NewSearchService(store.Posts, store.Categories, store.Tags, store.Authors),
		taxonomy:   NewTaxonomyService(store.Categories, store.Tags, store.Posts),
		comments:   NewCommentService(store.Comments, store.Posts),
		shares:     NewShareService(store.Shares, store.Posts),
		newsletter: NewNewsletterService(store.Subscribers, store.Segments, store.Templates, store.Campaigns, queue, "https://devblog.io"),
		analytics:  NewAnalyticsService(store.Subscribers, store.Segments, store.Campaigns),
	}
	f.posts.now = fixedNow
	f.taxonomy.now = fixedNow
	f.comments.now = fixedNow
	f.shares.now = fixedNow
	f.newsletter.now = fixedNow
	f.analytics.now = fixedNow
	f.admin = NewAdminService(store, f.comments)
	return f
}

var (
	admin  = &auth.Principal{UserID: "1", Name: "Admin", Role: auth.RoleAdmin}
	reader = &auth.Principal{UserID: "100", Name: "Reader", Role: auth.RoleUser}
	other  = &auth.Principal{UserID: "200", Name: "Other", Role: auth.RoleUser}
)

func ids[T interface{ GetID() string }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.GetID())
	}
	return out
}
