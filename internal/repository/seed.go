package repository

import (
	"context"
	"fmt"
	"time"

	"devblog/internal/models"
)

// Seed заполняет пустое хранилище демо-данными. Даты считаются от now,
// чтобы аналитика и таймлайны всегда показывали свежие значения.
func Seed(ctx context.Context, s *Store, now time.Time) error {
	now = now.UTC()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	ptr := func(t time.Time) *time.Time { return &t }

	authors := []models.Author{
		{ID: "1", Name: "Alex Chen", Slug: "alex-chen", Bio: "Editor, backend and infrastructure"},
		{ID: "2", Name: "Jane Developer", Slug: "jane-developer", Bio: "Frontend engineer"},
		{ID: "3", Name: "Sam Rivera", Slug: "sam-rivera", Bio: "DevOps and testing"},
	}
	for _, a := range authors {
		if err := s.Authors.Insert(ctx, a); err != nil {
			return fmt.Errorf("seed author %s: %w", a.ID, err)
		}
	}

	categories := []models.Category{
		{ID: "1", Name: "Web Development", Slug: "web-development", Description: "Everything about building for the web"},
		{ID: "2", Name: "Frontend", Slug: "frontend", Description: "Browsers, UI and styling", ParentID: "1"},
		{ID: "3", Name: "Backend", Slug: "backend", Description: "APIs, services and data", ParentID: "1"},
		{ID: "4", Name: "React", Slug: "react", Description: "The React ecosystem", ParentID: "2"},
		{ID: "5", Name: "DevOps", Slug: "devops", Description: "Containers, CI and operations"},
		{ID: "6", Name: "Databases", Slug: "databases", Description: "Storage engines and SQL", ParentID: "3"},
	}
	for _, c := range categories {
		c.CreatedAt, c.UpdatedAt = daysAgo(365), daysAgo(365)
		if err := s.Categories.Insert(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	tagNames := []string{"React", "JavaScript", "TypeScript", "Go", "Docker", "Kubernetes", "PostgreSQL", "Performance", "Testing", "CSS"}
	tagSlugs := []string{"react", "javascript", "typescript", "go", "docker", "kubernetes", "postgresql", "performance", "testing", "css"}

	posts := []models.Post{
		{
			ID: "1", Title: "React Hooks in Depth", Slug: "react-hooks-in-depth",
			Excerpt:    "A practical tour of useState, useEffect and custom hooks.",
			Content:    "<p>Hooks changed how we write React components. We look at state, effects and how to extract custom hooks.</p>",
			Status:     models.PostPublished, AuthorID: "2", CategoryID: "4", TagIDs: []string{"1", "2"},
			ViewCount: 1520, LikeCount: 87, PublishedAt: ptr(daysAgo(3)), CreatedAt: daysAgo(5),
		},
		{
			ID: "2", Title: "Building REST APIs with Go", Slug: "building-rest-apis-with-go",
			Excerpt:    "Routing, middleware and JSON envelopes with the standard library and gorilla/mux.",
			Content:    "<p>Go makes it easy to build fast HTTP services. This post walks through routing, middleware and testing handlers.</p>",
			Status:     models.PostPublished, AuthorID: "1", CategoryID: "3", TagIDs: []string{"4", "9"},
			ViewCount: 2310, LikeCount: 120, PublishedAt: ptr(daysAgo(10)), CreatedAt: daysAgo(12),
		},
		{
			ID: "3", Title: "Docker for Developers", Slug: "docker-for-developers",
			Excerpt:    "Images, layers and compose files for local development.",
			Content:    "<p>Containers give every developer the same environment. We cover images, volumes and docker compose.</p>",
			Status:     models.PostPublished, AuthorID: "3", CategoryID: "5", TagIDs: []string{"5", "6"},
			ViewCount: 980, LikeCount: 45, PublishedAt: ptr(daysAgo(20)), CreatedAt: daysAgo(21),
		},
		{
			ID: "4", Title: "Modern CSS Layouts", Slug: "modern-css-layouts",
			Excerpt:    "Grid, flexbox and container queries explained.",
			Content:    "<p>CSS grid and flexbox cover almost every layout. Container queries fill the remaining gaps.</p>",
			Status:     models.PostPublished, AuthorID: "2", CategoryID: "2", TagIDs: []string{"10", "8"},
			ViewCount: 640, LikeCount: 31, PublishedAt: ptr(daysAgo(40)), CreatedAt: daysAgo(41),
		},
		{
			ID: "5", Title: "TypeScript Generics Explained", Slug: "typescript-generics-explained",
			Excerpt:    "Type parameters, constraints and inference with examples.",
			Content:    "<p>Generics let you write reusable typed code. We build up from simple identity functions to mapped types.</p>",
			Status:     models.PostPublished, AuthorID: "2", CategoryID: "2", TagIDs: []string{"3", "2"},
			ViewCount: 870, LikeCount: 52, PublishedAt: ptr(daysAgo(3)), CreatedAt: daysAgo(4),
		},
		{
			ID: "6", Title: "PostgreSQL Indexing Strategies", Slug: "postgresql-indexing-strategies",
			Excerpt:    "B-tree, GIN and partial indexes for real workloads.",
			Content:    "<p>Draft: choosing the right index type and reading query plans.</p>",
			Status:     models.PostDraft, AuthorID: "1", CategoryID: "6", TagIDs: []string{"7", "8"},
			CreatedAt: daysAgo(2),
		},
		{
			ID: "7", Title: "Kubernetes Operators in Go", Slug: "kubernetes-operators-in-go",
			Excerpt:    "Writing controllers with controller-runtime.",
			Content:    "<p>Operators encode operational knowledge as code. We write a small controller in Go.</p>",
			Status:     models.PostScheduled, AuthorID: "3", CategoryID: "5", TagIDs: []string{"6", "4"},
			PublishedAt: ptr(now.AddDate(0, 0, 7)), CreatedAt: daysAgo(1),
		},
		{
			ID: "8", Title: "Testing React Components", Slug: "testing-react-components",
			Excerpt:    "Testing Library, mocks and what to assert.",
			Content:    "<p>Good component tests check behaviour, not implementation. We use Testing Library to render and interact.</p>",
			Status:     models.PostPublished, AuthorID: "3", CategoryID: "4", TagIDs: []string{"1", "9"},
			ViewCount: 410, LikeCount: 19, PublishedAt: ptr(daysAgo(60)), CreatedAt: daysAgo(61),
		},
	}

	counts := make(map[string]int, len(tagNames))
	for _, p := range posts {
		for _, id := range p.TagIDs {
			counts[id]++
		}
	}
	for i, name := range tagNames {
		id := fmt.Sprint(i + 1)
		t := models.Tag{ID: id, Name: name, Slug: tagSlugs[i], PostCount: counts[id], CreatedAt: daysAgo(365)}
		if err := s.Tags.Insert(ctx, t); err != nil {
			return fmt.Errorf("seed tag %s: %w", id, err)
		}
	}

	comments := []models.Comment{
		{ID: "1", PostID: "1", Author: models.CommentAuthor{Name: "Maria", UserID: "100"}, Content: "Great overview of custom hooks!", LikeCount: 5, CreatedAt: daysAgo(2)},
		{ID: "2", PostID: "1", Author: models.CommentAuthor{Name: "Jane Developer", UserID: "2"}, Content: "Thanks Maria, glad it helped.", ParentID: "1", LikeCount: 2, CreatedAt: daysAgo(2).Add(2 * time.Hour)},
		{ID: "3", PostID: "1", Author: models.CommentAuthor{Name: "Tom"}, Content: "Could you cover useReducer next?", LikeCount: 1, CreatedAt: daysAgo(1)},
		{ID: "4", PostID: "1", Author: models.CommentAuthor{Name: "Maria", UserID: "100"}, Content: "Seconding useReducer.", ParentID: "2", CreatedAt: daysAgo(1).Add(time.Hour)},
		{ID: "5", PostID: "2", Author: models.CommentAuthor{Name: "Ivan"}, Content: "How do you structure middleware for auth?", LikeCount: 3, CreatedAt: daysAgo(8)},
		{ID: "6", PostID: "2", Author: models.CommentAuthor{Name: "Alex Chen", UserID: "1"}, Content: "A subrouter per role works well.", ParentID: "5", LikeCount: 4, CreatedAt: daysAgo(7)},
		{ID: "7", PostID: "3", Author: models.CommentAuthor{Name: "Lee"}, Content: "Compose profiles saved me a lot of time.", CreatedAt: daysAgo(15)},
	}
	commentCounts := make(map[string]int)
	for _, c := range comments {
		c.UpdatedAt = c.CreatedAt
		if err := s.Comments.Insert(ctx, c); err != nil {
			return fmt.Errorf("seed comment %s: %w", c.ID, err)
		}
		commentCounts[c.PostID]++
	}

	for _, p := range posts {
		p.CommentCount = commentCounts[p.ID]
		p.UpdatedAt = p.CreatedAt
		if err := s.Posts.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed post %s: %w", p.ID, err)
		}
	}

	subscribers := []models.Subscriber{
		{ID: "1", Email: "maria@example.com", FirstName: "Maria", LastName: "Lopez", Interests: []string{"react", "frontend"}, SubscribedAt: daysAgo(300), Stats: models.EngagementStats{EmailsReceived: 24, Opens: 20, Clicks: 9}},
		{ID: "2", Email: "tom@gmail.com", FirstName: "Tom", LastName: "Baker", Interests: []string{"backend"}, SubscribedAt: daysAgo(200), Stats: models.EngagementStats{EmailsReceived: 18, Opens: 6, Clicks: 1}},
		{ID: "3", Email: "ivan@yandex.ru", FirstName: "Ivan", LastName: "Petrov", Interests: []string{"backend", "devops"}, SubscribedAt: daysAgo(120), Stats: models.EngagementStats{EmailsReceived: 10, Opens: 2, Clicks: 0}},
		{ID: "4", Email: "lee@example.com", FirstName: "Lee", LastName: "Kim", Interests: []string{"devops"}, SubscribedAt: daysAgo(75), Stats: models.EngagementStats{EmailsReceived: 6, Opens: 0}},
		{ID: "5", Email: "anna@gmail.com", FirstName: "Anna", LastName: "Schmidt", Interests: []string{"react"}, SubscribedAt: daysAgo(45), Stats: models.EngagementStats{EmailsReceived: 4, Opens: 4, Clicks: 3}},
		{ID: "6", Email: "omar@outlook.com", FirstName: "Omar", LastName: "Haddad", Interests: []string{"frontend"}, SubscribedAt: daysAgo(25), Stats: models.EngagementStats{EmailsReceived: 2, Opens: 1}},
		{ID: "7", Email: "sofia@gmail.com", FirstName: "Sofia", LastName: "Rossi", Interests: []string{"react", "backend"}, SubscribedAt: daysAgo(12), Stats: models.EngagementStats{EmailsReceived: 1, Opens: 1, Clicks: 1}},
		{ID: "8", Email: "ken@example.com", FirstName: "Ken", LastName: "Sato", SubscribedAt: daysAgo(4)},
		{ID: "9", Email: "paul@outlook.com", FirstName: "Paul", LastName: "Martin", Interests: []string{"devops"}, SubscribedAt: daysAgo(150), UnsubscribedAt: ptr(daysAgo(20)), Stats: models.EngagementStats{EmailsReceived: 9, Opens: 1}},
		{ID: "10", Email: "eva@gmail.com", FirstName: "Eva", LastName: "Novak", SubscribedAt: daysAgo(50), UnsubscribedAt: ptr(daysAgo(5)), Stats: models.EngagementStats{EmailsReceived: 3}},
	}
	for _, sub := range subscribers {
		sub.Status = models.SubscriberActive
		if sub.UnsubscribedAt != nil {
			sub.Status = models.SubscriberUnsubscribed
		}
		if sub.Interests == nil {
			sub.Interests = []string{}
		}
		sub.Segments = []string{}
		if err := s.Subscribers.Insert(ctx, sub); err != nil {
			return fmt.Errorf("seed subscriber %s: %w", sub.ID, err)
		}
	}

	segments := []models.Segment{
		{
			ID: "1", Name: "Engaged readers", Description: "Opened at least five emails",
			Criteria: []models.Criterion{{Type: models.CriterionEngagement, Field: "opens", Operator: "gte", Value: "5"}},
		},
		{
			ID: "2", Name: "React fans", Description: "Follow the React category",
			Criteria: []models.Criterion{{Type: models.CriterionInterest, Field: "interests", Operator: "contains", Value: "react"}},
		},
		{
			ID: "3", Name: "New this month", Description: "Joined in the last 30 days",
			Criteria: []models.Criterion{{Type: models.CriterionTimeframe, Field: "subscribedAt", Operator: "within_days", Value: "30"}},
		},
	}
	for _, seg := range segments {
		seg.CreatedAt = daysAgo(90)
		if err := s.Segments.Insert(ctx, seg); err != nil {
			return fmt.Errorf("seed segment %s: %w", seg.ID, err)
		}
	}

	templates := []models.Template{
		{
			ID: "1", Name: "Weekly digest", Subject: "This week on the blog, {{firstName}}",
			Content: "<h2>Hi {{firstName}},</h2><p>Here is what we published this week.</p><p><a href=\"{{siteUrl}}\">Read more</a></p>",
		},
		{
			ID: "2", Name: "Announcement", Subject: "News from the devblog team",
			Content: "<h2>Hello {{firstName}} {{lastName}}</h2><p>{{message}}</p>",
		},
	}
	for _, t := range templates {
		t.CreatedAt, t.UpdatedAt = daysAgo(180), daysAgo(30)
		if err := s.Templates.Insert(ctx, t); err != nil {
			return fmt.Errorf("seed template %s: %w", t.ID, err)
		}
	}

	campaigns := []models.Campaign{
		{
			ID: "1", Subject: "Hooks, generics and more", Status: models.CampaignSent, TemplateID: "1", RecipientType: "all",
			SentAt: ptr(daysAgo(2)), Recipients: 8, CreatedAt: daysAgo(4),
			Stats: models.CampaignStats{OpenRate: 62.5, ClickRate: 25, BounceRate: 1.2, UnsubscribeRate: 0},
		},
		{
			ID: "2", Subject: "Go API deep dive", Status: models.CampaignSent, TemplateID: "1", RecipientType: "segment", SegmentID: "1",
			SentAt: ptr(daysAgo(16)), Recipients: 3, CreatedAt: daysAgo(18),
			Stats: models.CampaignStats{OpenRate: 71.4, ClickRate: 33.3, BounceRate: 0, UnsubscribeRate: 0},
		},
		{
			ID: "3", Subject: "Container tips", Status: models.CampaignSent, TemplateID: "2", RecipientType: "all",
			SentAt: ptr(daysAgo(45)), Recipients: 7, CreatedAt: daysAgo(47),
			Stats: models.CampaignStats{OpenRate: 48.2, ClickRate: 12.5, BounceRate: 2.1, UnsubscribeRate: 1.4},
		},
		{
			ID: "4", Subject: "React testing roundup", Status: models.CampaignScheduled, TemplateID: "1", RecipientType: "segment", SegmentID: "2",
			ScheduledFor: ptr(now.AddDate(0, 0, 3)), CreatedAt: daysAgo(1),
		},
		{
			ID: "5", Subject: "Year in review", Status: models.CampaignDraft, TemplateID: "2", RecipientType: "all",
			CreatedAt: daysAgo(1),
		},
	}
	for _, c := range campaigns {
		if err := s.Campaigns.Insert(ctx, c); err != nil {
			return fmt.Errorf("seed campaign %s: %w", c.ID, err)
		}
	}

	shares := []struct {
		post     string
		platform models.Platform
		ago      time.Duration
	}{
		{"1", models.PlatformTwitter, 2 * time.Hour},
		{"1", models.PlatformTwitter, 26 * time.Hour},
		{"1", models.PlatformLinkedIn, 30 * time.Hour},
		{"1", models.PlatformReddit, 50 * time.Hour},
		{"1", models.PlatformFacebook, 70 * time.Hour},
		{"2", models.PlatformTwitter, 5 * 24 * time.Hour},
		{"2", models.PlatformLinkedIn, 6 * 24 * time.Hour},
		{"2", models.PlatformReddit, 9 * 24 * time.Hour},
		{"2", models.PlatformEmail, 9*24*time.Hour + time.Hour},
		{"3", models.PlatformTwitter, 14 * 24 * time.Hour},
		{"3", models.PlatformOther, 19 * 24 * time.Hour},
		{"4", models.PlatformFacebook, 35 * 24 * time.Hour},
		{"5", models.PlatformTwitter, 24 * time.Hour},
		{"8", models.PlatformLinkedIn, 55 * 24 * time.Hour},
	}
	for i, sh := range shares {
		ev := models.ShareEvent{
			ID:        fmt.Sprint(i + 1),
			PostID:    sh.post,
			Platform:  sh.platform,
			Timestamp: now.Add(-sh.ago),
		}
		if err := s.Shares.Record(ctx, ev); err != nil {
			return fmt.Errorf("seed share %s: %w", ev.ID, err)
		}
	}

	return nil
}
