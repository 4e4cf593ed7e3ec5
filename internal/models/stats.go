package models

import (
	"time"

	"devblog/internal/query"
)

type ShareStats struct {
	PostID      string         `json:"postId,omitempty"`
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Total       int            `json:"total"`
	ByPlatform  map[string]int `json:"byPlatform"`
	Granularity string         `json:"granularity"`
	Timeline    []query.Bucket `json:"timeline"`
}

type DashboardStats struct {
	Posts             map[string]int `json:"posts"`
	TotalPosts        int            `json:"totalPosts"`
	TotalViews        int            `json:"totalViews"`
	TotalLikes        int            `json:"totalLikes"`
	TotalComments     int            `json:"totalComments"`
	Categories        int            `json:"categories"`
	Tags              int            `json:"tags"`
	ActiveSubscribers int            `json:"activeSubscribers"`
	Campaigns         map[string]int `json:"campaigns"`
	RecentComments    []Comment      `json:"recentComments"`
}
