package models

import "time"

type PostStatus string

const (
	PostPublished PostStatus = "published"
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
)

var PostStatuses = []string{string(PostPublished), string(PostDraft), string(PostScheduled)}

type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	Status       PostStatus `json:"status"`
	AuthorID     string     `json:"authorId"`
	CategoryID   string     `json:"categoryId"`
	TagIDs       []string   `json:"tagIds"`
	ViewCount    int        `json:"viewCount"`
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (p Post) GetID() string { return p.ID }

// EffectiveDate: дата публикации, а для черновиков дата создания.
func (p Post) EffectiveDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func (p Post) HasTag(tagID string) bool {
	for _, id := range p.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// PostView: пост вместе с автором, категорией и тегами для ответа API.
type PostView struct {
	Post
	Author   *Author   `json:"author,omitempty"`
	Category *Category `json:"category,omitempty"`
	Tags     []Tag     `json:"tags"`
}

// SearchHit: результат поиска с релевантностью.
type SearchHit struct {
	PostView
	Score int `json:"score"`
}

// swagger:model CreatePostRequest
type CreatePostRequest struct {
	Title       string     `json:"title"       validate:"required,min=3,max=200" example:"Understanding Go generics"`
	Excerpt     string     `json:"excerpt"     validate:"max=500"`
	Content     string     `json:"content"     validate:"required,min=10"`
	Status      PostStatus `json:"status"      validate:"omitempty,oneof=published draft scheduled"`
	AuthorID    string     `json:"authorId"`
	CategoryID  string     `json:"categoryId"  validate:"required"`
	Tags        []string   `json:"tags"        validate:"max=10,dive,min=1,max=40" example:"go,generics"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type UpdatePostStatusRequest struct {
	Status      PostStatus `json:"status"      validate:"required,oneof=published draft scheduled"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type Facet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type SearchFacets struct {
	Tags       []Facet `json:"tags"`
	Categories []Facet `json:"categories"`
	Authors    []Facet `json:"authors"`
}

type SearchResult struct {
	Query   string       `json:"query"`
	Sort    string       `json:"sort"`
	Items   []SearchHit  `json:"items"`
	Total   int          `json:"total"`
	HasMore bool         `json:"hasMore"`
	Facets  SearchFacets `json:"facets"`
}
