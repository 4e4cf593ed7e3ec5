package models

import "time"

type CommentAuthor struct {
	Name   string `json:"name"             validate:"required,min=2,max=50"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"  validate:"omitempty,email"`
}

type Comment struct {
	ID        string        `json:"id"`
	PostID    string        `json:"postId"`
	Author    CommentAuthor `json:"author"`
	Content   string        `json:"content"`
	ParentID  string        `json:"parentId,omitempty"`
	LikeCount int           `json:"likeCount"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (c Comment) GetID() string { return c.ID }

// CommentThread: комментарий с вложенными ответами.
type CommentThread struct {
	Comment
	Replies []CommentThread `json:"replies"`
}

type CreateCommentRequest struct {
	PostID   string        `json:"postId"   validate:"required"`
	Content  string        `json:"content"  validate:"required,min=1,max=2000"`
	Author   CommentAuthor `json:"author"`
	ParentID string        `json:"parentId"`
}
