package models

import "time"

type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformFacebook Platform = "facebook"
	PlatformLinkedIn Platform = "linkedin"
	PlatformReddit   Platform = "reddit"
	PlatformEmail    Platform = "email"
	PlatformOther    Platform = "other"
)

var Platforms = []string{"twitter", "facebook", "linkedin", "reddit", "email", "other"}

type ShareEvent struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Platform  Platform  `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
}

type ShareRequest struct {
	PostID    string `json:"postId"    validate:"required"`
	Platform  string `json:"platform"  validate:"required"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}
