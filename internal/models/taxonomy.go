package models

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    string    `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c Category) GetID() string { return c.ID }

// CategoryWithCount: категория с числом постов (включая подкатегории).
type CategoryWithCount struct {
	Category
	PostCount int `json:"postCount"`
}

type CategoryTree struct {
	CategoryWithCount
	Children []CategoryTree `json:"children"`
}

type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=300"`
	ParentID    string `json:"parentId"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PostCount int       `json:"postCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Tag) GetID() string { return t.ID }

type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=40"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Bio  string `json:"bio,omitempty"`
}

func (a Author) GetID() string { return a.ID }

// CategoryDetail: категория вместе с id всех потомков.
type CategoryDetail struct {
	CategoryWithCount
	DescendantIDs []string `json:"descendantIds"`
}
