package repository

import "devblog/internal/models"

// Store: все коллекции приложения. Данные живут, пока жив процесс.
type Store struct {
	Posts       *Collection[models.Post]
	Categories  *Collection[models.Category]
	Tags        *Collection[models.Tag]
	Authors     *Collection[models.Author]
	Comments    *Collection[models.Comment]
	Subscribers *Collection[models.Subscriber]
	Segments    *Collection[models.Segment]
	Campaigns   *Collection[models.Campaign]
	Templates   *Collection[models.Template]
	Shares      *ShareLog
}

func NewStore() (*Store, error) {
	shares, err := NewShareLog()
	if err != nil {
		return nil, err
	}
	return &Store{
		Posts:       NewCollection[models.Post](),
		Categories:  NewCollection[models.Category](),
		Tags:        NewCollection[models.Tag](),
		Authors:     NewCollection[models.Author](),
		Comments:    NewCollection[models.Comment](),
		Subscribers: NewCollection[models.Subscriber](),
		Segments:    NewCollection[models.Segment](),
		Campaigns:   NewCollection[models.Campaign](),
		Templates:   NewCollection[models.Template](),
		Shares:      shares,
	}, nil
}

func (s *Store) Close() error {
	return s.Shares.Close()
}
