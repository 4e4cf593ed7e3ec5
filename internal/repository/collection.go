package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Entity interface {
	GetID() string
}

// Repository: доступ к одной коллекции. List отдаёт записи в порядке вставки.
type Repository[T Entity] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) []T
	Find(ctx context.Context, match func(T) bool) (T, bool)
	Insert(ctx context.Context, item T, unique ...func(existing T) bool) error
	Update(ctx context.Context, item T, unique ...func(existing T) bool) error
	Mutate(ctx context.Context, id string, fn func(*T) error) (T, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) int
}

// Collection: in-memory реализация Repository: map по id плюс порядок вставки.
type Collection[T Entity] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

var _ Repository[Entity] = (*Collection[Entity])(nil)

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return item, nil
}

func (c *Collection[T]) List(_ context.Context) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Collection[T]) Find(_ context.Context, match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if it := c.items[id]; match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Insert добавляет запись. unique: проверки уникальности (slug, name, email),
// выполняются под той же блокировкой, что и вставка.
func (c *Collection[T]) Insert(_ context.Context, item T, unique ...func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.GetID()
	if _, ok := c.items[id]; ok {
		return ErrDuplicate
	}
	if c.conflicts(id, unique) {
		return ErrDuplicate
	}

	c.items[id] = item
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Update(_ context.Context, item T, unique ...func(existing T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := item.GetID()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	if c.conflicts(id, unique) {
		return ErrDuplicate
	}

	c.items[id] = item
	return nil
}

// Mutate применяет fn к копии записи и сохраняет её, если fn не вернул ошибку.
func (c *Collection[T]) Mutate(_ context.Context, id string, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	if err := fn(&item); err != nil {
		var zero T
		return zero, err
	}
	c.items[id] = item
	return item, nil
}

func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

func (c *Collection[T]) Len(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// conflicts вызывается под блокировкой; запись с тем же id не считается конфликтом.
func (c *Collection[T]) conflicts(id string, unique []func(T) bool) bool {
	for _, existingID := range c.order {
		if existingID == id {
			continue
		}
		existing := c.items[existingID]
		for _, same := range unique {
			if same(existing) {
				return true
			}
		}
	}
	return false
}
