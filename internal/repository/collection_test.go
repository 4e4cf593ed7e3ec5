package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string
	Name string
	N    int
}

func (i item) GetID() string { return i.ID }

func TestCollection_InsertGetListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item]()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, c.Insert(ctx, item{ID: id}))
	}

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	ids := []string{}
	for _, it := range c.List(ctx) {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, 3, c.Len(ctx))

	_, err = c.Get(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_UniqueChecks(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item]()
	sameName := func(name string) func(item) bool {
		return func(e item) bool { return e.Name == name }
	}

	require.NoError(t, c.Insert(ctx, item{ID: "1", Name: "go"}))
	assert.ErrorIs(t, c.Insert(ctx, item{ID: "1", Name: "other"}), ErrDuplicate)
	assert.ErrorIs(t, c.Insert(ctx, item{ID: "2", Name: "go"}, sameName("go")), ErrDuplicate)

	require.NoError(t, c.Insert(ctx, item{ID: "2", Name: "rust"}))
	// запись не конфликтует сама с собой
	require.NoError(t, c.Update(ctx, item{ID: "2", Name: "rust", N: 1}, sameName("rust")))
	assert.ErrorIs(t, c.Update(ctx, item{ID: "2", Name: "go"}, sameName("go")), ErrDuplicate)
	assert.ErrorIs(t, c.Update(ctx, item{ID: "404"}), ErrNotFound)
}

func TestCollection_DeletePreservesOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item]()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, c.Insert(ctx, item{ID: id}))
	}

	require.NoError(t, c.Delete(ctx, "2"))
	assert.ErrorIs(t, c.Delete(ctx, "2"), ErrNotFound)

	list := c.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "3", list[1].ID)

	found, ok := c.Find(ctx, func(i item) bool { return i.ID == "3" })
	assert.True(t, ok)
	assert.Equal(t, "3", found.ID)
}

func TestCollection_MutateConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item]()
	require.NoError(t, c.Insert(ctx, item{ID: "1"}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Mutate(ctx, "1", func(it *item) error {
				it.N++
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := c.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.N)
}

func TestCollection_MutateErrorLeavesRecord(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[item]()
	require.NoError(t, c.Insert(ctx, item{ID: "1", N: 7}))

	boom := errors.New("boom")
	_, err := c.Mutate(ctx, "1", func(it *item) error {
		it.N = 100
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := c.Get(ctx, "1")
	assert.Equal(t, 7, got.N)

	_, err = c.Mutate(ctx, "2", func(*item) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}
