package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"devblog/internal/models"

	"github.com/dgraph-io/badger/v4"
)

const ShareKeyPrefix = "share:"

// ShareLog: журнал событий шеринга в badger (in-memory).
// Ключ share:<postId>:<tsKey(время)>:<id> упорядочен по посту и времени,
// поэтому выборка по посту за период это один проход итератора.
type ShareLog struct {
	db *badger.DB
}

func NewShareLog() (*ShareLog, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open share log: %w", err)
	}
	return &ShareLog{db: db}, nil
}

func (l *ShareLog) Close() error {
	return l.db.Close()
}

func shareKey(ev models.ShareEvent) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s", ShareKeyPrefix, ev.PostID, tsKey(ev.Timestamp), ev.ID))
}

// tsKey: UnixNano со сдвигом на 2^63, чтобы даты до 1970 тоже сортировались
// лексикографически в порядке времени.
func tsKey(t time.Time) string {
	return fmt.Sprintf("%020d", uint64(t.UnixNano())^(1<<63))
}

func (l *ShareLog) Record(_ context.Context, ev models.ShareEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal share event: %w", err)
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(shareKey(ev), data)
	})
}

// List возвращает события в [from, to] по возрастанию времени.
// Пустой postID: события всех постов.
func (l *ShareLog) List(_ context.Context, postID string, from, to time.Time) ([]models.ShareEvent, error) {
	prefix := []byte(ShareKeyPrefix)
	start := prefix
	if postID != "" {
		prefix = []byte(ShareKeyPrefix + postID + ":")
		start = []byte(string(prefix) + tsKey(from))
	}

	var out []models.ShareEvent
	err := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
			var ev models.ShareEvent
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal share event: %w", err)
			}
			if ev.Timestamp.Before(from) {
				continue
			}
			if ev.Timestamp.After(to) {
				if postID != "" {
					break
				}
				continue
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if postID == "" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	}
	return out, nil
}
