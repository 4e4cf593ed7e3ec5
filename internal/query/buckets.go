package query

import (
	"fmt"
	"sort"
	"time"
)

// Granularity is the width of a time bucket.
type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Month Granularity = "month"
)

// Event is a timestamped occurrence with a breakdown category
// (social platform, subscribe/unsubscribe and so on).
type Event struct {
	At       time.Time
	Category string
}

// Bucket holds the counts for one time window.
type Bucket struct {
	Key    string         `json:"key"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

// Layout returns the time layout of the bucket key.
func (g Granularity) Layout() string {
	switch g {
	case Hour:
		return "2006-01-02 15:00"
	case Month:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}

// Key formats t (in UTC) as the canonical bucket key.
func (g Granularity) Key(t time.Time) string {
	return t.UTC().Format(g.Layout())
}

// ParseGranularity accepts hour, day or month.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Hour, Day, Month:
		return g, nil
	}
	return "", fmt.Errorf("%w: unsupported granularity %q, valid options: hour, day, month", ErrInvalidArgument, s)
}

// PickGranularity picks hours for spans up to a day, days up to 30 days, months beyond.
func PickGranularity(days float64) Granularity {
	switch {
	case days <= 1:
		return Hour
	case days <= 30:
		return Day
	default:
		return Month
	}
}

// DaySpan is the length of [from, to] in days.
func DaySpan(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// Bucketize groups events by g. Only buckets that contain events are
// returned, sorted ascending by key.
func Bucketize(events []Event, g Granularity) []Bucket {
	idx := map[string]*Bucket{}
	for _, ev := range events {
		key := g.Key(ev.At)
		b, ok := idx[key]
		if !ok {
			b = &Bucket{Key: key, Counts: map[string]int{}}
			idx[key] = b
		}
		b.Total++
		if ev.Category != "" {
			b.Counts[ev.Category]++
		}
	}

	out := make([]Bucket, 0, len(idx))
	for _, b := range idx {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// PercentChange returns (new-old)/old*100, or nil when old is zero.
func PercentChange(old, new float64) *float64 {
	if old == 0 {
		return nil
	}
	v := (new - old) / old * 100
	return &v
}
