package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"devblog/internal/query"
	"devblog/internal/services"
)

const defaultLimit = 10

// pageParams читает limit/offset. Нечисловые значения заменяются дефолтами,
// отрицательные прижимаются к нулю, limit ограничен maxLimit.
func pageParams(r *http.Request, maxLimit int) query.Page {
	q := r.URL.Query()
	return query.Page{
		Limit:  clampAtoi(q.Get("limit"), defaultLimit, 0, maxLimit),
		Offset: clampAtoi(q.Get("offset"), 0, 0, int(^uint(0)>>1)),
	}
}

func clampAtoi(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n < min {
			return min
		}
		if n > max {
			return max
		}
		return n
	}
	return def
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDate принимает RFC3339 или YYYY-MM-DD. Для end=true дата без времени
// означает конец дня.
func parseDate(field, s string, end bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, &services.ValidationError{Field: field, Message: "malformed date " + strconv.Quote(s) + ", expected YYYY-MM-DD or RFC3339"}
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}
