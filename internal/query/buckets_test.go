package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBucketizeDayExample(t *testing.T) {
	events := []Event{
		{At: day("2023-07-16 09:30"), Category: "twitter"},
		{At: day("2023-07-15 18:00"), Category: "reddit"},
		{At: day("2023-07-16 22:10"), Category: "twitter"},
	}

	got := Bucketize(events, Day)
	require.Len(t, got, 2)
	assert.Equal(t, "2023-07-15", got[0].Key)
	assert.Equal(t, 1, got[0].Total)
	assert.Equal(t, "2023-07-16", got[1].Key)
	assert.Equal(t, 2, got[1].Total)
	assert.Equal(t, map[string]int{"twitter": 2}, got[1].Counts)
}

func TestBucketizeKeysAndGaps(t *testing.T) {
	events := []Event{
		{At: day("2023-01-05 10:15"), Category: "email"},
		{At: day("2023-03-20 10:45"), Category: "email"},
		{At: day("2023-03-21 10:59"), Category: "linkedin"},
	}

	months := Bucketize(events, Month)
	require.Len(t, months, 2) // no zero-filled February
	assert.Equal(t, "2023-01", months[0].Key)
	assert.Equal(t, "2023-03", months[1].Key)
	assert.Equal(t, map[string]int{"email": 1, "linkedin": 1}, months[1].Counts)

	hours := Bucketize(events[:2], Hour)
	assert.Equal(t, "2023-01-05 10:00", hours[0].Key)
	assert.Equal(t, "2023-03-20 10:00", hours[1].Key)

	assert.Empty(t, Bucketize(nil, Day))
}

func TestBucketKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2023, 7, 16, 1, 0, 0, 0, loc)
	assert.Equal(t, "2023-07-15 22:00", Hour.Key(at))
}

func TestPickGranularity(t *testing.T) {
	assert.Equal(t, Hour, PickGranularity(0.5))
	assert.Equal(t, Hour, PickGranularity(1))
	assert.Equal(t, Day, PickGranularity(7))
	assert.Equal(t, Day, PickGranularity(30))
	assert.Equal(t, Month, PickGranularity(31))
	assert.Equal(t, Month, PickGranularity(365))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("month")
	require.NoError(t, err)
	assert.Equal(t, Month, g)

	_, err = ParseGranularity("week")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPercentChange(t *testing.T) {
	assert.Nil(t, PercentChange(0, 50))

	v := PercentChange(100, 150)
	require.NotNil(t, v)
	assert.InDelta(t, 50.0, *v, 1e-9)

	v = PercentChange(200, 50)
	require.NotNil(t, v)
	assert.InDelta(t, -75.0, *v, 1e-9)
}
