package trends

import (
	"context"
	"time"
)

// TimestampLayout is the ISO-8601 form used for record timestamps
const TimestampLayout = "2006-01-02T15:04:05"

// Record is one flattened (keyword, interest, timestamp) row
type Record struct {
	Keyword   string `json:"keyword"`
	Interest  int    `json:"interest"`
	Timestamp string `json:"timestamp"`
}

// Point is a single time-indexed value of a table column
type Point struct {
	Time  time.Time
	Value float64
}

// Provider opens sessions against a trends data source
type Provider interface {
	Open(ctx context.Context, locale string, tzOffset int) (Session, error)
}

// Session requests interest-over-time tables for a set of keywords
type Session interface {
	InterestOverTime(ctx context.Context, keywords []string, timeframe string) (*Table, error)
}

// Options carries the provider settings applied on every fetch
type Options struct {
	Locale    string
	TZOffset  int
	Timeframe string
}

// DefaultOptions returns the en-US locale, a 360 minute offset and the
// trailing three month window
func DefaultOptions() Options {
	return Options{
		Locale:    "en-US",
		TZOffset:  360,
		Timeframe: "today 3-m",
	}
}
