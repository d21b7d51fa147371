// Package trendstest provides a table-backed provider for tests.
package trendstest

import (
	"context"
	"sync"
	"time"

	"trends-go/pkg/trends"
)

// Call records the arguments of one session request
type Call struct {
	Locale    string
	TZOffset  int
	Keywords  []string
	Timeframe string
}

// Provider serves a fixed table for every request
type Provider struct {
	Table   *trends.Table
	OpenErr error
	ReqErr  error

	mu    sync.Mutex
	calls []Call
}

// Open implements trends.Provider
func (p *Provider) Open(ctx context.Context, locale string, tzOffset int) (trends.Session, error) {
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	return &session{provider: p, locale: locale, tzOffset: tzOffset}, nil
}

// Calls returns every request made so far
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

type session struct {
	provider *Provider
	locale   string
	tzOffset int
}

func (s *session) InterestOverTime(ctx context.Context, keywords []string, timeframe string) (*trends.Table, error) {
	s.provider.mu.Lock()
	s.provider.calls = append(s.provider.calls, Call{
		Locale:    s.locale,
		TZOffset:  s.tzOffset,
		Keywords:  append([]string(nil), keywords...),
		Timeframe: timeframe,
	})
	s.provider.mu.Unlock()

	if s.provider.ReqErr != nil {
		return nil, s.provider.ReqErr
	}
	if s.provider.Table == nil {
		return trends.NewTable(nil), nil
	}
	return s.provider.Table, nil
}

// Days returns n UTC midnights starting at start, step days apart
func Days(start string, n, step int) []time.Time {
	t0, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t0.AddDate(0, 0, i*step)
	}
	return out
}

// NewTable builds a table over index with one column per entry of columns
func NewTable(index []time.Time, columns map[string][]float64, order ...string) *trends.Table {
	t := trends.NewTable(index)
	for _, name := range order {
		if err := t.AddColumn(name, columns[name]); err != nil {
			panic(err)
		}
	}
	return t
}
