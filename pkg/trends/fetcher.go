package trends

import (
	"context"
	"time"

	"trends-go/pkg/logger"
)

// Fetcher turns a keyword list into flattened trend records
type Fetcher struct {
	provider Provider
	opts     Options
	log      *logger.Logger
}

// NewFetcher binds a provider to a fixed set of options
func NewFetcher(provider Provider, opts Options) *Fetcher {
	return &Fetcher{
		provider: provider,
		opts:     opts,
		log:      logger.GetLogger().WithField("component", "fetcher"),
	}
}

// Fetch opens one provider session, requests the configured timeframe for
// keywords and flattens the returned table. Keywords are forwarded as given.
func (f *Fetcher) Fetch(ctx context.Context, keywords []string) ([]Record, error) {
	start := time.Now()
	log := f.log.WithFields(map[string]interface{}{
		"keywords_count": len(keywords),
		"timeframe":      f.opts.Timeframe,
	})

	session, err := f.provider.Open(ctx, f.opts.Locale, f.opts.TZOffset)
	if err != nil {
		log.WithError(err).Error("Failed to open trends session")
		return nil, asProviderError("open", err)
	}

	table, err := session.InterestOverTime(ctx, keywords, f.opts.Timeframe)
	if err != nil {
		log.WithError(err).Error("Interest over time request failed")
		return nil, asProviderError("interest_over_time", err)
	}

	records := Flatten(table, keywords)
	log.WithFields(map[string]interface{}{
		"columns":     len(table.Columns()),
		"rows":        table.Len(),
		"records":     len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Trends fetched")
	return records, nil
}

// Flatten emits one record per row for every keyword that is a column of
// table, grouped by keyword in the order given. Absent keywords are skipped.
func Flatten(table *Table, keywords []string) []Record {
	records := make([]Record, 0, len(keywords)*table.Len())
	for _, keyword := range keywords {
		if !table.HasColumn(keyword) {
			continue
		}
		for _, p := range table.Column(keyword) {
			records = append(records, Record{
				Keyword:   keyword,
				Interest:  int(p.Value),
				Timestamp: p.Time.UTC().Format(TimestampLayout),
			})
		}
	}
	return records
}

// asProviderError keeps classified errors intact and marks unclassified
// ones as transport failures
func asProviderError(op string, err error) error {
	if KindOf(err) != 0 {
		return err
	}
	return NewError(KindTransport, op, err)
}
