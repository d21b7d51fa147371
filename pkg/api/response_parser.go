package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"trends-go/pkg/trends"
)

// xssiPrefix guards every Google Trends JSON body
var xssiPrefix = []byte(")]}'")

// ResponseParser decodes explore and multiline bodies
type ResponseParser struct{}

// NewResponseParser creates a new Google Trends response parser
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// ParseExplore returns the TIMESERIES widget of an explore body
func (p *ResponseParser) ParseExplore(body []byte) (*Widget, error) {
	payload, err := p.unwrap(body)
	if err != nil {
		return nil, err
	}

	var resp ExploreResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode explore response: %w (response: %s)", err, snippet(payload))
	}

	for i := range resp.Widgets {
		if resp.Widgets[i].ID == timeseriesWidgetID {
			if resp.Widgets[i].Token == "" {
				return nil, fmt.Errorf("%s widget has no token", timeseriesWidgetID)
			}
			return &resp.Widgets[i], nil
		}
	}
	return nil, fmt.Errorf("explore response has no %s widget", timeseriesWidgetID)
}

// ParseMultiline builds a table with one column per keyword. An empty
// timeline yields a table without columns.
func (p *ResponseParser) ParseMultiline(body []byte, keywords []string) (*trends.Table, error) {
	payload, err := p.unwrap(body)
	if err != nil {
		return nil, err
	}

	var resp MultilineResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode multiline response: %w (response: %s)", err, snippet(payload))
	}

	timeline := resp.Default.TimelineData
	if len(timeline) == 0 {
		return trends.NewTable(nil), nil
	}

	index := make([]time.Time, len(timeline))
	columns := make([][]float64, len(keywords))
	for i := range columns {
		columns[i] = make([]float64, len(timeline))
	}

	for row, point := range timeline {
		ts, err := parseUnixSeconds(point.Time)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		index[row] = ts

		if len(point.Value) < len(keywords) {
			return nil, fmt.Errorf("row %d has %d values for %d keywords", row, len(point.Value), len(keywords))
		}
		for col := range keywords {
			columns[col][row] = point.Value[col]
		}
	}

	table := trends.NewTable(index)
	for col, keyword := range keywords {
		if err := table.AddColumn(keyword, columns[col]); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// unwrap strips the anti-JSON prefix and the separator Google places after it
func (p *ResponseParser) unwrap(body []byte) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty response body from Google Trends")
	}
	payload := bytes.TrimSpace(body)
	if bytes.HasPrefix(payload, xssiPrefix) {
		payload = bytes.TrimPrefix(payload, xssiPrefix)
		payload = bytes.TrimPrefix(payload, []byte(","))
		payload = bytes.TrimSpace(payload)
	}
	return payload, nil
}

func parseUnixSeconds(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timeline time %q: %w", s, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func snippet(body []byte) string {
	return string(body[:min(len(body), 200)])
}
