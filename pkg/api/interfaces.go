package api

import "encoding/json"

// Google Trends endpoints, relative to the configured base URL
const (
	homePath      = "/"
	explorePath   = "/trends/api/explore"
	multilinePath = "/trends/api/widgetdata/multiline"

	timeseriesWidgetID = "TIMESERIES"
	sessionCookieName  = "NID"
)

// comparisonItem is one keyword entry of an explore request
type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

// exploreRequest is the JSON payload sent in the explore "req" parameter
type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

// ExploreResponse lists the widgets available for a comparison
type ExploreResponse struct {
	Widgets []Widget `json:"widgets"`
}

// Widget carries the token and request needed to fetch one widget's data
type Widget struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

// MultilineResponse is the interest-over-time payload
type MultilineResponse struct {
	Default struct {
		TimelineData []TimelinePoint `json:"timelineData"`
	} `json:"default"`
}

// TimelinePoint is one row: unix seconds plus one value per keyword
type TimelinePoint struct {
	Time          string    `json:"time"`
	FormattedTime string    `json:"formattedTime"`
	Value         []float64 `json:"value"`
	HasData       []bool    `json:"hasData"`
	IsPartial     bool      `json:"isPartial"`
}
