package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trends-go/pkg/trends"
)

// fakeTrends mimics the three Google Trends endpoints the client touches
type fakeTrends struct {
	t              *testing.T
	exploreStatus  int
	timeline       string
	omitCookie     bool
	mu             sync.Mutex
	requests       []*http.Request
	exploreReq     exploreRequest
	multilineQuery map[string]string
}

func (f *fakeTrends) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)

	switch r.URL.Path {
	case homePath:
		if !f.omitCookie {
			http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "nid-123", Path: "/"})
			http.SetCookie(w, &http.Cookie{Name: "OTHER", Value: "ignored", Path: "/"})
		}
		w.WriteHeader(http.StatusOK)
	case explorePath:
		if f.exploreStatus != 0 && f.exploreStatus != http.StatusOK {
			w.WriteHeader(f.exploreStatus)
			fmt.Fprint(w, "nope")
			return
		}
		assert.NoError(f.t, json.Unmarshal([]byte(r.URL.Query().Get("req")), &f.exploreReq))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, `)]}'`+"\n"+`{"widgets":[{"id":"TIMESERIES","token":"tok-1","request":{"resolution":"WEEK"}}]}`)
	case multilinePath:
		q := r.URL.Query()
		f.multilineQuery = map[string]string{
			"hl":    q.Get("hl"),
			"tz":    q.Get("tz"),
			"req":   q.Get("req"),
			"token": q.Get("token"),
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, `)]}',`+"\n"+`{"default":{"timelineData":`+f.timeline+`}}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeTrends) recorded() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

const twoWeekTimeline = `[{"time":"1704067200","value":[10]},{"time":"1704672000","value":[20]}]`

func newTestClient(t *testing.T, fake *fakeTrends) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	conn := DefaultConnectionConfig()
	conn.RequestTimeout = 5 * time.Second
	client, err := NewClient(ClientConfig{BaseURL: srv.URL + "/", Geo: "US", Connection: conn})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClient_InterestOverTime(t *testing.T) {
	fake := &fakeTrends{t: t, timeline: twoWeekTimeline}
	client := newTestClient(t, fake)
	ctx := context.Background()

	session, err := client.Open(ctx, "en-US", 360)
	require.NoError(t, err)

	table, err := session.InterestOverTime(ctx, []string{"rust programming"}, "today 3-m")
	require.NoError(t, err)

	records := trends.Flatten(table, []string{"rust programming"})
	assert.Equal(t, []trends.Record{
		{Keyword: "rust programming", Interest: 10, Timestamp: "2024-01-01T00:00:00"},
		{Keyword: "rust programming", Interest: 20, Timestamp: "2024-01-08T00:00:00"},
	}, records)

	requests := fake.recorded()
	require.Len(t, requests, 3)
	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, http.MethodPost, requests[1].Method)
	assert.Equal(t, http.MethodGet, requests[2].Method)
	assert.Equal(t, "US", requests[0].URL.Query().Get("geo"))
	assert.Equal(t, "en-US", requests[1].URL.Query().Get("hl"))
	assert.Equal(t, "360", requests[1].URL.Query().Get("tz"))

	for _, r := range requests[1:] {
		c, err := r.Cookie(sessionCookieName)
		require.NoError(t, err)
		assert.Equal(t, "nid-123", c.Value)
		_, err = r.Cookie("OTHER")
		assert.Error(t, err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, exploreRequest{
		ComparisonItem: []comparisonItem{{Keyword: "rust programming", Time: "today 3-m", Geo: "US"}},
		Category:       0,
		Property:       "",
	}, fake.exploreReq)
	assert.Equal(t, map[string]string{
		"hl":    "en-US",
		"tz":    "360",
		"req":   `{"resolution":"WEEK"}`,
		"token": "tok-1",
	}, fake.multilineQuery)
}

func TestClient_EmptyTimelineHasNoColumns(t *testing.T) {
	client := newTestClient(t, &fakeTrends{t: t, timeline: `[]`})

	session, err := client.Open(context.Background(), "en-US", 360)
	require.NoError(t, err)
	table, err := session.InterestOverTime(context.Background(), []string{"zzqx"}, "today 3-m")
	require.NoError(t, err)

	assert.False(t, table.HasColumn("zzqx"))
	assert.Empty(t, trends.Flatten(table, []string{"zzqx"}))
}

func TestClient_OpenWithoutCookie(t *testing.T) {
	fake := &fakeTrends{t: t, timeline: twoWeekTimeline, omitCookie: true}
	client := newTestClient(t, fake)

	session, err := client.Open(context.Background(), "en", 0)
	require.NoError(t, err)
	_, err = session.InterestOverTime(context.Background(), []string{"a"}, "today 3-m")
	require.NoError(t, err)

	requests := fake.recorded()
	require.Len(t, requests, 3)
	assert.Equal(t, "", requests[0].URL.Query().Get("geo"))
	_, err = requests[1].Cookie(sessionCookieName)
	assert.Error(t, err)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		kind   trends.Kind
	}{
		{http.StatusTooManyRequests, trends.KindRateLimited},
		{http.StatusForbidden, trends.KindUnauthorized},
		{http.StatusBadRequest, trends.KindRejected},
		{http.StatusInternalServerError, trends.KindRejected},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, &fakeTrends{t: t, exploreStatus: tt.status})

			session, err := client.Open(context.Background(), "en-US", 360)
			require.NoError(t, err)
			_, err = session.InterestOverTime(context.Background(), []string{"a"}, "today 3-m")
			require.Error(t, err)
			assert.Equal(t, tt.kind, trends.KindOf(err))

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestClient_CanceledContext(t *testing.T) {
	fake := &fakeTrends{t: t, timeline: twoWeekTimeline}
	client := newTestClient(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Open(ctx, "en-US", 360)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, trends.KindTransport, trends.KindOf(err))
	assert.Empty(t, fake.recorded())
}

func TestClient_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	conn := DefaultConnectionConfig()
	conn.DialTimeout = time.Second
	conn.RequestTimeout = 2 * time.Second
	client, err := NewClient(ClientConfig{BaseURL: url, Connection: conn})
	require.NoError(t, err)

	_, err = client.Open(context.Background(), "en-US", 360)
	require.Error(t, err)
	assert.Equal(t, trends.KindTransport, trends.KindOf(err))
}

func TestNewClient_InvalidProxy(t *testing.T) {
	conn := DefaultConnectionConfig()
	conn.ProxyURL = "user:pass@nohost"
	_, err := NewClient(ClientConfig{Connection: conn})
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "pass")
}

func TestRegionOf(t *testing.T) {
	assert.Equal(t, "US", RegionOf("en-US"))
	assert.Equal(t, "DE", RegionOf("de-DE"))
	assert.Equal(t, "BR", RegionOf("pt-br"))
	assert.Equal(t, "", RegionOf("en"))
	assert.Equal(t, "", RegionOf("not a locale"))
}

func TestDeadline_PrefersEarlierContextDeadline(t *testing.T) {
	client := &Client{config: ClientConfig{Connection: ConnectionConfig{RequestTimeout: time.Hour}}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.WithinDuration(t, time.Now().Add(time.Second), client.deadline(ctx), 500*time.Millisecond)
	assert.WithinDuration(t, time.Now().Add(time.Hour), client.deadline(context.Background()), time.Second)
}
