package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/text/language"

	"trends-go/pkg/logger"
	"trends-go/pkg/trends"
)

// DefaultBaseURL is the public Google Trends host
const DefaultBaseURL = "https://trends.google.com"

// ClientConfig describes which Google Trends slice the client reads
type ClientConfig struct {
	BaseURL    string
	Geo        string
	Category   int
	Property   string
	Connection ConnectionConfig
}

// Client implements trends.Provider against Google Trends
type Client struct {
	config      ClientConfig
	connManager *ConnectionManager
	parser      *ResponseParser
	log         *logger.Logger
}

// NewClient creates a Google Trends client
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	connManager, err := NewConnectionManager(config.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}

	return &Client{
		config:      config,
		connManager: connManager,
		parser:      NewResponseParser(),
		log:         logger.GetLogger().WithField("component", "trends_client"),
	}, nil
}

// Close releases idle connections
func (c *Client) Close() {
	c.connManager.Close()
}

// Open visits the Trends home page for the locale's region and keeps the
// session cookie it sets
func (c *Client) Open(ctx context.Context, locale string, tzOffset int) (trends.Session, error) {
	s := &session{
		client:   c,
		locale:   locale,
		tzOffset: tzOffset,
		cookies:  make(map[string]string),
	}

	args := []queryArg{{"geo", RegionOf(locale)}}
	resp, err := c.do(ctx, fasthttp.MethodGet, "open", homePath, args, nil)
	if err != nil {
		return nil, err
	}
	defer fasthttp.ReleaseResponse(resp)

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(sessionCookieName)
	if resp.Header.Cookie(cookie) {
		s.cookies[sessionCookieName] = string(cookie.Value())
	} else {
		c.log.Debug("No session cookie returned, continuing without one")
	}
	return s, nil
}

// RegionOf returns the region subtag of a BCP 47 locale, or "" when the
// locale carries none
func RegionOf(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	region, confidence := tag.Region()
	if confidence != language.Exact {
		return ""
	}
	return region.String()
}

type queryArg struct {
	key   string
	value string
}

// do performs one request with args in the query string. The caller
// releases the returned response.
func (c *Client) do(ctx context.Context, method, op, path string, args []queryArg, cookies map[string]string) (*fasthttp.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, transportError(op, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(c.config.BaseURL + path)
	query := req.URI().QueryArgs()
	for _, a := range args {
		query.Add(a.key, a.value)
	}
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json, text/javascript, */*")
	for name, value := range cookies {
		req.Header.SetCookie(name, value)
	}

	start := time.Now()
	err := c.connManager.GetFastHTTPClient().DoDeadline(req, resp, c.deadline(ctx))
	log := c.log.WithFields(map[string]interface{}{
		"op":          op,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		fasthttp.ReleaseResponse(resp)
		log.WithError(err).Debug("Request failed")
		return nil, transportError(op, err)
	}

	log.WithField("status", resp.StatusCode()).Debug("Request completed")
	if op != "open" && resp.StatusCode() != fasthttp.StatusOK {
		err := statusError(op, resp.StatusCode(), resp.Body())
		fasthttp.ReleaseResponse(resp)
		return nil, err
	}
	return resp, nil
}

// deadline is the earlier of the context deadline and the request timeout
func (c *Client) deadline(ctx context.Context) time.Time {
	timeout := c.config.Connection.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultConnectionConfig().RequestTimeout
	}
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

type session struct {
	client   *Client
	locale   string
	tzOffset int
	cookies  map[string]string
}

// InterestOverTime resolves the TIMESERIES widget for keywords and fetches its timeline
func (s *session) InterestOverTime(ctx context.Context, keywords []string, timeframe string) (*trends.Table, error) {
	widget, err := s.explore(ctx, keywords, timeframe)
	if err != nil {
		return nil, err
	}

	body, err := s.call(ctx, fasthttp.MethodGet, "multiline", multilinePath, []queryArg{
		{"hl", s.locale},
		{"tz", strconv.Itoa(s.tzOffset)},
		{"req", string(widget.Request)},
		{"token", widget.Token},
	})
	if err != nil {
		return nil, err
	}

	table, err := s.client.parser.ParseMultiline(body, keywords)
	if err != nil {
		return nil, malformedError("multiline", err)
	}
	return table, nil
}

func (s *session) explore(ctx context.Context, keywords []string, timeframe string) (*Widget, error) {
	payload := exploreRequest{
		ComparisonItem: make([]comparisonItem, 0, len(keywords)),
		Category:       s.client.config.Category,
		Property:       s.client.config.Property,
	}
	for _, kw := range keywords {
		payload.ComparisonItem = append(payload.ComparisonItem, comparisonItem{
			Keyword: kw,
			Time:    timeframe,
			Geo:     s.client.config.Geo,
		})
	}
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, trends.NewError(trends.KindInput, "explore", err)
	}

	// explore is a POST with an empty body, the payload stays in the query
	body, err := s.call(ctx, fasthttp.MethodPost, "explore", explorePath, []queryArg{
		{"hl", s.locale},
		{"tz", strconv.Itoa(s.tzOffset)},
		{"req", string(reqJSON)},
	})
	if err != nil {
		return nil, err
	}

	widget, err := s.client.parser.ParseExplore(body)
	if err != nil {
		return nil, malformedError("explore", err)
	}
	return widget, nil
}

func (s *session) call(ctx context.Context, method, op, path string, args []queryArg) ([]byte, error) {
	resp, err := s.client.do(ctx, method, op, path, args, s.cookies)
	if err != nil {
		return nil, err
	}
	defer fasthttp.ReleaseResponse(resp)
	return append([]byte(nil), resp.Body()...), nil
}
