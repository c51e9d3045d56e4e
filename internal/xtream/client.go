// SPDX-License-Identifier: MIT

// Package xtream implements the client for the upstream player_api endpoint.
package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xtreamgate/xtreamgate/internal/catalog"
	"github.com/xtreamgate/xtreamgate/internal/metrics"
)

// Account identifies the proxied provider account. The client resolves it
// per request so credential changes apply without a rebuild.
type Account struct {
	BaseURL  string
	Username string
	Password string
}

// Options tunes client behaviour. Zero values pick the defaults.
type Options struct {
	// CatalogTimeout bounds full catalog downloads, which can run to many
	// megabytes on large providers.
	CatalogTimeout time.Duration

	// DetailTimeout bounds single-item detail fetches on the request path.
	DetailTimeout time.Duration

	// RPS caps the outbound request rate towards the provider. 0 disables
	// the limiter.
	RPS float64
}

// Client talks to an Xtream-style player_api upstream.
type Client struct {
	account  func() Account
	catalogs *http.Client
	details  *http.Client
	limiter  *rate.Limiter
}

// New creates a client. account is called on every request, so a settings
// holder accessor can be passed directly.
func New(account func() Account, opts Options) *Client {
	if opts.CatalogTimeout <= 0 {
		opts.CatalogTimeout = 300 * time.Second
	}
	if opts.DetailTimeout <= 0 {
		opts.DetailTimeout = 60 * time.Second
	}
	c := &Client{
		account:  account,
		catalogs: &http.Client{Timeout: opts.CatalogTimeout},
		details:  &http.Client{Timeout: opts.DetailTimeout},
	}
	if opts.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), int(opts.RPS)+1)
	}
	return c
}

// Categories fetches the category list for one content type.
func (c *Client) Categories(ctx context.Context, t catalog.ContentType) ([]catalog.Category, error) {
	action := t.CategoryAction()
	body, err := c.get(ctx, c.catalogs, action, nil)
	if err != nil {
		return nil, err
	}
	var cats []catalog.Category
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Action: action, Err: err}
	}
	return cats, nil
}

// Streams fetches the item list for one content type. Some providers answer
// get_series with an object keyed by position instead of an array; that shape
// is accepted and flattened in key order so results stay deterministic.
func (c *Client) Streams(ctx context.Context, t catalog.ContentType) ([]catalog.Item, error) {
	action := t.StreamAction()
	body, err := c.get(ctx, c.catalogs, action, nil)
	if err != nil {
		return nil, err
	}
	var items []catalog.Item
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var keyed map[string]catalog.Item
	if err := json.Unmarshal(body, &keyed); err != nil || keyed == nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Action: action, Err: err}
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items = make([]catalog.Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, keyed[k])
	}
	return items, nil
}

// VODInfo fetches the extended metadata for a single VOD title.
func (c *Client) VODInfo(ctx context.Context, id int64) (map[string]json.RawMessage, error) {
	return c.detail(ctx, "get_vod_info", "vod_id", id)
}

// SeriesInfo fetches the extended metadata for a single series.
func (c *Client) SeriesInfo(ctx context.Context, id int64) (map[string]json.RawMessage, error) {
	return c.detail(ctx, "get_series_info", "series_id", id)
}

func (c *Client) detail(ctx context.Context, action, idParam string, id int64) (map[string]json.RawMessage, error) {
	extra := url.Values{idParam: []string{strconv.FormatInt(id, 10)}}
	body, err := c.get(ctx, c.details, action, extra)
	if err != nil {
		return nil, err
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Action: action, Err: err}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, hc *http.Client, action string, extra url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Sentinel: ErrTimeout, Action: action, Err: err}
		}
	}

	acc := c.account()
	q := url.Values{}
	q.Set("username", acc.Username)
	q.Set("password", acc.Password)
	q.Set("action", action)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	endpoint := strings.TrimRight(acc.BaseURL, "/") + "/player_api.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUnavailable, Action: action, Err: err}
	}
	res, err := hc.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(action, "transport_error")
		sentinel := ErrUnavailable
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			sentinel = ErrTimeout
		}
		return nil, &APIError{Sentinel: sentinel, Action: action, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		metrics.RecordUpstreamRequest(action, "http_"+strconv.Itoa(res.StatusCode))
		sentinel := ErrUpstream
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			sentinel = ErrDenied
		}
		return nil, &APIError{Sentinel: sentinel, Action: action, Status: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.RecordUpstreamRequest(action, "read_error")
		return nil, &APIError{Sentinel: ErrUnavailable, Action: action, Err: err}
	}
	metrics.RecordUpstreamRequest(action, "ok")
	return body, nil
}
