// SPDX-License-Identifier: MIT

// Package detail serves per-item extended metadata: a live upstream fetch
// merged with the cached basic record, degrading to an empty structure when
// the upstream is unreachable. A detail lookup never hard-fails the caller.
package detail

import (
	"context"
	"encoding/json"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/xtreamgate/xtreamgate/internal/cache"
	"github.com/xtreamgate/xtreamgate/internal/catalog"
	"github.com/xtreamgate/xtreamgate/internal/log"
	"github.com/xtreamgate/xtreamgate/internal/metrics"
)

// InfoClient is the slice of the upstream API detail lookups need.
type InfoClient interface {
	VODInfo(ctx context.Context, id int64) (map[string]json.RawMessage, error)
	SeriesInfo(ctx context.Context, id int64) (map[string]json.RawMessage, error)
}

// Service resolves merged detail records. Concurrent lookups for the same
// item are collapsed into one upstream call.
type Service struct {
	client    InfoClient
	published *cache.Published
	group     singleflight.Group
}

// NewService wires a detail service.
func NewService(client InfoClient, published *cache.Published) *Service {
	return &Service{client: client, published: published}
}

// Get returns the merged detail record for a VOD title or series. The result
// is always usable: on upstream failure it degrades to the empty fallback
// shape, and a missing basic record just means nothing is merged in.
func (s *Service) Get(ctx context.Context, t catalog.ContentType, id int64) map[string]json.RawMessage {
	payload := s.fetch(ctx, t, id)
	if payload == nil {
		metrics.RecordDetailFallback(t.String())
		payload = fallback(t)
	}

	if view := s.published.Current(); view != nil {
		if basic, ok := view.Lookup(t, id); ok {
			fillMissing(payload, targetField(t), basic)
		}
	}
	return payload
}

// fetch performs the deduplicated upstream call. Returns nil on any failure;
// the caller substitutes the fallback shape.
func (s *Service) fetch(ctx context.Context, t catalog.ContentType, id int64) map[string]json.RawMessage {
	key := t.String() + "/" + strconv.FormatInt(id, 10)
	v, err, _ := s.group.Do(key, func() (any, error) {
		if t == catalog.Series {
			return s.client.SeriesInfo(ctx, id)
		}
		return s.client.VODInfo(ctx, id)
	})
	if err != nil || v == nil {
		logger := log.WithComponentFromContext(ctx, "detail")
		logger.Warn().
			Err(err).
			Str("event", "detail.upstream_failed").
			Str("type", t.String()).
			Int64("id", id).
			Msg("detail fetch failed, serving fallback")
		return nil
	}

	shared, ok := v.(map[string]json.RawMessage)
	if !ok || shared == nil {
		return nil
	}
	// Copy before merging: singleflight hands the same map to every waiter.
	payload := make(map[string]json.RawMessage, len(shared))
	for k, raw := range shared {
		payload[k] = raw
	}
	return payload
}

// fallback returns the minimal empty structure for a content type.
func fallback(t catalog.ContentType) map[string]json.RawMessage {
	empty := json.RawMessage(`{}`)
	if t == catalog.Series {
		return map[string]json.RawMessage{"info": empty, "episodes": empty}
	}
	return map[string]json.RawMessage{"info": empty, "movie_data": empty}
}
