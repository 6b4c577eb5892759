package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/accounting"
	"github.com/bookkeep/backend/internal/infrastructure/cache"
)

// fetchPage retrieves one page of a listing endpoint, always going to the
// remote. The returned total is the envelope's reported record count, or -1
// when it reports none.
func (c *Client) fetchPage(ctx context.Context, path string, skip, take int, extra url.Values) ([]map[string]any, int, error) {
	if take <= 0 {
		take = c.cfg.PageSize
	}
	if skip < 0 {
		skip = 0
	}

	params := url.Values{}
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("pageSize", strconv.Itoa(take))

	payload, err := c.doRead(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, 0, err
	}
	return decodeEnvelope(payload, path)
}

// fetchAllPages walks a listing endpoint to exhaustion. Termination uses
// the reported total when one is available; otherwise a short page signals
// the end. A remote reporting inconsistent totals still terminates because
// an empty page always stops the walk.
func fetchAllPages[T any](ctx context.Context, c *Client, path string, extra url.Values, decode func(map[string]any) T) ([]T, error) {
	items, err := c.fetchAllRaw(ctx, path, extra)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, decode(item))
	}
	return out, nil
}

// fetchAllRaw assembles the complete record set behind a listing endpoint.
// Only the assembled whole is memoized; individual pages never touch the
// cache, since pages captured at different instants could stitch into a
// dataset no single point in time ever held. The cache is best-effort and
// a broken store degrades to a fresh walk.
func (c *Client) fetchAllRaw(ctx context.Context, path string, extra url.Values) ([]map[string]any, error) {
	var fp string
	if c.cache != nil {
		fp = cache.Fingerprint(c.tenantID.String(), http.MethodGet, path+":all", extra)
		if payload, ok := c.cache.Get(ctx, fp); ok {
			var items []map[string]any
			if err := json.Unmarshal(payload, &items); err == nil {
				c.logger.Debug("read cache hit", zap.String("path", path))
				return items, nil
			}
		}
	}

	items := []map[string]any{}
	skip := 0
	for {
		page, total, err := c.fetchPage(ctx, path, skip, c.cfg.PageSize, extra)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		skip += len(page)

		if len(page) == 0 || len(page) < c.cfg.PageSize {
			break
		}
		if total >= 0 && skip >= total {
			break
		}
	}

	if c.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			c.cache.Set(ctx, fp, payload, c.cfg.CacheTTL)
		}
	}
	return items, nil
}

// page wraps one fetched page in the shared page shape, substituting an
// estimated total when the envelope does not report one
func page[T any](items []map[string]any, total, skip, take int, decode func(map[string]any) T) accounting.Page[T] {
	decoded := make([]T, 0, len(items))
	for _, item := range items {
		decoded = append(decoded, decode(item))
	}
	if total < 0 {
		total = skip + len(decoded)
	}
	return accounting.Page[T]{Items: decoded, Total: total, Skip: skip, Take: take}
}
