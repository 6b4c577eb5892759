package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ReadCache memoizes read-only remote API responses. Implementations are
// best-effort: a broken store must degrade to misses, never fail a request.
// Write operations are never routed through this cache.
type ReadCache interface {
	// Get returns the cached payload for fp, and whether it was present and
	// unexpired.
	Get(ctx context.Context, fp string) ([]byte, bool)
	// Set stores payload under fp for ttl.
	Set(ctx context.Context, fp string, payload []byte, ttl time.Duration)
	// Invalidate evicts fp. No write currently calls this; it exists so a
	// future write path can evict reference data it touched.
	Invalidate(ctx context.Context, fp string)
}

// Fingerprint derives a deterministic cache key from the shape of a read
// request. Parameters are sorted by key so equivalent requests collide, and
// the tenant identity is always part of the hash: the store is shared across
// tenants and the fingerprint is the only isolation boundary.
func Fingerprint(tenant, method, path string, params url.Values) string {
	parts := []string{tenant, method, path}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, k+"="+v)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:])
}
