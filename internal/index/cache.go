package index

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/sirupsen/logrus"

	"anipet/internal"
	"anipet/internal/util"
)

// CacheKey is the single named entry the persistence store holds.
const CacheKey = "anipet:search-index"

// DefaultTTL is the reference staleness bound for a persisted index.
const DefaultTTL = 24 * time.Hour

// Store is the durable key-value backing for the persisted index. Any
// implementation failure on read must surface as a miss, never a crash.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// CacheEntry wraps a serialized index with the two facts staleness is judged
// by: when it was built and which dataset it was built from.
type CacheEntry struct {
	Payload            *SearchIndex `json:"payload"`
	BuiltAtEpoch       int64        `json:"builtAtEpoch"`
	DatasetFingerprint string       `json:"datasetFingerprint"`
}

// Stale is the single staleness check: TTL expiry and dataset mismatch are
// one code path.
func (e CacheEntry) Stale(now time.Time, fingerprint string, ttl time.Duration) bool {
	if e.Payload == nil || e.Payload.Tokens == nil || e.Payload.Facets == nil {
		return true
	}
	if e.DatasetFingerprint != fingerprint {
		return true
	}
	builtAt := time.Unix(e.BuiltAtEpoch, 0)
	return now.Sub(builtAt) > ttl
}

// Fingerprint derives the identity of a loaded catalog from its size and the
// natural-identity pair of every record.
func Fingerprint(records []internal.ProductRecord) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "n=%d;", len(records))
	for _, p := range records {
		fmt.Fprintf(h, "%s|%s;", util.NormalizeCode(p.SKU), util.NormalizeCode(p.Barcode))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Serialize encodes a cache entry for the persistence store.
func Serialize(idx *SearchIndex, builtAt time.Time, fingerprint string) ([]byte, error) {
	return json.Marshal(CacheEntry{
		Payload:            idx,
		BuiltAtEpoch:       builtAt.Unix(),
		DatasetFingerprint: fingerprint,
	})
}

// Deserialize decodes a cache entry. A decode failure is reported as an
// error; callers treat it as a cache miss.
func Deserialize(raw []byte) (CacheEntry, error) {
	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return CacheEntry{}, fmt.Errorf("decode cached index: %w", err)
	}
	return entry, nil
}

// BuildOrLoad restores a compatible cached index or builds a fresh one. The
// returned bool reports whether the cache served it. A failed cache write is
// non-fatal: the in-memory index stays usable for the session.
func BuildOrLoad(records []internal.ProductRecord, store Store, ttl time.Duration, onProgress func(internal.Progress)) (*SearchIndex, bool) {
	fingerprint := Fingerprint(records)
	log := logrus.WithField("component", "index")

	if store != nil {
		raw, found, err := store.Get(CacheKey)
		if err != nil {
			log.WithError(err).Warn("index cache read failed, rebuilding")
		} else if found {
			entry, err := Deserialize(raw)
			if err != nil {
				log.WithError(err).Warn("corrupt cached index, rebuilding")
			} else if !entry.Stale(time.Now(), fingerprint, ttl) {
				log.Info("search index restored from cache")
				return entry.Payload, true
			}
		}
	}

	idx := Build(records, onProgress)

	if store != nil {
		raw, err := Serialize(idx, time.Now(), fingerprint)
		if err == nil {
			err = store.Put(CacheKey, raw)
		}
		if err != nil {
			log.WithError(err).Warn("index cache write failed, continuing with in-memory index")
		}
	}

	return idx, false
}
