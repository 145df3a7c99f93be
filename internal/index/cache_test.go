package index

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anipet/internal"
)

type memStore struct {
	data    map[string][]byte
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Put(key string, value []byte) error {
	if s.failPut {
		return errors.New("quota exceeded")
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func TestCacheRoundTrip(t *testing.T) {
	records := sampleRecords()
	fresh := Build(records, nil)

	raw, err := Serialize(fresh, time.Now(), Fingerprint(records))
	require.NoError(t, err)

	entry, err := Deserialize(raw)
	require.NoError(t, err)
	assert.False(t, entry.Stale(time.Now(), Fingerprint(records), DefaultTTL))
	assert.Equal(t, fresh, entry.Payload)
}

func TestStaleByTTL(t *testing.T) {
	records := sampleRecords()
	idx := Build(records, nil)
	fp := Fingerprint(records)

	built := time.Now().Add(-25 * time.Hour)
	raw, err := Serialize(idx, built, fp)
	require.NoError(t, err)
	entry, err := Deserialize(raw)
	require.NoError(t, err)

	assert.True(t, entry.Stale(time.Now(), fp, DefaultTTL))
}

func TestStaleByFingerprint(t *testing.T) {
	records := sampleRecords()
	idx := Build(records, nil)

	raw, err := Serialize(idx, time.Now(), Fingerprint(records))
	require.NoError(t, err)
	entry, err := Deserialize(raw)
	require.NoError(t, err)

	changed := append([]internal.ProductRecord{}, records...)
	changed = append(changed, internal.ProductRecord{ID: 3, SKU: "9999"})
	assert.True(t, entry.Stale(time.Now(), Fingerprint(changed), DefaultTTL))
}

func TestCorruptPayloadIsMiss(t *testing.T) {
	_, err := Deserialize([]byte("{not json"))
	assert.Error(t, err)

	var empty CacheEntry
	assert.True(t, empty.Stale(time.Now(), "anything", DefaultTTL))
}

func TestBuildOrLoadUsesCache(t *testing.T) {
	records := sampleRecords()
	store := newMemStore()

	first, fromCache := BuildOrLoad(records, store, DefaultTTL, nil)
	assert.False(t, fromCache)
	require.NotNil(t, first)

	second, fromCache := BuildOrLoad(records, store, DefaultTTL, nil)
	assert.True(t, fromCache)
	assert.Equal(t, first, second)
}

func TestBuildOrLoadCorruptCacheRebuilds(t *testing.T) {
	records := sampleRecords()
	store := newMemStore()
	store.data[CacheKey] = []byte("garbage")

	idx, fromCache := BuildOrLoad(records, store, DefaultTTL, nil)
	assert.False(t, fromCache)
	assert.NotNil(t, idx)
}

func TestBuildOrLoadWriteFailureNonFatal(t *testing.T) {
	records := sampleRecords()
	store := newMemStore()
	store.failPut = true

	idx, fromCache := BuildOrLoad(records, store, DefaultTTL, nil)
	assert.False(t, fromCache)
	require.NotNil(t, idx)
	assert.Equal(t, 3, idx.DocCount)
}
