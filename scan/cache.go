package scan

import (
	"github.com/dgraph-io/ristretto"

	"dosesum/dose"
)

// MetadataCache memoizes decoded object headers by path. Classification and
// record extraction both read headers for the same files, so the second
// pass is usually served from memory. Misses just fall through to a decode;
// ristretto admission is best-effort by design.
type MetadataCache struct {
	cache *ristretto.Cache
}

func NewMetadataCache() (*MetadataCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 14,
		MaxCost:     1 << 12,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MetadataCache{cache: cache}, nil
}

func (mc *MetadataCache) Get(path string) (*dose.Header, bool) {
	value, ok := mc.cache.Get(path)
	if !ok {
		return nil, false
	}
	header, ok := value.(*dose.Header)
	return header, ok
}

func (mc *MetadataCache) Put(path string, header *dose.Header) {
	mc.cache.Set(path, header, 1)
}
