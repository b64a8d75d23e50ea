package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService backs CacheService with a memcached client shared by the
// deal sources
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects to the memcached server at addr
func NewMemcacheService(addr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(addr),
	}
}

// Get returns the cached value for key, or the client's miss error
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores value under key until the TTL expires
func (m *MemcacheService) Set(key string, value []byte, ttl time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl.Seconds()),
	})
}

// Delete evicts key from the cache
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
