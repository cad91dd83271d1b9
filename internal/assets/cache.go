package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	cacheTTL     = 30 * time.Minute
	cacheSweep   = 10 * time.Minute
	keyHashBytes = 16
)

// Cache memoizes decoded images keyed by a hash of their data URI.
// Rasterizing several export sizes of the same screen decodes each asset
// once; singleflight collapses concurrent decodes of the same URI.
type Cache struct {
	images *gocache.Cache
	group  singleflight.Group
}

// NewCache creates an asset cache
func NewCache() *Cache {
	return &Cache{
		images: gocache.New(cacheTTL, cacheSweep),
	}
}

// Image returns the decoded image for a data URI, decoding on first use
func (c *Cache) Image(uri string) (image.Image, error) {
	key := hashKey(uri)

	if cached, ok := c.images.Get(key); ok {
		return cached.(image.Image), nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if cached, ok := c.images.Get(key); ok {
			return cached.(image.Image), nil
		}

		img, err := DecodeImage(uri)
		if err != nil {
			return nil, err
		}

		c.images.Set(key, img, gocache.DefaultExpiration)
		return img, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(image.Image), nil
}

func hashKey(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(sum[:keyHashBytes])
}
