package offline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/logging"
)

const (
	responseKeyPrefix = "response:"
	// KeywordKey holds the last search keyword.
	KeywordKey = "keyword:previous"
)

// Cache stores raw catalog responses by request path plus the last search
// keyword. The last write for a key always wins.
type Cache struct {
	store Store
	log   logrus.FieldLogger
}

// New wraps store. A nil logger discards output.
func New(store Store, log logrus.FieldLogger) *Cache {
	return &Cache{store: store, log: logging.OrDiscard(log)}
}

// ResponseKey is the store key for a request path.
func ResponseKey(path string) string {
	return responseKeyPrefix + path
}

// SaveResponse records the raw payload fetched from path.
func (c *Cache) SaveResponse(ctx context.Context, path string, data []byte) error {
	if err := c.store.Save(ctx, ResponseKey(path), data); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	c.log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Debug("cached response")
	return nil
}

// LoadResponse returns the last payload saved for path. ok is false when
// nothing has been saved.
func (c *Cache) LoadResponse(ctx context.Context, path string) (data []byte, ok bool, err error) {
	data, err = c.store.Load(ctx, ResponseKey(path))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load response: %w", err)
	}
	return data, true, nil
}

// SaveLastKeyword records the search text. An empty keyword clears the slot.
func (c *Cache) SaveLastKeyword(ctx context.Context, keyword string) error {
	if keyword == "" {
		if err := c.store.Delete(ctx, KeywordKey); err != nil {
			return fmt.Errorf("clear keyword: %w", err)
		}
		return nil
	}
	if err := c.store.Save(ctx, KeywordKey, []byte(keyword)); err != nil {
		return fmt.Errorf("save keyword: %w", err)
	}
	return nil
}

// LoadLastKeyword returns the last saved keyword.
func (c *Cache) LoadLastKeyword(ctx context.Context) (keyword string, ok bool, err error) {
	data, err := c.store.Load(ctx, KeywordKey)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load keyword: %w", err)
	}
	return string(data), true, nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
