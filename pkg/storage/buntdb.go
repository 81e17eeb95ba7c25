// Package storage keeps rendered dashboard pages in an in-memory BuntDB
// so slider moves do not refit the forest on every request.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/tidwall/buntdb"
)

// PageCache stores built pages with a per-entry time to live
type PageCache struct {
	db  *buntdb.DB
	ttl time.Duration
}

// NewPageCache opens an in-memory cache. A zero ttl keeps entries until Close.
func NewPageCache(ttl time.Duration) (*PageCache, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	return &PageCache{db: db, ttl: ttl}, nil
}

// Key identifies a page by mode and slider value
func Key(mode core.Mode, topN int) string {
	return fmt.Sprintf("page:%s:%d", mode, topN)
}

// Get returns the cached page for key, reporting whether it was found
func (c *PageCache) Get(key string) (*dashboard.Page, bool, error) {
	var content string
	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		content, err = tx.Get(key)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read page %s: %w", key, err)
	}

	page := &dashboard.Page{}
	if err := json.Unmarshal([]byte(content), page); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal page %s: %w", key, err)
	}
	return page, true, nil
}

// Set stores the page under key
func (c *PageCache) Set(key string, page *dashboard.Page) error {
	content, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	var opts *buntdb.SetOptions
	if c.ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: c.ttl}
	}

	return c.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(key, string(content), opts); err != nil {
			return fmt.Errorf("failed to store page %s: %w", key, err)
		}
		return nil
	})
}

// Len returns the number of live entries
func (c *PageCache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	return n, err
}

// Close releases the database
func (c *PageCache) Close() error {
	return c.db.Close()
}
