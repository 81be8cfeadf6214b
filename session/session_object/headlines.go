package session_object

import "github.com/mohammad-safakhou/khobor/models"

// HeadlineCache is an immutable, ordered snapshot of the last listing shown to
// a user. Positions always run 1..Len in order.
type HeadlineCache struct {
	items []models.Headline
}

// NewHeadlineCache copies headlines and renumbers their positions from 1.
func NewHeadlineCache(headlines []models.Headline) *HeadlineCache {
	items := make([]models.Headline, len(headlines))
	copy(items, headlines)
	for i := range items {
		items[i].Position = i + 1
	}
	return &HeadlineCache{items: items}
}

// Len is 0 for a nil cache.
func (c *HeadlineCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Get returns the headline at 1-based position pos.
func (c *HeadlineCache) Get(pos int) (models.Headline, error) {
	if pos < 1 || pos > c.Len() {
		return models.Headline{}, &models.RangeError{Index: pos, Size: c.Len()}
	}
	return c.items[pos-1], nil
}

// All returns a copy of the cached headlines.
func (c *HeadlineCache) All() []models.Headline {
	out := make([]models.Headline, c.Len())
	if c != nil {
		copy(out, c.items)
	}
	return out
}
