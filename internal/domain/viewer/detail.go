package viewer

import (
	"sync"
	"time"

	"github.com/okian/feedview/internal/domain/model"
)

// DefaultCopyAck is how long a copied image URL stays acknowledged.
const DefaultCopyAck = 2 * time.Second

// Images returns the image sequence shown in the detail view. Posts without
// an images list fall back to their display image.
func Images(p model.Post) []string {
	if len(p.Images) > 0 {
		return p.Images
	}
	return []string{p.DisplayURL}
}

// Detail is the position inside a post's image sequence. Rank is the post's
// 1-based position in the displayed ordering it was opened from, 0 when it
// is not displayed.
type Detail struct {
	Index int
	Count int
	Rank  int
}

// OpenDetail starts at the given image, clamped into range.
func OpenDetail(p model.Post, index int) Detail {
	d := Detail{Count: len(Images(p))}
	if index > 0 && index < d.Count {
		d.Index = index
	}
	return d
}

// Next moves forward, wrapping to the first image.
func (d Detail) Next() Detail {
	if d.Count > 0 {
		d.Index = (d.Index + 1) % d.Count
	}
	return d
}

// Prev moves backward, wrapping to the last image.
func (d Detail) Prev() Detail {
	if d.Count > 0 {
		d.Index = (d.Index - 1 + d.Count) % d.Count
	}
	return d
}

// Clipboard remembers the last copied image URL for a short acknowledgment
// window. Only one URL is acknowledged at a time.
type Clipboard struct {
	mu       sync.Mutex
	ack      time.Duration
	url      string
	copiedAt time.Time
}

// NewClipboard builds a Clipboard; non-positive ack uses DefaultCopyAck.
func NewClipboard(ack time.Duration) *Clipboard {
	if ack <= 0 {
		ack = DefaultCopyAck
	}
	return &Clipboard{ack: ack}
}

// Copy records url as copied at now and returns when the ack expires.
func (c *Clipboard) Copy(url string, now time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = url
	c.copiedAt = now
	return now.Add(c.ack)
}

// Copied reports whether url is still acknowledged at now.
func (c *Clipboard) Copied(url string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url == "" || c.url != url {
		return false
	}
	return now.Before(c.copiedAt.Add(c.ack))
}
