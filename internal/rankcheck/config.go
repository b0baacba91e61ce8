// Package rankcheck scores a posts collection locally, prints the ranking and
// optionally checks a running viewer service against it.
package rankcheck

import (
	"io"
	"time"
)

// Config holds configuration for a rankcheck run.
type Config struct {
	Source   string        // Posts collection location: path, http(s) URL or s3://bucket/key
	Order    string        // Ordering to print, or "all"
	Top      int           // Rows to print per ordering; 0 prints everything
	BaseURL  string        // Running service to verify; empty skips verification
	Timeout  time.Duration // HTTP request timeout
	Generate int           // Write a synthetic collection of this many posts to Source first
	Verbose  bool          // Print score statistics
	Out      io.Writer     // Ranking table destination
}

// OrderAll selects every ordering.
const OrderAll = "all"

// Stats holds run statistics.
type Stats struct {
	Posts         int
	OrdersChecked int
	Mismatches    int
	StartTime     time.Time
	Duration      time.Duration
}
