package rankcheck

import "os"

// ShowHelp prints usage information for the rankcheck tool.
func ShowHelp() {
	os.Stdout.WriteString(`Feed Viewer Rank Check
======================

Scores a posts collection with the engagement algorithm, prints the ranking
and optionally verifies that a running service ranks it identically.

Usage:
  go run ./cmd/rankcheck [options]

Options:
  -source string
        Posts collection: file path or http(s) URL (default "data/instagram_data.json")
  -order string
        algorithm, likes, comments, engagement, original or all (default "algorithm")
  -top int
        Rows to print per ordering, 0 for all (default 20)
  -url string
        Base URL of a running service to verify (default: no verification)
  -timeout duration
        HTTP request timeout (default 10s)
  -generate int
        Write this many synthetic posts to -source before scoring
  -verbose
        Print score statistics
  -help
        Show this help message

Examples:
  # Print the top 20 posts by algorithm score
  go run ./cmd/rankcheck -source data/instagram_data.json

  # Verify every ordering of a running service
  go run ./cmd/rankcheck -order all -url http://localhost:9080

  # Generate a 500 post collection and rank it
  go run ./cmd/rankcheck -generate 500 -source /tmp/posts.json -order all -top 5
`)
}
