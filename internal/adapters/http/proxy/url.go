// Package proxy serves remote images through the service so the viewer can
// display CDN images that refuse cross-origin embedding.
package proxy

import (
	"net/url"
	"strings"
)

// Path is where the proxy handler is mounted.
const Path = "/api/proxy-image"

// componentUnescapes restores the characters encodeURIComponent leaves as-is
// but url.QueryEscape escapes.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// URL rewrites an original image URL into its proxied form,
// /api/proxy-image?url=<percent-encoded original>.
func URL(original string) string {
	return Path + "?url=" + componentUnescapes.Replace(url.QueryEscape(original))
}
