package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/feedview/internal/adapters/cache"
	"github.com/okian/feedview/pkg/logger"
	"github.com/okian/feedview/pkg/metrics"
)

// Default proxy configuration constants.
const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 20 << 20
	cacheControl    = "public, max-age=86400"
	userAgent       = "feedview-image-proxy/1.0"
)

// Handler fetches the image named by the url query parameter and relays it.
type Handler struct {
	client   *http.Client
	cache    cache.Cache
	allowed  map[string]bool
	maxBytes int64
	timeout  time.Duration
	logger   logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithHTTPClient sets the upstream client. The default client refuses to
// dial loopback, private and link-local addresses; a custom client does not.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Handler) {
		if c != nil {
			h.client = c
		}
	}
}

// WithCache enables response caching.
func WithCache(c cache.Cache) Option {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithAllowedHosts restricts upstream hosts. Subdomains of a listed host are
// allowed too. An empty list allows every host.
func WithAllowedHosts(hosts []string) Option {
	return func(h *Handler) {
		for _, host := range hosts {
			host = strings.ToLower(strings.TrimSpace(host))
			if host != "" {
				h.allowed[host] = true
			}
		}
	}
}

// WithMaxBytes caps the relayed body size.
func WithMaxBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithTimeout bounds each upstream fetch.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a proxy handler.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		client:   newPublicClient(),
		allowed:  make(map[string]bool),
		maxBytes: defaultMaxBytes,
		timeout:  defaultTimeout,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP handles GET /api/proxy-image?url=...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		metrics.RecordProxyRequest("method_not_allowed")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", fmt.Errorf("%w: %s", ErrMethod, r.Method))
		return
	}
	ctx := r.Context()

	target, err := h.validate(r.URL.Query().Get("url"))
	if err != nil {
		status := http.StatusBadRequest
		code := "bad_request"
		if errors.Is(err, ErrHostNotAllowed) {
			status = http.StatusForbidden
			code = "forbidden"
		}
		metrics.RecordProxyRequest(code)
		writeError(w, status, code, err)
		return
	}

	key := cache.Key(target)
	if e, ok := h.lookup(ctx, key); ok {
		metrics.RecordProxyRequest("hit")
		h.write(w, r, e, "HIT")
		return
	}

	e, err := h.fetch(ctx, target)
	if err != nil {
		h.logger.Warn(ctx, "image proxy fetch failed", logger.String("url", target), logger.Error(err))
		if errors.Is(err, ErrPrivateAddress) {
			metrics.RecordProxyRequest("forbidden")
			writeError(w, http.StatusForbidden, "forbidden", err)
			return
		}
		metrics.RecordProxyRequest("upstream_error")
		writeError(w, http.StatusBadGateway, "bad_gateway", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, e); err != nil {
			h.logger.Warn(ctx, "image proxy cache store failed", logger.Error(err))
		}
	}
	metrics.RecordProxyRequest("ok")
	h.write(w, r, e, "MISS")
}

func (h *Handler) validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing url parameter", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidURL, raw)
	}
	if !h.hostAllowed(u.Hostname()) {
		return "", fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}
	return u.String(), nil
}

func (h *Handler) hostAllowed(host string) bool {
	if len(h.allowed) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for allowed := range h.allowed {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (h *Handler) lookup(ctx context.Context, key string) (cache.Entry, bool) {
	if h.cache == nil {
		return cache.Entry{}, false
	}
	e, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn(ctx, "image proxy cache lookup failed", logger.Error(err))
		return cache.Entry{}, false
	}
	if ok {
		metrics.RecordProxyCacheLookup("hit")
	} else {
		metrics.RecordProxyCacheLookup("miss")
	}
	return e, ok
}

func (h *Handler) fetch(ctx context.Context, target string) (cache.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return cache.Entry{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return cache.Entry{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordProxyUpstreamLatency(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		return cache.Entry{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return cache.Entry{}, fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return cache.Entry{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if int64(len(body)) > h.maxBytes {
		return cache.Entry{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, h.maxBytes)
	}
	return cache.Entry{ContentType: contentType, Body: body}, nil
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, e cache.Entry, cacheStatus string) {
	w.Header().Set("Content-Type", e.ContentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("Content-Length", fmt.Sprint(len(e.Body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	n, _ := w.Write(e.Body)
	metrics.AddProxyBytes(n)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: err.Error()})
}
