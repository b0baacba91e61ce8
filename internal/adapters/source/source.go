// Package source fetches the raw JSON collections the viewer displays. A
// source is a local file, an http(s) URL or an s3://bucket/key object.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Source opens a collection's raw bytes.
type Source interface {
	// Open returns a reader over the collection. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
	// String identifies the source in logs.
	String() string
}

// Options carry the clients sources need.
type Options struct {
	HTTPClient *http.Client
	S3         ObjectGetter
}

// Option applies a configuration option to Options.
type Option func(*Options)

// WithHTTPClient sets the client used by http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		if c != nil {
			o.HTTPClient = c
		}
	}
}

// WithS3 sets the client used by s3 sources.
func WithS3(g ObjectGetter) Option {
	return func(o *Options) {
		if g != nil {
			o.S3 = g
		}
	}
}

// New picks a Source implementation from location.
func New(location string, opts ...Option) (Source, error) {
	o := Options{HTTPClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnsupportedSource)
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return File{Path: location}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return File{Path: u.Path}, nil
	case "http", "https":
		return HTTP{URL: location, Client: o.HTTPClient}, nil
	case "s3":
		if o.S3 == nil {
			return nil, fmt.Errorf("%w: no s3 client configured for %s", ErrUnsupportedSource, location)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: s3 location needs bucket and key: %s", ErrUnsupportedSource, location)
		}
		return S3{Bucket: u.Host, Key: key, Client: o.S3}, nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
}

// File reads a collection from the local filesystem.
type File struct {
	Path string
}

// Open implements Source.
func (f File) Open(_ context.Context) (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return fh, nil
}

func (f File) String() string { return f.Path }

// HTTP fetches a collection with a GET request.
type HTTP struct {
	URL    string
	Client *http.Client
}

// Open implements Source.
func (h HTTP) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", h.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", h.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, h.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

func (h HTTP) String() string { return h.URL }
