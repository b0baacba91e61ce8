package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/okian/feedview/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestURL(t *testing.T) {
	Convey("Given original image urls", t, func() {
		Convey("Then the proxied form percent-encodes the original", func() {
			So(URL("https://cdn.example.com/a.jpg?x=1&y=2"), ShouldEqual,
				"/api/proxy-image?url=https%3A%2F%2Fcdn.example.com%2Fa.jpg%3Fx%3D1%26y%3D2")
		})

		Convey("Then spaces and unreserved marks follow encodeURIComponent", func() {
			So(URL("a b!'()*"), ShouldEqual, "/api/proxy-image?url=a%20b!'()*")
		})

		Convey("Then the query decodes back to the original", func() {
			orig := "https://scontent.cdninstagram.com/v/t51/123_n.jpg?stp=dst-jpg&_nc_ht=x y"
			u, err := url.Parse(URL(orig))
			So(err, ShouldBeNil)
			So(u.Path, ShouldEqual, Path)
			So(u.Query().Get("url"), ShouldEqual, orig)
		})
	})
}

func newUpstream(hits *int32, contentType string, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", contentType)
			_, _ = w.Write([]byte(body))
		}
	}))
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, URL(target), nil))
	return rec
}

func TestHandler(t *testing.T) {
	Convey("Given an upstream serving an image", t, func() {
		var hits int32
		upstream := newUpstream(&hits, "image/jpeg", "jpegbytes")
		defer upstream.Close()

		mem := cache.NewMemory(cache.WithMaxEntries(8))
		h := NewHandler(WithCache(mem), WithHTTPClient(upstream.Client()))

		Convey("When the image is requested twice", func() {
			first := get(h, upstream.URL+"/a.jpg")
			second := get(h, upstream.URL+"/a.jpg")

			Convey("Then the bytes and content type are relayed", func() {
				So(first.Code, ShouldEqual, http.StatusOK)
				So(first.Body.String(), ShouldEqual, "jpegbytes")
				So(first.Header().Get("Content-Type"), ShouldEqual, "image/jpeg")
				So(first.Header().Get("Cache-Control"), ShouldContainSubstring, "max-age")
				So(first.Header().Get("X-Cache"), ShouldEqual, "MISS")
			})

			Convey("Then the second response comes from the cache", func() {
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Header().Get("X-Cache"), ShouldEqual, "HIT")
				So(second.Body.String(), ShouldEqual, "jpegbytes")
				So(atomic.LoadInt32(&hits), ShouldEqual, 1)
				So(mem.Len(context.Background()), ShouldEqual, 1)
			})
		})

		Convey("When the upstream answers 404", func() {
			rec := get(h, upstream.URL+"/missing")

			Convey("Then the proxy answers 502 and caches nothing", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				So(rec.Body.String(), ShouldContainSubstring, "bad_gateway")
				So(mem.Len(context.Background()), ShouldEqual, 0)
			})
		})

		Convey("When the image exceeds the size cap", func() {
			small := NewHandler(WithHTTPClient(upstream.Client()), WithMaxBytes(4))
			rec := get(small, upstream.URL+"/a.jpg")

			Convey("Then the proxy refuses it", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				So(rec.Body.String(), ShouldContainSubstring, ErrTooLarge.Error())
			})
		})
	})

	Convey("Given an upstream serving html", t, func() {
		var hits int32
		upstream := newUpstream(&hits, "text/html", "<html></html>")
		defer upstream.Close()
		h := NewHandler(WithHTTPClient(upstream.Client()))

		Convey("Then the response is rejected as not an image", func() {
			rec := get(h, upstream.URL+"/page")
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
			So(rec.Body.String(), ShouldContainSubstring, ErrNotImage.Error())
		})
	})

	Convey("Given invalid proxy requests", t, func() {
		h := NewHandler(WithAllowedHosts([]string{"cdninstagram.com", " "}))

		Convey("Then a missing url is a bad request", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then non-http schemes are bad requests", func() {
			So(get(h, "file:///etc/passwd").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h, "/relative.jpg").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then hosts outside the allow-list are forbidden", func() {
			rec := get(h, "https://evil.example.com/a.jpg")
			So(rec.Code, ShouldEqual, http.StatusForbidden)
			So(strings.Contains(rec.Body.String(), "forbidden"), ShouldBeTrue)
		})

		Convey("Then subdomains of allowed hosts pass validation", func() {
			target, err := h.validate("https://scontent.cdninstagram.com/a.jpg")
			So(err, ShouldBeNil)
			So(target, ShouldEqual, "https://scontent.cdninstagram.com/a.jpg")
		})

		Convey("Then other methods are not allowed", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, URL("https://cdninstagram.com/a.jpg"), nil))
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(rec.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
			So(rec.Body.String(), ShouldContainSubstring, "method_not_allowed")
		})
	})

	Convey("Given the default client and an upstream on loopback", t, func() {
		var hits int32
		upstream := newUpstream(&hits, "image/png", "png")
		defer upstream.Close()
		h := NewHandler()

		Convey("When the image is requested", func() {
			rec := get(h, upstream.URL+"/a.png")

			Convey("Then the connection is refused before reaching the host", func() {
				So(rec.Code, ShouldEqual, http.StatusForbidden)
				So(rec.Body.String(), ShouldContainSubstring, ErrPrivateAddress.Error())
				So(atomic.LoadInt32(&hits), ShouldEqual, 0)
			})
		})
	})
}

func TestPublicOnly(t *testing.T) {
	Convey("Given resolved upstream addresses", t, func() {
		Convey("Then internal addresses are rejected", func() {
			for _, addr := range []string{
				"127.0.0.1:80",
				"10.1.2.3:443",
				"172.16.0.9:80",
				"192.168.1.1:80",
				"169.254.169.254:80",
				"100.64.0.1:80",
				"0.0.0.0:80",
				"[::1]:443",
				"[fe80::1]:443",
				"[fd00::1]:443",
				"[::ffff:127.0.0.1]:80",
				"not-an-address",
			} {
				err := publicOnly("tcp", addr, nil)
				So(errors.Is(err, ErrPrivateAddress), ShouldBeTrue)
			}
		})

		Convey("Then public addresses are allowed", func() {
			So(publicOnly("tcp", "93.184.216.34:443", nil), ShouldBeNil)
			So(publicOnly("tcp", "[2606:4700::1111]:443", nil), ShouldBeNil)
		})
	})
}
