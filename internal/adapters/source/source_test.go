package source_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/okian/feedview/internal/adapters/source"
	"github.com/okian/feedview/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

const postsJSON = `[{"id":"1","type":"Image","caption":"hi","url":"https://ig/p/1","likesCount":5,"commentsCount":2,"images":["a.jpg"],"displayUrl":"a.jpg","ownerUsername":"me","ownerId":"9"}]`

func TestNew(t *testing.T) {
	Convey("Given source locations", t, func() {
		fake := &fakeS3{}

		Convey("Then plain paths become file sources", func() {
			src, err := source.New("data/posts.json")
			So(err, ShouldBeNil)
			So(src, ShouldHaveSameTypeAs, source.File{})
		})

		Convey("And file URLs become file sources", func() {
			src, err := source.New("file:///tmp/posts.json")
			So(err, ShouldBeNil)
			So(src.String(), ShouldEqual, "/tmp/posts.json")
		})

		Convey("And http URLs become http sources", func() {
			src, err := source.New("https://example.com/posts.json")
			So(err, ShouldBeNil)
			So(src, ShouldHaveSameTypeAs, source.HTTP{})
		})

		Convey("And s3 URLs need a client, bucket and key", func() {
			_, err := source.New("s3://bucket/key.json")
			So(errors.Is(err, source.ErrUnsupportedSource), ShouldBeTrue)

			_, err = source.New("s3://bucket/", source.WithS3(fake))
			So(errors.Is(err, source.ErrUnsupportedSource), ShouldBeTrue)

			src, err := source.New("s3://bucket/dir/key.json", source.WithS3(fake))
			So(err, ShouldBeNil)
			So(src.String(), ShouldEqual, "s3://bucket/dir/key.json")
		})

		Convey("And unknown schemes and blanks are rejected", func() {
			_, err := source.New("ftp://example.com/x")
			So(errors.Is(err, source.ErrUnsupportedSource), ShouldBeTrue)
			_, err = source.New("  ")
			So(errors.Is(err, source.ErrUnsupportedSource), ShouldBeTrue)
		})
	})
}

func TestFetchJSON(t *testing.T) {
	ctx := context.Background()

	Convey("Given a posts file", t, func() {
		path := filepath.Join(t.TempDir(), "posts.json")
		So(os.WriteFile(path, []byte(postsJSON), 0o600), ShouldBeNil)

		Convey("When fetched", func() {
			posts, err := source.FetchJSON[model.Post](ctx, source.File{Path: path})

			Convey("Then the schema decodes", func() {
				So(err, ShouldBeNil)
				So(len(posts), ShouldEqual, 1)
				So(posts[0].LikesCount, ShouldEqual, 5)
				So(posts[0].CommentsCount, ShouldEqual, 2)
				So(posts[0].DisplayURL, ShouldEqual, "a.jpg")
				So(posts[0].OwnerUsername, ShouldEqual, "me")
			})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := source.FetchJSON[model.Post](ctx, source.File{Path: "/does/not/exist.json"})
		So(err, ShouldNotBeNil)
	})

	Convey("Given an http server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/posts.json":
				_, _ = w.Write([]byte(postsJSON))
			case "/broken.json":
				_, _ = w.Write([]byte(`[{"id":`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		Convey("Then a good response decodes", func() {
			posts, err := source.FetchJSON[model.Post](ctx, source.HTTP{URL: srv.URL + "/posts.json", Client: srv.Client()})
			So(err, ShouldBeNil)
			So(posts[0].ID, ShouldEqual, "1")
		})

		Convey("And a non-2xx response is an upstream status error", func() {
			_, err := source.FetchJSON[model.Post](ctx, source.HTTP{URL: srv.URL + "/missing.json"})
			So(errors.Is(err, source.ErrUpstreamStatus), ShouldBeTrue)
		})

		Convey("And malformed JSON is a decode error", func() {
			_, err := source.FetchJSON[model.Post](ctx, source.HTTP{URL: srv.URL + "/broken.json"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "decoding")
		})
	})

	Convey("Given an s3 object", t, func() {
		fake := &fakeS3{body: `[{"id":"c1","title":"t","metadata":{"location":"Paris"}}]`}
		src, err := source.New("s3://media/creations.json", source.WithS3(fake))
		So(err, ShouldBeNil)

		Convey("Then it reads the right bucket and key", func() {
			creations, err := source.FetchJSON[model.Creation](ctx, src)
			So(err, ShouldBeNil)
			So(fake.bucket, ShouldEqual, "media")
			So(fake.key, ShouldEqual, "creations.json")
			So(creations[0].Metadata["location"], ShouldEqual, "Paris")
		})

		Convey("And client errors surface", func() {
			fake.err = errors.New("access denied")
			_, err := source.FetchJSON[model.Creation](ctx, src)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "access denied")
		})
	})

	Convey("Given S3 client configuration", t, func() {
		So(source.NewS3Client(source.S3Config{Region: "us-east-1"}), ShouldNotBeNil)
		So(source.NewS3Client(source.S3Config{
			Region: "auto", Endpoint: "https://r2.example.com",
			AccessKeyID: "id", SecretAccessKey: "secret", UsePathStyle: true,
		}), ShouldNotBeNil)
	})
}
