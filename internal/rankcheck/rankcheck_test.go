package rankcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/okian/feedview/internal/adapters/http/api"
	"github.com/okian/feedview/internal/adapters/source"
	service "github.com/okian/feedview/internal/app"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/types"
	"github.com/okian/feedview/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWith(&bytes.Buffer{}, logger.FormatText); err != nil {
		panic(err)
	}
}

// newService serves the viewer API over the posts file at path.
func newService(path string) *httptest.Server {
	svc := service.New(
		service.WithPostsSource(source.File{Path: path}),
		service.WithCreationsSource(source.File{Path: path}),
	)
	svc.Load(context.Background())
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestGeneratePosts(t *testing.T) {
	Convey("Given a generated collection", t, func() {
		posts := GeneratePosts(200, "owner")

		Convey("Then every post is well formed", func() {
			So(len(posts), ShouldEqual, 200)
			seen := make(map[string]bool)
			for _, p := range posts {
				So(seen[p.ID], ShouldBeFalse)
				seen[p.ID] = true
				So(p.LikesCount, ShouldBeGreaterThanOrEqualTo, 0)
				So(p.CommentsCount, ShouldBeGreaterThanOrEqualTo, 0)
				So(len(p.Images), ShouldBeLessThanOrEqualTo, maxImages)
				So(p.DisplayURL, ShouldNotBeEmpty)
				So(p.OwnerUsername, ShouldEqual, "owner")
			}
		})

		Convey("Then it round-trips through a file", func() {
			path := filepath.Join(t.TempDir(), "nested", "posts.json")
			So(SavePosts(context.Background(), path, posts), ShouldBeNil)

			scored, err := scoreSource(context.Background(), path)
			So(err, ShouldBeNil)
			So(len(scored), ShouldEqual, 200)
		})
	})
}

func TestSelectOrders(t *testing.T) {
	Convey("Given order flags", t, func() {
		all, err := selectOrders(OrderAll)
		So(err, ShouldBeNil)
		So(len(all), ShouldEqual, 5)

		one, err := selectOrders("comments")
		So(err, ShouldBeNil)
		So(one, ShouldResemble, []model.SortOrder{model.OrderComments})

		_, err = selectOrders("newest")
		So(errors.Is(err, ranking.ErrUnknownSortOrder), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a generated collection and a service over it", t, func() {
		path := filepath.Join(t.TempDir(), "posts.json")
		var out bytes.Buffer
		ctx := context.Background()

		stats, err := Run(ctx, &Config{Source: path, Order: OrderAll, Top: 3, Generate: 40, Out: &out})
		So(err, ShouldBeNil)
		So(stats.Posts, ShouldEqual, 40)

		Convey("Then every ordering is printed", func() {
			for _, o := range []string{"algorithm", "likes", "comments", "engagement", "original"} {
				So(out.String(), ShouldContainSubstring, o+" (top 3 of 40)")
			}
		})

		Convey("When verifying against the running service", func() {
			srv := newService(path)
			defer srv.Close()
			out.Reset()

			stats, err := Run(ctx, &Config{Source: path, Order: OrderAll, BaseURL: srv.URL, Timeout: 5 * time.Second, Out: &out, Verbose: true})

			Convey("Then every ordering matches", func() {
				So(err, ShouldBeNil)
				So(stats.OrdersChecked, ShouldEqual, 5)
				So(stats.Mismatches, ShouldEqual, 0)
				So(out.String(), ShouldContainSubstring, "matches the local ranking for 5 orderings")
				So(out.String(), ShouldContainSubstring, "score statistics")
			})
		})
	})

	Convey("Given an empty collection", t, func() {
		path := filepath.Join(t.TempDir(), "posts.json")
		So(os.WriteFile(path, []byte("[]"), 0o600), ShouldBeNil)

		Convey("Then scoring is refused explicitly", func() {
			_, err := Run(context.Background(), &Config{Source: path, Order: "algorithm", Out: &bytes.Buffer{}})
			So(errors.Is(err, ranking.ErrEmptyCollection), ShouldBeTrue)
		})
	})
}

func TestVerifyMismatch(t *testing.T) {
	Convey("Given a service that reverses the ranking", t, func() {
		path := filepath.Join(t.TempDir(), "posts.json")
		So(SavePosts(context.Background(), path, GeneratePosts(10, "owner")), ShouldBeNil)
		scored, err := scoreSource(context.Background(), path)
		So(err, ShouldBeNil)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				return
			}
			sorted := ranking.SortPosts(scored, model.OrderAlgorithm)
			slices.Reverse(sorted)
			resp := types.PostsResponse{Order: model.OrderAlgorithm}
			for i, p := range sorted {
				resp.Posts = append(resp.Posts, types.NewPostView(i+1, p, ""))
			}
			_ = json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		Convey("Then the run reports a mismatch", func() {
			stats, err := Run(context.Background(), &Config{Source: path, Order: "algorithm", BaseURL: srv.URL, Timeout: time.Second, Out: &bytes.Buffer{}})
			So(errors.Is(err, ErrMismatch), ShouldBeTrue)
			So(stats.Mismatches, ShouldEqual, 1)
		})
	})

	Convey("Given a service still loading", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(types.PostsResponse{Loading: true})
		}))
		defer srv.Close()

		Convey("Then fetching posts reports it", func() {
			_, err := newHTTPClient(srv.URL, time.Second).posts(context.Background(), "likes")
			So(errors.Is(err, ErrServiceLoading), ShouldBeTrue)
		})
	})
}

func TestVerifyOrder(t *testing.T) {
	Convey("Given a local ranking", t, func() {
		scored, err := ranking.ScorePosts([]model.Post{
			{ID: "a", LikesCount: 100, CommentsCount: 10},
			{ID: "b", LikesCount: 50, CommentsCount: 5},
		})
		So(err, ShouldBeNil)
		remote := []types.PostView{types.NewPostView(1, scored[0], ""), types.NewPostView(2, scored[1], "")}

		So(verifyOrder(model.OrderAlgorithm, scored, remote), ShouldBeNil)
		So(errors.Is(verifyOrder(model.OrderAlgorithm, scored, remote[:1]), ErrMismatch), ShouldBeTrue)

		remote[1].EngagementScore += 0.5
		So(errors.Is(verifyOrder(model.OrderAlgorithm, scored, remote), ErrMismatch), ShouldBeTrue)

		remote[1] = types.NewPostView(3, scored[1], "")
		So(errors.Is(verifyOrder(model.OrderAlgorithm, scored, remote), ErrMismatch), ShouldBeTrue)
	})
}
