package viewer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/viewer"
	. "github.com/smartystreets/goconvey/convey"
)

func scoredFixture() []model.ScoredPost {
	scored, err := ranking.ScorePosts([]model.Post{
		{ID: "a", LikesCount: 10, CommentsCount: 0},
		{ID: "b", LikesCount: 1, CommentsCount: 20},
		{ID: "c", LikesCount: 30, CommentsCount: 1},
	})
	if err != nil {
		panic(err)
	}
	return scored
}

func order(posts []model.ScoredPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestState(t *testing.T) {
	Convey("Given a fresh viewer state", t, func() {
		s := viewer.New()

		Convey("Then it starts on posts, algorithm order, loading", func() {
			So(s.Tab, ShouldEqual, model.TabPosts)
			So(s.Order, ShouldEqual, model.OrderAlgorithm)
			So(s.Loading(), ShouldBeTrue)
			So(s.CreationsLoading, ShouldBeTrue)
		})

		Convey("When posts arrive", func() {
			scored := scoredFixture()
			loaded := viewer.WithPosts(s, scored)

			Convey("Then they display under the algorithm order", func() {
				So(loaded.Loading(), ShouldBeFalse)
				So(order(loaded.Posts), ShouldResemble, []string{"b", "c", "a"})
				So(order(loaded.AllPosts), ShouldResemble, []string{"a", "b", "c"})
			})

			Convey("And the previous state is untouched", func() {
				So(s.Posts, ShouldBeNil)
				So(s.Loading(), ShouldBeTrue)
			})

			Convey("And switching orders always starts from the canonical collection", func() {
				likes1 := viewer.WithOrder(loaded, model.OrderLikes)
				algo := viewer.WithOrder(likes1, model.OrderAlgorithm)
				likes2 := viewer.WithOrder(algo, model.OrderLikes)
				So(cmp.Diff(likes1.Posts, likes2.Posts), ShouldBeEmpty)
				So(order(likes2.Posts), ShouldResemble, []string{"c", "a", "b"})
				So(order(viewer.WithOrder(likes2, model.OrderOriginal).Posts), ShouldResemble, []string{"a", "b", "c"})
			})

			Convey("And posts can be looked up by id", func() {
				p, ok := loaded.FindPost("b")
				So(ok, ShouldBeTrue)
				So(p.OriginalIndex, ShouldEqual, 1)
				_, ok = loaded.FindPost("zzz")
				So(ok, ShouldBeFalse)
			})

			Convey("And ranks follow the displayed ordering", func() {
				So(loaded.Rank("b"), ShouldEqual, 1)
				So(loaded.Rank("a"), ShouldEqual, 3)
				So(viewer.WithOrder(loaded, model.OrderLikes).Rank("c"), ShouldEqual, 1)
				So(loaded.Rank("zzz"), ShouldEqual, 0)
			})
		})

		Convey("When the posts load fails", func() {
			failed := viewer.WithPostsFailed(s, errors.New("boom"))

			Convey("Then the view is empty but no longer loading", func() {
				So(failed.Loading(), ShouldBeFalse)
				So(failed.Posts, ShouldBeEmpty)
				So(failed.PostsErr, ShouldNotBeNil)
				So(viewer.WithOrder(failed, model.OrderLikes).Posts, ShouldBeEmpty)
			})
		})

		Convey("When creations arrive and creations tab is selected", func() {
			next := viewer.WithCreations(s, []model.Creation{{ID: "x"}, {ID: "y"}})
			next = viewer.WithTab(next, model.TabCreations)

			Convey("Then creations are stored independently of posts", func() {
				So(next.CreationsLoading, ShouldBeFalse)
				So(next.Loading(), ShouldBeTrue)
				So(next.Tab, ShouldEqual, model.TabCreations)
				c, pos, ok := next.FindCreation("y")
				So(ok, ShouldBeTrue)
				So(c.ID, ShouldEqual, "y")
				So(pos, ShouldEqual, 2)
			})

			Convey("And a later creations failure empties them", func() {
				failed := viewer.WithCreationsFailed(next, errors.New("nope"))
				So(failed.Creations, ShouldBeEmpty)
				So(failed.CreationsErr, ShouldNotBeNil)
			})
		})
	})
}

func TestDetail(t *testing.T) {
	Convey("Given a post with three images", t, func() {
		p := model.Post{Images: []string{"i0", "i1", "i2"}, DisplayURL: "d"}
		d := viewer.OpenDetail(p, 0)

		Convey("Then next and prev wrap around", func() {
			So(d.Next().Index, ShouldEqual, 1)
			So(d.Prev().Index, ShouldEqual, 2)
			So(d.Next().Next().Next().Index, ShouldEqual, 0)
		})

		Convey("And out of range starting indexes clamp to zero", func() {
			So(viewer.OpenDetail(p, 7).Index, ShouldEqual, 0)
			So(viewer.OpenDetail(p, -1).Index, ShouldEqual, 0)
			So(viewer.OpenDetail(p, 2).Index, ShouldEqual, 2)
		})
	})

	Convey("Given a post without images", t, func() {
		p := model.Post{DisplayURL: "display"}

		Convey("Then the display image is the only image", func() {
			So(viewer.Images(p), ShouldResemble, []string{"display"})
			d := viewer.OpenDetail(p, 0)
			So(d.Next().Index, ShouldEqual, 0)
			So(d.Prev().Index, ShouldEqual, 0)
		})
	})
}

func TestClipboard(t *testing.T) {
	Convey("Given a clipboard with the default acknowledgment", t, func() {
		c := viewer.NewClipboard(0)
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		Convey("When a URL is copied", func() {
			until := c.Copy("u1", now)

			Convey("Then it is acknowledged for two seconds", func() {
				So(until.Equal(now.Add(2*time.Second)), ShouldBeTrue)
				So(c.Copied("u1", now.Add(1999*time.Millisecond)), ShouldBeTrue)
				So(c.Copied("u1", now.Add(2*time.Second)), ShouldBeFalse)
			})

			Convey("And other URLs are not acknowledged", func() {
				So(c.Copied("u2", now), ShouldBeFalse)
			})

			Convey("And copying another URL replaces the acknowledgment", func() {
				c.Copy("u2", now.Add(time.Second))
				So(c.Copied("u1", now.Add(time.Second)), ShouldBeFalse)
				So(c.Copied("u2", now.Add(2500*time.Millisecond)), ShouldBeTrue)
			})
		})
	})
}
