package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewPostView(t *testing.T) {
	Convey("Given a scored post", t, func() {
		p := model.ScoredPost{
			Post: model.Post{
				ID: "p1", LikesCount: 100, CommentsCount: 10,
				Images: []string{"i0", "i1"}, DisplayURL: "d", OwnerUsername: "owner",
			},
			RawEngagement:   120,
			EngagementScore: 225,
			OriginalIndex:   3,
		}

		Convey("When building its view", func() {
			v := types.NewPostView(1, p, "/api/proxy-image?url=d")

			Convey("Then engagement signals are all carried", func() {
				So(v.Rank, ShouldEqual, 1)
				So(v.Engagement, ShouldEqual, 110)
				So(v.RawEngagement, ShouldEqual, 120)
				So(v.EngagementScore, ShouldEqual, 225.0)
				So(v.OriginalIndex, ShouldEqual, 3)
				So(v.ImageCount, ShouldEqual, 2)
				So(v.ProxiedURL, ShouldEqual, "/api/proxy-image?url=d")
			})

			Convey("Then it uses the viewer's camelCase field names", func() {
				raw, err := json.Marshal(v)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"proxiedDisplayUrl":"/api/proxy-image?url=d"`)
				So(string(raw), ShouldContainSubstring, `"engagementScore":225`)
			})
		})
	})
}

func TestCreationViewJSON(t *testing.T) {
	Convey("Given a creation view", t, func() {
		v := types.CreationView{Creation: model.Creation{ID: "c1", Title: "t"}, Position: 2}

		Convey("Then the creation fields are inlined", func() {
			raw, err := json.Marshal(v)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"id":"c1"`)
			So(string(raw), ShouldContainSubstring, `"position":2`)
		})
	})
}
