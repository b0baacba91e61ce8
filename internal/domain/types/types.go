// Package types contains the JSON shapes exchanged over the HTTP API. Both
// the server and the rankcheck client use them.
package types

import (
	"time"

	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
)

// PostView is a ranked post as listed by GET /api/posts.
type PostView struct {
	Rank            int     `json:"rank"` // 1-based display position
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Caption         string  `json:"caption"`
	URL             string  `json:"url"`
	DisplayURL      string  `json:"displayUrl"`
	ProxiedURL      string  `json:"proxiedDisplayUrl"`
	OwnerUsername   string  `json:"ownerUsername"`
	LikesCount      int     `json:"likesCount"`
	CommentsCount   int     `json:"commentsCount"`
	Engagement      int     `json:"engagement"`
	RawEngagement   int     `json:"rawEngagement"`
	EngagementScore float64 `json:"engagementScore"`
	OriginalIndex   int     `json:"originalIndex"`
	ImageCount      int     `json:"imageCount"`
}

// NewPostView builds the view of p shown at rank.
func NewPostView(rank int, p model.ScoredPost, proxied string) PostView {
	return PostView{
		Rank:            rank,
		ID:              p.ID,
		Type:            p.Type,
		Caption:         p.Caption,
		URL:             p.URL,
		DisplayURL:      p.DisplayURL,
		ProxiedURL:      proxied,
		OwnerUsername:   p.OwnerUsername,
		LikesCount:      p.LikesCount,
		CommentsCount:   p.CommentsCount,
		Engagement:      p.Engagement(),
		RawEngagement:   p.RawEngagement,
		EngagementScore: p.EngagementScore,
		OriginalIndex:   p.OriginalIndex,
		ImageCount:      len(p.Images),
	}
}

// PostsResponse is the body of GET /api/posts.
type PostsResponse struct {
	Order   model.SortOrder     `json:"order"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
	Summary ranking.PostSummary `json:"summary"`
	Posts   []PostView          `json:"posts"`
}

// ImageView is one image of a post detail.
type ImageView struct {
	Index      int    `json:"index"`
	URL        string `json:"url"`
	ProxiedURL string `json:"proxiedUrl"`
	Copied     bool   `json:"copied"`
}

// PostDetail is the body of GET /api/posts/{id}.
type PostDetail struct {
	Post    PostView    `json:"post"`
	Index   int         `json:"index"`
	Count   int         `json:"count"`
	Current ImageView   `json:"current"`
	Images  []ImageView `json:"images"`
}

// CopyRequest is the body of POST /api/posts/{id}/copy.
type CopyRequest struct {
	URL string `json:"url"`
}

// CopyResponse acknowledges a copied image URL until CopiedUntil.
type CopyResponse struct {
	URL         string    `json:"url"`
	CopiedUntil time.Time `json:"copiedUntil"`
}

// CreationView is a creation with its 1-based position.
type CreationView struct {
	model.Creation
	Position   int    `json:"position"`
	ProxiedURL string `json:"proxiedUrl"`
}

// CreationsResponse is the body of GET /api/creations.
type CreationsResponse struct {
	Loading   bool                    `json:"loading"`
	Error     string                  `json:"error,omitempty"`
	Summary   ranking.CreationSummary `json:"summary"`
	Creations []CreationView          `json:"creations"`
}

// TabRequest is the body of PUT /api/state/tab.
type TabRequest struct {
	Tab string `json:"tab"`
}

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	Tab              model.Tab               `json:"tab"`
	Order            model.SortOrder         `json:"order"`
	PostsLoading     bool                    `json:"postsLoading"`
	CreationsLoading bool                    `json:"creationsLoading"`
	PostsError       string                  `json:"postsError,omitempty"`
	CreationsError   string                  `json:"creationsError,omitempty"`
	Posts            ranking.PostSummary     `json:"posts"`
	Creations        ranking.CreationSummary `json:"creations"`
}
