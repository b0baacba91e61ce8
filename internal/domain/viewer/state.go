// Package viewer models the viewer's application state as an immutable value
// updated by pure functions. The owner keeps a single reference and replaces
// it with each function's result.
package viewer

import (
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
)

// State is a snapshot of everything the viewer displays. Slices held by a
// State are never modified after the State is built.
type State struct {
	Tab   model.Tab
	Order model.SortOrder

	// AllPosts is the canonical scored collection in original order.
	AllPosts []model.ScoredPost
	// Posts is AllPosts sorted by Order.
	Posts     []model.ScoredPost
	Creations []model.Creation

	PostsLoading     bool
	CreationsLoading bool
	PostsErr         error
	CreationsErr     error
}

// New returns the initial state: posts tab, algorithm order, both
// collections still loading.
func New() State {
	return State{
		Tab:              model.TabPosts,
		Order:            model.OrderAlgorithm,
		PostsLoading:     true,
		CreationsLoading: true,
	}
}

// WithPosts stores a freshly scored collection and displays it under the
// current order.
func WithPosts(s State, scored []model.ScoredPost) State {
	s.AllPosts = scored
	s.Posts = ranking.SortPosts(scored, s.Order)
	s.PostsLoading = false
	s.PostsErr = nil
	return s
}

// WithPostsFailed ends the posts load with an empty collection.
func WithPostsFailed(s State, err error) State {
	s.AllPosts = nil
	s.Posts = nil
	s.PostsLoading = false
	s.PostsErr = err
	return s
}

// WithCreations stores the creations collection.
func WithCreations(s State, creations []model.Creation) State {
	s.Creations = creations
	s.CreationsLoading = false
	s.CreationsErr = nil
	return s
}

// WithCreationsFailed ends the creations load with an empty collection.
func WithCreationsFailed(s State, err error) State {
	s.Creations = nil
	s.CreationsLoading = false
	s.CreationsErr = err
	return s
}

// WithOrder selects a new ordering. The displayed collection is always
// rebuilt from AllPosts, never from the currently displayed one.
func WithOrder(s State, order model.SortOrder) State {
	s.Order = order
	if len(s.AllPosts) > 0 {
		s.Posts = ranking.SortPosts(s.AllPosts, order)
	}
	return s
}

// WithTab switches the displayed collection.
func WithTab(s State, tab model.Tab) State {
	s.Tab = tab
	return s
}

// Loading reports whether the posts view should still show its loading
// placeholder. Only the posts load gates the page.
func (s State) Loading() bool {
	return s.PostsLoading
}

// FindPost returns the scored post with the given id.
func (s State) FindPost(id string) (model.ScoredPost, bool) {
	for _, p := range s.AllPosts {
		if p.ID == id {
			return p, true
		}
	}
	return model.ScoredPost{}, false
}

// Rank returns the 1-based position of post id in the displayed ordering,
// or 0 when it is not displayed.
func (s State) Rank(id string) int {
	for i, p := range s.Posts {
		if p.ID == id {
			return i + 1
		}
	}
	return 0
}

// FindCreation returns the creation with the given id and its 1-based
// position in the collection.
func (s State) FindCreation(id string) (model.Creation, int, bool) {
	for i, c := range s.Creations {
		if c.ID == id {
			return c, i + 1, true
		}
	}
	return model.Creation{}, 0, false
}
