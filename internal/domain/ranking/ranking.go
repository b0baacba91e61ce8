// Package ranking computes engagement scores for posts and produces the
// ordered views the viewer can select.
//
// Scoring happens once per load. Every sort starts from the canonical,
// originally ordered collection and returns a new slice, so switching
// orderings back and forth always yields the same result for a given order.
package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/feedview/internal/domain/model"
)

// commentWeight is how much one comment is worth relative to one like.
const commentWeight = 2

// ScorePosts enriches posts with raw engagement, engagement score and their
// original position. The output keeps the input order.
//
// The score is raw * (raw / mean(raw)), where mean is taken over the whole
// input once. An empty input is rejected with ErrEmptyCollection. When every
// post has zero engagement all scores are 0.
func ScorePosts(posts []model.Post) ([]model.ScoredPost, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("score posts: %w", ErrEmptyCollection)
	}

	total := 0
	for _, p := range posts {
		total += RawEngagement(p)
	}
	avg := float64(total) / float64(len(posts))

	scored := make([]model.ScoredPost, len(posts))
	for i, p := range posts {
		raw := RawEngagement(p)
		score := 0.0
		if avg > 0 {
			multiplier := float64(raw) / avg
			score = float64(raw) * multiplier
		}
		scored[i] = model.ScoredPost{
			Post:            p,
			RawEngagement:   raw,
			EngagementScore: score,
			OriginalIndex:   i,
		}
	}
	return scored, nil
}

// RawEngagement is likes plus comments weighted twice.
func RawEngagement(p model.Post) int {
	return p.LikesCount + commentWeight*p.CommentsCount
}

// SortPosts returns a stably sorted copy of scored. The input slice and its
// elements are never modified. An empty order sorts by original position.
func SortPosts(scored []model.ScoredPost, order model.SortOrder) []model.ScoredPost {
	sorted := slices.Clone(scored)
	slices.SortStableFunc(sorted, comparator(order))
	return sorted
}

func comparator(order model.SortOrder) func(a, b model.ScoredPost) int {
	switch order {
	case model.OrderAlgorithm:
		return func(a, b model.ScoredPost) int {
			return cmp.Compare(scoreOf(b), scoreOf(a))
		}
	case model.OrderLikes:
		return func(a, b model.ScoredPost) int {
			return cmp.Compare(b.LikesCount, a.LikesCount)
		}
	case model.OrderComments:
		return func(a, b model.ScoredPost) int {
			return cmp.Compare(b.CommentsCount, a.CommentsCount)
		}
	case model.OrderEngagement:
		return func(a, b model.ScoredPost) int {
			return cmp.Compare(b.Engagement(), a.Engagement())
		}
	default:
		return func(a, b model.ScoredPost) int {
			return cmp.Compare(a.OriginalIndex, b.OriginalIndex)
		}
	}
}

// scoreOf treats an unset score as 0.
func scoreOf(p model.ScoredPost) float64 {
	if math.IsNaN(p.EngagementScore) {
		return 0
	}
	return p.EngagementScore
}

// ParseSortOrder validates a user-supplied ordering. Blank input selects the
// default algorithm order.
func ParseSortOrder(s string) (model.SortOrder, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return model.OrderAlgorithm, nil
	}
	for _, opt := range options {
		if string(opt.Order) == s {
			return opt.Order, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
}
