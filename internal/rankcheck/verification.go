package rankcheck

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/types"
)

// scoreTolerance absorbs float formatting differences across the wire.
const scoreTolerance = 1e-9

// verifyOrder checks that remote lists the same posts, in the same positions,
// with the same scores as local.
func verifyOrder(order model.SortOrder, local []model.ScoredPost, remote []types.PostView) error {
	if len(local) != len(remote) {
		return fmt.Errorf("%w: %s has %d posts, service has %d", ErrMismatch, order, len(local), len(remote))
	}
	for i := range local {
		l, r := local[i], remote[i]
		if l.ID != r.ID {
			return fmt.Errorf("%w: %s position %d is %s locally and %s on the service", ErrMismatch, order, i+1, l.ID, r.ID)
		}
		if r.Rank != i+1 {
			return fmt.Errorf("%w: %s position %d reports rank %d", ErrMismatch, order, i+1, r.Rank)
		}
		if l.RawEngagement != r.RawEngagement || math.Abs(l.EngagementScore-r.EngagementScore) > scoreTolerance {
			return fmt.Errorf("%w: %s post %s scores %.6f locally and %.6f on the service",
				ErrMismatch, order, l.ID, l.EngagementScore, r.EngagementScore)
		}
	}
	return nil
}

// displayRanking prints the first top rows of posts; top <= 0 prints all.
func displayRanking(w io.Writer, order model.SortOrder, posts []model.ScoredPost, top int) {
	if top <= 0 || top > len(posts) {
		top = len(posts)
	}
	fmt.Fprintf(w, "\n%s (top %d of %d)\n", order, top, len(posts))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tid\tlikes\tcomments\traw\tscore\toriginal\t")
	for i, p := range posts[:top] {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%.3f\t%d\t\n",
			i+1, p.ID, p.LikesCount, p.CommentsCount, p.RawEngagement, p.EngagementScore, p.OriginalIndex)
	}
	_ = tw.Flush()
}

// displayStatistics prints score statistics of the collection.
func displayStatistics(w io.Writer, scored []model.ScoredPost) {
	if len(scored) == 0 {
		return
	}
	minScore, maxScore, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, p := range scored {
		minScore = math.Min(minScore, p.EngagementScore)
		maxScore = math.Max(maxScore, p.EngagementScore)
		sum += p.EngagementScore
	}
	fmt.Fprintf(w, "\nscore statistics: average %.3f, maximum %.3f, minimum %.3f\n",
		sum/float64(len(scored)), maxScore, minScore)
}
