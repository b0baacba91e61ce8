package ranking

import "github.com/okian/feedview/internal/domain/model"

// costPerCreation is the generation price of one creation in USD.
const costPerCreation = 0.134

// SortOption describes one entry of the ordering selector.
type SortOption struct {
	Order model.SortOrder `json:"value"`
	Label string          `json:"label"`
}

// options is listed in selector order.
var options = []SortOption{
	{Order: model.OrderAlgorithm, Label: "Algorithm Score (Best)"},
	{Order: model.OrderEngagement, Label: "Total Engagement"},
	{Order: model.OrderLikes, Label: "Most Likes"},
	{Order: model.OrderComments, Label: "Most Comments"},
	{Order: model.OrderOriginal, Label: "Original Order"},
}

// SortOptions returns the orderings the viewer exposes.
func SortOptions() []SortOption {
	out := make([]SortOption, len(options))
	copy(out, options)
	return out
}

// PostSummary is the header line shown above the posts grid.
type PostSummary struct {
	Posts         int    `json:"posts"`
	Images        int    `json:"images"`
	OwnerUsername string `json:"ownerUsername"`
}

// Summarize counts posts and images of a displayed collection. The owner is
// taken from the first displayed post.
func Summarize(posts []model.ScoredPost) PostSummary {
	s := PostSummary{Posts: len(posts)}
	for _, p := range posts {
		s.Images += len(p.Images)
	}
	if len(posts) > 0 {
		s.OwnerUsername = posts[0].OwnerUsername
	}
	return s
}

// CreationSummary is the header line shown above the creations grid.
type CreationSummary struct {
	Creations int     `json:"creations"`
	TotalCost float64 `json:"totalCost"`
}

// SummarizeCreations reports the count and total generation cost.
func SummarizeCreations(creations []model.Creation) CreationSummary {
	return CreationSummary{
		Creations: len(creations),
		TotalCost: float64(len(creations)) * costPerCreation,
	}
}
