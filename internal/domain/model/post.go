// Package model contains domain models passed between layers.
package model

// Post is a single social-media post as supplied by the posts collection.
// Fields mirror the fixed JSON schema of the pre-fetched data file.
type Post struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Caption       string   `json:"caption"`
	URL           string   `json:"url"`           // permalink
	LikesCount    int      `json:"likesCount"`    // non-negative
	CommentsCount int      `json:"commentsCount"` // non-negative
	Images        []string `json:"images"`
	DisplayURL    string   `json:"displayUrl"`
	OwnerUsername string   `json:"ownerUsername"`
	OwnerID       string   `json:"ownerId"`
}

// Engagement is the simple popularity signal: likes plus comments.
func (p Post) Engagement() int {
	return p.LikesCount + p.CommentsCount
}

// ScoredPost is a Post enriched with its ranking data. It is created once per
// load and never mutated afterwards.
type ScoredPost struct {
	Post

	RawEngagement   int     `json:"rawEngagement"`
	EngagementScore float64 `json:"engagementScore"`
	OriginalIndex   int     `json:"originalIndex"`
}

// Creation is an AI-generated image. Creations are display-only.
type Creation struct {
	ID             string            `json:"id"`
	Source         string            `json:"source"`
	SourceImageURL string            `json:"sourceImageUrl"`
	URL            string            `json:"url"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Resolution     string            `json:"resolution"`
	Cost           string            `json:"cost"`
	GeneratedAt    string            `json:"generatedAt"`
	Metadata       map[string]string `json:"metadata"`
}
