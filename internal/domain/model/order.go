package model

// SortOrder selects how the posts collection is displayed.
type SortOrder string

// Supported orderings.
const (
	OrderAlgorithm  SortOrder = "algorithm"
	OrderLikes      SortOrder = "likes"
	OrderComments   SortOrder = "comments"
	OrderEngagement SortOrder = "engagement"
	OrderOriginal   SortOrder = "original"
)

// Tab selects which collection the viewer displays.
type Tab string

// Viewer tabs.
const (
	TabPosts     Tab = "posts"
	TabCreations Tab = "creations"
)

// Valid reports whether t names a known tab.
func (t Tab) Valid() bool {
	return t == TabPosts || t == TabCreations
}
