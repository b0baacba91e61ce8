package rankcheck

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/pkg/logger"
)

// Engagement shapes for generated posts.
const (
	maxLikes          = 5000
	viralLikes        = 50000
	maxComments       = 400
	maxImages         = 5
	viralOneIn        = 20
	commentHeavyOneIn = 8
	directoryPerm     = 0o750
	filePerm          = 0o600
)

// randomInt returns a value in [0, n) using crypto/rand.
func randomInt(n int64) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return int(v.Int64())
}

// GeneratePosts builds n synthetic posts with a skewed engagement mix: most
// posts are ordinary, a few are viral, some attract mostly comments.
func GeneratePosts(n int, owner string) []model.Post {
	posts := make([]model.Post, n)
	for i := range posts {
		id := uuid.NewString()
		likes := randomInt(maxLikes)
		comments := randomInt(maxComments / 4)
		switch {
		case randomInt(viralOneIn) == 0:
			likes = viralLikes/2 + randomInt(viralLikes/2)
		case randomInt(commentHeavyOneIn) == 0:
			likes /= 10
			comments = maxComments/2 + randomInt(maxComments/2)
		}

		images := make([]string, randomInt(maxImages+1))
		for j := range images {
			images[j] = fmt.Sprintf("https://cdn.example.com/%s/%d.jpg", id, j)
		}
		kind := "Image"
		if len(images) > 1 {
			kind = "Sidecar"
		}

		posts[i] = model.Post{
			ID:            id,
			Type:          kind,
			Caption:       fmt.Sprintf("generated post %d", i+1),
			URL:           "https://www.example.com/p/" + id,
			LikesCount:    likes,
			CommentsCount: comments,
			Images:        images,
			DisplayURL:    fmt.Sprintf("https://cdn.example.com/%s/display.jpg", id),
			OwnerUsername: owner,
			OwnerID:       "owner-" + owner,
		}
	}
	return posts
}

// SavePosts writes posts as a JSON array to path.
func SavePosts(ctx context.Context, path string, posts []model.Post) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPerm); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write posts: %w", err)
	}
	logger.Get().Info(ctx, "generated posts saved", logger.String("path", path), logger.Int("posts", len(posts)))
	return nil
}
