package source

import (
	"context"
	"encoding/json"
	"fmt"
)

// FetchJSON opens src and decodes a JSON array of T.
func FetchJSON[T any](ctx context.Context, src Source) ([]T, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var items []T
	if err := json.NewDecoder(rc).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return items, nil
}
