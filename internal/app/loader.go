package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/feedview/internal/adapters/source"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/viewer"
	"github.com/okian/feedview/pkg/logger"
	"github.com/okian/feedview/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Collection names used in logs and metrics.
const (
	collectionPosts     = "posts"
	collectionCreations = "creations"
)

// Load fetches both collections concurrently and folds each outcome into the
// viewer state as soon as it arrives. A failed load is logged and recorded in
// state; it never cancels or fails the other load.
func (s *Service) Load(ctx context.Context) {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.loadPosts(egCtx)
		return nil
	})
	eg.Go(func() error {
		s.loadCreations(egCtx)
		return nil
	})

	_ = eg.Wait()
}

func (s *Service) loadPosts(ctx context.Context) {
	log := s.logger.With(logger.String("collection", collectionPosts))

	posts, err := fetch[model.Post](ctx, collectionPosts, s.postsSource, s.loadTimeout)
	var scored []model.ScoredPost
	if err == nil {
		start := time.Now()
		scored, err = ranking.ScorePosts(posts)
		metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	}

	if err != nil {
		status := "error"
		if errors.Is(err, ranking.ErrEmptyCollection) {
			status = "empty"
		}
		log.Warn(ctx, "posts load failed, showing empty collection", logger.String("status", status), logger.Error(err))
		metrics.RecordCollectionLoad(collectionPosts, status)
		metrics.UpdateCollectionSize(collectionPosts, 0)
		s.update(func(st viewer.State) viewer.State { return viewer.WithPostsFailed(st, err) })
		return
	}

	s.update(func(st viewer.State) viewer.State { return viewer.WithPosts(st, scored) })
	metrics.RecordCollectionLoad(collectionPosts, "ok")
	metrics.UpdateCollectionSize(collectionPosts, len(scored))
	log.Info(ctx, "posts loaded", logger.Int("count", len(scored)))
}

func (s *Service) loadCreations(ctx context.Context) {
	log := s.logger.With(logger.String("collection", collectionCreations))

	creations, err := fetch[model.Creation](ctx, collectionCreations, s.creationsSource, s.loadTimeout)
	if err != nil {
		log.Warn(ctx, "creations load failed, showing empty collection", logger.Error(err))
		metrics.RecordCollectionLoad(collectionCreations, "error")
		metrics.UpdateCollectionSize(collectionCreations, 0)
		s.update(func(st viewer.State) viewer.State { return viewer.WithCreationsFailed(st, err) })
		return
	}

	s.update(func(st viewer.State) viewer.State { return viewer.WithCreations(st, creations) })
	status := "ok"
	if len(creations) == 0 {
		status = "empty"
	}
	metrics.RecordCollectionLoad(collectionCreations, status)
	metrics.UpdateCollectionSize(collectionCreations, len(creations))
	log.Info(ctx, "creations loaded", logger.Int("count", len(creations)))
}

// fetch reads and decodes one collection, bounded by timeout when positive.
func fetch[T any](ctx context.Context, collection string, src source.Source, timeout time.Duration) ([]T, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	items, err := source.FetchJSON[T](ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	metrics.RecordCollectionLoadDuration(collection, float64(time.Since(start).Milliseconds()))
	return items, nil
}
