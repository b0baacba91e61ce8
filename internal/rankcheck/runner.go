package rankcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/okian/feedview/internal/adapters/source"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// generatedOwner is the owner username of generated posts.
const generatedOwner = "rankcheck"

// Run scores the configured collection, prints it under the selected
// orderings and, when BaseURL is set, verifies the service against it.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	orders, err := selectOrders(config.Order)
	if err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "starting rankcheck",
		logger.String("source", config.Source),
		logger.String("order", config.Order),
		logger.String("baseURL", config.BaseURL),
		logger.Int("generate", config.Generate))

	if config.Generate > 0 {
		if err := SavePosts(ctx, config.Source, GeneratePosts(config.Generate, generatedOwner)); err != nil {
			return stats, fmt.Errorf("post generation failed: %w", err)
		}
	}

	scored, err := scoreSource(ctx, config.Source)
	if err != nil {
		return stats, err
	}
	stats.Posts = len(scored)

	local := make(map[model.SortOrder][]model.ScoredPost, len(orders))
	for _, order := range orders {
		local[order] = ranking.SortPosts(scored, order)
		displayRanking(out, order, local[order], config.Top)
	}
	if config.Verbose {
		displayStatistics(out, scored)
	}

	if config.BaseURL != "" {
		if err := verifyService(ctx, config, orders, local, stats); err != nil {
			stats.Duration = time.Since(stats.StartTime)
			return stats, err
		}
		fmt.Fprintf(out, "\nservice at %s matches the local ranking for %d orderings\n", config.BaseURL, stats.OrdersChecked)
	}

	stats.Duration = time.Since(stats.StartTime)
	logger.Get().Info(ctx, "rankcheck completed",
		logger.Int("posts", stats.Posts),
		logger.Int("ordersChecked", stats.OrdersChecked),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

// selectOrders expands the order flag.
func selectOrders(raw string) ([]model.SortOrder, error) {
	if raw == OrderAll {
		opts := ranking.SortOptions()
		orders := make([]model.SortOrder, len(opts))
		for i, o := range opts {
			orders[i] = o.Order
		}
		return orders, nil
	}
	order, err := ranking.ParseSortOrder(raw)
	if err != nil {
		return nil, err
	}
	return []model.SortOrder{order}, nil
}

// scoreSource loads and scores a posts collection.
func scoreSource(ctx context.Context, location string) ([]model.ScoredPost, error) {
	src, err := source.New(location)
	if err != nil {
		return nil, err
	}
	posts, err := source.FetchJSON[model.Post](ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	scored, err := ranking.ScorePosts(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to score %s: %w", location, err)
	}
	return scored, nil
}

// verifyService compares every selected ordering concurrently and reports
// all mismatches together.
func verifyService(ctx context.Context, config *Config, orders []model.SortOrder, local map[model.SortOrder][]model.ScoredPost, stats *Stats) error {
	client := newHTTPClient(config.BaseURL, config.Timeout)
	if err := client.checkHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	errs := make([]error, len(orders))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, order := range orders {
		eg.Go(func() error {
			remote, err := client.posts(egCtx, string(order))
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", order, err)
				return nil
			}
			errs[i] = verifyOrder(order, local[order], remote.Posts)
			return nil
		})
	}
	_ = eg.Wait()

	stats.OrdersChecked = len(orders)
	for _, err := range errs {
		if err != nil {
			stats.Mismatches++
			logger.Get().Warn(ctx, "ranking verification failed", logger.Error(err))
		}
	}
	return errors.Join(errs...)
}
