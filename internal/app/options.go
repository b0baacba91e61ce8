package service

import (
	"time"

	"github.com/okian/feedview/internal/adapters/source"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPostsSource sets where the posts collection is read from.
func WithPostsSource(src source.Source) Option {
	return func(s *Service) {
		s.postsSource = src
	}
}

// WithCreationsSource sets where the creations collection is read from.
func WithCreationsSource(src source.Source) Option {
	return func(s *Service) {
		s.creationsSource = src
	}
}

// WithDefaultOrder sets the ordering selected before any user choice.
func WithDefaultOrder(order model.SortOrder) Option {
	return func(s *Service) {
		if order != "" {
			s.defaultOrder = order
		}
	}
}

// WithLoadTimeout bounds each collection fetch. Zero means no bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.loadTimeout = d
		}
	}
}

// WithCopyAck sets how long a copied image URL stays acknowledged.
func WithCopyAck(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.copyAck = d
		}
	}
}

// WithClock overrides the time source used for copy acknowledgments.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
