// Package service owns the viewer state and implements the operations the
// HTTP API exposes on top of it.
package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/feedview/internal/adapters/source"
	"github.com/okian/feedview/internal/domain/model"
	"github.com/okian/feedview/internal/domain/ranking"
	"github.com/okian/feedview/internal/domain/viewer"
	"github.com/okian/feedview/pkg/logger"
	"github.com/okian/feedview/pkg/metrics"
)

// Navigation directions accepted by Post.
const (
	NavNone = ""
	NavNext = "next"
	NavPrev = "prev"
)

// Service holds the single current viewer state. Readers load it without
// locking; writers serialize on updateMu and swap in the next state.
type Service struct {
	mu sync.RWMutex

	state    atomic.Pointer[viewer.State]
	updateMu sync.Mutex

	// Configuration
	postsSource     source.Source
	creationsSource source.Source
	defaultOrder    model.SortOrder
	loadTimeout     time.Duration
	copyAck         time.Duration
	now             func() time.Time

	clipboard *viewer.Clipboard

	// Lifecycle
	started bool
	cancel  context.CancelFunc
	loaded  chan struct{}

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultOrder: model.OrderAlgorithm,
		copyAck:      viewer.DefaultCopyAck,
		now:          time.Now,
		loaded:       make(chan struct{}),
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.clipboard = viewer.NewClipboard(s.copyAck)
	initial := viewer.WithOrder(viewer.New(), s.defaultOrder)
	s.state.Store(&initial)

	return s
}

// Start kicks off both collection loads in the background and returns
// immediately. Loaded reports when both have finished.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true

	s.logger.Info(ctx, "starting feed viewer service",
		logger.String("posts", sourceName(s.postsSource)),
		logger.String("creations", sourceName(s.creationsSource)),
		logger.String("order", string(s.defaultOrder)),
	)

	loaded := s.loaded
	go func() {
		defer close(loaded)
		s.Load(loadCtx)
	}()

	return nil
}

// Stop cancels outstanding loads and waits for them to return.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping feed viewer service...")

	s.cancel()
	<-s.loaded

	s.started = false
	s.loaded = make(chan struct{})
	s.logger.Info(context.Background(), "feed viewer service stopped")
}

// Loaded is closed once both collection loads of the current run finished.
func (s *Service) Loaded() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// State returns the current viewer state snapshot.
func (s *Service) State() viewer.State {
	return *s.state.Load()
}

func (s *Service) update(fn func(viewer.State) viewer.State) viewer.State {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	next := fn(*s.state.Load())
	s.state.Store(&next)
	return next
}

// SelectOrder parses raw and makes it the displayed ordering. A blank value
// keeps the current ordering.
func (s *Service) SelectOrder(ctx context.Context, raw string) (viewer.State, error) {
	if raw == "" {
		return s.State(), nil
	}
	order, err := ranking.ParseSortOrder(raw)
	if err != nil {
		return viewer.State{}, err
	}
	metrics.RecordSortSelection(string(order))
	s.logger.Debug(ctx, "ordering selected", logger.String("order", string(order)))
	return s.update(func(st viewer.State) viewer.State {
		if st.Order == order {
			return st
		}
		return viewer.WithOrder(st, order)
	}), nil
}

// SetTab switches the displayed collection.
func (s *Service) SetTab(ctx context.Context, raw string) (viewer.State, error) {
	tab := model.Tab(raw)
	if !tab.Valid() {
		return viewer.State{}, fmt.Errorf("%w: %q", ErrInvalidTab, raw)
	}
	metrics.RecordTabSelection(raw)
	s.logger.Debug(ctx, "tab selected", logger.String("tab", raw))
	return s.update(func(st viewer.State) viewer.State { return viewer.WithTab(st, tab) }), nil
}

// Post returns a post and the detail position after applying nav to image.
// The post and its rank come from the same state snapshot.
func (s *Service) Post(_ context.Context, id string, image int, nav string) (model.ScoredPost, viewer.Detail, error) {
	st := s.State()
	p, ok := st.FindPost(id)
	if !ok {
		return model.ScoredPost{}, viewer.Detail{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}

	d := viewer.OpenDetail(p.Post, image)
	d.Rank = st.Rank(id)
	switch nav {
	case NavNone:
	case NavNext:
		d = d.Next()
	case NavPrev:
		d = d.Prev()
	default:
		return model.ScoredPost{}, viewer.Detail{}, fmt.Errorf("%w: %q", ErrInvalidNavigation, nav)
	}
	return p, d, nil
}

// CopyImage acknowledges url as copied from post id and returns when the
// acknowledgment expires.
func (s *Service) CopyImage(ctx context.Context, id, url string) (time.Time, error) {
	p, ok := s.State().FindPost(id)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrPostNotFound, id)
	}
	if !slices.Contains(viewer.Images(p.Post), url) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrImageNotInPost, id)
	}
	until := s.clipboard.Copy(url, s.now())
	metrics.RecordImageCopy()
	s.logger.Debug(ctx, "image copied", logger.String("post", id))
	return until, nil
}

// Copied reports whether url is currently acknowledged as copied.
func (s *Service) Copied(url string) bool {
	return s.clipboard.Copied(url, s.now())
}

// Creation returns a creation and its 1-based position.
func (s *Service) Creation(_ context.Context, id string) (model.Creation, int, error) {
	c, pos, ok := s.State().FindCreation(id)
	if !ok {
		return model.Creation{}, 0, fmt.Errorf("%w: %s", ErrCreationNotFound, id)
	}
	return c, pos, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	st := s.State()
	return map[string]interface{}{
		"started":          started,
		"tab":              string(st.Tab),
		"order":            string(st.Order),
		"postsLoading":     st.PostsLoading,
		"creationsLoading": st.CreationsLoading,
		"posts":            len(st.AllPosts),
		"creations":        len(st.Creations),
		"postsError":       errString(st.PostsErr),
		"creationsError":   errString(st.CreationsErr),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func sourceName(src source.Source) string {
	if src == nil {
		return "none"
	}
	return src.String()
}
