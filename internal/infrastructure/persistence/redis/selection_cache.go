package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/pkg/circuitbreaker"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

// SelectionCache implements selection.Store on top of another store.
// Reads go through the cache; commits drop the cached key, write the inner
// store and then publish the new set. Cache failures are logged and never
// surface to callers. A user whose key could not be dropped or refreshed is
// marked dirty and read from the inner store until a later write succeeds,
// so a failed refresh never hides a commit. After repeated failures the
// breaker opens and Redis is skipped until the cooldown passes.
type SelectionCache struct {
	cache   *Cache
	inner   selection.Store
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger

	entries sync.Map // userID -> *cacheEntry
}

// cacheEntry tracks the in-process view of one user's key.
// gen grows on every commit; a read-through fill carrying an older gen
// loaded the inner store before that commit and must not be written back.
type cacheEntry struct {
	mu    sync.Mutex
	gen   uint64
	dirty bool
}

// NewSelectionCache creates a new SelectionCache.
func NewSelectionCache(cache *Cache, inner selection.Store, log *logger.Logger) *SelectionCache {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("selection_cache"))

	breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})
	return NewSelectionCacheWithBreaker(cache, inner, breaker, log)
}

// NewSelectionCacheWithBreaker is NewSelectionCache with a caller-provided breaker.
func NewSelectionCacheWithBreaker(
	cache *Cache,
	inner selection.Store,
	breaker *circuitbreaker.CircuitBreaker,
	log *logger.Logger,
) *SelectionCache {
	if log == nil {
		log = logger.Nop()
	}
	return &SelectionCache{
		cache:   cache,
		inner:   inner,
		ttl:     TTLSelectionCache,
		breaker: breaker,
		log:     log,
	}
}

// Breaker exposes the breaker state for health reporting.
func (s *SelectionCache) Breaker() *circuitbreaker.CircuitBreaker {
	return s.breaker
}

func (s *SelectionCache) entry(userID string) *cacheEntry {
	e, _ := s.entries.LoadOrStore(userID, &cacheEntry{})
	return e.(*cacheEntry)
}

// Committed returns the committed set, consulting Redis first unless the
// user is marked dirty.
func (s *SelectionCache) Committed(ctx context.Context, userID string) (selection.Set, error) {
	e := s.entry(userID)
	e.mu.Lock()
	gen, dirty := e.gen, e.dirty
	e.mu.Unlock()

	if !dirty {
		if set, ok := s.lookup(ctx, userID); ok {
			return set, nil
		}
	}

	set, err := s.inner.Committed(ctx, userID)
	if err != nil {
		return selection.Set{}, err
	}

	s.fill(ctx, e, gen, userID, set)
	return set, nil
}

// Commit writes the set to the inner store and refreshes the cache.
func (s *SelectionCache) Commit(ctx context.Context, userID string, set selection.Set) error {
	e := s.entry(userID)

	e.mu.Lock()
	e.gen++
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.Delete(ctx, SelectionKey(userID))
	})
	if err != nil {
		e.dirty = true
		s.logFailure("selection cache invalidate failed", userID, err)
	}
	e.mu.Unlock()

	if err := s.inner.Commit(ctx, userID, set); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// Fills that started while the inner write was in flight may carry the old set.
	e.gen++
	s.writeLocked(ctx, e, userID, set)
	return nil
}

func (s *SelectionCache) lookup(ctx context.Context, userID string) (selection.Set, bool) {
	var items []string
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		err := s.cache.Get(ctx, SelectionKey(userID), &items)
		if errors.Is(err, ErrCacheMiss) {
			// A miss is a healthy answer, not a failure.
			return nil
		}
		if err == nil && items == nil {
			items = []string{}
		}
		return err
	})
	if err != nil {
		s.logFailure("selection cache read failed", userID, err)
		return selection.Set{}, false
	}
	if items == nil {
		return selection.Set{}, false
	}
	return selection.NewSet(items...), true
}

// fill writes a set loaded from the inner store, unless a commit happened
// since gen was read.
func (s *SelectionCache) fill(ctx context.Context, e *cacheEntry, gen uint64, userID string, set selection.Set) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return
	}
	s.writeLocked(ctx, e, userID, set)
}

func (s *SelectionCache) writeLocked(ctx context.Context, e *cacheEntry, userID string, set selection.Set) {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.Set(ctx, SelectionKey(userID), set.Items(), s.ttl)
	})
	if err != nil {
		e.dirty = true
		s.logFailure("selection cache write failed", userID, err)
		return
	}
	e.dirty = false
}

func (s *SelectionCache) logFailure(msg, userID string, err error) {
	if circuitbreaker.IsRejection(err) {
		return
	}
	s.log.Warn(msg, logger.UserID(userID), logger.Err(err))
}
