package service

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"family-finance/internal/analytics"
	"family-finance/internal/metrics"
	"family-finance/internal/models"
	"family-finance/internal/notify"
	"family-finance/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("finance hub is closed")

type HubOptions struct {
	Backend   store.Backend
	Events    store.EventPublisher
	Metrics   metrics.Collector
	Logger    *zap.Logger
	MaxStores int
	IdleTTL   time.Duration
	InboxSize int
	Now       func() time.Time
}

// Household is one user's loaded store with its notification inbox and
// aggregation engine.
type Household struct {
	Store  *store.Store
	Inbox  *notify.Inbox
	Engine *analytics.Engine

	ready   chan struct{}
	loadErr error
}

type hubItem struct {
	key       uuid.UUID
	household *Household
	expiresAt time.Time
}

// FinanceHub keeps one Household per signed-in user in an LRU with an idle
// TTL. Households are loaded on first access and closed on eviction.
type FinanceHub struct {
	opts   HubOptions
	logger *zap.Logger

	mu     sync.Mutex
	items  map[uuid.UUID]*list.Element
	lru    *list.List
	closed bool

	closing sync.WaitGroup
}

func NewFinanceHub(opts HubOptions) (*FinanceHub, error) {
	if err := opts.Backend.Validate(); err != nil {
		return nil, fmt.Errorf("finance hub: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpCollector{}
	}
	if opts.MaxStores < 1 {
		opts.MaxStores = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &FinanceHub{
		opts:   opts,
		logger: opts.Logger.Named("hub"),
		items:  make(map[uuid.UUID]*list.Element),
		lru:    list.New(),
	}, nil
}

// Acquire returns the identity's household, loading it on first use.
// Concurrent callers for the same identity share one load.
func (h *FinanceHub) Acquire(ctx context.Context, id models.Identity) (*Household, error) {
	hh, fresh, err := h.getOrCreate(id)
	if err != nil {
		return nil, err
	}

	if fresh {
		hh.loadErr = hh.Store.Associate(ctx, id)
		close(hh.ready)
	} else {
		select {
		case <-hh.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if hh.loadErr != nil {
		h.evict(id.UserID, hh)
		return nil, hh.loadErr
	}
	return hh, nil
}

func (h *FinanceHub) getOrCreate(id models.Identity) (*Household, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false, ErrHubClosed
	}

	now := h.opts.Now()
	if elem, ok := h.items[id.UserID]; ok {
		item := elem.Value.(*hubItem)
		if now.Before(item.expiresAt) {
			item.expiresAt = now.Add(h.opts.IdleTTL)
			h.lru.MoveToFront(elem)
			return item.household, false, nil
		}
		h.removeElementLocked(elem)
	}

	hh, err := h.newHousehold(id)
	if err != nil {
		return nil, false, err
	}
	elem := h.lru.PushFront(&hubItem{key: id.UserID, household: hh, expiresAt: now.Add(h.opts.IdleTTL)})
	h.items[id.UserID] = elem

	if h.lru.Len() > h.opts.MaxStores {
		if oldest := h.lru.Back(); oldest != nil {
			h.logger.Debug("Evicting least recently used household",
				zap.String("user_id", oldest.Value.(*hubItem).key.String()))
			h.removeElementLocked(oldest)
		}
	}
	h.opts.Metrics.SetActiveStores(h.lru.Len())
	return hh, true, nil
}

func (h *FinanceHub) newHousehold(id models.Identity) (*Household, error) {
	inbox := notify.NewInbox(h.opts.InboxSize)
	logger := h.opts.Logger.With(zap.String("user_id", id.UserID.String()))
	st, err := store.New(store.Options{
		Backend:  h.opts.Backend,
		Notifier: notify.Multi{notify.NewLogger(logger), inbox},
		Events:   h.opts.Events,
		Metrics:  h.opts.Metrics,
		Logger:   logger,
		Now:      h.opts.Now,
	})
	if err != nil {
		return nil, err
	}
	engine, err := analytics.NewEngine(st, h.opts.Now)
	if err != nil {
		return nil, err
	}
	return &Household{Store: st, Inbox: inbox, Engine: engine, ready: make(chan struct{})}, nil
}

// removeElementLocked unlinks the item and closes its store in the
// background; Close waits for in-flight persistence calls.
func (h *FinanceHub) removeElementLocked(elem *list.Element) {
	item := elem.Value.(*hubItem)
	delete(h.items, item.key)
	h.lru.Remove(elem)

	h.closing.Add(1)
	go func() {
		defer h.closing.Done()
		<-item.household.ready
		item.household.Store.Close()
	}()
}

// evict removes userID's household if it is still hh.
func (h *FinanceHub) evict(userID uuid.UUID, hh *Household) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if elem, ok := h.items[userID]; ok && elem.Value.(*hubItem).household == hh {
		h.removeElementLocked(elem)
		h.opts.Metrics.SetActiveStores(h.lru.Len())
	}
}

// Evict drops userID's household. Pending mutations still complete against
// the backend but no longer touch memory.
func (h *FinanceHub) Evict(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if elem, ok := h.items[userID]; ok {
		h.removeElementLocked(elem)
		h.opts.Metrics.SetActiveStores(h.lru.Len())
	}
}

// HandleSession keeps households in step with the auth service: a sign-in
// refreshes an already cached household without dropping its in-flight
// writes, a sign-out drops it.
func (h *FinanceHub) HandleSession(ctx context.Context, e SessionEvent) {
	switch e.Kind {
	case SessionSignedOut:
		h.Evict(e.Identity.UserID)
	case SessionSignedIn:
		h.mu.Lock()
		elem, ok := h.items[e.Identity.UserID]
		var hh *Household
		if ok {
			hh = elem.Value.(*hubItem).household
		}
		h.mu.Unlock()
		if hh == nil {
			return
		}
		select {
		case <-hh.ready:
		case <-ctx.Done():
			return
		}
		// a failed refresh leaves the loaded data in place
		if err := hh.Store.Associate(ctx, e.Identity); err != nil {
			h.logger.Warn("Failed to reload household on sign-in",
				zap.String("user_id", e.Identity.UserID.String()), zap.Error(err))
		}
	}
}

// CleanExpired drops idle households and returns how many were removed.
func (h *FinanceHub) CleanExpired() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.opts.Now()
	var toRemove []*list.Element
	for elem := h.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*hubItem).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		h.removeElementLocked(elem)
	}
	if len(toRemove) > 0 {
		h.opts.Metrics.SetActiveStores(h.lru.Len())
	}
	return len(toRemove)
}

// RunJanitor calls CleanExpired every interval until ctx ends.
func (h *FinanceHub) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.CleanExpired(); n > 0 {
				h.logger.Info("Evicted idle households", zap.Int("count", n))
			}
		}
	}
}

func (h *FinanceHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lru.Len()
}

// Close drops every household and waits until their stores are closed.
func (h *FinanceHub) Close() {
	h.mu.Lock()
	h.closed = true
	for elem := h.lru.Front(); elem != nil; {
		next := elem.Next()
		h.removeElementLocked(elem)
		elem = next
	}
	h.opts.Metrics.SetActiveStores(0)
	h.mu.Unlock()

	h.closing.Wait()
}
