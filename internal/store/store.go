package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"family-finance/internal/analytics"
	"family-finance/internal/metrics"
	"family-finance/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Backend  Backend
	Notifier Notifier
	Events   EventPublisher
	Metrics  metrics.Collector
	Logger   *zap.Logger
	Now      func() time.Time
}

// session identifies one association with a user. Completions from an older
// session are ignored.
type session struct {
	owner uuid.UUID
	gen   uint64
	ctx   context.Context
}

// Store holds one household's collections and the active filter. Mutations
// apply to memory immediately and are reconciled when the backend answers.
type Store struct {
	backend  Backend
	notifier Notifier
	events   EventPublisher
	metrics  metrics.Collector
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	identity models.Identity
	sessGen  uint64
	loadGen  uint64
	sessCtx  context.Context
	cancel   context.CancelFunc
	loaded   bool
	closed   bool
	filters  models.GlobalFilters

	transactions collection[models.Transaction]
	goals        collection[models.FinanceGoal]
	cards        collection[models.CreditCard]
	accounts     collection[models.BankAccount]
	members      collection[models.FamilyMember]
	categories   collection[models.Category]

	inflight sync.WaitGroup
}

func New(opts Options) (*Store, error) {
	if err := opts.Backend.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend: %w", err)
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Events == nil {
		opts.Events = nopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpCollector{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		backend:  opts.Backend,
		notifier: opts.Notifier,
		events:   opts.Events,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		filters:  models.DefaultFilters(opts.Now()),
	}, nil
}

// Associate binds the store to a signed-in user and refetches every
// collection in parallel. For a different user anything in flight for the
// previous one is cancelled and collections are cleared first. For the
// user already associated the session stays live: writes in flight or
// issued during the load are kept on top of the fetched rows. A missing
// profile row for the user is created.
func (s *Store) Associate(ctx context.Context, id models.Identity) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	sess, reload := s.beginSessionLocked(id)
	load := s.loadGen
	s.mu.Unlock()

	log := s.logger.With(zap.String("user_id", id.UserID.String()), zap.Bool("reload", reload))
	start := time.Now()

	ctx, stop := sessionContext(ctx, sess)
	defer stop()

	data, err := s.fetchAll(ctx, sess.owner)
	if err != nil {
		s.mu.Lock()
		if s.loadGen == load {
			s.endLoadLocked()
		}
		s.mu.Unlock()
		s.metrics.RecordLoad(false, time.Since(start))
		log.Error("Failed to load finance data", zap.Error(err))
		s.notifier.Notify(context.WithoutCancel(sess.ctx), models.Notification{
			Level:     models.LevelError,
			Operation: models.OpLoad,
			Message:   "Could not load your data",
			Error:     err.Error(),
			At:        s.now(),
		})
		return fmt.Errorf("load finance data: %w", err)
	}

	if !hasMember(data.members, id.UserID) {
		profile, err := s.backend.Profiles.Insert(ctx, id.UserID, models.DefaultProfile(id.UserID, id.Email))
		if err != nil {
			log.Warn("Failed to create default profile", zap.Error(err))
			s.notifier.Notify(context.WithoutCancel(sess.ctx), models.Notification{
				Level:     models.LevelError,
				Entity:    models.EntityMember,
				Operation: models.OpInsert,
				RecordID:  id.UserID,
				Message:   "Could not create your profile",
				Error:     err.Error(),
				At:        s.now(),
			})
		} else {
			log.Info("Created default profile", zap.String("name", profile.Name))
			data.members = append(data.members, profile)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessGen != sess.gen {
		s.metrics.RecordLoad(false, time.Since(start))
		return ErrStale
	}
	if s.loadGen != load {
		log.Debug("Load superseded by a newer one")
		return nil
	}
	s.transactions.merge(s.withSources(data.transactions, data.cards))
	s.goals.merge(data.goals)
	s.cards.merge(data.cards)
	s.accounts.merge(data.accounts)
	s.members.merge(data.members)
	s.categories.merge(data.categories)
	s.loaded = true

	s.metrics.RecordLoad(true, time.Since(start))
	log.Info("Finance data loaded",
		zap.Int("transactions", len(data.transactions)),
		zap.Int("goals", len(data.goals)),
		zap.Int("accounts", len(data.accounts)),
		zap.Int("cards", len(data.cards)),
		zap.Int("members", len(data.members)),
		zap.Int("categories", len(data.categories)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Dissociate forgets the current user. Collections are cleared, filters are
// kept.
func (s *Store) Dissociate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessGen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.sessCtx = nil
	s.identity = models.Identity{}
	s.loaded = false
	s.clearLocked()
}

// beginSessionLocked starts a load for id. It reports whether id is the user
// already associated, in which case the running session is kept.
func (s *Store) beginSessionLocked(id models.Identity) (session, bool) {
	s.loadGen++
	if s.sessCtx != nil && s.identity.UserID == id.UserID {
		s.identity = id
		s.beginLoadLocked()
		return session{owner: id.UserID, gen: s.sessGen, ctx: s.sessCtx}, true
	}

	s.sessGen++
	if s.cancel != nil {
		s.cancel()
	}
	s.sessCtx, s.cancel = context.WithCancel(context.Background())
	s.identity = id
	s.loaded = false
	s.clearLocked()
	s.beginLoadLocked()
	return session{owner: id.UserID, gen: s.sessGen, ctx: s.sessCtx}, false
}

func (s *Store) clearLocked() {
	s.transactions.clear()
	s.goals.clear()
	s.cards.clear()
	s.accounts.clear()
	s.members.clear()
	s.categories.clear()
}

func (s *Store) beginLoadLocked() {
	s.transactions.beginLoad()
	s.goals.beginLoad()
	s.cards.beginLoad()
	s.accounts.beginLoad()
	s.members.beginLoad()
	s.categories.beginLoad()
}

func (s *Store) endLoadLocked() {
	s.transactions.endLoad()
	s.goals.endLoad()
	s.cards.endLoad()
	s.accounts.endLoad()
	s.members.endLoad()
	s.categories.endLoad()
}

// sessionLocked returns the active session or ErrNoSession.
func (s *Store) sessionLocked() (session, error) {
	if s.closed {
		return session{}, ErrClosed
	}
	if s.sessCtx == nil {
		return session{}, ErrNoSession
	}
	return session{owner: s.identity.UserID, gen: s.sessGen, ctx: s.sessCtx}, nil
}

func (s *Store) staleLocked(sess session) bool {
	return s.sessGen != sess.gen
}

type household struct {
	transactions []models.Transaction
	goals        []models.FinanceGoal
	cards        []models.CreditCard
	accounts     []models.BankAccount
	members      []models.FamilyMember
	categories   []models.Category
}

// sessionContext derives a context that also ends when the session does, so
// a new Associate or Dissociate aborts the calls made with it.
func sessionContext(ctx context.Context, sess session) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	unregister := context.AfterFunc(sess.ctx, cancel)
	return ctx, func() {
		unregister()
		cancel()
	}
}

func (s *Store) fetchAll(ctx context.Context, owner uuid.UUID) (household, error) {
	var h household
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		h.transactions, err = s.backend.Transactions.List(gctx, owner)
		return wrapList(models.EntityTransaction, err)
	})
	g.Go(func() (err error) {
		h.goals, err = s.backend.Goals.List(gctx, owner)
		return wrapList(models.EntityGoal, err)
	})
	g.Go(func() (err error) {
		h.cards, err = s.backend.Cards.List(gctx, owner)
		return wrapList(models.EntityCard, err)
	})
	g.Go(func() (err error) {
		h.accounts, err = s.backend.Accounts.List(gctx, owner)
		return wrapList(models.EntityAccount, err)
	})
	g.Go(func() (err error) {
		h.members, err = s.backend.Profiles.List(gctx, owner)
		return wrapList(models.EntityMember, err)
	})
	g.Go(func() (err error) {
		h.categories, err = s.backend.Categories.List(gctx, owner)
		return wrapList(models.EntityCategory, err)
	})
	if err := g.Wait(); err != nil {
		return household{}, err
	}
	return h, nil
}

func wrapList(entity string, err error) error {
	if err != nil {
		return fmt.Errorf("list %s: %w", entity, err)
	}
	return nil
}

func hasMember(members []models.FamilyMember, id uuid.UUID) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// withSources fills in Source for transactions loaded without one.
func (s *Store) withSources(txs []models.Transaction, cards []models.CreditCard) []models.Transaction {
	isCard := make(map[uuid.UUID]bool, len(cards))
	for _, c := range cards {
		isCard[c.ID] = true
	}
	for i := range txs {
		if txs[i].Source == "" {
			txs[i].Source = models.SourceAccount
			if isCard[txs[i].AccountID] {
				txs[i].Source = models.SourceCard
			}
		}
	}
	return txs
}

// sourceOfLocked resolves which collection id belongs to.
func (s *Store) sourceOfLocked(id uuid.UUID) models.Source {
	if s.cards.find(id) >= 0 {
		return models.SourceCard
	}
	return models.SourceAccount
}

// Identity returns the associated user, if any.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.sessCtx != nil
}

// Loaded reports whether the last Associate finished loading.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// SetFilters merges patch into the active filter and returns the result.
func (s *Store) SetFilters(patch models.FilterPatch) models.GlobalFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = patch.Apply(s.filters)
	return s.filters
}

func (s *Store) Filters() models.GlobalFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Snapshot copies every collection and the filter under one lock.
func (s *Store) Snapshot() analytics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := s.transactions.rows()
	for i := range txs {
		txs[i] = txs[i].Clone()
	}
	return analytics.Snapshot{
		Transactions: txs,
		Goals:        s.goals.rows(),
		Cards:        s.cards.rows(),
		Accounts:     s.accounts.rows(),
		Members:      s.members.rows(),
		Categories:   s.categories.rows(),
		Filters:      s.filters,
	}
}

func (s *Store) Transactions() []models.Transaction { return s.Snapshot().Transactions }

func (s *Store) Goals() []models.FinanceGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals.rows()
}

func (s *Store) Cards() []models.CreditCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cards.rows()
}

func (s *Store) Accounts() []models.BankAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.rows()
}

func (s *Store) Members() []models.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.members.rows()
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.rows()
}

// PendingCount returns how many inserts are still waiting for the backend.
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range []interface{ pending() int }{
		&s.transactions, &s.goals, &s.cards, &s.accounts, &s.members, &s.categories,
	} {
		n += c.pending()
	}
	return n
}

// Wait blocks until every in-flight persistence call has completed.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Close dissociates, rejects further mutations and waits for in-flight calls.
func (s *Store) Close() {
	s.Dissociate()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.inflight.Wait()
}

func (s *Store) track(fn func()) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		fn()
	}()
}
