package store

import (
	"context"
	"fmt"
	"time"

	"family-finance/internal/metrics"
	"family-finance/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// binding ties a collection to the table that persists it.
type binding[T models.Entity[T], P models.Patch[T]] struct {
	entity string
	coll   *collection[T]
	table  Table[T, P]
}

// insert appends row as a pending entry and asks the backend to store it.
// prepare, if set, runs under the store lock before the row is applied.
func insert[T models.Entity[T], P models.Patch[T]](s *Store, b binding[T, P], row T, prepare func(T) T) *Op[T] {
	var zero T

	s.mu.Lock()
	sess, err := s.sessionLocked()
	if err != nil {
		s.mu.Unlock()
		return finishedOp(uuid.Nil, zero, err)
	}
	if prepare != nil {
		row = prepare(row)
	}
	tempID := uuid.New()
	b.coll.appendPending(row.WithID(tempID))
	op := newOp[T](tempID)
	s.track(func() {
		start := time.Now()
		stored, err := b.table.Insert(sess.ctx, sess.owner, row.WithID(uuid.Nil))
		s.metrics.RecordPersistence(b.entity, models.OpInsert, err == nil, time.Since(start))

		s.mu.Lock()
		if s.staleLocked(sess) {
			s.mu.Unlock()
			s.metrics.RecordMutation(b.entity, models.OpInsert, metrics.OutcomeStale)
			op.finish(zero, ErrStale)
			return
		}
		if err != nil {
			b.coll.discard(tempID)
			s.mu.Unlock()
			s.failed(sess, b.entity, models.OpInsert, tempID, err, true)
			op.finish(zero, err)
			return
		}
		b.coll.confirm(tempID, stored)
		s.mu.Unlock()
		s.confirmed(sess, b.entity, models.OpInsert, stored.GetID())
		op.finish(stored, nil)
	})
	s.mu.Unlock()

	s.metrics.RecordMutation(b.entity, models.OpInsert, metrics.OutcomeApplied)
	return op
}

// updateWith applies the patch built from the current row and persists it.
// A failed update is reported but stays applied.
func updateWith[T models.Entity[T], P models.Patch[T]](s *Store, b binding[T, P], opName string, id uuid.UUID, build func(current T) P) *Op[T] {
	var zero T

	s.mu.Lock()
	sess, err := s.sessionLocked()
	if err != nil {
		s.mu.Unlock()
		return finishedOp(id, zero, err)
	}
	i := b.coll.find(id)
	if i < 0 {
		s.mu.Unlock()
		return finishedOp(id, zero, fmt.Errorf("%s %s: %w", b.entity, id, ErrNotFound))
	}
	if b.coll.entries[i].status == Pending {
		s.mu.Unlock()
		return finishedOp(id, zero, fmt.Errorf("%s %s: %w", b.entity, id, ErrPending))
	}
	patch := build(b.coll.entries[i].row)
	updated := patch.Apply(b.coll.entries[i].row)
	b.coll.replace(i, updated)
	b.coll.hold(id)
	op := newOp[T](id)
	s.track(func() {
		start := time.Now()
		err := b.table.Update(sess.ctx, sess.owner, id, patch)
		s.metrics.RecordPersistence(b.entity, opName, err == nil, time.Since(start))

		s.mu.Lock()
		if s.staleLocked(sess) {
			s.mu.Unlock()
			s.metrics.RecordMutation(b.entity, opName, metrics.OutcomeStale)
			op.finish(updated, ErrStale)
			return
		}
		b.coll.release(id)
		s.mu.Unlock()
		if err != nil {
			s.failed(sess, b.entity, opName, id, err, false)
			op.finish(updated, err)
			return
		}
		s.confirmed(sess, b.entity, opName, id)
		op.finish(updated, nil)
	})
	s.mu.Unlock()

	s.metrics.RecordMutation(b.entity, opName, metrics.OutcomeApplied)
	return op
}

func update[T models.Entity[T], P models.Patch[T]](s *Store, b binding[T, P], id uuid.UUID, patch P) *Op[T] {
	return updateWith(s, b, models.OpUpdate, id, func(T) P { return patch })
}

// remove drops the row and asks the backend to delete it. Unknown ids
// complete at once without a backend call. On failure the collection is
// restored.
func remove[T models.Entity[T], P models.Patch[T]](s *Store, b binding[T, P], id uuid.UUID) *Op[T] {
	var zero T

	s.mu.Lock()
	sess, err := s.sessionLocked()
	if err != nil {
		s.mu.Unlock()
		return finishedOp(id, zero, err)
	}
	i := b.coll.find(id)
	if i < 0 {
		s.mu.Unlock()
		return finishedOp(id, zero, nil)
	}
	if b.coll.entries[i].status == Pending {
		s.mu.Unlock()
		return finishedOp(id, zero, fmt.Errorf("%s %s: %w", b.entity, id, ErrPending))
	}
	cp := b.coll.checkpoint()
	cp.removed = b.coll.removeAt(i)
	cp.index = i
	cp.gen = b.coll.gen
	b.coll.hold(id)
	op := newOp[T](id)
	s.track(func() {
		start := time.Now()
		err := b.table.Delete(sess.ctx, sess.owner, id)
		s.metrics.RecordPersistence(b.entity, models.OpDelete, err == nil, time.Since(start))

		s.mu.Lock()
		if s.staleLocked(sess) {
			s.mu.Unlock()
			s.metrics.RecordMutation(b.entity, models.OpDelete, metrics.OutcomeStale)
			op.finish(cp.removed.row, ErrStale)
			return
		}
		b.coll.release(id)
		if err != nil {
			b.coll.restore(cp)
			s.mu.Unlock()
			s.failed(sess, b.entity, models.OpDelete, id, err, true)
			op.finish(cp.removed.row, err)
			return
		}
		s.mu.Unlock()
		s.confirmed(sess, b.entity, models.OpDelete, id)
		op.finish(cp.removed.row, nil)
	})
	s.mu.Unlock()

	s.metrics.RecordMutation(b.entity, models.OpDelete, metrics.OutcomeApplied)
	return op
}

var verbs = map[string]string{
	models.OpInsert:     "add",
	models.OpUpdate:     "update",
	models.OpDelete:     "delete",
	models.OpContribute: "add a contribution to",
}

func (s *Store) failed(sess session, entity, op string, id uuid.UUID, err error, rolledBack bool) {
	outcome := metrics.OutcomeFailed
	msg := fmt.Sprintf("Could not %s %s", verbs[op], entity)
	if rolledBack {
		outcome = metrics.OutcomeRolledBack
		msg += "; the change was undone"
	}
	s.metrics.RecordMutation(entity, op, outcome)
	s.logger.Error("Persistence call failed",
		zap.String("user_id", sess.owner.String()),
		zap.String("entity", entity),
		zap.String("op", op),
		zap.String("record_id", id.String()),
		zap.Bool("rolled_back", rolledBack),
		zap.Error(err))

	s.notifier.Notify(context.WithoutCancel(sess.ctx), models.Notification{
		Level:      models.LevelError,
		Entity:     entity,
		Operation:  op,
		RecordID:   id,
		Message:    msg,
		Error:      err.Error(),
		RolledBack: rolledBack,
		At:         s.now(),
	})
}

func (s *Store) confirmed(sess session, entity, op string, id uuid.UUID) {
	s.metrics.RecordMutation(entity, op, metrics.OutcomeConfirmed)

	event := models.ChangeEvent{
		ID:        uuid.New(),
		OwnerID:   sess.owner,
		Entity:    entity,
		Operation: op,
		RecordID:  id,
		Timestamp: s.now(),
	}
	if err := s.events.Publish(context.WithoutCancel(sess.ctx), event); err != nil {
		s.logger.Warn("Failed to publish change event",
			zap.String("entity", entity),
			zap.String("op", op),
			zap.Error(err))
	}
}
