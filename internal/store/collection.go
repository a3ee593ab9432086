package store

import (
	"family-finance/internal/models"

	"github.com/google/uuid"
)

// SyncStatus tells whether an entry has been acknowledged by the backend.
type SyncStatus int

const (
	Confirmed SyncStatus = iota
	Pending
)

func (s SyncStatus) String() string {
	if s == Pending {
		return "pending"
	}
	return "confirmed"
}

// entry is one row plus its reconciliation state. A pending entry's row id
// is its temporary id.
type entry[T any] struct {
	row    T
	status SyncStatus
}

// collection is an ordered list of entries. gen changes on every
// modification so a delayed rollback can tell whether anything happened
// since its snapshot.
type collection[T models.Entity[T]] struct {
	entries []entry[T]
	gen     uint64

	// busy counts updates and deletes per id still waiting for the backend.
	busy map[uuid.UUID]int
	// touched holds ids whose backend call finished while a load was
	// running; nil when no load is running.
	touched map[uuid.UUID]bool
}

func (c *collection[T]) clear() {
	c.entries = nil
	c.busy = nil
	c.touched = nil
	c.gen++
}

// beginLoad starts recording which ids the backend answered for until the
// next merge.
func (c *collection[T]) beginLoad() {
	c.touched = make(map[uuid.UUID]bool)
}

func (c *collection[T]) endLoad() {
	c.touched = nil
}

func (c *collection[T]) hold(id uuid.UUID) {
	if c.busy == nil {
		c.busy = make(map[uuid.UUID]int)
	}
	c.busy[id]++
}

// release ends an update or delete of id.
func (c *collection[T]) release(id uuid.UUID) {
	if c.busy[id] <= 1 {
		delete(c.busy, id)
	} else {
		c.busy[id]--
	}
	c.touch(id)
}

func (c *collection[T]) touch(id uuid.UUID) {
	if c.touched != nil {
		c.touched[id] = true
	}
}

// local reports whether memory is newer than a list taken during the
// current load for id.
func (c *collection[T]) local(id uuid.UUID) bool {
	return c.busy[id] > 0 || c.touched[id]
}

// merge replaces the entries with rows fetched from the backend. Pending
// inserts are kept, and for ids with a write in flight or finished during
// the load the in-memory state wins, including its absence.
func (c *collection[T]) merge(rows []T) {
	current := make(map[uuid.UUID]entry[T], len(c.entries))
	for _, e := range c.entries {
		current[e.row.GetID()] = e
	}

	next := make([]entry[T], 0, len(rows)+len(c.entries))
	fetched := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		id := r.GetID()
		fetched[id] = true
		if c.local(id) {
			if e, ok := current[id]; ok {
				next = append(next, e)
			}
			continue
		}
		next = append(next, entry[T]{row: r, status: Confirmed})
	}
	for _, e := range c.entries {
		id := e.row.GetID()
		if fetched[id] {
			continue
		}
		if e.status == Pending || c.local(id) {
			next = append(next, e)
		}
	}

	c.entries = next
	c.touched = nil
	c.gen++
}

func (c *collection[T]) rows() []T {
	out := make([]T, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.row
	}
	return out
}

func (c *collection[T]) pending() int {
	n := 0
	for _, e := range c.entries {
		if e.status == Pending {
			n++
		}
	}
	return n
}

func (c *collection[T]) statusOf(id uuid.UUID) (SyncStatus, bool) {
	i := c.find(id)
	if i < 0 {
		return 0, false
	}
	return c.entries[i].status, true
}

func (c *collection[T]) find(id uuid.UUID) int {
	for i, e := range c.entries {
		if e.row.GetID() == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) appendPending(row T) {
	c.entries = append(c.entries, entry[T]{row: row, status: Pending})
	c.gen++
}

// confirm swaps the pending entry tempID for the stored row.
func (c *collection[T]) confirm(tempID uuid.UUID, stored T) bool {
	i := c.find(tempID)
	if i < 0 || c.entries[i].status != Pending {
		return false
	}
	c.entries[i] = entry[T]{row: stored, status: Confirmed}
	c.touch(stored.GetID())
	c.gen++
	return true
}

// discard drops the pending entry tempID.
func (c *collection[T]) discard(tempID uuid.UUID) bool {
	i := c.find(tempID)
	if i < 0 || c.entries[i].status != Pending {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *collection[T]) replace(i int, row T) {
	c.entries[i].row = row
	c.gen++
}

func (c *collection[T]) removeAt(i int) entry[T] {
	e := c.entries[i]
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	c.gen++
	return e
}

// checkpoint captures the entries so a failed delete can restore them.
type checkpoint[T any] struct {
	entries []entry[T]
	gen     uint64
	removed entry[T]
	index   int
}

func (c *collection[T]) checkpoint() checkpoint[T] {
	saved := make([]entry[T], len(c.entries))
	copy(saved, c.entries)
	return checkpoint[T]{entries: saved}
}

// restore undoes a delete. When nothing else changed since the delete, the
// whole previous collection comes back; otherwise only the removed row is
// put back near its old position.
func (c *collection[T]) restore(cp checkpoint[T]) {
	if c.gen == cp.gen {
		c.entries = cp.entries
		c.gen++
		return
	}
	if c.find(cp.removed.row.GetID()) >= 0 {
		return
	}
	i := min(cp.index, len(c.entries))
	c.entries = append(c.entries[:i:i], append([]entry[T]{cp.removed}, c.entries[i:]...)...)
	c.gen++
}
