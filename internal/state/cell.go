package state

import (
	"slices"
	"sync"
)

// View is the read side of a cell
type View[T any] interface {
	Get() T
	Read(tx *Tx) T
	Subscribe(fn func(T)) (unsubscribe func())
}

// Tx collects the writes of a single Store.Update batch.
// A Tx is only valid inside the function passed to Update.
type Tx struct {
	store  *Store
	undo   []func()
	notify []func()
	done   bool
}

type subscription[T any] struct {
	id int
	fn func(T)
}

type deriver[T any] func(tx *Tx, prev, next T)

// Cell is an independently addressable, subscribable value owned by a Store
type Cell[T any] struct {
	store    *Store
	name     string
	value    T
	subs     []subscription[T]
	derivers []deriver[T]
	nextID   int
}

func newCell[T any](s *Store, name string, initial T) *Cell[T] {
	return &Cell[T]{store: s, name: name, value: initial}
}

// Name returns the cell name
func (c *Cell[T]) Name() string {
	return c.name
}

// Get returns the current value
func (c *Cell[T]) Get() T {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return c.value
}

// Read returns the current value from inside a batch
func (c *Cell[T]) Read(tx *Tx) T {
	c.check(tx)
	return c.value
}

// Subscribe registers fn to receive every value written to the cell, in write order.
// Callbacks run synchronously once the writing batch has been applied; they may read
// the store but must not write to it.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(slices.Clip(c.subs), subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.store.mu.Lock()
			defer c.store.mu.Unlock()
			c.subs = slices.DeleteFunc(slices.Clone(c.subs), func(s subscription[T]) bool { return s.id == id })
		})
	}
}

// Write stages v as the new value within tx
func (c *Cell[T]) Write(tx *Tx, v T) {
	c.check(tx)

	prev := c.value
	c.value = v
	tx.undo = append(tx.undo, func() { c.value = prev })

	subs := slices.Clone(c.subs)
	tx.notify = append(tx.notify, func() {
		for _, s := range subs {
			s.fn(v)
		}
	})

	for _, d := range c.derivers {
		d(tx, prev, v)
	}
}

// Update replaces the value with fn(current) within tx
func (c *Cell[T]) Update(tx *Tx, fn func(T) T) {
	c.check(tx)
	c.Write(tx, fn(c.value))
}

// Set writes v in a batch of its own
func (c *Cell[T]) Set(v T) {
	_ = c.store.Update(func(tx *Tx) error {
		c.Write(tx, v)
		return nil
	})
}

func (c *Cell[T]) check(tx *Tx) {
	if tx == nil || tx.done || tx.store != c.store {
		panic("state: cell " + c.name + " accessed outside of its store's Update")
	}
}

// Derive makes dst follow src: whenever src is written, fn computes the value of dst
// inside the same batch. fn returns false to leave dst untouched.
func Derive[S, D any](src *Cell[S], dst *Cell[D], fn func(prev, next S) (D, bool)) {
	src.store.mu.Lock()
	defer src.store.mu.Unlock()

	src.derivers = append(src.derivers, func(tx *Tx, prev, next S) {
		if v, ok := fn(prev, next); ok {
			dst.Write(tx, v)
		}
	})
}

// cloneView exposes a slice cell read-only, handing out copies
type cloneView[E any] struct {
	cell *Cell[[]E]
}

func (v cloneView[E]) Get() []E {
	return slices.Clone(v.cell.Get())
}

func (v cloneView[E]) Read(tx *Tx) []E {
	return slices.Clone(v.cell.Read(tx))
}

func (v cloneView[E]) Subscribe(fn func([]E)) func() {
	return v.cell.Subscribe(func(values []E) {
		fn(slices.Clone(values))
	})
}
