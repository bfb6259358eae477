// Package fishbarrel estimates how many fish sit in the player's fish barrel,
// a container whose contents the host never reports directly.
package fishbarrel

import "strconv"

const DefaultCapacity = 28

// Count is a snapshot of the barrel estimate.
type Count struct {
	Holding int
	Unknown bool
}

func (c Count) String() string {
	if c.Unknown {
		return "?"
	}
	return strconv.Itoa(c.Holding)
}

// Barrel holds the current estimate. It has a single writer, the event thread.
type Barrel struct {
	capacity int
	holding  int
	unknown  bool
}

func NewBarrel(capacity int) *Barrel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Barrel{capacity: capacity, unknown: true}
}

func (b *Barrel) Capacity() int { return b.capacity }
func (b *Barrel) Holding() int  { return b.holding }
func (b *Barrel) Unknown() bool { return b.unknown }

func (b *Barrel) Count() Count {
	return Count{Holding: b.holding, Unknown: b.unknown}
}

// Display is the text shown over the barrel icon.
func (b *Barrel) Display() string {
	return b.Count().String()
}

// Set records an observed amount, clamped to [0, capacity].
func (b *Barrel) Set(n int) {
	b.holding = b.clamp(n)
	b.unknown = false
}

// Reset starts a new tracking session.
func (b *Barrel) Reset() {
	b.holding = 0
	b.unknown = true
}

func (b *Barrel) clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > b.capacity:
		return b.capacity
	default:
		return n
	}
}
