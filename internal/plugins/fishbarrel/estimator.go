package fishbarrel

import (
	"math"
	"regexp"
	"strconv"

	"molopl.dev/addons/internal/catalogs"
)

// Only the start of the message is matched: some catches append flavour text
// such as "It hardens as you handle it with your ice gloves."
var catchPattern = regexp.MustCompile(`^You catch (an?|some|[0-9]+) ([a-zA-Z ]+?)[.!]`)

// Messages that stand for one extra fish each.
var extraCatchMessages = map[string]struct{}{
	"Rada's blessing enabled you to catch an extra fish.":   {},
	"The spirit flakes enabled you to catch an extra fish.": {},
	"Your cormorant returns with its catch.":                {},
}

// Estimator folds the evidence of one tick into the barrel estimate.
type Estimator struct {
	barrel *Barrel

	catches   int
	newItems  int
	auxiliary int
}

func NewEstimator(b *Barrel) *Estimator {
	return &Estimator{barrel: b}
}

func (e *Estimator) Barrel() *Barrel { return e.barrel }

// RecordCatchSignal counts the fish announced by a chat message and returns
// how many were added to this tick.
func (e *Estimator) RecordCatchSignal(text string) int {
	n := catchCount(text)
	if n > math.MaxInt-e.catches {
		e.catches = math.MaxInt
	} else {
		e.catches += n
	}
	return n
}

func catchCount(text string) int {
	if _, ok := extraCatchMessages[text]; ok {
		return 1
	}
	m := catchPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	if _, ok := catalogs.FishByCatchName(m[2]); !ok {
		return 0
	}
	switch m[1] {
	case "a", "an", "some":
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// RecordNewItem notes a fish that appeared in the inventory this tick.
func (e *Estimator) RecordNewItem(itemID int) {
	if catalogs.IsFish(itemID) {
		e.newItems++
	}
}

// RecordAuxiliaryProduction notes a cooking xp drop. The infernal harpoon cooks
// some catches on the spot, so they never reach the barrel.
func (e *Estimator) RecordAuxiliaryProduction() {
	e.auxiliary++
}

// ResolveTick applies the tick's evidence and clears it.
func (e *Estimator) ResolveTick() Count {
	if e.catches > 0 {
		if e.newItems == 0 {
			room := max(0, e.barrel.capacity-e.barrel.holding)
			e.barrel.holding = e.barrel.clamp(e.barrel.holding + min(room, max(0, e.catches-e.auxiliary)))
		} else {
			// A catch landed in the inventory: the barrel had no room left.
			e.barrel.holding = e.barrel.capacity
			e.barrel.unknown = false
		}
	}
	e.catches, e.newItems, e.auxiliary = 0, 0, 0
	return e.barrel.Count()
}

// RecordContainerFullMessage marks the estimate as untrustworthy.
func (e *Estimator) RecordContainerFullMessage() {
	e.barrel.unknown = true
}

// RecordContainerEmptiedAction records the player emptying the barrel.
func (e *Estimator) RecordContainerEmptiedAction() {
	e.barrel.Set(0)
}
