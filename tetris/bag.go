package tetris

import "math/rand/v2"

// Bag is a 7-bag randomizer: each cycle of seven draws yields every piece
// type exactly once, in random order.
//
// The remaining pieces live in a fixed array whose first live slots are the
// undrawn ones; a draw swaps the chosen slot with the last live slot, so a
// type can never appear twice in one cycle.
type Bag struct {
	rng   *rand.Rand
	slots [len(PieceTypes)]PieceType
	live  int
	stats *Statistics
}

// NewBag creates a bag drawing from src. A nil src is seeded randomly.
func NewBag(src rand.Source) *Bag {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Bag{
		rng:   rand.New(src),
		stats: newStatistics(),
	}
}

// NewSeededBag creates a bag whose sequence is fully determined by seed.
func NewSeededBag(seed uint64) *Bag {
	return NewBag(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Draw removes and returns a uniformly chosen piece from the current cycle,
// starting a new cycle first when the bag is empty.
func (b *Bag) Draw() PieceType {
	if b.live == 0 {
		b.slots = PieceTypes
		b.live = len(b.slots)
	}

	i := b.rng.IntN(b.live)
	p := b.slots[i]
	b.live--
	b.slots[i], b.slots[b.live] = b.slots[b.live], b.slots[i]

	b.stats.recordDraw(p)
	return p
}

// Remaining returns how many pieces are left in the current cycle.
func (b *Bag) Remaining() int {
	return b.live
}

// Stats returns the bag's statistics. The session records line clears into
// the same counters.
func (b *Bag) Stats() *Statistics {
	return b.stats
}

// Reset discards the current cycle and zeroes the statistics. The random
// stream continues where it left off.
func (b *Bag) Reset() {
	b.live = 0
	b.stats.reset()
}
