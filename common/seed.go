package common

import "time"

// SeededRNG is a Mulberry32 generator. The same seed always yields the
// same rounds and the same per-note voicing.
type SeededRNG struct {
	state uint32
	seed  uint32
}

// NewSeededRNG returns a generator positioned at the start of seed's stream.
func NewSeededRNG(seed uint32) *SeededRNG {
	return &SeededRNG{state: seed, seed: seed}
}

// TimeSeed derives a seed from the wall clock for non-reproducible sessions.
func TimeSeed() uint32 {
	n := uint64(time.Now().UnixNano())
	return MixSeed(uint32(n), int(n>>32))
}

// Seed returns the seed the stream started from.
func (r *SeededRNG) Seed() uint32 {
	return r.seed
}

// Reset rewinds to the start of the stream.
func (r *SeededRNG) Reset() {
	r.state = r.seed
}

// Uint32 advances the stream by one step.
func (r *SeededRNG) Uint32() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Random returns a float64 in [0, 1).
func (r *SeededRNG) Random() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// Intn returns a random index in [0, n). n must be positive.
func (r *SeededRNG) Intn(n int) int {
	return int(r.Random() * float64(n))
}

// Bipolar returns a random float in [-1, 1).
func (r *SeededRNG) Bipolar() float64 {
	return r.Random()*2 - 1
}

// MixSeed derives the seed of sub-stream n (a round, a render job) from
// baseSeed.
func MixSeed(baseSeed uint32, n int) uint32 {
	h := baseSeed ^ (uint32(n) * 2654435761)
	h = (h ^ (h >> 16)) * 0x85ebca6b
	h = (h ^ (h >> 13)) * 0xc2b2ae35
	return h ^ (h >> 16)
}

// Pick returns a random element of items. items must not be empty.
func Pick[T any](r *SeededRNG, items []T) T {
	return items[r.Intn(len(items))]
}

// Shuffle is an in-place Fisher-Yates shuffle. It returns items.
func Shuffle[T any](r *SeededRNG, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
