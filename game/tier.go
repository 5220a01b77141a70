package game

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
)

// Tier is a difficulty level. It decides which chords a round draws from.
type Tier int

const (
	Easy Tier = iota
	Medium
	Impossible
)

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Impossible:
		return "impossible"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// ParseTier accepts the names returned by String.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "impossible", "hard":
		return Impossible, nil
	}
	return Easy, fmt.Errorf("unknown tier %q", s)
}

// TierCounts is how many rounds each tier gets.
type TierCounts struct {
	Easy       int
	Medium     int
	Impossible int
}

// SplitTiers divides maxRounds between the tiers. Every tier gets at least
// one round, so the counts can add up to more than maxRounds when it is
// small.
func SplitTiers(maxRounds int, easyPct, mediumPct float64) TierCounts {
	easy := common.Max(1, int(math.Round(float64(maxRounds)*easyPct)))
	medium := common.Max(1, int(math.Round(float64(maxRounds)*mediumPct)))
	if easy+medium >= maxRounds {
		medium = common.Max(1, maxRounds-easy-1)
	}
	impossible := common.Max(1, maxRounds-easy-medium)
	return TierCounts{Easy: easy, Medium: medium, Impossible: impossible}
}

// TierForRound maps a 1-based round number to its tier.
func (c TierCounts) TierForRound(round int) Tier {
	if round <= c.Easy {
		return Easy
	}
	if round <= c.Easy+c.Medium {
		return Medium
	}
	return Impossible
}

func (c TierCounts) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Easy, c.Medium, c.Impossible)
}

// Pool returns the chord ids a tier draws from, in catalog-independent
// order for the fixed tiers and catalog order for impossible. A tier with
// no chords in the catalog falls back to the safe pool, and a short one is
// topped up with other catalog chords and then the safe pool so that a
// round always has four distinct chords.
func Pool(t Tier, cat *chords.Catalog) []string {
	var pool []string
	switch t {
	case Easy:
		pool = cat.Filter(chords.EasyPool)
	case Medium:
		pool = cat.Filter(chords.MediumPool)
	default:
		pool = cat.IDs()
	}
	if len(pool) == 0 {
		return append([]string(nil), chords.SafePool...)
	}
	return topUp(pool, sequenceLen, cat.IDs(), chords.SafePool)
}

// topUp appends ids from sources that ids does not hold yet until it has n
// entries or the sources run out.
func topUp(ids []string, n int, sources ...[]string) []string {
	for _, src := range sources {
		for _, id := range src {
			if len(ids) >= n {
				return ids
			}
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
