package game

import (
	"golang.org/x/exp/slices"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/common"
)

const (
	sequenceLen      = 4
	optionCount      = 4
	sequenceAttempts = 250
	optionDraws      = 200
	nearChance       = 0.85
)

var (
	walkSteps   = []int{-2, -1, 1, 2}
	nearOffsets = []int{-2, -1, 1, 2, 3, -3}
)

// Round is one generated question.
type Round struct {
	Tier     Tier
	Sequence []string // all four chords, answer last
	Visible  []string // first three
	Answer   string
	Options  []string // four choices including Answer
}

// Generator builds progressions and answer choices for a tier.
type Generator struct {
	cat *chords.Catalog
	rng *common.SeededRNG
}

// NewGenerator creates a generator drawing randomness from rng.
func NewGenerator(cat *chords.Catalog, rng *common.SeededRNG) *Generator {
	return &Generator{cat: cat, rng: rng}
}

// NewRound generates a sequence avoiding the chords in avoid when it can,
// and the options for its last chord.
func (g *Generator) NewRound(tier Tier, avoid []string) Round {
	seq := g.GenerateSequence(tier, avoid)
	answer := seq[sequenceLen-1]
	return Round{
		Tier:     tier,
		Sequence: seq,
		Visible:  append([]string(nil), seq[:sequenceLen-1]...),
		Answer:   answer,
		Options:  g.BuildOptions(answer, tier),
	}
}

// GenerateSequence returns four distinct chords from the tier pool, chosen
// by a small random walk so neighbours in the pool tend to follow each
// other. Chords in avoid are skipped only while enough other chords remain.
func (g *Generator) GenerateSequence(tier Tier, avoid []string) []string {
	pool := Pool(tier, g.cat)
	if len(pool) == 0 {
		return g.fallbackSequence(pool)
	}

	avoidSet := make(map[string]bool, len(avoid))
	for _, id := range avoid {
		avoidSet[id] = true
	}

	idx := g.rng.Intn(len(pool))
	for attempt := 0; attempt < sequenceAttempts; attempt++ {
		seq := make([]string, 0, sequenceLen)
		used := make(map[string]bool, sequenceLen)

		local := idx
		for i := 0; i < sequenceLen; i++ {
			if i > 0 {
				local = common.Clamp(local+common.Pick(g.rng, walkSteps), 0, len(pool)-1)
			}
			cand := pool[local]

			// no repeats within a round
			if used[cand] {
				alts := filterIDs(pool, func(id string) bool { return !used[id] })
				if len(alts) == 0 {
					break
				}
				cand = common.Pick(g.rng, alts)
			}

			if len(avoidSet) > 0 && avoidSet[cand] {
				alts := filterIDs(pool, func(id string) bool { return !used[id] && !avoidSet[id] })
				if len(alts) >= sequenceLen-i {
					cand = common.Pick(g.rng, alts)
				}
			}

			seq = append(seq, cand)
			used[cand] = true
		}

		if len(seq) == sequenceLen && len(used) == sequenceLen {
			return seq
		}
		idx = g.rng.Intn(len(pool))
	}

	return g.fallbackSequence(pool)
}

// fallbackSequence takes the first distinct chords of a shuffled pool and
// pads with unused catalog and safe pool chords when the pool is too small.
func (g *Generator) fallbackSequence(pool []string) []string {
	shuffled := common.Shuffle(g.rng, append([]string(nil), pool...))
	seq := make([]string, 0, sequenceLen)
	for _, id := range shuffled {
		if !slices.Contains(seq, id) {
			seq = append(seq, id)
		}
		if len(seq) >= sequenceLen {
			break
		}
	}
	return topUp(seq, sequenceLen, g.cat.IDs(), chords.SafePool)
}

// BuildOptions returns the answer plus three distractors in random order.
// Distractors favour chords near the answer in the tier pool.
func (g *Generator) BuildOptions(answer string, tier Tier) []string {
	pool := Pool(tier, g.cat)
	aIdx := slices.Index(pool, answer)

	var near []string
	for _, d := range nearOffsets {
		j := aIdx + d
		if j >= 0 && j < len(pool) {
			near = append(near, pool[j])
		}
	}

	distractors := make([]string, 0, optionCount-1)
	for draw := 0; len(distractors) < optionCount-1 && draw < optionDraws; draw++ {
		var cand string
		if len(near) > 0 && g.rng.Random() < nearChance {
			cand = common.Pick(g.rng, near)
		} else {
			cand = common.Pick(g.rng, pool)
		}
		if cand != answer && !slices.Contains(distractors, cand) {
			distractors = append(distractors, cand)
		}
	}

	if len(distractors) < optionCount-1 {
		union := mergeIDs(pool, g.cat.IDs(), chords.SafePool)
		for _, cand := range common.Shuffle(g.rng, union) {
			if cand != answer && !slices.Contains(distractors, cand) {
				distractors = append(distractors, cand)
			}
			if len(distractors) >= optionCount-1 {
				break
			}
		}
	}

	return common.Shuffle(g.rng, append([]string{answer}, distractors...))
}

// mergeIDs concatenates groups, dropping repeats.
func mergeIDs(groups ...[]string) []string {
	var out []string
	for _, ids := range groups {
		for _, id := range ids {
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	return out
}

func filterIDs(ids []string, keep func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
