// internal/game/select.go
//
// Session initializer: picks and orders the questions for one play-through.
//
// Selection rules:
//   - Filter by category (no filtering for "both").
//   - Single difficulty: filter by difficulty, shuffle, take SessionLength.
//   - Progressive: take perDifficulty easy, then medium, then hard, each
//     drawn independently from the category-filtered pool. The order is the
//     difficulty ramp and is never shuffled afterwards.
//
// A catalog that cannot supply enough items yields a shorter list.

package game

import "math/rand/v2"

// Select returns up to SessionLength questions for the given settings.
// It consumes rng and never mutates catalog.
func Select(catalog []Question, s Settings, rng *rand.Rand) []Question {
	pool := filter(catalog, func(q Question) bool { return s.Category.Matches(q.Category) })

	if s.Mode != ModeProgressive {
		return pickByDifficulty(pool, Difficulty(s.Mode), SessionLength, rng)
	}

	out := make([]Question, 0, SessionLength)
	for _, d := range Difficulties {
		out = append(out, pickByDifficulty(pool, d, perDifficulty, rng)...)
	}
	return out
}

// pickByDifficulty filters pool to d, shuffles, and keeps at most n.
func pickByDifficulty(pool []Question, d Difficulty, n int, rng *rand.Rand) []Question {
	matching := filter(pool, func(q Question) bool { return q.Difficulty == d })
	shuffle(matching, rng)
	if len(matching) > n {
		matching = matching[:n]
	}
	return matching
}

// filter returns a new slice of the items that satisfy keep.
func filter(items []Question, keep func(Question) bool) []Question {
	out := make([]Question, 0, len(items))
	for _, q := range items {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// shuffle is an in-place Fisher-Yates shuffle: every permutation is equally likely.
func shuffle[T any](xs []T, rng *rand.Rand) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
