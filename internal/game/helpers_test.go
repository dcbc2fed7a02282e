package game

import (
	"fmt"
	"math/rand/v2"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// testCatalog builds n questions for every category/difficulty pair.
func testCatalog(n int) []Question {
	var out []Question
	for _, c := range []Category{CategoryBollywood, CategoryHollywood} {
		for _, d := range Difficulties {
			for i := 0; i < n; i++ {
				out = append(out, Question{
					Puzzle:     "🎬",
					Answer:     fmt.Sprintf("%s %s %d", c, d, i),
					Year:       2000 + i,
					LeadActor:  fmt.Sprintf("Actor %d", i),
					Difficulty: d,
					Category:   c,
				})
			}
		}
	}
	return out
}

// easyCatalog returns n hollywood easy questions with distinct answers.
func easyCatalog(n int) []Question {
	out := make([]Question, n)
	for i := range out {
		out[i] = Question{
			Puzzle:     "🍿",
			Answer:     fmt.Sprintf("Film %d", i),
			Year:       1990 + i,
			LeadActor:  fmt.Sprintf("Lead %d", i),
			Difficulty: DifficultyEasy,
			Category:   CategoryHollywood,
		}
	}
	return out
}

func easySettings() Settings {
	return Settings{Category: FilterBoth, Mode: ModeEasy, HintsEnabled: true}
}
