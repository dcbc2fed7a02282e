// internal/catalog/catalog.go
//
// Loads the read-only question catalog the game draws from.
//
// Source selection (Load):
//   1. If Options.DB is set, read the questions table from that SQLite file,
//      seeding it from the embedded default when the table is empty.
//   2. Else if Options.File is set, decode that JSON file.
//   3. Else fall back to the embedded default catalog (assets/catalog.json).
//
// Record format (JSON array):
//   [{"emojiPuzzle": "🦁👑", "answer": "The Lion King", "year": 1994,
//     "leadActor": "...", "famousQuote": "...", "difficulty": "easy",
//     "industry": "hollywood"}, ...]
//
// Constraints:
//   • Records failing game.Question.Validate are skipped with a warning.
//   • An empty result is ErrEmpty.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-quiz/assets"
	"github.com/robalobadob/emoji-quiz/internal/game"
)

// ErrEmpty is returned when no valid question could be loaded.
var ErrEmpty = errors.New("catalog: no valid questions")

// Options selects the catalog source.
type Options struct {
	File string // JSON file path
	DB   string // SQLite database path; takes precedence over File
}

// Load reads the catalog from the configured source.
func Load(ctx context.Context, opts Options) ([]game.Question, error) {
	var (
		items  []game.Question
		source string
		err    error
	)
	switch {
	case opts.DB != "":
		source = opts.DB
		items, err = loadSQLite(ctx, opts.DB)
	case opts.File != "":
		source = opts.File
		items, err = ReadFile(opts.File)
	default:
		source = "embedded"
		items, err = Default()
	}
	if err != nil {
		return nil, err
	}

	items = clean(items, source)
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	log.Info().Str("source", source).Int("questions", len(items)).Msg("catalog loaded")
	return items, nil
}

// Default decodes the embedded catalog.
func Default() ([]game.Question, error) {
	data, err := assets.Catalog()
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Decode(data)
}

// ReadFile decodes a JSON catalog from path.
func ReadFile(path string) ([]game.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	items, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Decode parses a JSON array of question records.
func Decode(data []byte) ([]game.Question, error) {
	var items []game.Question
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return items, nil
}

// clean drops records the engine cannot use.
func clean(items []game.Question, source string) []game.Question {
	out := make([]game.Question, 0, len(items))
	for i, q := range items {
		if err := q.Validate(); err != nil {
			log.Warn().Err(err).Str("source", source).Int("index", i).Msg("skipping catalog record")
			continue
		}
		out = append(out, q)
	}
	return out
}

// Stats counts questions per category and difficulty.
func Stats(items []game.Question) map[game.Category]map[game.Difficulty]int {
	out := make(map[game.Category]map[game.Difficulty]int)
	for _, q := range items {
		if out[q.Category] == nil {
			out[q.Category] = make(map[game.Difficulty]int)
		}
		out[q.Category][q.Difficulty]++
	}
	return out
}
