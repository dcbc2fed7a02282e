// internal/game/types.go
//
// Core type definitions for the emoji quiz engine.
// Defines:
//   - Difficulty / Category: catalog tags carried by every question.
//   - Mode / CategoryFilter: the player's chosen settings.
//   - Question: one read-only catalog record.
//   - Settings: validated, immutable per-session configuration.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// SessionLength is the number of questions in a full play-through.
const SessionLength = 15

// perDifficulty is how many questions each step of the progressive ramp takes.
const perDifficulty = SessionLength / 3

// Difficulty tags a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tags in ramp order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is a known tag.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Category tags the film industry a question comes from.
type Category string

const (
	CategoryBollywood Category = "bollywood"
	CategoryHollywood Category = "hollywood"
)

// Valid reports whether c is a known tag.
func (c Category) Valid() bool {
	return c == CategoryBollywood || c == CategoryHollywood
}

// CategoryFilter is the category setting. It is either a Category or "both".
type CategoryFilter string

const (
	FilterBoth      CategoryFilter = "both"
	FilterBollywood CategoryFilter = CategoryFilter(CategoryBollywood)
	FilterHollywood CategoryFilter = CategoryFilter(CategoryHollywood)
)

// Matches reports whether a question tagged c passes the filter.
func (f CategoryFilter) Matches(c Category) bool {
	return f == FilterBoth || Category(f) == c
}

// Mode is the difficulty setting: a single difficulty or the progressive ramp.
type Mode string

const (
	ModeEasy        Mode = Mode(DifficultyEasy)
	ModeMedium      Mode = Mode(DifficultyMedium)
	ModeHard        Mode = Mode(DifficultyHard)
	ModeProgressive Mode = "progressive"
)

// Question is one catalog record. Values are never mutated after loading.
type Question struct {
	Puzzle     string     `json:"emojiPuzzle"`
	Answer     string     `json:"answer"`
	Year       int        `json:"year"`
	LeadActor  string     `json:"leadActor"`
	Quote      string     `json:"famousQuote"`
	Difficulty Difficulty `json:"difficulty"`
	Category   Category   `json:"industry"`
}

// Validate checks the fields the engine depends on.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Answer) == "" {
		return errors.New("missing answer")
	}
	if q.Puzzle == "" {
		return errors.New("missing puzzle")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	if !q.Category.Valid() {
		return fmt.Errorf("unknown category %q", q.Category)
	}
	return nil
}

// Settings holds the options chosen on the setup screen.
type Settings struct {
	Category     CategoryFilter `json:"industry"`
	Mode         Mode           `json:"difficulty"`
	HintsEnabled bool           `json:"hintsEnabled"`
}

// DefaultSettings mirrors the setup screen's initial selection.
func DefaultSettings() Settings {
	return Settings{
		Category:     FilterBoth,
		Mode:         ModeProgressive,
		HintsEnabled: true,
	}
}

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate rejects values outside the enumerated options.
func (s Settings) Validate() error {
	switch s.Category {
	case FilterBoth, FilterBollywood, FilterHollywood:
	default:
		return fmt.Errorf("%w: category %q", ErrInvalidSettings, s.Category)
	}
	switch s.Mode {
	case ModeEasy, ModeMedium, ModeHard, ModeProgressive:
	default:
		return fmt.Errorf("%w: difficulty %q", ErrInvalidSettings, s.Mode)
	}
	return nil
}
