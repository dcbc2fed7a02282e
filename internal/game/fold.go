package game

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lower applies full Unicode lowercasing, including context-sensitive rules
// such as final sigma. No trimming or other normalization happens here.
// A Caser holds state, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// sameAnswer reports whether guess equals answer ignoring case.
func sameAnswer(guess, answer string) bool {
	return lower(guess) == lower(answer)
}
