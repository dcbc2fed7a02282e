// internal/game/engine.go
//
// Round state machine for a single quiz session.
// Responsibilities:
//   - Create sessions from a catalog and validated settings.
//   - Evaluate guesses (case-insensitive exact match, no trimming).
//   - Manage hint visibility and solution reveal for the current round.
//   - Advance via next/skip, finish at the end of the selected sequence.
//   - Restart with a fresh selection under the same settings.
//
// States: in_progress (a current round exists) → finished (terminal).
// Once a round is correct or its solution revealed, it is locked: guesses and
// skips are rejected until the player moves on with Next.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Feedback messages shown for the current round.
const (
	FeedbackCorrect  = "Correct! 🎉"
	FeedbackTryAgain = "Try Again! 😅"
	FeedbackSkipped  = "Question Skipped!"
	solutionPrefix   = "The answer is: "
)

// Errors returned by session operations. None of them changes state.
var (
	ErrNameRequired  = errors.New("name required")
	ErrFinished      = errors.New("session finished")
	ErrRoundLocked   = errors.New("round already answered")
	ErrRoundOpen     = errors.New("round not answered yet")
	ErrUnknownAction = errors.New("unknown action")
)

// State is the coarse session state.
type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Round is the transient state of the question currently shown.
type Round struct {
	Question         Question
	Seq              uint64 // changes every time a round is loaded
	Score            int    // running score carried across rounds
	HintVisible      bool
	Guess            string
	Feedback         string
	Correct          bool
	SolutionRevealed bool
}

// Locked reports whether the round was answered or given up.
func (r *Round) Locked() bool { return r.Correct || r.SolutionRevealed }

// Session is one play-through. It is not safe for concurrent use; callers
// serialize access (see the store package).
type Session struct {
	ID        string
	Name      string
	Settings  Settings
	Questions []Question
	Position  int
	Correct   int
	Round     *Round // nil once finished

	catalog []Question
	rng     *rand.Rand
	seq     uint64
}

// New validates the player name and settings and starts a session.
// A selection shorter than SessionLength is accepted; an empty one produces a
// session that is already finished.
func New(name string, s Settings, catalog []Question, rng *rand.Rand) (*Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	sess := &Session{
		ID:       uuid.NewString(),
		Name:     name,
		Settings: s,
		catalog:  catalog,
		rng:      rng,
	}
	sess.start()
	return sess, nil
}

// start selects a fresh sequence and loads its first round.
func (s *Session) start() {
	s.Questions = Select(s.catalog, s.Settings, s.rng)
	s.Position = 0
	s.Correct = 0
	s.Round = nil
	if len(s.Questions) > 0 {
		s.load(0)
	}
}

// load replaces the current round with a clean one for Questions[pos].
func (s *Session) load(pos int) {
	score := 0
	if s.Round != nil {
		score = s.Round.Score
	}
	s.seq++
	s.Round = &Round{Question: s.Questions[pos], Seq: s.seq, Score: score}
}

// State reports whether the session is still in progress.
func (s *Session) State() State {
	if s.Position >= len(s.Questions) {
		return StateFinished
	}
	return StateInProgress
}

// Total is the completion bound: the length of the selected sequence.
func (s *Session) Total() int { return len(s.Questions) }

// SubmitGuess records text as the guess and scores it.
func (s *Session) SubmitGuess(text string) error {
	r, err := s.open()
	if err != nil {
		return err
	}
	r.Guess = text
	if sameAnswer(text, r.Question.Answer) {
		r.Correct = true
		r.Score++
		s.Correct++
		r.Feedback = FeedbackCorrect
		return nil
	}
	r.Feedback = FeedbackTryAgain
	return nil
}

// ToggleHint flips hint visibility. It does nothing when hints are disabled.
func (s *Session) ToggleHint() error {
	r, err := s.current()
	if err != nil {
		return err
	}
	if s.Settings.HintsEnabled {
		r.HintVisible = !r.HintVisible
	}
	return nil
}

// RevealSolution shows the answer. Calling it on a locked round is a no-op.
func (s *Session) RevealSolution() error {
	r, err := s.current()
	if err != nil {
		return err
	}
	if r.Locked() {
		return nil
	}
	r.SolutionRevealed = true
	r.Feedback = solutionPrefix + r.Question.Answer
	return nil
}

// Next moves on after a correct guess or a revealed solution.
func (s *Session) Next() error {
	r, err := s.current()
	if err != nil {
		return err
	}
	if !r.Locked() {
		return ErrRoundOpen
	}
	s.advance()
	return nil
}

// Skip gives up on an open round without revealing it. When another round
// follows, it starts with the skip message as feedback; the returned seq
// identifies that round for ClearFeedback. ok is false when the skip
// finished the session.
func (s *Session) Skip() (seq uint64, ok bool, err error) {
	if _, err := s.open(); err != nil {
		return 0, false, err
	}
	s.advance()
	if s.Round == nil {
		return 0, false, nil
	}
	s.Round.Feedback = FeedbackSkipped
	return s.Round.Seq, true, nil
}

// ClearFeedback removes the skip message from the round identified by seq.
// It reports false when that round is gone or its feedback has changed since.
func (s *Session) ClearFeedback(seq uint64) bool {
	r := s.Round
	if r == nil || r.Seq != seq || r.Feedback != FeedbackSkipped {
		return false
	}
	r.Feedback = ""
	return true
}

// Restart discards all progress and draws a new selection with the same
// settings and catalog. It is allowed in any state.
func (s *Session) Restart() {
	s.start()
}

// Result returns the final score; it is meaningful once finished.
func (s *Session) Result() (correct, total int) {
	return s.Correct, s.Total()
}

// Suggest offers autocomplete answers from the session's category.
func (s *Session) Suggest(input string) []string {
	pool := filter(s.catalog, func(q Question) bool { return s.Settings.Category.Matches(q.Category) })
	return Suggest(pool, input)
}

// advance moves to the next position, finishing at the end of the sequence.
func (s *Session) advance() {
	s.Position++
	if s.Position >= len(s.Questions) {
		s.Position = len(s.Questions)
		s.Round = nil
		return
	}
	s.load(s.Position)
}

// current returns the round or ErrFinished.
func (s *Session) current() (*Round, error) {
	if s.State() == StateFinished || s.Round == nil {
		return nil, ErrFinished
	}
	return s.Round, nil
}

// open returns the current round if it still accepts guesses and skips.
func (s *Session) open() (*Round, error) {
	r, err := s.current()
	if err != nil {
		return nil, err
	}
	if r.Locked() {
		return nil, ErrRoundLocked
	}
	return r, nil
}

// Action names a player operation for Apply.
type Action string

const (
	ActionGuess    Action = "guess"
	ActionHint     Action = "hint"
	ActionSolution Action = "solution"
	ActionSkip     Action = "skip"
	ActionNext     Action = "next"
	ActionRestart  Action = "restart"
)

// Apply dispatches a by name. input is only used by ActionGuess.
func (s *Session) Apply(a Action, input string) error {
	switch a {
	case ActionGuess:
		return s.SubmitGuess(input)
	case ActionHint:
		return s.ToggleHint()
	case ActionSolution:
		return s.RevealSolution()
	case ActionSkip:
		_, _, err := s.Skip()
		return err
	case ActionNext:
		return s.Next()
	case ActionRestart:
		s.Restart()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a)
}
