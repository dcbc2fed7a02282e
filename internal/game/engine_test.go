package game

import (
	"errors"
	"testing"
)

func newEasySession(t *testing.T, n int) *Session {
	t.Helper()
	s, err := New("Asha", easySettings(), easyCatalog(n), testRand(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

// singleAnswer starts a one-question session whose answer is answer.
func singleAnswer(t *testing.T, answer string) *Session {
	t.Helper()
	catalog := []Question{{Puzzle: "💭🌀", Answer: answer, Year: 2010, LeadActor: "Leonardo DiCaprio", Difficulty: DifficultyEasy, Category: CategoryHollywood}}
	s, err := New("Asha", easySettings(), catalog, testRand(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestNewRejectsBlankName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		s, err := New(name, DefaultSettings(), testCatalog(5), testRand(1))
		if !errors.Is(err, ErrNameRequired) {
			t.Fatalf("New(%q) error = %v, want %v", name, err, ErrNameRequired)
		}
		if s != nil {
			t.Fatalf("New(%q) returned a session", name)
		}
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New("Asha", Settings{Category: "tollywood", Mode: ModeEasy}, testCatalog(5), testRand(1))
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidSettings)
	}
}

func TestNewStartsAtFirstQuestion(t *testing.T) {
	s := newEasySession(t, 20)
	if s.ID == "" {
		t.Fatal("session id is empty")
	}
	if s.State() != StateInProgress {
		t.Fatalf("state = %s, want %s", s.State(), StateInProgress)
	}
	if s.Position != 0 || s.Correct != 0 {
		t.Fatalf("position/correct = %d/%d, want 0/0", s.Position, s.Correct)
	}
	if s.Round == nil || s.Round.Question != s.Questions[0] {
		t.Fatal("round does not hold the first question")
	}
}

func TestSubmitGuessIgnoresCase(t *testing.T) {
	for _, guess := range []string{"Inception", "inception", "INCEPTION"} {
		s := singleAnswer(t, "Inception")
		if err := s.SubmitGuess(guess); err != nil {
			t.Fatalf("SubmitGuess(%q) returned error: %v", guess, err)
		}
		if !s.Round.Correct {
			t.Fatalf("SubmitGuess(%q) correct = false, want true", guess)
		}
		if s.Round.Feedback != FeedbackCorrect {
			t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackCorrect)
		}
		if s.Round.Guess != guess {
			t.Fatalf("guess = %q, want %q", s.Round.Guess, guess)
		}
	}
}

func TestSubmitGuessFoldsUnicode(t *testing.T) {
	s := singleAnswer(t, "ΟΔΥΣΣΕΑΣ")
	stem := "\u03bf\u03b4\u03c5\u03c3\u03c3\u03b5\u03b1" // οδυσσεα
	if err := s.SubmitGuess(stem + "\u03c3"); err != nil {
		t.Fatalf("SubmitGuess returned error: %v", err)
	}
	if s.Round.Correct {
		t.Fatal("medial sigma guess matched a final sigma answer")
	}
	if err := s.SubmitGuess(stem + "\u03c2"); err != nil {
		t.Fatalf("SubmitGuess returned error: %v", err)
	}
	if !s.Round.Correct {
		t.Fatal("final sigma guess did not match")
	}
}

func TestSubmitGuessDoesNotTrim(t *testing.T) {
	s := singleAnswer(t, "Inception")
	if err := s.SubmitGuess("Inception "); err != nil {
		t.Fatalf("SubmitGuess returned error: %v", err)
	}
	if s.Round.Correct {
		t.Fatal("guess with trailing space was accepted")
	}
	if s.Round.Feedback != FeedbackTryAgain {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackTryAgain)
	}
	if s.Correct != 0 || s.Round.Score != 0 {
		t.Fatalf("score = %d/%d, want 0/0", s.Correct, s.Round.Score)
	}
	if s.Position != 0 {
		t.Fatalf("position = %d, want 0", s.Position)
	}
}

func TestScoreCountsOncePerQuestion(t *testing.T) {
	s := newEasySession(t, 20)
	answer := s.Round.Question.Answer

	_ = s.SubmitGuess("nope")
	if s.Correct != 0 {
		t.Fatalf("correct = %d after wrong guess, want 0", s.Correct)
	}
	if err := s.SubmitGuess(answer); err != nil {
		t.Fatalf("SubmitGuess returned error: %v", err)
	}
	if err := s.SubmitGuess(answer); !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("second SubmitGuess error = %v, want %v", err, ErrRoundLocked)
	}
	if s.Correct != 1 || s.Round.Score != 1 {
		t.Fatalf("score = %d/%d, want 1/1", s.Correct, s.Round.Score)
	}
}

func TestRunningScoreCarriesAcrossRounds(t *testing.T) {
	s := newEasySession(t, 20)
	for i := 0; i < 3; i++ {
		if err := s.SubmitGuess(s.Round.Question.Answer); err != nil {
			t.Fatalf("SubmitGuess returned error: %v", err)
		}
		if err := s.Next(); err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
	}
	if s.Round.Score != 3 || s.Correct != 3 {
		t.Fatalf("score = %d/%d, want 3/3", s.Round.Score, s.Correct)
	}
}

func TestToggleHint(t *testing.T) {
	s := newEasySession(t, 20)
	_ = s.ToggleHint()
	if !s.Round.HintVisible {
		t.Fatal("hint hidden after first toggle")
	}
	_ = s.ToggleHint()
	if s.Round.HintVisible {
		t.Fatal("hint visible after second toggle")
	}
	if s.Correct != 0 || s.Round.Correct {
		t.Fatal("toggling the hint changed scoring")
	}
}

func TestToggleHintDisabled(t *testing.T) {
	settings := easySettings()
	settings.HintsEnabled = false
	s, err := New("Asha", settings, easyCatalog(20), testRand(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := s.ToggleHint(); err != nil {
		t.Fatalf("ToggleHint returned error: %v", err)
	}
	if s.Round.HintVisible {
		t.Fatal("hint shown with hints disabled")
	}
}

func TestRevealSolutionIsIdempotent(t *testing.T) {
	s := newEasySession(t, 20)
	if err := s.RevealSolution(); err != nil {
		t.Fatalf("RevealSolution returned error: %v", err)
	}
	once := *s.Round
	if err := s.RevealSolution(); err != nil {
		t.Fatalf("second RevealSolution returned error: %v", err)
	}
	if *s.Round != once {
		t.Fatalf("round after second reveal = %+v, want %+v", *s.Round, once)
	}
	want := "The answer is: " + s.Round.Question.Answer
	if s.Round.Feedback != want {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, want)
	}
}

func TestRevealedRoundRejectsGuessAndSkip(t *testing.T) {
	s := newEasySession(t, 20)
	_ = s.RevealSolution()
	answer := s.Round.Question.Answer

	if err := s.SubmitGuess(answer); !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("SubmitGuess error = %v, want %v", err, ErrRoundLocked)
	}
	if _, _, err := s.Skip(); !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("Skip error = %v, want %v", err, ErrRoundLocked)
	}
	if s.Correct != 0 || s.Position != 0 {
		t.Fatalf("correct/position = %d/%d, want 0/0", s.Correct, s.Position)
	}
}

func TestRevealAfterCorrectIsNoop(t *testing.T) {
	s := newEasySession(t, 20)
	_ = s.SubmitGuess(s.Round.Question.Answer)
	if err := s.RevealSolution(); err != nil {
		t.Fatalf("RevealSolution returned error: %v", err)
	}
	if s.Round.SolutionRevealed {
		t.Fatal("solution revealed on a correct round")
	}
	if s.Round.Feedback != FeedbackCorrect {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackCorrect)
	}
}

func TestNextRequiresAnsweredRound(t *testing.T) {
	s := newEasySession(t, 20)
	if err := s.Next(); !errors.Is(err, ErrRoundOpen) {
		t.Fatalf("Next error = %v, want %v", err, ErrRoundOpen)
	}
	_ = s.RevealSolution()
	if err := s.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	r := s.Round
	if s.Position != 1 || r.Question != s.Questions[1] {
		t.Fatalf("position = %d, want 1", s.Position)
	}
	if r.Guess != "" || r.Feedback != "" || r.HintVisible || r.Correct || r.SolutionRevealed {
		t.Fatalf("round not reset: %+v", *r)
	}
}

func TestSkipSetsAndClearsFeedback(t *testing.T) {
	s := newEasySession(t, 20)
	_ = s.ToggleHint()
	seq, ok, err := s.Skip()
	if err != nil || !ok {
		t.Fatalf("Skip = %d, %v, %v", seq, ok, err)
	}
	if s.Position != 1 {
		t.Fatalf("position = %d, want 1", s.Position)
	}
	if s.Round.Feedback != FeedbackSkipped {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackSkipped)
	}
	if s.Round.HintVisible {
		t.Fatal("hint still visible after skip")
	}
	if !s.ClearFeedback(seq) {
		t.Fatal("ClearFeedback = false, want true")
	}
	if s.Round.Feedback != "" {
		t.Fatalf("feedback = %q, want empty", s.Round.Feedback)
	}
}

func TestClearFeedbackIgnoresStaleRounds(t *testing.T) {
	s := newEasySession(t, 20)
	seq, _, _ := s.Skip()
	_, _, _ = s.Skip()
	if s.ClearFeedback(seq) {
		t.Fatal("stale ClearFeedback applied")
	}
	if s.Round.Feedback != FeedbackSkipped {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackSkipped)
	}

	seq = s.Round.Seq
	_ = s.SubmitGuess("wrong")
	if s.ClearFeedback(seq) {
		t.Fatal("ClearFeedback overwrote newer feedback")
	}
	if s.Round.Feedback != FeedbackTryAgain {
		t.Fatalf("feedback = %q, want %q", s.Round.Feedback, FeedbackTryAgain)
	}
}

func TestClearFeedbackIgnoresRestartedRound(t *testing.T) {
	s := newEasySession(t, 20)
	seq, _, _ := s.Skip()
	s.Restart()
	_, _, _ = s.Skip()
	if s.ClearFeedback(seq) {
		t.Fatal("ClearFeedback from before restart applied")
	}
}

func TestLastQuestionFinishes(t *testing.T) {
	s := newEasySession(t, 20)
	for i := 0; i < SessionLength-1; i++ {
		if _, _, err := s.Skip(); err != nil {
			t.Fatalf("Skip %d returned error: %v", i, err)
		}
	}
	if s.Position != 14 {
		t.Fatalf("position = %d, want 14", s.Position)
	}
	_ = s.SubmitGuess(s.Round.Question.Answer)
	if err := s.Next(); err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if s.State() != StateFinished {
		t.Fatalf("state = %s, want %s", s.State(), StateFinished)
	}
	if s.Round != nil {
		t.Fatal("finished session still has a round")
	}
	correct, total := s.Result()
	if correct != 1 || total != SessionLength {
		t.Fatalf("result = %d/%d, want 1/%d", correct, total, SessionLength)
	}
}

func TestSkipOnLastQuestionFinishes(t *testing.T) {
	s := newEasySession(t, 2)
	_, _, _ = s.Skip()
	seq, ok, err := s.Skip()
	if err != nil || ok || seq != 0 {
		t.Fatalf("Skip = %d, %v, %v, want 0, false, nil", seq, ok, err)
	}
	if s.State() != StateFinished {
		t.Fatalf("state = %s, want %s", s.State(), StateFinished)
	}
	if s.Position != 2 {
		t.Fatalf("position = %d, want 2", s.Position)
	}
}

func TestFinishedSessionRejectsRoundOperations(t *testing.T) {
	s := newEasySession(t, 1)
	_, _, _ = s.Skip()

	ops := map[string]func() error{
		"guess":    func() error { return s.SubmitGuess("x") },
		"hint":     s.ToggleHint,
		"solution": s.RevealSolution,
		"next":     s.Next,
		"skip":     func() error { _, _, err := s.Skip(); return err },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrFinished) {
			t.Fatalf("%s error = %v, want %v", name, err, ErrFinished)
		}
	}
}

func TestShortSelectionUsesActualLength(t *testing.T) {
	s := newEasySession(t, 4)
	if s.Total() != 4 {
		t.Fatalf("total = %d, want 4", s.Total())
	}
	for i := 0; i < 4; i++ {
		_ = s.RevealSolution()
		_ = s.Next()
	}
	if s.State() != StateFinished {
		t.Fatalf("state = %s, want %s", s.State(), StateFinished)
	}
	if _, total := s.Result(); total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
}

func TestEmptySelectionIsFinished(t *testing.T) {
	s, err := New("Asha", Settings{Category: FilterBollywood, Mode: ModeEasy}, easyCatalog(5), testRand(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if s.State() != StateFinished || s.Round != nil {
		t.Fatalf("state = %s, want %s", s.State(), StateFinished)
	}
}

func TestRestartResets(t *testing.T) {
	s := newEasySession(t, 40)
	for s.State() == StateInProgress {
		_ = s.SubmitGuess(s.Round.Question.Answer)
		_ = s.Next()
	}
	if c, _ := s.Result(); c != SessionLength {
		t.Fatalf("correct = %d, want %d", c, SessionLength)
	}

	s.Restart()
	if s.Position != 0 || s.Correct != 0 {
		t.Fatalf("position/correct = %d/%d, want 0/0", s.Position, s.Correct)
	}
	if len(s.Questions) != SessionLength {
		t.Fatalf("len = %d, want %d", len(s.Questions), SessionLength)
	}
	r := s.Round
	if r == nil || r.Question != s.Questions[0] {
		t.Fatal("restart did not load the first question")
	}
	if r.Score != 0 || r.Guess != "" || r.Feedback != "" || r.HintVisible || r.Correct || r.SolutionRevealed {
		t.Fatalf("round not reset: %+v", *r)
	}
}

func TestApplyDispatches(t *testing.T) {
	s := newEasySession(t, 20)
	if err := s.Apply(ActionHint, ""); err != nil || !s.Round.HintVisible {
		t.Fatalf("hint: err = %v, visible = %v", err, s.Round.HintVisible)
	}
	if err := s.Apply(ActionGuess, s.Round.Question.Answer); err != nil || !s.Round.Correct {
		t.Fatalf("guess: err = %v, correct = %v", err, s.Round.Correct)
	}
	if err := s.Apply(ActionNext, ""); err != nil || s.Position != 1 {
		t.Fatalf("next: err = %v, position = %d", err, s.Position)
	}
	if err := s.Apply(ActionSkip, ""); err != nil || s.Position != 2 {
		t.Fatalf("skip: err = %v, position = %d", err, s.Position)
	}
	if err := s.Apply(ActionSolution, ""); err != nil || !s.Round.SolutionRevealed {
		t.Fatalf("solution: err = %v, revealed = %v", err, s.Round.SolutionRevealed)
	}
	if err := s.Apply(ActionRestart, ""); err != nil || s.Position != 0 {
		t.Fatalf("restart: err = %v, position = %d", err, s.Position)
	}
	if err := s.Apply("dance", ""); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("unknown action error = %v, want %v", err, ErrUnknownAction)
	}
}
