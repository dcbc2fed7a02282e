package httpserver

import (
	"fmt"

	"github.com/robalobadob/emoji-quiz/internal/game"
)

// gameView is the JSON shape of a session as the player sees it.
type gameView struct {
	SessionID string        `json:"sessionId"`
	Player    string        `json:"player"`
	Settings  game.Settings `json:"settings"`
	State     game.State    `json:"state"`
	Question  int           `json:"question,omitempty"` // 1-based, absent once finished
	Total     int           `json:"total"`
	Score     int           `json:"score"`
	Round     *roundView    `json:"round,omitempty"`
	Final     *finalView    `json:"final,omitempty"`
}

type roundView struct {
	Seq              uint64          `json:"seq"`
	Puzzle           string          `json:"emojiPuzzle"`
	Difficulty       game.Difficulty `json:"difficulty"`
	Category         game.Category   `json:"industry"`
	Guess            string          `json:"guess"`
	Feedback         string          `json:"feedback,omitempty"`
	Correct          bool            `json:"isCorrect"`
	SolutionRevealed bool            `json:"showSolution"`
	HintVisible      bool            `json:"showHint"`
	Hint             *hintView       `json:"hint,omitempty"`
	Answer           string          `json:"answer,omitempty"` // only once the round is locked
	Actions          roundActions    `json:"actions"`
}

// hintView never carries the answer.
type hintView struct {
	LeadActor string `json:"leadActor"`
	Year      int    `json:"year"`
}

// roundActions tells a client which buttons to enable.
type roundActions struct {
	Submit   bool `json:"submit"`
	Hint     bool `json:"hint"`
	Solution bool `json:"solution"`
	Skip     bool `json:"skip"`
	Next     bool `json:"next"`
}

type finalView struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// newGameView renders s. Call it while holding the store lock.
func newGameView(s *game.Session) gameView {
	v := gameView{
		SessionID: s.ID,
		Player:    s.Name,
		Settings:  s.Settings,
		State:     s.State(),
		Total:     s.Total(),
		Score:     s.Correct,
	}
	if s.State() == game.StateFinished || s.Round == nil {
		correct, total := s.Result()
		v.Final = &finalView{
			Correct: correct,
			Total:   total,
			Message: fmt.Sprintf("Your final score: %d/%d", correct, total),
		}
		return v
	}

	r := s.Round
	locked := r.Locked()
	rv := &roundView{
		Seq:              r.Seq,
		Puzzle:           r.Question.Puzzle,
		Difficulty:       r.Question.Difficulty,
		Category:         r.Question.Category,
		Guess:            r.Guess,
		Feedback:         r.Feedback,
		Correct:          r.Correct,
		SolutionRevealed: r.SolutionRevealed,
		HintVisible:      r.HintVisible,
		Actions: roundActions{
			Submit:   !locked,
			Hint:     s.Settings.HintsEnabled,
			Solution: !locked,
			Skip:     !locked,
			Next:     locked,
		},
	}
	if s.Settings.HintsEnabled && r.HintVisible {
		rv.Hint = &hintView{LeadActor: r.Question.LeadActor, Year: r.Question.Year}
	}
	if locked {
		rv.Answer = r.Question.Answer
	}
	v.Question = s.Position + 1
	v.Score = r.Score
	v.Round = rv
	return v
}
