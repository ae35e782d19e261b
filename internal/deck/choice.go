package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/olivier-w/reelswipe/internal/swipe"
)

// Verdict is what a swipe direction means for a movie.
type Verdict string

const (
	Liked    Verdict = "liked"
	Disliked Verdict = "disliked"
	NotSeen  Verdict = "not_seen"
	Skipped  Verdict = "skipped"
)

// VerdictFor maps a swipe direction onto a verdict.
func VerdictFor(d swipe.Direction) Verdict {
	switch d {
	case swipe.Right:
		return Liked
	case swipe.Left:
		return Disliked
	case swipe.Down:
		return NotSeen
	default:
		return Skipped
	}
}

// Label is the short text shown on a card while a swipe is pending.
func (v Verdict) Label() string {
	switch v {
	case Liked:
		return "LIKE"
	case Disliked:
		return "NOPE"
	case NotSeen:
		return "NOT SEEN"
	default:
		return "SKIP"
	}
}

// Choice records one judged movie.
type Choice struct {
	MovieID   int             `json:"movieId"`
	Title     string          `json:"title"`
	Direction swipe.Direction `json:"direction"`
	Verdict   Verdict         `json:"verdict"`
	Timestamp time.Time       `json:"timestamp"`
}

// Selection is the liked/disliked summary a recommender consumes.
type Selection struct {
	LikedIDs    []int `json:"likedIds"`
	DislikedIDs []int `json:"dislikedIds"`
}

// Recorder accumulates choices in swipe order for one session.
type Recorder struct {
	id      string
	choices []Choice
}

// NewRecorder returns an empty recorder with a fresh session id.
func NewRecorder() *Recorder {
	return &Recorder{id: uuid.NewString()}
}

// SessionID identifies the session in saved output.
func (r *Recorder) SessionID() string {
	return r.id
}

// Record appends a choice for m.
func (r *Recorder) Record(m Movie, d swipe.Direction, at time.Time) Choice {
	c := Choice{
		MovieID:   m.ID,
		Title:     m.Title,
		Direction: d,
		Verdict:   VerdictFor(d),
		Timestamp: at,
	}
	r.choices = append(r.choices, c)
	return c
}

// Undo drops the most recent choice and returns it.
func (r *Recorder) Undo() (Choice, bool) {
	if len(r.choices) == 0 {
		return Choice{}, false
	}
	c := r.choices[len(r.choices)-1]
	r.choices = r.choices[:len(r.choices)-1]
	return c, true
}

// Last returns the most recent choice.
func (r *Recorder) Last() (Choice, bool) {
	if len(r.choices) == 0 {
		return Choice{}, false
	}
	return r.choices[len(r.choices)-1], true
}

// Choices returns a copy of the recorded choices.
func (r *Recorder) Choices() []Choice {
	out := make([]Choice, len(r.choices))
	copy(out, r.choices)
	return out
}

// Clone returns an independent copy of r.
func (r *Recorder) Clone() *Recorder {
	return &Recorder{id: r.id, choices: r.Choices()}
}

// Len returns the number of recorded choices.
func (r *Recorder) Len() int {
	return len(r.choices)
}

// Count returns how many choices have the given verdict.
func (r *Recorder) Count(v Verdict) int {
	n := 0
	for _, c := range r.choices {
		if c.Verdict == v {
			n++
		}
	}
	return n
}

// Selection splits liked and disliked movie ids.
func (r *Recorder) Selection() Selection {
	s := Selection{LikedIDs: []int{}, DislikedIDs: []int{}}
	for _, c := range r.choices {
		switch c.Verdict {
		case Liked:
			s.LikedIDs = append(s.LikedIDs, c.MovieID)
		case Disliked:
			s.DislikedIDs = append(s.DislikedIDs, c.MovieID)
		}
	}
	return s
}

type savedSession struct {
	SessionID string    `json:"sessionId"`
	Choices   []Choice  `json:"choices"`
	Selection Selection `json:"selection"`
}

// Save writes the choices and selection summary to path as JSON. The file
// is written to a temp sibling and renamed into place.
func (r *Recorder) Save(path string) error {
	data, err := json.MarshalIndent(savedSession{
		SessionID: r.id,
		Choices:   r.Choices(),
		Selection: r.Selection(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode choices: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".choices-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write choices: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write choices: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save choices: %w", err)
	}
	return nil
}
