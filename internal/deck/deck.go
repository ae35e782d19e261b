package deck

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"github.com/goccy/go-json"
)

//go:embed movies.json
var defaultMovies []byte

// Movie is one card in the deck.
type Movie struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	PosterURL string   `json:"posterUrl,omitempty"`
	Year      int      `json:"year,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
}

// Deck is the working list of movies still to be judged. The top card is
// index 0. It is only mutated from Bubbletea's single-threaded Update loop.
type Deck struct {
	movies []Movie
	total  int
}

// New creates a Deck from movies in the given order.
func New(movies []Movie) *Deck {
	return &Deck{movies: movies, total: len(movies)}
}

// Parse decodes a JSON array of movies.
func Parse(data []byte) ([]Movie, error) {
	var movies []Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	seen := make(map[int]bool, len(movies))
	for i, m := range movies {
		if m.Title == "" {
			return nil, fmt.Errorf("movie %d has no title", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate movie id %d", m.ID)
		}
		seen[m.ID] = true
	}
	return movies, nil
}

// Load reads movies from path, or the built-in deck when path is empty.
func Load(path string) ([]Movie, error) {
	if path == "" {
		return Parse(defaultMovies)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Parse(data)
}

// Shuffle randomizes movie order in place.
func Shuffle(movies []Movie, r *rand.Rand) {
	r.Shuffle(len(movies), func(i, j int) {
		movies[i], movies[j] = movies[j], movies[i]
	})
}

// Current returns a pointer to the top movie, or nil if the deck is empty.
func (d *Deck) Current() *Movie {
	if len(d.movies) == 0 {
		return nil
	}
	return &d.movies[0]
}

// Peek returns up to n movies after the top one.
func (d *Deck) Peek(n int) []Movie {
	if len(d.movies) <= 1 {
		return nil
	}
	end := 1 + n
	if end > len(d.movies) {
		end = len(d.movies)
	}
	result := make([]Movie, end-1)
	copy(result, d.movies[1:end])
	return result
}

// Len returns the number of movies left.
func (d *Deck) Len() int {
	return len(d.movies)
}

// Total returns the number of movies the deck started with.
func (d *Deck) Total() int {
	return d.total
}

// Progress returns the judged fraction of the deck in [0, 1].
func (d *Deck) Progress() float64 {
	if d.total == 0 {
		return 1
	}
	return float64(d.total-len(d.movies)) / float64(d.total)
}

// Remove removes the movie with the given id. Returns false if it is not
// in the deck.
func (d *Deck) Remove(id int) bool {
	for i := range d.movies {
		if d.movies[i].ID == id {
			d.movies = append(d.movies[:i], d.movies[i+1:]...)
			return true
		}
	}
	return false
}

// PutBack returns a movie to the top of the deck, as when a swipe is undone.
// It is a no-op if the movie is already present.
func (d *Deck) PutBack(m Movie) {
	for i := range d.movies {
		if d.movies[i].ID == m.ID {
			return
		}
	}
	d.movies = append([]Movie{m}, d.movies...)
}
