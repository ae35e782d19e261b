package swipe

import (
	"fmt"
	"strings"
)

// Direction is the outcome of classifying a gesture.
type Direction int

const (
	None Direction = iota
	Left
	Right
	Up
	Down
)

// Directions lists the four swipe directions.
func Directions() []Direction {
	return []Direction{Left, Right, Up, Down}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four swipe directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= Down
}

// Vector returns the unit axis vector for d in screen coordinates
// (y grows downward).
func (d Direction) Vector() (x, y float64) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	}
	return 0, 0
}

// ParseDirection parses a direction name. The empty string parses as None.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" || name == None.String() {
		return None, nil
	}
	for _, d := range Directions() {
		if d.String() == name {
			return d, nil
		}
	}
	return None, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
