package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/reelswipe/internal/swipe"
)

type keyMap struct {
	Like    key.Binding
	Dislike key.Binding
	NotSeen key.Binding
	Skip    key.Binding
	Undo    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Like: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "like"),
		),
		Dislike: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "nope"),
		),
		NotSeen: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "not seen"),
		),
		Skip: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "skip"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", "undo"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dislike, k.Like, k.NotSeen, k.Skip, k.Undo, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// swipeFor returns the direction bound to msg, if any.
func (k keyMap) swipeFor(msg tea.KeyMsg) swipe.Direction {
	switch {
	case key.Matches(msg, k.Like):
		return swipe.Right
	case key.Matches(msg, k.Dislike):
		return swipe.Left
	case key.Matches(msg, k.NotSeen):
		return swipe.Down
	case key.Matches(msg, k.Skip):
		return swipe.Up
	}
	return swipe.None
}
