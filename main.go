package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/reelswipe/internal/config"
	"github.com/olivier-w/reelswipe/internal/deck"
	"github.com/olivier-w/reelswipe/internal/logging"
	"github.com/olivier-w/reelswipe/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: reelswipe [deck.json]")
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Deck.Path = args[0]
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	movies, err := deck.Load(cfg.Deck.Path)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		return fmt.Errorf("deck is empty")
	}
	if cfg.Deck.Shuffle {
		deck.Shuffle(movies, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	log.Info().
		Str("deck", cfg.Deck.Path).
		Int("movies", len(movies)).
		Bool("shuffle", cfg.Deck.Shuffle).
		Msg("starting")

	model := ui.New(cfg, deck.New(movies), log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := program.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(ui.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", finalModel)
	}
	printSummary(m.Result())
	return nil
}

func printSummary(res ui.Result) {
	if len(res.Choices) == 0 {
		return
	}
	fmt.Printf("Judged %d movies: %d liked, %d disliked\n",
		len(res.Choices), len(res.Selection.LikedIDs), len(res.Selection.DislikedIDs))
	switch {
	case res.SaveErr != nil:
		fmt.Fprintf(os.Stderr, "Could not save choices: %v\n", res.SaveErr)
	case res.SavedTo != "":
		fmt.Printf("Choices saved to %s\n", res.SavedTo)
	}
}
