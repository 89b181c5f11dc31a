package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sourcebook/internal/api"
	"sourcebook/internal/config"
	"sourcebook/internal/export"
	"sourcebook/internal/player"
	"sourcebook/internal/state"
	"sourcebook/internal/ui"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	store := state.NewStore()
	exporter := export.New(cfg.ExportDir)
	audio := player.New()
	defer audio.Close()

	model := ui.NewModel(cfg, client, store, exporter, audio)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sourcebook: %v\n", err)
		os.Exit(1)
	}
}
