package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sourcebook/internal/notebook"
)

// Exporter writes podcast artifacts (script and audio) into a local output
// directory. Saves are purely local side effects; nothing is sent back to
// the server.
type Exporter struct {
	outDir string
}

func New(outDir string) *Exporter {
	return &Exporter{outDir: strings.TrimSpace(outDir)}
}

// SaveScript writes the podcast script as formatted structured text under a
// filename derived from the podcast id. It returns the written path.
func (e *Exporter) SaveScript(p notebook.Podcast) (string, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	data, err := notebook.FormatScript(p.Script)
	if err != nil {
		return "", fmt.Errorf("format script: %w", err)
	}

	path := filepath.Join(e.outDir, ScriptFilename(p))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write script file: %w", err)
	}
	return path, nil
}

// SaveAudio copies a previously downloaded audio resource into the export
// directory under a filename derived from the podcast id. It returns the
// written path.
func (e *Exporter) SaveAudio(p notebook.Podcast, audioPath string) (string, error) {
	if p.AudioURL == "" {
		return "", fmt.Errorf("podcast has no audio resource")
	}
	src, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open downloaded audio: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(e.outDir, AudioFilename(p))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audio export: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy audio export: %w", err)
	}
	return path, nil
}

// ScriptFilename derives the script download name from the podcast id.
func ScriptFilename(p notebook.Podcast) string {
	return "podcast-script-" + idPrefix(p.ID) + ".json"
}

// AudioFilename derives the audio download name from the podcast id.
func AudioFilename(p notebook.Podcast) string {
	return "podcast-" + idPrefix(p.ID) + ".wav"
}

func idPrefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "untitled"
	}
	return id
}
