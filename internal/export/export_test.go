package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sourcebook/internal/notebook"
)

func TestSaveScript_WritesDerivedFilename(t *testing.T) {
	dir := t.TempDir()
	e := New(filepath.Join(dir, "out"))

	p := notebook.Podcast{
		ID: "abcdef0123456789",
		Script: []notebook.ScriptLine{
			{Speaker: notebook.SpeakerOne, Text: "Hello."},
			{Speaker: notebook.SpeakerTwo, Text: "Hi there."},
		},
	}

	path, err := e.SaveScript(p)
	if err != nil {
		t.Fatalf("SaveScript: %v", err)
	}
	if filepath.Base(path) != "podcast-script-abcdef01.json" {
		t.Fatalf("unexpected filename: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(data), "Hi there.") {
		t.Fatalf("script content missing, got:\n%s", data)
	}
}

func TestSaveAudio_CopiesDownloadedResource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "downloaded.wav")
	if err := os.WriteFile(src, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	e := New(filepath.Join(dir, "out"))
	p := notebook.Podcast{ID: "pod-12345678", AudioURL: "http://localhost:8000/api/podcast/audio/s"}

	path, err := e.SaveAudio(p, src)
	if err != nil {
		t.Fatalf("SaveAudio: %v", err)
	}
	if filepath.Base(path) != "podcast-pod-1234.wav" {
		t.Fatalf("unexpected filename: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "RIFFdata" {
		t.Fatalf("unexpected copy content: %q", data)
	}
}

func TestSaveAudio_ErrorsWithoutAudioResource(t *testing.T) {
	e := New(t.TempDir())
	if _, err := e.SaveAudio(notebook.Podcast{ID: "p"}, "ignored"); err == nil {
		t.Fatal("expected error for podcast without audio")
	}
}

func TestFilenames_ShortIDs(t *testing.T) {
	if got := ScriptFilename(notebook.Podcast{ID: "ab"}); got != "podcast-script-ab.json" {
		t.Fatalf("unexpected script filename: %s", got)
	}
	if got := AudioFilename(notebook.Podcast{ID: ""}); got != "podcast-untitled.wav" {
		t.Fatalf("unexpected audio filename: %s", got)
	}
}
