package ui

import (
	"errors"
	"reflect"
	"testing"

	"sourcebook/internal/notebook"
)

func TestNonBlankLines_DropsBlankEntries(t *testing.T) {
	raw := "https://a.example\n\n   \nhttps://b.example\n"
	got := nonBlankLines(raw)
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nonBlankLines mismatch: got=%v want=%v", got, want)
	}
}

func TestSubmit_RejectsInvalidYouTubeURL(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelYouTube].expanded = true
	m.panels[panelYouTube].input.SetValue("https://example.com/watch?v=abc")

	m, cmd := m.submit(int(panelYouTube))

	if m.panels[panelYouTube].submitting {
		t.Fatal("invalid input must not enter submitting state")
	}
	notice, ok := cmd().(noticeMsg)
	if !ok || !notice.isErr {
		t.Fatalf("expected error notice, got %#v", cmd())
	}
}

func TestSubmit_RejectsUnsupportedUploadExtension(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelUpload].expanded = true
	m.panels[panelUpload].input.SetValue("/tmp/image.png")

	m, cmd := m.submit(int(panelUpload))

	if m.panels[panelUpload].submitting {
		t.Fatal("unsupported file type must not enter submitting state")
	}
	notice, ok := cmd().(noticeMsg)
	if !ok || !notice.isErr {
		t.Fatalf("expected error notice, got %#v", cmd())
	}
}

func TestSubmit_RejectsEmptyURLList(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelURLs].expanded = true
	m.panels[panelURLs].area.SetValue("\n   \n")

	m, cmd := m.submit(int(panelURLs))

	if m.panels[panelURLs].submitting {
		t.Fatal("blank URL list must not enter submitting state")
	}
	if _, ok := cmd().(noticeMsg); !ok {
		t.Fatalf("expected notice, got %#v", cmd())
	}
}

func TestSubmit_RejectsBlankText(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelText].expanded = true
	m.panels[panelText].area.SetValue("   ")

	m, cmd := m.submit(int(panelText))

	if m.panels[panelText].submitting {
		t.Fatal("blank text must not enter submitting state")
	}
	if _, ok := cmd().(noticeMsg); !ok {
		t.Fatalf("expected notice, got %#v", cmd())
	}
}

func TestSubmit_IgnoredWhileAlreadySubmitting(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelText].expanded = true
	m.panels[panelText].submitting = true
	m.panels[panelText].area.SetValue("some real content")

	_, cmd := m.submit(int(panelText))
	if cmd != nil {
		t.Fatal("submission while submitting must be a no-op")
	}
}

func TestIntakeDone_AppendsSourcesAndCollapses(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelURLs].expanded = true
	m.panels[panelURLs].submitting = true
	m.panels[panelURLs].area.SetValue("https://a.example\nhttps://b.example")

	// Two of four submitted URLs were blank; the server created two sources.
	m, cmd := m.update(intakeDoneMsg{
		panel: panelURLs,
		sources: []notebook.Source{
			{ID: "1", Name: "a.example", Type: notebook.SourceWebsite},
			{ID: "2", Name: "b.example", Type: notebook.SourceWebsite},
		},
	})

	if d.store.SourceCount() != 2 {
		t.Fatalf("expected source count to grow by 2, got %d", d.store.SourceCount())
	}
	p := m.panels[panelURLs]
	if p.submitting || p.expanded {
		t.Fatalf("expected panel reset after success: %+v", p)
	}
	if p.value() != "" {
		t.Fatalf("expected input cleared, got %q", p.value())
	}
	notice, ok := cmd().(noticeMsg)
	if !ok || notice.isErr {
		t.Fatalf("expected success notice, got %#v", cmd())
	}
}

func TestIntakeDone_ErrorRetainsInputForRetry(t *testing.T) {
	d := newTestDeps(t)
	m := newSourcesModel(d)
	m.panels[panelYouTube].expanded = true
	m.panels[panelYouTube].submitting = true
	m.panels[panelYouTube].input.SetValue("https://youtu.be/abc")

	m, cmd := m.update(intakeDoneMsg{panel: panelYouTube, err: errors.New("transcript unavailable")})

	p := m.panels[panelYouTube]
	if p.submitting {
		t.Fatal("expected submitting cleared after failure")
	}
	if !p.expanded {
		t.Fatal("expected panel to stay expanded after failure")
	}
	if p.value() != "https://youtu.be/abc" {
		t.Fatalf("expected input retained, got %q", p.value())
	}
	if d.store.SourceCount() != 0 {
		t.Fatalf("expected no sources added, got %d", d.store.SourceCount())
	}
	notice, ok := cmd().(noticeMsg)
	if !ok || !notice.isErr {
		t.Fatalf("expected error notice, got %#v", cmd())
	}
}

func TestSourceDeleted_RemovesOnlyMatchingEntry(t *testing.T) {
	d := newTestDeps(t)
	d.store.AddSources(
		notebook.Source{ID: "1", Name: "a.pdf"},
		notebook.Source{ID: "2", Name: "b.pdf"},
	)
	m := newSourcesModel(d)
	m.syncList()

	m, _ = m.update(sourceDeletedMsg{id: "1", name: "a.pdf"})

	got := d.store.Sources()
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only source 2 to remain, got %v", got)
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected list resynced, got %d items", len(m.list.Items()))
	}
}

func TestSourcesLoaded_ReplacesStoreList(t *testing.T) {
	d := newTestDeps(t)
	d.store.AddSources(notebook.Source{ID: "stale"})
	m := newSourcesModel(d)

	m, _ = m.update(sourcesLoadedMsg{sources: []notebook.Source{{ID: "fresh", Name: "f"}}})

	got := d.store.Sources()
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("expected server list to replace local one, got %v", got)
	}
}
