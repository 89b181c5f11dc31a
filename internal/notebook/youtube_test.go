package notebook

import "testing"

func TestExtractVideoID_AcceptedShapes(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=abc123XYZ_-", "abc123XYZ_-"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=share", "dQw4w9WgXcQ"},
	}
	for _, c := range cases {
		if got := ExtractVideoID(c.url); got != c.want {
			t.Fatalf("ExtractVideoID(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestExtractVideoID_RejectsOtherURLs(t *testing.T) {
	cases := []string{
		"",
		"not a url",
		"https://example.com/watch?v=abc",
		"https://vimeo.com/12345",
		"https://www.youtube.com/channel/UCabc",
	}
	for _, url := range cases {
		if got := ExtractVideoID(url); got != "" {
			t.Fatalf("ExtractVideoID(%q) = %q, want empty", url, got)
		}
	}
}
