package notebook

import "regexp"

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)

// ExtractVideoID pulls the video identifier out of the three recognized
// YouTube URL shapes (watch?v=, youtu.be/, embed/). It returns "" when the
// URL matches none of them.
func ExtractVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
