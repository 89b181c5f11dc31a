package highlight

import (
	"regexp"
	"strings"
)

var ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// Result describes the matches found while decorating already-rendered
// terminal text. Lines holds the zero-based indexes of lines containing at
// least one match, in order, so callers can jump between them.
type Result struct {
	Text  string
	Count int
	Lines []int
}

// Find decorates case-insensitive occurrences of query inside text using
// wrap, skipping ANSI escape sequences so styling applied by the renderer
// stays intact. Matches never span an escape sequence. An empty query
// returns the input untouched.
func Find(text, query string, wrap func(string) string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Text: text}
	}
	if wrap == nil {
		wrap = func(s string) string { return s }
	}

	var out strings.Builder
	var matchedLines []int
	total := 0

	for lineNo, line := range strings.SplitAfter(text, "\n") {
		decorated, n := decorateLine(line, query, wrap)
		out.WriteString(decorated)
		if n > 0 {
			matchedLines = append(matchedLines, lineNo)
			total += n
		}
	}

	return Result{Text: out.String(), Count: total, Lines: matchedLines}
}

// decorateLine splits one line into plain segments and ANSI escapes,
// decorating only the plain parts.
func decorateLine(line, query string, wrap func(string) string) (string, int) {
	escapes := ansiCSI.FindAllStringIndex(line, -1)
	if len(escapes) == 0 {
		return decoratePlain(line, query, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, esc := range escapes {
		if esc[0] > pos {
			plain, n := decoratePlain(line[pos:esc[0]], query, wrap)
			out.WriteString(plain)
			total += n
		}
		out.WriteString(line[esc[0]:esc[1]])
		pos = esc[1]
	}
	if pos < len(line) {
		plain, n := decoratePlain(line[pos:], query, wrap)
		out.WriteString(plain)
		total += n
	}
	return out.String(), total
}

func decoratePlain(s, query string, wrap func(string) string) (string, int) {
	if s == "" {
		return s, 0
	}

	lower := strings.ToLower(s)
	q := strings.ToLower(query)

	var out strings.Builder
	count := 0
	pos := 0
	for {
		rel := strings.Index(lower[pos:], q)
		if rel < 0 {
			out.WriteString(s[pos:])
			break
		}
		start := pos + rel
		end := start + len(q)
		out.WriteString(s[pos:start])
		out.WriteString(wrap(s[start:end]))
		count++
		pos = end
	}
	if count == 0 {
		return s, 0
	}
	return out.String(), count
}
