package notebook

import "encoding/json"

// NormalizeScript converts the backend's raw script shape (one single-entry
// keyed record per dialogue line) into tagged speaker/text pairs, preserving
// line order. Records with no entries are skipped.
func NormalizeScript(raw []map[string]string) []ScriptLine {
	lines := make([]ScriptLine, 0, len(raw))
	for _, rec := range raw {
		for speaker, text := range rec {
			lines = append(lines, ScriptLine{Speaker: speaker, Text: text})
			break
		}
	}
	return lines
}

// FormatScript serializes a script as indented JSON for local download.
func FormatScript(script []ScriptLine) ([]byte, error) {
	type line struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	}
	out := make([]line, 0, len(script))
	for _, l := range script {
		out = append(out, line{Speaker: l.Speaker, Text: l.Text})
	}
	return json.MarshalIndent(out, "", "  ")
}
