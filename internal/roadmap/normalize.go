package roadmap

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

const emptyTasksDoc = `{"tasks": []}`

var (
	fenceRE         = regexp.MustCompile("(?i)```(?:json)?\\s*")
	tagRE           = regexp.MustCompile(`<[^>]+>`)
	trailingCommaRE = regexp.MustCompile(`,\s*([}\]])`)
)

// Normalized is the outcome of best-effort cleanup of model output. Recovered is false when no
// object could be located and Text is the empty-tasks placeholder.
type Normalized struct {
	Text      string
	Recovered bool
}

// Normalize strips the formatting noise models commonly wrap JSON in. It does not parse; well
// formed input comes back unchanged.
func Normalize(raw string) Normalized {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Normalized{Text: emptyTasksDoc, Recovered: true}
	}

	s = fenceRE.ReplaceAllString(s, "")
	s = tagRE.ReplaceAllString(s, "")
	s = trailingCommaRE.ReplaceAllString(s, "$1")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return Normalized{Text: emptyTasksDoc, Recovered: false}
	}
	return Normalized{Text: s[start : end+1], Recovered: true}
}

// decodeCandidates strictly decodes normalized text into the raw task candidates. A missing
// tasks key decodes to no candidates.
func decodeCandidates(text string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Stage: StageDecode, Err: err}
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Stage: StageDecode, Err: errors.New("trailing data after object")}
	}

	raw, ok := doc["tasks"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Stage: StageDecode, Err: errors.New("tasks is not an array")}
	}
	return list, nil
}
