// Package parser turns raw completion text into name candidates.
package parser

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/namelens/namesmith/internal/core"
)

// DefaultScore is assigned when the completion carries no usable score.
const DefaultScore = 7.0

// Kind reports which parse path produced a Result.
type Kind int

const (
	Empty Kind = iota
	Structured
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	case Fallback:
		return "fallback"
	default:
		return "empty"
	}
}

// Result is the outcome of parsing one completion.
type Result struct {
	Kind       Kind
	Candidates []core.NameCandidate
}

var (
	fencePattern  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")
	linePattern   = regexp.MustCompile(`^\s*(\d+)\.\s+(.+?)(?:\s+-\s+(.*))?$`)
	scoreParen    = regexp.MustCompile(`(?i)\(\s*score:?\s*(\d+(?:\.\d+)?)\s*(?:/\s*10)?\s*\)`)
	scoreOutOfTen = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)
)

const nameDecorations = "*_`\"' "

// Parse never fails: malformed input degrades to a Fallback or Empty result.
func Parse(raw string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Kind: Empty}
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return Result{Kind: Empty}
	}

	if candidates, ok := parseStructured(raw); ok {
		return Result{Kind: Structured, Candidates: candidates}
	}

	candidates := parseLines(raw)
	if len(candidates) == 0 {
		return Result{Kind: Empty}
	}
	return Result{Kind: Fallback, Candidates: candidates}
}

type rawCandidate struct {
	Name        string          `json:"name"`
	Explanation string          `json:"explanation"`
	Score       json.RawMessage `json:"brandability_score"`
	Caveats     json.RawMessage `json:"caveats"`
}

func parseStructured(raw string) ([]core.NameCandidate, bool) {
	payload := jsonPayload(raw)
	if payload == nil {
		return nil, false
	}

	var items []json.RawMessage
	switch payload[0] {
	case '[':
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, false
		}
	case '{':
		var envelope struct {
			Names json.RawMessage `json:"names"`
		}
		if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Names) == 0 {
			return nil, false
		}
		if err := json.Unmarshal(envelope.Names, &items); err != nil {
			return nil, false
		}
	default:
		return nil, false
	}

	candidates := make([]core.NameCandidate, 0, len(items))
	for _, item := range items {
		if candidate, ok := decodeItem(item); ok && candidate.Name != "" {
			candidates = append(candidates, candidate)
		}
	}
	// A bracketed aside such as a [1] footnote is valid JSON but names
	// nothing; leave it to the line parser.
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates, true
}

func decodeItem(item json.RawMessage) (core.NameCandidate, bool) {
	var plain string
	if err := json.Unmarshal(item, &plain); err == nil {
		return core.NameCandidate{Name: cleanName(plain), BrandabilityScore: DefaultScore}, true
	}

	var rc rawCandidate
	if err := json.Unmarshal(item, &rc); err != nil {
		return core.NameCandidate{}, false
	}

	return core.NameCandidate{
		Name:              cleanName(rc.Name),
		Explanation:       strings.TrimSpace(rc.Explanation),
		BrandabilityScore: decodeScore(rc.Score),
		Caveats:           decodeCaveats(rc.Caveats),
	}, true
}

func decodeScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return DefaultScore
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return clampScore(number)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "/10"))
		if parsed, err := strconv.ParseFloat(text, 64); err == nil {
			return clampScore(parsed)
		}
	}
	return DefaultScore
}

func decodeCaveats(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, caveat := range list {
			if caveat = strings.TrimSpace(caveat); caveat != "" {
				out = append(out, caveat)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && strings.TrimSpace(single) != "" {
		return []string{strings.TrimSpace(single)}
	}
	return nil
}

// jsonPayload returns the JSON document inside raw, unwrapping code fences
// and surrounding prose. It returns nil when nothing valid is found.
func jsonPayload(raw string) []byte {
	text := strings.TrimSpace(raw)
	if match := fencePattern.FindStringSubmatch(text); match != nil {
		text = strings.TrimSpace(match[1])
	}

	if candidate := []byte(text); json.Valid(candidate) {
		return leadingJSON(candidate)
	}

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return nil
	}
	closer := "]"
	if text[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(text, closer)
	if end <= start {
		return nil
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil
	}
	return candidate
}

func leadingJSON(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || (b[0] != '[' && b[0] != '{') {
		return nil
	}
	return b
}

func parseLines(raw string) []core.NameCandidate {
	var candidates []core.NameCandidate
	for _, line := range strings.Split(raw, "\n") {
		match := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			continue
		}

		name := cleanName(match[2])
		if name == "" {
			continue
		}

		explanation, score := extractScore(strings.TrimSpace(match[3]))
		candidates = append(candidates, core.NameCandidate{
			Name:              name,
			Explanation:       explanation,
			BrandabilityScore: score,
		})
	}
	return candidates
}

// extractScore pulls an embedded "(score: N)" or "N/10" out of an explanation.
func extractScore(explanation string) (string, float64) {
	for _, pattern := range []*regexp.Regexp{scoreParen, scoreOutOfTen} {
		loc := pattern.FindStringSubmatchIndex(explanation)
		if loc == nil {
			continue
		}
		value, err := strconv.ParseFloat(explanation[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		rest := strings.TrimSpace(explanation[:loc[0]] + explanation[loc[1]:])
		rest = strings.TrimRight(rest, " .,;:-")
		return rest, clampScore(value)
	}
	return explanation, DefaultScore
}

func cleanName(name string) string {
	return strings.Trim(strings.TrimSpace(name), nameDecorations)
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
