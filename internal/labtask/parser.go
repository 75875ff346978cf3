package labtask

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/labgen/internal/llm"
)

// ParseInput carries the request values used to patch missing item fields.
type ParseInput struct {
	Topic      string
	Difficulty Difficulty
}

// ParseResult is either a task pool or a classified failure.
type ParseResult struct {
	Tasks []Task
	Err   *GenerationError
}

// OK reports whether parsing produced tasks.
func (r ParseResult) OK() bool {
	return r.Err == nil
}

// Parser turns raw backend text into tasks.
type Parser struct {
	ids IDSource
}

// NewParser returns a Parser that assigns pool IDs from ids.
func NewParser(ids IDSource) *Parser {
	return &Parser{ids: ids}
}

// StripFences removes markdown code-fence markers the model may wrap
// around its JSON, wherever they appear, and trims surrounding space.
func StripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```\n", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse decodes raw into tasks. Undecodable text is KindMalformedResponse;
// a document without a "questions" array, or with an empty one, is
// KindInvalidSchema. Individual items are patched, never rejected.
func (p *Parser) Parse(raw string, in ParseInput) ParseResult {
	cleaned := StripFences(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return ParseResult{Err: &GenerationError{Kind: KindMalformedResponse, Err: err}}
	}

	if err := llm.ValidateJSON(ResponseSchema, doc); err != nil {
		return ParseResult{Err: &GenerationError{Kind: KindInvalidSchema, Err: err}}
	}

	obj, _ := doc.(map[string]any)
	items, _ := obj["questions"].([]any)
	if len(items) == 0 {
		return ParseResult{Err: newError(KindInvalidSchema, "questions array is empty")}
	}

	tasks := make([]Task, len(items))
	for i, item := range items {
		fields, _ := item.(map[string]any)
		tasks[i] = p.taskFrom(i, fields, in)
	}
	return ParseResult{Tasks: tasks}
}

func (p *Parser) taskFrom(index int, fields map[string]any, in ParseInput) Task {
	t := Task{
		ID:            p.ids.NewID(),
		Question:      stringField(fields, "question"),
		Type:          Kind(stringField(fields, "type")),
		Options:       stringsField(fields, "options"),
		CorrectAnswer: stringField(fields, "correctAnswer"),
		Points:        pointsField(fields, "points"),
		Explanation:   stringField(fields, "explanation"),
		Hints:         stringsField(fields, "hints"),
	}

	if strings.TrimSpace(t.Question) == "" {
		t.Question = fmt.Sprintf("Lab Task %d: Implement a practical exercise for %s", index+1, in.Topic)
	}
	if !t.Type.Valid() {
		t.Type = KindPracticalTask
	}
	if t.Points <= 0 {
		t.Points = in.Difficulty.DefaultPoints()
	}
	return t
}

func stringField(fields map[string]any, key string) string {
	s, _ := scalarString(fields[key])
	return s
}

// scalarString renders a decoded JSON scalar as text. ok is false for
// null, objects and arrays.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// stringsField keeps list entries as given, empty strings included.
// Numbers and booleans are rendered as text; null, objects and nested
// arrays have no string form and are skipped.
func stringsField(fields map[string]any, key string) []string {
	list, ok := fields[key].([]any)
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if str, ok := scalarString(v); ok {
			out = append(out, str)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// pointsField accepts a JSON number or numeric string. Anything else is 0,
// which the caller replaces with the difficulty default.
func pointsField(fields map[string]any, key string) int {
	var f float64
	switch v := fields[key].(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
