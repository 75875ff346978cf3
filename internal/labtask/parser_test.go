package labtask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"questions":[]}`, `{"questions":[]}`},
		{"json fence", "```json\n{\"questions\":[]}\n```", `{"questions":[]}`},
		{"bare fence", "```\n{\"questions\":[]}\n```\n", `{"questions":[]}`},
		{"fence without newline", "```json{\"questions\":[]}```", `{"questions":[]}`},
		{"surrounding space", "  \n```json\n{}\n```  ", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestParse_FullItems(t *testing.T) {
	p := NewParser(NewCounterSource("t"))
	raw := "```json\n" + `{
		"questions": [
			{
				"question": "Lab Task: Build a CRUD REST API for a library catalog",
				"type": "coding-exercise",
				"options": null,
				"correctAnswer": null,
				"points": 28,
				"hints": ["Model the resources first", "Write handler tests"],
				"explanation": "Start from the data model"
			},
			{
				"question": "Which HTTP verb is idempotent?",
				"type": "multiple-choice",
				"options": ["POST", "PUT"],
				"correctAnswer": "PUT",
				"points": 20
			}
		]
	}` + "\n```"

	res := p.Parse(raw, ParseInput{Topic: "REST APIs", Difficulty: DifficultyMedium})
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	require.Len(t, res.Tasks, 2)

	first := res.Tasks[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, KindCodingExercise, first.Type)
	assert.Equal(t, 28, first.Points)
	assert.Nil(t, first.Options)
	assert.Empty(t, first.CorrectAnswer)
	assert.Equal(t, []string{"Model the resources first", "Write handler tests"}, first.Hints)
	assert.Equal(t, "Start from the data model", first.Explanation)

	second := res.Tasks[1]
	assert.Equal(t, "t2", second.ID)
	assert.Equal(t, KindMultipleChoice, second.Type)
	assert.Equal(t, []string{"POST", "PUT"}, second.Options)
	assert.Equal(t, "PUT", second.CorrectAnswer)
	assert.Empty(t, second.Hints)
}

func TestParse_PatchesMissingFields(t *testing.T) {
	p := NewParser(NewCounterSource("t"))
	raw := `{"questions":[{}, {"type":"quiz","points":0}, {"question":"  ","points":"30"}, "not an object"]}`

	res := p.Parse(raw, ParseInput{Topic: "Sorting", Difficulty: DifficultyHard})
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	require.Len(t, res.Tasks, 4)

	for i, task := range res.Tasks {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, KindPracticalTask, task.Type, "task %d", i)
	}
	assert.Equal(t, "Lab Task 1: Implement a practical exercise for Sorting", res.Tasks[0].Question)
	assert.Equal(t, "Lab Task 2: Implement a practical exercise for Sorting", res.Tasks[1].Question)
	assert.Equal(t, "Lab Task 3: Implement a practical exercise for Sorting", res.Tasks[2].Question)
	assert.Equal(t, 40, res.Tasks[0].Points)
	assert.Equal(t, 40, res.Tasks[1].Points)
	assert.Equal(t, 30, res.Tasks[2].Points)
}

func TestParse_MalformedResponse(t *testing.T) {
	p := NewParser(NewCounterSource("t"))

	for _, raw := range []string{
		"Here are your lab tasks: 1. Build a website",
		`{"questions": [`,
		"",
	} {
		res := p.Parse(raw, ParseInput{Difficulty: DifficultyEasy})
		require.False(t, res.OK(), "input %q", raw)
		assert.Equal(t, KindMalformedResponse, res.Err.Kind)
		assert.Empty(t, res.Tasks)
	}
}

func TestParse_InvalidSchema(t *testing.T) {
	p := NewParser(NewCounterSource("t"))

	tests := []struct {
		name string
		raw  string
	}{
		{"missing questions", `{"foo": []}`},
		{"questions not array", `{"questions": {"question": "x"}}`},
		{"questions null", `{"questions": null}`},
		{"top-level array", `[{"question": "x"}]`},
		{"empty questions", `{"questions": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Parse(tt.raw, ParseInput{Difficulty: DifficultyEasy})
			require.False(t, res.OK())
			assert.Equal(t, KindInvalidSchema, res.Err.Kind)
			assert.True(t, res.Err.Recoverable())
			assert.Empty(t, res.Tasks)
		})
	}
}

func TestParse_ListFieldsPassThrough(t *testing.T) {
	p := NewParser(NewCounterSource("t"))
	raw := `{"questions":[{
		"question": "Pick the valid port numbers",
		"type": "multiple-choice",
		"options": ["", "80", 443, true, null, {"x": 1}],
		"hints": ["", "Check the RFC"]
	}]}`

	res := p.Parse(raw, ParseInput{Difficulty: DifficultyEasy})
	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	require.Len(t, res.Tasks, 1)

	assert.Equal(t, []string{"", "80", "443", "true"}, res.Tasks[0].Options)
	assert.Equal(t, []string{"", "Check the RFC"}, res.Tasks[0].Hints)
}
