package labtask

import "github.com/abhisek/labgen/internal/llm"

// ResponseSchema is the minimal shape a backend reply must have after
// fence stripping. Item fields are deliberately unconstrained: gaps are
// patched per item by the parser.
var ResponseSchema = &llm.Schema{
	Name: "lab-task-batch",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "Generated lab tasks",
			},
		},
		"required": []any{"questions"},
	},
}

// outputExample is embedded in the system prompt so the backend can mirror
// the expected JSON layout.
const outputExample = `{
  "questions": [
    {
      "question": "Lab Task: [Specific practical task with clear deliverables]",
      "type": "practical-task",
      "options": null,
      "correctAnswer": null,
      "points": 25,
      "hints": ["Implementation hint 1", "Approach hint 2", "Testing suggestion 3"],
      "explanation": "Brief methodology guidance"
    }
  ]
}`
