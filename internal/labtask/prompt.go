package labtask

import (
	"fmt"
	"strings"
)

// PromptInput holds everything the Prompt Builder needs.
type PromptInput struct {
	Subject    string
	Topic      string
	Difficulty Difficulty
	Mode       Mode
	// Context is optional instructor-supplied background.
	Context string
	// Count is the number of tasks to request.
	Count int
}

// Prompt is the system and user instruction pair sent to the backend.
type Prompt struct {
	System string
	User   string
}

var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:   "basic implementation with clear step-by-step guidance",
	DifficultyMedium: "intermediate tasks requiring problem-solving and application",
	DifficultyHard:   "complex projects involving multiple concepts and advanced implementation",
}

var modeGuidance = map[Mode]string{
	ModeExam:     "practical lab tasks and hands-on exercises for formal assessment",
	ModeFriendly: "guided lab exercises with step-by-step instructions and helpful tips",
}

// BuildPrompt renders the instruction pair for in. It is pure; in is
// expected to be validated already.
func BuildPrompt(in PromptInput) Prompt {
	return Prompt{
		System: buildSystemPrompt(in),
		User: fmt.Sprintf(
			"Generate %d practical lab tasks/exercises about %s in %s at %s difficulty level. "+
				"Each task should be hands-on and specify clear deliverables.",
			in.Count, in.Topic, in.Subject, in.Difficulty),
	}
}

func buildSystemPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert lab instructor creating practical, hands-on %s for %s.\n\n",
		modeGuidance[in.Mode], in.Subject)
	fmt.Fprintf(&b, "Generate %d unique LAB TASKS/EXERCISES about \"%s\" at %s level (%s).\n\n",
		in.Count, in.Topic, in.Difficulty, difficultyGuidance[in.Difficulty])

	if ctx := strings.TrimSpace(in.Context); ctx != "" {
		fmt.Fprintf(&b, "Additional context: %s\n\n", ctx)
	}

	b.WriteString("IMPORTANT: Create PRACTICAL LAB TASKS, not theoretical questions. Each task should:\n")
	b.WriteString("- Be a specific, actionable exercise or project\n")
	b.WriteString("- Include clear deliverables and objectives\n")
	b.WriteString("- Be hands-on and practical\n")
	b.WriteString("- Specify what students need to create, implement, or demonstrate\n\n")

	b.WriteString("For each lab task, provide:\n")
	b.WriteString("1. A clear task description with specific objectives and deliverables\n")
	b.WriteString(`2. Task type: "practical-task", "coding-exercise", "implementation", "design-task", or "analysis-task"` + "\n")
	b.WriteString("3. For coding tasks: specify expected output or functionality\n")
	fmt.Fprintf(&b, "4. Point value (%s points for substantial lab work)\n", pointGuidance())
	if in.Mode == ModeFriendly {
		b.WriteString("5. 3-4 helpful implementation hints\n")
		b.WriteString("6. Brief guidance on approach or methodology\n")
	}

	b.WriteString("\nIMPORTANT: Return ONLY valid JSON in this exact format, no additional text:\n")
	b.WriteString(outputExample)

	return b.String()
}

// pointGuidance renders "easy: 10-15, medium: 20-30, hard: 35-50".
func pointGuidance() string {
	parts := make([]string, 0, 3)
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		band := d.Band()
		parts = append(parts, fmt.Sprintf("%s: %d-%d", d, band.Min, band.Max))
	}
	return strings.Join(parts, ", ")
}
