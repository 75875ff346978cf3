package labtask

import "fmt"

// FallbackInput mirrors the request values the templates reference.
type FallbackInput struct {
	Subject    string
	Topic      string
	Difficulty Difficulty
	Mode       Mode
	Count      int
}

var friendlyHints = []string{
	"Start with basic setup and requirements",
	"Break the task into smaller components",
	"Test each component thoroughly",
	"Document your implementation approach",
}

// FallbackGenerator synthesizes template tasks when the backend path fails.
type FallbackGenerator struct {
	ids IDSource
}

// NewFallbackGenerator returns a generator that assigns pool IDs from ids.
func NewFallbackGenerator(ids IDSource) *FallbackGenerator {
	return &FallbackGenerator{ids: ids}
}

// Generate returns exactly in.Count practical tasks at the difficulty's
// default points. Friendly mode adds four generic hints and an explanation.
// The only failure is a non-positive count, reported as KindFallbackFailure.
func (g *FallbackGenerator) Generate(in FallbackInput) ([]Task, error) {
	if in.Count < 1 {
		return nil, newError(KindFallbackFailure, "fallback pool size must be positive, got %d", in.Count)
	}

	question := fmt.Sprintf(
		"Lab Task: Create a practical %s level implementation demonstrating %s concepts in %s. "+
			"Provide complete working solution with documentation.",
		in.Difficulty, in.Topic, in.Subject)

	var explanation string
	if in.Mode == ModeFriendly {
		explanation = fmt.Sprintf(
			"This lab task focuses on hands-on implementation of %s concepts in %s. "+
				"Create a working solution and document your approach.",
			in.Topic, in.Subject)
	}

	tasks := make([]Task, in.Count)
	for i := range tasks {
		t := Task{
			ID:       g.ids.NewID(),
			Question: question,
			Type:     KindPracticalTask,
			Points:   in.Difficulty.DefaultPoints(),
		}
		if in.Mode == ModeFriendly {
			t.Explanation = explanation
			t.Hints = append([]string(nil), friendlyHints...)
		}
		tasks[i] = t
	}
	return tasks, nil
}
