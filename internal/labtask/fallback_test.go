package labtask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback_ExactCountAndBand(t *testing.T) {
	g := NewFallbackGenerator(NewCounterSource("fb"))

	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		tasks, err := g.Generate(FallbackInput{
			Subject:    "Physics",
			Topic:      "Pendulums",
			Difficulty: d,
			Mode:       ModeExam,
			Count:      5,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 5)

		band := d.Band()
		for _, task := range tasks {
			assert.Equal(t, KindPracticalTask, task.Type)
			assert.GreaterOrEqual(t, task.Points, band.Min)
			assert.LessOrEqual(t, task.Points, band.Max)
			assert.Equal(t, d.DefaultPoints(), task.Points)
		}
	}
}

func TestFallback_TemplateText(t *testing.T) {
	g := NewFallbackGenerator(NewCounterSource("fb"))

	tasks, err := g.Generate(FallbackInput{
		Subject: "Physics", Topic: "Pendulums", Difficulty: DifficultyMedium, Mode: ModeExam, Count: 1,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"Lab Task: Create a practical medium level implementation demonstrating Pendulums concepts in Physics. "+
			"Provide complete working solution with documentation.",
		tasks[0].Question)
}

func TestFallback_ModeConditionalFields(t *testing.T) {
	g := NewFallbackGenerator(NewCounterSource("fb"))

	friendly, err := g.Generate(FallbackInput{
		Subject: "Biology", Topic: "Cells", Difficulty: DifficultyEasy, Mode: ModeFriendly, Count: 3,
	})
	require.NoError(t, err)
	for _, task := range friendly {
		assert.Len(t, task.Hints, 4)
		assert.Equal(t,
			"This lab task focuses on hands-on implementation of Cells concepts in Biology. "+
				"Create a working solution and document your approach.",
			task.Explanation)
	}

	friendly[0].Hints[0] = "mutated"
	assert.Equal(t, "Start with basic setup and requirements", friendly[1].Hints[0], "hint lists must not alias")

	exam, err := g.Generate(FallbackInput{
		Subject: "Biology", Topic: "Cells", Difficulty: DifficultyEasy, Mode: ModeExam, Count: 3,
	})
	require.NoError(t, err)
	for _, task := range exam {
		assert.Nil(t, task.Hints)
		assert.Empty(t, task.Explanation)
	}
}

func TestFallback_UniqueIDs(t *testing.T) {
	g := NewFallbackGenerator(UUIDSource{})

	tasks, err := g.Generate(FallbackInput{
		Subject: "Math", Topic: "Graphs", Difficulty: DifficultyHard, Mode: ModeExam, Count: 20,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestFallback_NonPositiveCount(t *testing.T) {
	g := NewFallbackGenerator(NewCounterSource("fb"))

	_, err := g.Generate(FallbackInput{Subject: "Math", Difficulty: DifficultyEasy, Mode: ModeExam})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, KindFallbackFailure, genErr.Kind)
	assert.False(t, genErr.Recoverable())
}
