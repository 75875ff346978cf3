// Package components renders allocation results for the terminal.
package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/labgen/internal/labtask"
	"github.com/abhisek/labgen/internal/ui/theme"
)

// TaskLines renders a single task as plain styled lines, numbered from 1.
func TaskLines(n int, t labtask.Task) []string {
	lines := []string{
		fmt.Sprintf("%s %s %s",
			theme.Body.Render(fmt.Sprintf("%d.", n)),
			theme.KindTag.Render("["+string(t.Type)+"]"),
			theme.Points.Render(fmt.Sprintf("%d pts", t.Points))),
		theme.Body.Render(t.Question),
	}
	for i, opt := range t.Options {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("   %c) %s", 'a'+rune(i%26), opt)))
	}
	if t.Explanation != "" {
		lines = append(lines, theme.Hint.Render(t.Explanation))
	}
	for _, h := range t.Hints {
		lines = append(lines, theme.Hint.Render("  hint: "+h))
	}
	return lines
}

// AllocationCard renders one student's tasks inside a bordered card.
func AllocationCard(a labtask.Allocation) string {
	header := fmt.Sprintf("%s %s  %s",
		theme.StudentHeader.Render(a.StudentName),
		theme.Subtitle.Render("("+a.StudentID+")"),
		theme.Points.Render(fmt.Sprintf("%d pts total", a.TotalPoints())))

	parts := []string{header}
	for i, t := range a.Questions {
		parts = append(parts, "")
		parts = append(parts, TaskLines(i+1, t)...)
	}
	return theme.Card.Render(strings.Join(parts, "\n"))
}

// Summary is the one-line footer printed after the cards.
func Summary(students, tasks int, average float64, aiGenerated bool) string {
	source := theme.OK.Render("model")
	if !aiGenerated {
		source = theme.Warn.Render("fallback templates")
	}
	return fmt.Sprintf("%s %d students, %d tasks, %.2f avg points, source: %s",
		theme.Title.Render("Summary:"), students, tasks, average, source)
}
