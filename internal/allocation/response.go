package allocation

import (
	"math"
	"time"

	"github.com/abhisek/labgen/internal/history"
	"github.com/abhisek/labgen/internal/labtask"
)

// Response is the successful allocation result.
type Response struct {
	Success     bool                 `json:"success"`
	Allocations []labtask.Allocation `json:"allocations"`
	Metadata    Metadata             `json:"metadata"`
}

// Metadata summarizes a response.
type Metadata struct {
	GeneratedAt         time.Time          `json:"generatedAt"`
	TotalStudents       int                `json:"totalStudents"`
	QuestionsPerStudent int                `json:"questionsPerStudent"`
	TotalQuestions      int                `json:"totalQuestions"`
	AveragePoints       float64            `json:"averagePoints"`
	Difficulty          labtask.Difficulty `json:"difficulty"`
	Subject             string             `json:"subject"`
	Topic               string             `json:"topic"`
	Mode                labtask.Mode       `json:"mode"`
	// AIGenerated is false when the pool came from the template fallback.
	AIGenerated bool `json:"aiGenerated"`
	// StudentsAssigned is null when the request carried no roster.
	StudentsAssigned []history.StudentSummary `json:"studentsAssigned"`
}

// Stats computes the total task count and the mean per-allocation point
// sum rounded to two decimals.
func Stats(allocs []labtask.Allocation) (total int, average float64) {
	if len(allocs) == 0 {
		return 0, 0
	}
	var points int
	for _, a := range allocs {
		total += len(a.Questions)
		points += a.TotalPoints()
	}
	return total, round2(float64(points) / float64(len(allocs)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func studentSummaries(roster []labtask.Student) []history.StudentSummary {
	if roster == nil {
		return nil
	}
	out := make([]history.StudentSummary, len(roster))
	for i, s := range roster {
		out[i] = history.StudentSummary{ID: s.StudentID, Name: s.Name, Class: s.Class}
	}
	return out
}
