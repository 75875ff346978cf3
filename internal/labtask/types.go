package labtask

import "time"

// Task is one generated lab exercise. Tasks are values: allocation copies
// them and assigns a per-student ID, it never edits their content.
type Task struct {
	// ID is opaque and unique within a pool. Allocated copies carry
	// "<poolTaskID>_<studentID>".
	ID string `json:"id"`

	// Question is the task description shown to the student. Never empty.
	Question string `json:"question"`

	Type Kind `json:"type"`

	// Options is set only for selectable-answer kinds.
	Options []string `json:"options,omitempty"`

	// CorrectAnswer is set only when the kind has a canonical answer.
	CorrectAnswer string `json:"correctAnswer,omitempty"`

	// Points is the score weight, always > 0.
	Points int `json:"points"`

	// Explanation and Hints are populated in friendly mode.
	Explanation string   `json:"explanation,omitempty"`
	Hints       []string `json:"hints,omitempty"`
}

// Kind is the task category.
type Kind string

const (
	KindPracticalTask  Kind = "practical-task"
	KindCodingExercise Kind = "coding-exercise"
	KindImplementation Kind = "implementation"
	KindDesignTask     Kind = "design-task"
	KindAnalysisTask   Kind = "analysis-task"
	KindMultipleChoice Kind = "multiple-choice"
	KindShortAnswer    Kind = "short-answer"
	KindEssay          Kind = "essay"
	KindCalculation    Kind = "calculation"
)

var knownKinds = map[Kind]bool{
	KindPracticalTask:  true,
	KindCodingExercise: true,
	KindImplementation: true,
	KindDesignTask:     true,
	KindAnalysisTask:   true,
	KindMultipleChoice: true,
	KindShortAnswer:    true,
	KindEssay:          true,
	KindCalculation:    true,
}

// Valid reports whether k is in the closed set of task kinds.
func (k Kind) Valid() bool {
	return knownKinds[k]
}

// Difficulty selects the point band and the prompt's complexity guidance.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// PointsBand is the inclusive range of points a task may carry.
type PointsBand struct {
	Min, Max int
}

var pointBands = map[Difficulty]PointsBand{
	DifficultyEasy:   {Min: 10, Max: 15},
	DifficultyMedium: {Min: 20, Max: 30},
	DifficultyHard:   {Min: 35, Max: 50},
}

var defaultPoints = map[Difficulty]int{
	DifficultyEasy:   15,
	DifficultyMedium: 25,
	DifficultyHard:   40,
}

// Valid reports whether d is a recognized difficulty.
func (d Difficulty) Valid() bool {
	_, ok := pointBands[d]
	return ok
}

// Band returns the point band for d. Unrecognized values get the hard band.
func (d Difficulty) Band() PointsBand {
	if b, ok := pointBands[d]; ok {
		return b
	}
	return pointBands[DifficultyHard]
}

// DefaultPoints returns the points assigned when none are given.
// Unrecognized values get the hard default.
func (d Difficulty) DefaultPoints() int {
	if p, ok := defaultPoints[d]; ok {
		return p
	}
	return defaultPoints[DifficultyHard]
}

// Mode is the delivery style.
type Mode string

const (
	// ModeExam is timed assessment without hints.
	ModeExam Mode = "exam"

	// ModeFriendly is untimed practice with hints and explanations.
	ModeFriendly Mode = "friendly"
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m == ModeExam || m == ModeFriendly
}

// StudentStatus is a roster activity flag.
type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

// Student is a roster entry supplied by the caller.
type Student struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	StudentID string        `json:"studentId"`
	Class     string        `json:"class"`
	Status    StudentStatus `json:"status"`
}

// Assignee is the identity an allocation is made for.
type Assignee struct {
	ID   string
	Name string
}

// Allocation is one student's slice of the pool for one request.
type Allocation struct {
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	Questions   []Task     `json:"questions"`
	Difficulty  Difficulty `json:"difficulty"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// TotalPoints sums the points of every task in the allocation.
func (a Allocation) TotalPoints() int {
	var sum int
	for _, q := range a.Questions {
		sum += q.Points
	}
	return sum
}
