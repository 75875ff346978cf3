package allocation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/labgen/internal/labtask"
)

// DefaultQuestionCount is the per-student task count when none is given.
const DefaultQuestionCount = 1

// Validation messages returned to callers.
const (
	msgInvalidInput     = "Invalid input parameters"
	msgTooManyStudents  = "Maximum 100 students allowed"
	msgTooManyQuestions = "Maximum 10 questions per student allowed"
)

// Request is the inbound allocation request.
type Request struct {
	Mode         labtask.Mode       `json:"mode" validate:"required,oneof=exam friendly"`
	Difficulty   labtask.Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Subject      string             `json:"subject" validate:"required"`
	Topic        string             `json:"topic"`
	Context      string             `json:"context"`
	StudentCount int                `json:"studentCount" validate:"gt=0,lte=100"`
	// QuestionCount defaults to 1 when absent. An explicit 0 is rejected.
	QuestionCount *int              `json:"questionCount" validate:"omitempty,gt=0,lte=10"`
	Students      []labtask.Student `json:"students"`
}

// QuestionsPerStudent returns the effective per-student task count.
func (r Request) QuestionsPerStudent() int {
	if r.QuestionCount == nil {
		return DefaultQuestionCount
	}
	return *r.QuestionCount
}

// ValidationError reports a request that violates the stated bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks r. When several rules fail, the generic message wins over
// the upper-bound messages, and the student bound wins over the question
// bound.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: msgInvalidInput}
	}

	var best *ValidationError
	bestRank := 0
	for _, fe := range fieldErrs {
		rank, msg := classify(fe)
		if best == nil || rank < bestRank {
			best = &ValidationError{Field: fe.Field(), Message: msg}
			bestRank = rank
		}
	}
	return best
}

func classify(fe validator.FieldError) (int, string) {
	if fe.Tag() == "lte" {
		switch fe.StructField() {
		case "StudentCount":
			return 1, msgTooManyStudents
		case "QuestionCount":
			return 2, msgTooManyQuestions
		}
	}
	return 0, msgInvalidInput
}
