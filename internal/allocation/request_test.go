package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validRequest() Request {
	return Request{
		Mode:         "exam",
		Difficulty:   "medium",
		Subject:      "Web Development",
		Topic:        "REST APIs",
		StudentCount: 3,
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantMsg string
	}{
		{"valid", func(r *Request) {}, ""},
		{"max students", func(r *Request) { r.StudentCount = 100 }, ""},
		{"max questions", func(r *Request) { r.QuestionCount = intPtr(10) }, ""},
		{"topic optional", func(r *Request) { r.Topic = "" }, ""},
		{"zero students", func(r *Request) { r.StudentCount = 0 }, "Invalid input parameters"},
		{"negative students", func(r *Request) { r.StudentCount = -2 }, "Invalid input parameters"},
		{"too many students", func(r *Request) { r.StudentCount = 101 }, "Maximum 100 students allowed"},
		{"zero questions", func(r *Request) { r.QuestionCount = intPtr(0) }, "Invalid input parameters"},
		{"too many questions", func(r *Request) { r.QuestionCount = intPtr(11) }, "Maximum 10 questions per student allowed"},
		{"missing subject", func(r *Request) { r.Subject = "" }, "Invalid input parameters"},
		{"missing difficulty", func(r *Request) { r.Difficulty = "" }, "Invalid input parameters"},
		{"unknown difficulty", func(r *Request) { r.Difficulty = "extreme" }, "Invalid input parameters"},
		{"unknown mode", func(r *Request) { r.Mode = "quiz" }, "Invalid input parameters"},
		{"generic wins over bound", func(r *Request) { r.Subject = ""; r.StudentCount = 500 }, "Invalid input parameters"},
		{"student bound wins over question bound", func(r *Request) { r.StudentCount = 500; r.QuestionCount = intPtr(50) }, "Maximum 100 students allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestQuestionsPerStudentDefault(t *testing.T) {
	r := validRequest()
	assert.Equal(t, 1, r.QuestionsPerStudent())

	r.QuestionCount = intPtr(4)
	assert.Equal(t, 4, r.QuestionsPerStudent())
}
