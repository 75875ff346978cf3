// Package history archives lightweight summaries of allocation requests.
//
// The allocation core only appends. Listing and clearing are exposed to the
// HTTP and CLI surfaces. Every backend keeps the Capacity most recent
// records, newest first.
package history

import (
	"context"
	"time"
)

// Capacity is the number of records an archive retains.
const Capacity = 50

// StudentSummary is the roster slice stored with a record.
type StudentSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Record summarizes one allocation request.
type Record struct {
	ID                  string    `json:"id"`
	GeneratedAt         time.Time `json:"generatedAt"`
	Subject             string    `json:"subject"`
	Topic               string    `json:"topic"`
	Difficulty          string    `json:"difficulty"`
	Mode                string    `json:"mode"`
	TotalStudents       int       `json:"totalStudents"`
	QuestionsPerStudent int       `json:"questionsPerStudent"`
	// StudentsAssigned is nil when the request carried no roster.
	StudentsAssigned []StudentSummary `json:"studentsAssigned"`
}

// Sink accepts records. It is the only capability the allocation core uses.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// Archive is a Sink that can also be read back and emptied.
type Archive interface {
	Sink

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)

	// Clear removes every record.
	Clear(ctx context.Context) error
}
