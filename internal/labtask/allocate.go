package labtask

import (
	"fmt"
	"time"
)

// PoolSize is the number of tasks to generate for students × perStudent
// demand: max(N·K, N·2). Keeping at least two rounds lets single-task
// allocations interleave.
func PoolSize(students, perStudent int) int {
	return max(students*perStudent, students*2)
}

// ResolveAssignees returns count identities. Roster entries are used in
// order; missing entries or blank fields fall back to "student_<n>" and
// "Student <n>".
func ResolveAssignees(count int, roster []Student) []Assignee {
	out := make([]Assignee, count)
	for s := range out {
		a := Assignee{
			ID:   fmt.Sprintf("student_%d", s+1),
			Name: fmt.Sprintf("Student %d", s+1),
		}
		if s < len(roster) {
			if roster[s].StudentID != "" {
				a.ID = roster[s].StudentID
			}
			if roster[s].Name != "" {
				a.Name = roster[s].Name
			}
		}
		out[s] = a
	}
	return out
}

// Allocate gives each assignee perStudent tasks from pool. Student s, slot
// i receives pool[(s + i·N) mod P]; the pool wraps when P < N·K. Each copy
// is re-identified as "<poolTaskID>_<studentID>". pool must be non-empty.
func Allocate(pool []Task, assignees []Assignee, perStudent int, difficulty Difficulty, now time.Time) []Allocation {
	n, p := len(assignees), len(pool)
	allocations := make([]Allocation, n)

	for s, who := range assignees {
		tasks := make([]Task, perStudent)
		for i := range tasks {
			t := pool[(s+i*n)%p]
			t.ID = t.ID + "_" + who.ID
			tasks[i] = t
		}
		allocations[s] = Allocation{
			StudentID:   who.ID,
			StudentName: who.Name,
			Questions:   tasks,
			Difficulty:  difficulty,
			GeneratedAt: now,
		}
	}
	return allocations
}
