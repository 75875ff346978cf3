package history

import (
	"context"
	"fmt"

	"github.com/abhisek/labgen/internal/store"
)

// StoreArchive persists records through a store.HistoryRepo.
type StoreArchive struct {
	repo store.HistoryRepo
}

// NewStoreArchive returns an archive backed by repo.
func NewStoreArchive(repo store.HistoryRepo) *StoreArchive {
	return &StoreArchive{repo: repo}
}

func (a *StoreArchive) Append(ctx context.Context, rec Record) error {
	entry := &store.HistoryEntry{
		ID:                  rec.ID,
		GeneratedAt:         rec.GeneratedAt,
		Subject:             rec.Subject,
		Topic:               rec.Topic,
		Difficulty:          rec.Difficulty,
		Mode:                rec.Mode,
		TotalStudents:       rec.TotalStudents,
		QuestionsPerStudent: rec.QuestionsPerStudent,
	}
	if rec.StudentsAssigned != nil {
		entry.StudentsAssigned = make([]store.AssignedStudent, len(rec.StudentsAssigned))
		for i, s := range rec.StudentsAssigned {
			entry.StudentsAssigned[i] = store.AssignedStudent{ID: s.ID, Name: s.Name, Class: s.Class}
		}
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		return err
	}
	if err := a.repo.Prune(ctx, Capacity); err != nil {
		return fmt.Errorf("cap history: %w", err)
	}
	return nil
}

func (a *StoreArchive) List(ctx context.Context, limit int) ([]Record, error) {
	entries, err := a.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Record, len(entries))
	for i, e := range entries {
		rec := Record{
			ID:                  e.ID,
			GeneratedAt:         e.GeneratedAt,
			Subject:             e.Subject,
			Topic:               e.Topic,
			Difficulty:          e.Difficulty,
			Mode:                e.Mode,
			TotalStudents:       e.TotalStudents,
			QuestionsPerStudent: e.QuestionsPerStudent,
		}
		if e.StudentsAssigned != nil {
			rec.StudentsAssigned = make([]StudentSummary, len(e.StudentsAssigned))
			for j, s := range e.StudentsAssigned {
				rec.StudentsAssigned[j] = StudentSummary{ID: s.ID, Name: s.Name, Class: s.Class}
			}
		}
		out[i] = rec
	}
	return out, nil
}

func (a *StoreArchive) Clear(ctx context.Context) error {
	return a.repo.Clear(ctx)
}
