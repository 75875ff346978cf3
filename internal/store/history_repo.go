package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var historyColumns = []string{
	"sequence", "record_id", "generated_at", "subject", "topic",
	"difficulty", "mode", "total_students", "questions_per_student",
	"students_assigned",
}

// historyRepo implements HistoryRepo with the ent SQL builder.
type historyRepo struct {
	db      *sql.DB
	builder *entsql.DialectBuilder
	seq     *sequence
}

func (r *historyRepo) Append(ctx context.Context, entry *HistoryEntry) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var students any
	if entry.StudentsAssigned != nil {
		b, err := json.Marshal(entry.StudentsAssigned)
		if err != nil {
			return fmt.Errorf("marshal students: %w", err)
		}
		students = string(b)
	}

	query, args := r.builder.Insert(HistoryRecordsTable.Name).
		Columns(historyColumns...).
		Values(
			seqNum, entry.ID, entry.GeneratedAt.UTC(), entry.Subject, entry.Topic,
			entry.Difficulty, entry.Mode, entry.TotalStudents, entry.QuestionsPerStudent,
			students,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}

	entry.Sequence = seqNum
	return nil
}

func (r *historyRepo) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	sel := r.builder.Select(historyColumns...).
		From(r.builder.Table(HistoryRecordsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e        HistoryEntry
			students sql.NullString
		)
		if err := rows.Scan(
			&e.Sequence, &e.ID, &e.GeneratedAt, &e.Subject, &e.Topic,
			&e.Difficulty, &e.Mode, &e.TotalStudents, &e.QuestionsPerStudent,
			&students,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if students.Valid && students.String != "" && students.String != "null" {
			if err := json.Unmarshal([]byte(students.String), &e.StudentsAssigned); err != nil {
				return nil, fmt.Errorf("unmarshal students for %s: %w", e.ID, err)
			}
		}
		e.GeneratedAt = e.GeneratedAt.In(time.UTC)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *historyRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence threshold: the first entry past the keep window.
	query, args := r.builder.Select("sequence").
		From(r.builder.Table(HistoryRecordsTable.Name)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err == sql.ErrNoRows {
		return nil // fewer than keep entries exist
	}
	if err != nil {
		return fmt.Errorf("query history for prune: %w", err)
	}

	query, args = r.builder.Delete(HistoryRecordsTable.Name).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

func (r *historyRepo) Clear(ctx context.Context) error {
	query, args := r.builder.Delete(HistoryRecordsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
