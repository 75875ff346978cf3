package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// archiveSequence orders history records and backend call events on one
// timeline, so an archive entry can be placed next to the calls behind it.
const archiveSequence = "archive"

// sequence is a named counter row in the sequences table. Each Next runs
// in its own transaction; the UPDATE takes the row lock, so concurrent
// callers in other processes see distinct values too.
type sequence struct {
	db      *sql.DB
	builder *entsql.DialectBuilder
	name    string
}

func openSequence(ctx context.Context, db *sql.DB, builder *entsql.DialectBuilder, name string) (*sequence, error) {
	query, args := builder.Insert(SequencesTable.Name).
		Columns("name", "value").
		Values(name, 0).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence %s: %w", name, err)
	}
	return &sequence{db: db, builder: builder, name: name}, nil
}

// Next increments the counter and returns the new value. The first call
// on a fresh database returns 1.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sequence tx: %w", err)
	}
	defer tx.Rollback()

	update, args := s.builder.Update(SequencesTable.Name).
		Add("value", 1).
		Where(entsql.EQ("name", s.name)).
		Query()
	if _, err := tx.ExecContext(ctx, update, args...); err != nil {
		return 0, fmt.Errorf("bump sequence %s: %w", s.name, err)
	}

	sel, args := s.builder.Select("value").
		From(s.builder.Table(SequencesTable.Name)).
		Where(entsql.EQ("name", s.name)).
		Query()
	var v int64
	if err := tx.QueryRowContext(ctx, sel, args...).Scan(&v); err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", s.name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence %s: %w", s.name, err)
	}
	return v, nil
}
