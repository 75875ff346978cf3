package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"history_records", "llm_request_events", "sequences"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequenceNext(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func historyEntry(i int, students []AssignedStudent) *HistoryEntry {
	return &HistoryEntry{
		ID:                  fmt.Sprintf("rec-%d", i),
		GeneratedAt:         time.Date(2026, 3, 1, 9, i, 0, 0, time.UTC),
		Subject:             "Web Development",
		Topic:               "REST APIs",
		Difficulty:          "medium",
		Mode:                "exam",
		TotalStudents:       2,
		QuestionsPerStudent: 2,
		StudentsAssigned:    students,
	}
}

func TestHistoryAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	entries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}

	roster := []AssignedStudent{{ID: "S1", Name: "Ann", Class: "CS-A"}}
	first := historyEntry(1, nil)
	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Sequence == 0 {
		t.Fatal("expected sequence to be assigned")
	}
	if err := repo.Append(ctx, historyEntry(2, roster)); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err = repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "rec-2" || entries[1].ID != "rec-1" {
		t.Errorf("order = %s,%s, want rec-2,rec-1", entries[0].ID, entries[1].ID)
	}
	if len(entries[0].StudentsAssigned) != 1 || entries[0].StudentsAssigned[0].Name != "Ann" {
		t.Errorf("students = %+v, want Ann", entries[0].StudentsAssigned)
	}
	if entries[1].StudentsAssigned != nil {
		t.Errorf("expected nil students for entry without roster, got %+v", entries[1].StudentsAssigned)
	}
	if !entries[1].GeneratedAt.Equal(first.GeneratedAt) {
		t.Errorf("generatedAt = %s, want %s", entries[1].GeneratedAt, first.GeneratedAt)
	}

	limited, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "rec-2" {
		t.Errorf("limited list = %+v, want only rec-2", limited)
	}
}

func TestHistoryPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Append(ctx, historyEntry(i, nil)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("remaining entries = %d, want 5", len(entries))
	}
	if entries[0].ID != "rec-6" || entries[4].ID != "rec-2" {
		t.Errorf("kept range = %s..%s, want rec-6..rec-2", entries[0].ID, entries[4].ID)
	}
}

func TestHistoryPruneWithFewerThanKeep(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Append(ctx, historyEntry(i, nil)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("remaining entries = %d, want 2", len(entries))
	}
}

func TestHistoryClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.HistoryRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Append(ctx, historyEntry(i, nil)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	entries, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestLLMEventsAppendQueryAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "lab-task-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "[system]\n...", ResponseBody: `{"questions":[]}`},
		{Provider: "gpt-4o-mini", Model: "gpt-4o-mini", Purpose: "lab-task-gen", InputTokens: 120, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "LLM provider unavailable"},
		{Provider: "claude-haiku-4-5-20251001", Model: "claude-haiku-4-5-20251001", Purpose: "preview", InputTokens: 50, OutputTokens: 60, LatencyMs: 600, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].Purpose != "preview" {
		t.Errorf("newest purpose = %q, want preview", all[0].Purpose)
	}

	gen, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "lab-task-gen", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(gen) != 1 || gen[0].Success {
		t.Fatalf("expected the failed lab-task-gen event, got %+v", gen)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.ResponseBody != `{"questions":[]}` || got.OutputTokens != 400 {
		t.Errorf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "lab-task-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 1000, Success: true},
		{Model: "gpt-4o-mini", Purpose: "lab-task-gen", InputTokens: 200, OutputTokens: 600, LatencyMs: 2000, Success: true},
		{Model: "gemini-2.0-flash", Purpose: "preview", InputTokens: 10, OutputTokens: 20, LatencyMs: 500, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(byPurpose))
	}
	gen := byPurpose[0]
	if gen.Purpose != "lab-task-gen" || gen.Calls != 2 || gen.InputTokens != 300 || gen.OutputTokens != 1000 || gen.AvgLatencyMs != 1500 {
		t.Errorf("unexpected lab-task-gen usage: %+v", gen)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.0-flash" || byModel[1].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}
