package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pattooweb/internal/history"
	"pattooweb/internal/preflight"
	"pattooweb/internal/testsupport"
)

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failed := history.Run{
		ID:         "run-1",
		StartedAt:  base,
		FinishedAt: base.Add(2 * time.Second),
		Stages: []preflight.Result{
			{Name: "dependencies", Passed: true, Detail: "pip_requirements.txt"},
			{Name: "configuration", Detail: "configuration directory not found"},
		},
	}
	passed := history.Run{
		ID:         "run-2",
		StartedAt:  base.Add(time.Minute),
		FinishedAt: base.Add(time.Minute + time.Second),
		Passed:     true,
		Stages: []preflight.Result{
			{Name: "dependencies", Passed: true},
			{Name: "configuration", Passed: true},
		},
	}
	for _, run := range []history.Run{failed, passed} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", run.ID, err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" || !runs[0].Passed {
		t.Fatalf("expected newest passing run first, got %#v", runs[0])
	}
	got := runs[1]
	if got.Passed || got.FailedStage() != "configuration" {
		t.Fatalf("unexpected failed run %#v", got)
	}
	if got.Duration() != 2*time.Second {
		t.Fatalf("unexpected duration %s", got.Duration())
	}
	if !got.StartedAt.Equal(base) {
		t.Fatalf("unexpected start time %s", got.StartedAt)
	}
	if got.Stages[0].Detail != "pip_requirements.txt" {
		t.Fatalf("unexpected stage detail %q", got.Stages[0].Detail)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "run-2" {
		t.Fatalf("unexpected limited result %#v", limited)
	}
}

func TestRecordPrunesToRetainedRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.History.RetainedRuns = 3
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * time.Minute)
		run := history.Run{ID: fmt.Sprintf("run-%d", i), StartedAt: start, FinishedAt: start, Passed: true}
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 retained runs, got %d", len(runs))
	}
	if runs[0].ID != "run-4" || runs[2].ID != "run-2" {
		t.Fatalf("expected newest runs retained, got %s..%s", runs[0].ID, runs[2].ID)
	}
}

func TestListOrdersSubsecondStarts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.History.RetainedRuns = 2
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offsets := map[string]time.Duration{
		"whole": 0,
		"tenth": 100 * time.Millisecond,
		"older": 500 * time.Millisecond,
		"newer": 550 * time.Millisecond,
	}
	for _, id := range []string{"newer", "whole", "older", "tenth"} {
		start := base.Add(offsets[id])
		if err := store.Record(ctx, history.Run{ID: id, StartedAt: start, FinishedAt: start}); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 retained runs, got %d", len(runs))
	}
	if runs[0].ID != "newer" || runs[1].ID != "older" {
		t.Fatalf("expected newer then older, got %s then %s", runs[0].ID, runs[1].ID)
	}
	if !runs[0].StartedAt.Equal(base.Add(550 * time.Millisecond)) {
		t.Fatalf("unexpected start %s", runs[0].StartedAt)
	}
}

func TestRecordRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.Record(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for run without id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now()
	if err := store.Record(context.Background(), history.Run{ID: "persisted", StartedAt: now, FinishedAt: now}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	runs, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "persisted" {
		t.Fatalf("unexpected runs after reopen %#v", runs)
	}
}
