package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/tock/internal/block"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var day = time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func createBlock(t *testing.T, repo *SQLite, desc string, start, end time.Time) *block.Block {
	t.Helper()
	b, err := block.New(desc, start, end)
	if err != nil {
		t.Fatalf("block.New failed: %v", err)
	}
	if err := repo.CreateBlock(context.Background(), b); err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	return b
}

func TestCreateBlock(t *testing.T) {
	repo := newTestRepo(t)

	b := createBlock(t, repo, "Write unit tests", hm(9, 0), hm(9, 30))
	if b.ID == 0 {
		t.Error("expected ID to be set after insert")
	}

	got, err := repo.GetBlock(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if got.Description != "Write unit tests" {
		t.Errorf("Description = %q", got.Description)
	}
	if !got.StartedAt.Equal(hm(9, 0)) || !got.EndedAt.Equal(hm(9, 30)) {
		t.Errorf("times = %v-%v", got.StartedAt, got.EndedAt)
	}
	if got.IsComplete {
		t.Error("new block should not be complete")
	}
}

func TestCreateBlock_StoresInstantsAcrossZones(t *testing.T) {
	repo := newTestRepo(t)
	zone := time.FixedZone("UTC+2", 2*3600)
	start := time.Date(2025, 1, 9, 11, 0, 0, 0, zone) // 09:00 UTC

	b := createBlock(t, repo, "Zoned", start, start.Add(30*time.Minute))
	got, err := repo.GetBlock(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if !got.StartedAt.Equal(hm(9, 0)) {
		t.Errorf("StartedAt = %v, want 09:00 UTC", got.StartedAt)
	}
}

func TestCreateBlock_Validation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.CreateBlock(ctx, &block.Block{Description: " ", StartedAt: hm(9, 0), EndedAt: hm(10, 0)})
	if !errors.Is(err, block.ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}

	err = repo.CreateBlock(ctx, &block.Block{Description: "x", StartedAt: hm(10, 0), EndedAt: hm(10, 0)})
	if !errors.Is(err, block.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestGetBlock_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBlock(context.Background(), 999)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestListBlocks_OrderedByStart(t *testing.T) {
	repo := newTestRepo(t)

	createBlock(t, repo, "Third", hm(11, 0), hm(11, 30))
	createBlock(t, repo, "First", hm(9, 0), hm(9, 30))
	createBlock(t, repo, "Second", hm(9, 30), hm(10, 0))

	blocks, err := repo.ListBlocks(context.Background(), block.Query{})
	if err != nil {
		t.Fatalf("ListBlocks failed: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if blocks[i].Description != want {
			t.Errorf("blocks[%d] = %q, want %q", i, blocks[i].Description, want)
		}
	}
}

func TestListBlocks_DayWindow(t *testing.T) {
	repo := newTestRepo(t)

	createBlock(t, repo, "Yesterday", hm(-1, 0), hm(-1, 0).Add(30*time.Minute))
	createBlock(t, repo, "Today", hm(9, 0), hm(9, 30))
	createBlock(t, repo, "Tomorrow", hm(24, 0), hm(24, 30))

	blocks, err := repo.ListBlocks(context.Background(), block.Day(day, 0))
	if err != nil {
		t.Fatalf("ListBlocks failed: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Description != "Today" {
		t.Errorf("expected only today's block, got %+v", blocks)
	}
}

func TestListBlocks_PageWindow(t *testing.T) {
	repo := newTestRepo(t)
	for i := range 5 {
		start := hm(9, 0).Add(time.Duration(i) * 30 * time.Minute)
		createBlock(t, repo, "Block", start, start.Add(30*time.Minute))
	}

	tests := []struct {
		name      string
		q         block.Query
		wantCount int
		wantFirst time.Time
	}{
		{"no limit", block.Query{}, 5, hm(9, 0)},
		{"limit", block.Query{Limit: 2}, 2, hm(9, 0)},
		{"offset", block.Query{Offset: 3}, 2, hm(10, 30)},
		{"limit and offset", block.Query{Offset: 1, Limit: 2}, 2, hm(9, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := repo.ListBlocks(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("ListBlocks failed: %v", err)
			}
			if len(blocks) != tt.wantCount {
				t.Fatalf("got %d blocks, want %d", len(blocks), tt.wantCount)
			}
			if !blocks[0].StartedAt.Equal(tt.wantFirst) {
				t.Errorf("first block starts %v, want %v", blocks[0].StartedAt, tt.wantFirst)
			}
		})
	}
}

func TestUpdateBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	b := createBlock(t, repo, "Review", hm(9, 0), hm(9, 30))

	updated, err := repo.UpdateBlock(ctx, b.ID, block.SetEnd(b.ID, hm(9, 35)).Patch)
	if err != nil {
		t.Fatalf("UpdateBlock failed: %v", err)
	}
	if !updated.EndedAt.Equal(hm(9, 35)) || !updated.StartedAt.Equal(hm(9, 0)) {
		t.Errorf("updated = %v-%v", updated.StartedAt, updated.EndedAt)
	}

	if _, err := repo.UpdateBlock(ctx, b.ID, block.SetComplete(b.ID, true).Patch); err != nil {
		t.Fatalf("UpdateBlock complete failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if !got.IsComplete || !got.EndedAt.Equal(hm(9, 35)) {
		t.Errorf("stored block = %+v", got)
	}
}

func TestUpdateBlock_RejectsInvertedInterval(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	b := createBlock(t, repo, "Review", hm(9, 0), hm(9, 30))

	_, err := repo.UpdateBlock(ctx, b.ID, block.SetEnd(b.ID, hm(9, 0)).Patch)
	if !errors.Is(err, block.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}

	got, _ := repo.GetBlock(ctx, b.ID)
	if !got.EndedAt.Equal(hm(9, 30)) {
		t.Error("rejected update should not change the row")
	}
}

func TestUpdateBlock_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.UpdateBlock(context.Background(), 42, block.SetComplete(42, true).Patch)
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestUpdateDescription(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	b := createBlock(t, repo, "Old", hm(9, 0), hm(9, 30))

	if err := repo.UpdateDescription(ctx, b.ID, "  New  "); err != nil {
		t.Fatalf("UpdateDescription failed: %v", err)
	}
	got, _ := repo.GetBlock(ctx, b.ID)
	if got.Description != "New" {
		t.Errorf("Description = %q, want New", got.Description)
	}

	if err := repo.UpdateDescription(ctx, b.ID, ""); !errors.Is(err, block.ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
	if err := repo.UpdateDescription(ctx, 999, "x"); !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffected(t *testing.T) {
	errDriver := errors.New("driver cannot count rows")
	tests := []struct {
		name     string
		result   stubResult
		wantErr  error
		notFound bool
	}{
		{name: "one row", result: stubResult{rows: 1}},
		{name: "no rows", result: stubResult{}, wantErr: block.ErrBlockNotFound, notFound: true},
		{name: "driver error", result: stubResult{err: errDriver}, wantErr: errDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAffected(tt.result, 7)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := errors.Is(err, block.ErrBlockNotFound); got != tt.notFound {
				t.Errorf("ErrBlockNotFound = %v, want %v", got, tt.notFound)
			}
		})
	}
}

func TestCreateBlocks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	blocks := []*block.Block{
		{Description: "One", StartedAt: hm(9, 0), EndedAt: hm(9, 30)},
		{Description: "Two", StartedAt: hm(9, 30), EndedAt: hm(10, 0), IsComplete: true},
	}
	if err := repo.CreateBlocks(ctx, blocks); err != nil {
		t.Fatalf("CreateBlocks failed: %v", err)
	}
	for _, b := range blocks {
		if b.ID == 0 {
			t.Errorf("block %q has no ID", b.Description)
		}
	}

	bad := []*block.Block{
		{Description: "Fine", StartedAt: hm(11, 0), EndedAt: hm(11, 30)},
		{Description: "Inverted", StartedAt: hm(12, 0), EndedAt: hm(11, 0)},
	}
	if err := repo.CreateBlocks(ctx, bad); !errors.Is(err, block.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}

	all, _ := repo.ListBlocks(ctx, block.Query{})
	if len(all) != 2 {
		t.Errorf("failed batch should be rolled back, have %d blocks", len(all))
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2025-01-09T09:00:00Z", hm(9, 0), false},
		{"2025-01-09T11:00:00+02:00", hm(9, 0), false},
		{"2025-01-09 09:00:00", hm(9, 0), false},
		{"09:00", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTime(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
