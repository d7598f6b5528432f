package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/dateutil"
	"github.com/javiermolinar/tock/internal/session"
)

func TestDayWindow_LocalZone(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()
	zone := time.FixedZone("UTC+2", 2*3600)

	// Both blocks fall on 2025-01-09 in UTC, but straddle local midnight.
	late := createBlock(t, repo, "Late",
		time.Date(2025, 1, 9, 23, 0, 0, 0, zone),
		time.Date(2025, 1, 9, 23, 30, 0, 0, zone))
	early := createBlock(t, repo, "Early",
		time.Date(2025, 1, 10, 0, 30, 0, 0, zone),
		time.Date(2025, 1, 10, 1, 0, 0, 0, zone))

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, zone)
	tests := []struct {
		date   string
		wantID int64
	}{
		{"yesterday", late.ID},
		{"today", early.ID},
		{"2025-01-09", late.ID},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			q, err := dateutil.DayQuery(tt.date, now, 100)
			if err != nil {
				t.Fatalf("DayQuery failed: %v", err)
			}
			blocks, err := repo.ListBlocks(ctx, q)
			if err != nil {
				t.Fatalf("ListBlocks failed: %v", err)
			}
			if len(blocks) != 1 || blocks[0].ID != tt.wantID {
				t.Errorf("got %+v, want only #%d", blocks, tt.wantID)
			}
		})
	}

	utcDay, err := repo.ListBlocks(ctx, block.Day(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), 0))
	if err != nil {
		t.Fatalf("ListBlocks failed: %v", err)
	}
	if len(utcDay) != 2 {
		t.Errorf("UTC day should hold both blocks, got %d", len(utcDay))
	}
}

func TestSession_ChainAcrossZones(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()
	zone := time.FixedZone("UTC-5", -5*3600)

	// Written in different zones, the two blocks still touch as instants.
	first := createBlock(t, repo, "First",
		time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 9, 4, 30, 0, 0, zone))
	second := createBlock(t, repo, "Second",
		time.Date(2025, 1, 9, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 1, 9, 10, 0, 0, 0, time.UTC))

	s := session.New(repo, block.Day(day, 0), session.WithStep(10*time.Minute))
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.EnterEdit(); err != nil {
		t.Fatalf("EnterEdit failed: %v", err)
	}
	if err := s.Grow(first.ID); err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	got, err := repo.GetBlock(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if !got.StartedAt.Equal(hm(9, 40)) || !got.EndedAt.Equal(hm(10, 10)) {
		t.Errorf("second = %v-%v, want 09:40-10:10 UTC", got.StartedAt, got.EndedAt)
	}
}
