package tui

import (
	"testing"

	"github.com/javiermolinar/tock/internal/block"
)

func TestDayCache(t *testing.T) {
	c := newDayCache()
	today := block.Day(testDay, 10)
	tomorrow := block.Day(testDay.AddDate(0, 0, 1), 10)

	if _, ok := c.get(today); ok {
		t.Fatal("empty cache should miss")
	}

	blocks := sampleDay()
	c.put(today, blocks)
	blocks[0].Description = "mutated"

	got, ok := c.get(today)
	if !ok || len(got) != 3 {
		t.Fatalf("get = %v, %v", got, ok)
	}
	if got[0].Description != "Standup" {
		t.Error("cache should hold a copy of the stored list")
	}

	got[1].Description = "mutated"
	again, _ := c.get(today)
	if again[1].Description != "Review PRs" {
		t.Error("get should return a copy")
	}

	if _, ok := c.get(tomorrow); ok {
		t.Error("days should be cached independently")
	}

	c.invalidate(today)
	if _, ok := c.get(today); ok {
		t.Error("invalidate should drop the day")
	}
}
