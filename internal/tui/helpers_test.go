package tui

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/tock/internal/block"
	"github.com/javiermolinar/tock/internal/config"
	"github.com/javiermolinar/tock/internal/tui/commands"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

var (
	testNow = time.Date(2025, 1, 9, 10, 23, 0, 0, time.UTC)
	testDay = time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)
)

func hm(h, m int) time.Time {
	return testDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

var errStore = errors.New("store unavailable")

// memRepo is an in-memory block.Repository.
type memRepo struct {
	blocks []block.Block
	nextID int64
	failOn int64 // UpdateBlock fails for this ID
	writes int
}

func newMemRepo(blocks ...block.Block) *memRepo {
	r := &memRepo{nextID: 1}
	for _, b := range blocks {
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
		r.blocks = append(r.blocks, b)
	}
	return r
}

func (r *memRepo) ListBlocks(_ context.Context, q block.Query) ([]block.Block, error) {
	var out []block.Block
	for _, b := range r.blocks {
		if !q.From.IsZero() && b.StartedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !b.StartedAt.Before(q.To) {
			continue
		}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b block.Block) int { return a.StartedAt.Compare(b.StartedAt) })
	return out, nil
}

func (r *memRepo) GetBlock(_ context.Context, id int64) (*block.Block, error) {
	if i := block.IndexOf(r.blocks, id); i >= 0 {
		b := r.blocks[i]
		return &b, nil
	}
	return nil, block.ErrBlockNotFound
}

func (r *memRepo) CreateBlock(_ context.Context, b *block.Block) error {
	b.ID = r.nextID
	r.nextID++
	r.blocks = append(r.blocks, *b)
	return nil
}

func (r *memRepo) UpdateBlock(_ context.Context, id int64, p block.Patch) (block.Block, error) {
	if id == r.failOn {
		return block.Block{}, errStore
	}
	i := block.IndexOf(r.blocks, id)
	if i < 0 {
		return block.Block{}, block.ErrBlockNotFound
	}
	r.blocks[i] = p.Apply(r.blocks[i])
	r.writes++
	return r.blocks[i], nil
}

func (r *memRepo) Close() error { return nil }

func (r *memRepo) get(t *testing.T, id int64) block.Block {
	t.Helper()
	b, err := r.GetBlock(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBlock(%d): %v", id, err)
	}
	return *b
}

// sampleDay is a two-block chain followed by a standalone block.
func sampleDay() []block.Block {
	return []block.Block{
		{ID: 1, Description: "Standup", StartedAt: hm(9, 0), EndedAt: hm(9, 30), IsComplete: true},
		{ID: 2, Description: "Review PRs", StartedAt: hm(9, 30), EndedAt: hm(10, 0)},
		{ID: 3, Description: "Write docs", StartedAt: hm(11, 0), EndedAt: hm(11, 30)},
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.DBPath = ":memory:"
	return cfg
}

// newTestModel returns a model over repo with today's list already loaded.
func newTestModel(t *testing.T, repo *memRepo) Model {
	t.Helper()
	m := *New(repo, testConfig(), WithClock(func() time.Time { return testNow }))
	return load(t, m)
}

// load runs the model's load command and feeds the result back.
func load(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.Init()()
	if e, ok := msg.(commands.ErrMsg); ok {
		t.Fatalf("load failed: %v", e.Err)
	}
	return update(t, m, msg)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
