// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/tock/internal/block"
)

// timeLayout is the storage format for timestamps. Values are always
// written in UTC so that string comparison matches time order.
const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements block.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ block.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const selectColumns = `id, description, started_at, ended_at, is_complete, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (block.Block, error) {
	var (
		b         block.Block
		startedAt string
		endedAt   string
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.Description, &startedAt, &endedAt, &b.IsComplete, &createdAt); err != nil {
		return block.Block{}, err
	}

	var err error
	if b.StartedAt, err = parseTime(startedAt); err != nil {
		return block.Block{}, fmt.Errorf("parsing started_at: %w", err)
	}
	if b.EndedAt, err = parseTime(endedAt); err != nil {
		return block.Block{}, fmt.Errorf("parsing ended_at: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return block.Block{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return b, nil
}

// ListBlocks returns blocks whose start falls in [q.From, q.To), ordered by
// start time. Zero bounds are open; a zero limit returns every match.
func (s *SQLite) ListBlocks(ctx context.Context, q block.Query) ([]block.Block, error) {
	var (
		where []string
		args  []any
	)
	if !q.From.IsZero() {
		where = append(where, "started_at >= ?")
		args = append(args, formatTime(q.From))
	}
	if !q.To.IsZero() {
		where = append(where, "started_at < ?")
		args = append(args, formatTime(q.To))
	}

	query := `SELECT ` + selectColumns + ` FROM blocks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY started_at, id`

	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, max(q.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []block.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return blocks, nil
}

// GetBlock retrieves a block by ID.
func (s *SQLite) GetBlock(ctx context.Context, id int64) (*block.Block, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM blocks WHERE id = ?`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("block %d: %w", id, block.ErrBlockNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying block: %w", err)
	}
	return &b, nil
}

const insertQuery = `
	INSERT INTO blocks (description, started_at, ended_at, is_complete, created_at)
	VALUES (?, ?, ?, ?, ?)
`

// CreateBlock adds a new block to the repository and sets its ID.
func (s *SQLite) CreateBlock(ctx context.Context, b *block.Block) error {
	if strings.TrimSpace(b.Description) == "" {
		return block.ErrEmptyDescription
	}
	if !b.EndedAt.After(b.StartedAt) {
		return block.ErrEndBeforeStart
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	var result sql.Result
	err := retryOnContention(func() error {
		var err error
		result, err = s.db.ExecContext(ctx, insertQuery,
			b.Description,
			formatTime(b.StartedAt),
			formatTime(b.EndedAt),
			b.IsComplete,
			formatTime(b.CreatedAt),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id

	return nil
}

// CreateBlocks adds multiple blocks in a single transaction.
func (s *SQLite) CreateBlocks(ctx context.Context, blocks []*block.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	return retryOnContention(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, insertQuery)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		ids := make([]int64, len(blocks))
		for i, b := range blocks {
			if !b.EndedAt.After(b.StartedAt) {
				return fmt.Errorf("block %q: %w", b.Description, block.ErrEndBeforeStart)
			}
			createdAt := b.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			result, err := stmt.ExecContext(ctx,
				b.Description,
				formatTime(b.StartedAt),
				formatTime(b.EndedAt),
				b.IsComplete,
				formatTime(createdAt),
			)
			if err != nil {
				return fmt.Errorf("inserting block %q: %w", b.Description, err)
			}
			if ids[i], err = result.LastInsertId(); err != nil {
				return fmt.Errorf("getting last insert id: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		for i, b := range blocks {
			b.ID = ids[i]
		}
		return nil
	})
}

// UpdateBlock applies a patch to a block in place and returns the result.
// Returns ErrEndBeforeStart if the patched block would have a zero or
// negative duration.
func (s *SQLite) UpdateBlock(ctx context.Context, id int64, p block.Patch) (block.Block, error) {
	var updated block.Block

	err := retryOnContention(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM blocks WHERE id = ?`, id)
		current, err := scanBlock(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("block %d: %w", id, block.ErrBlockNotFound)
		}
		if err != nil {
			return fmt.Errorf("querying block: %w", err)
		}

		next := p.Apply(current)
		if !next.EndedAt.After(next.StartedAt) {
			return fmt.Errorf("block %d: %w", id, block.ErrEndBeforeStart)
		}

		query := `UPDATE blocks SET started_at = ?, ended_at = ?, is_complete = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query,
			formatTime(next.StartedAt),
			formatTime(next.EndedAt),
			next.IsComplete,
			id,
		); err != nil {
			return fmt.Errorf("updating block: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return block.Block{}, err
	}
	return updated, nil
}

// UpdateDescription changes a block's description.
func (s *SQLite) UpdateDescription(ctx context.Context, id int64, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return block.ErrEmptyDescription
	}

	err := retryOnContention(func() error {
		result, err := s.db.ExecContext(ctx, `UPDATE blocks SET description = ? WHERE id = ?`, description, id)
		if err != nil {
			return err
		}
		return checkAffected(result, id)
	})
	if err != nil {
		return fmt.Errorf("updating block description: %w", err)
	}
	return nil
}

// checkAffected reports ErrBlockNotFound when an update by id matched no row.
func checkAffected(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("block %d: %w", id, block.ErrBlockNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp. Older rows written by other tools
// may use RFC 3339 with an offset or SQLite's default datetime format.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
