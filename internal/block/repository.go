package block

import "context"

// Repository defines the storage interface for blocks.
type Repository interface {
	// ListBlocks returns the blocks matching q, ordered by start time.
	ListBlocks(ctx context.Context, q Query) ([]Block, error)

	// GetBlock retrieves a block by ID.
	// Returns ErrBlockNotFound if no such block exists.
	GetBlock(ctx context.Context, id int64) (*Block, error)

	// CreateBlock adds a new block and sets its ID.
	CreateBlock(ctx context.Context, b *Block) error

	// UpdateBlock applies a patch to a stored block and returns the result.
	// Returns ErrEndBeforeStart if the patched interval would be inverted.
	UpdateBlock(ctx context.Context, id int64, p Patch) (Block, error)

	// Close releases any resources held by the repository.
	Close() error
}
