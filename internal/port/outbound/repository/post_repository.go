package repository

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// PostRepository defines the interface for post persistence.
// It is the system of record; the cache and search index are derived from it.
type PostRepository interface {
	// FindAll retrieves every post, newest first.
	FindAll(ctx context.Context) ([]*model.Post, error)

	// FindByID retrieves a post by its ID.
	FindByID(ctx context.Context, id int64) (*model.Post, error)

	// FindByIDs retrieves the posts with the given IDs in ascending ID order.
	// IDs without a post are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]*model.Post, error)

	// Create persists a new post and returns its assigned ID.
	Create(ctx context.Context, post *model.Post) (int64, error)

	// Update overwrites title and content of a post.
	// Returns false when no post has the ID.
	Update(ctx context.Context, id int64, update PostUpdate) (bool, error)

	// Delete removes a post. Returns false when no post has the ID.
	Delete(ctx context.Context, id int64) (bool, error)
}

// PostUpdate carries the editable fields of a post.
type PostUpdate struct {
	Title   string
	Content string
}
