package query

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// GetPost retrieves a post by ID.
type GetPost struct {
	PostID int64
}

func (q GetPost) QueryName() string {
	return "blog.get_post"
}

// GetPostResult contains the post.
type GetPostResult struct {
	Post      *model.Post
	FromCache bool
}

// GetPostHandler handles the GetPost query.
type GetPostHandler interface {
	Handle(ctx context.Context, qry GetPost) (GetPostResult, error)
}
