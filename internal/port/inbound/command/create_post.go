package command

import (
	"context"
)

// CreatePost creates a new post.
type CreatePost struct {
	Title   string
	Content string
}

func (c CreatePost) CommandName() string {
	return "blog.create_post"
}

// CreatePostResult contains the ID of the created post.
type CreatePostResult struct {
	PostID int64
}

// CreatePostHandler handles the CreatePost command.
type CreatePostHandler interface {
	Handle(ctx context.Context, cmd CreatePost) (CreatePostResult, error)
}
