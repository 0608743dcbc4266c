package command

import (
	"context"
)

// DeletePost removes a post.
type DeletePost struct {
	PostID int64
}

func (c DeletePost) CommandName() string {
	return "blog.delete_post"
}

// DeletePostResult is empty on success.
type DeletePostResult struct{}

// DeletePostHandler handles the DeletePost command.
type DeletePostHandler interface {
	Handle(ctx context.Context, cmd DeletePost) (DeletePostResult, error)
}
