package command

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// UpdatePost replaces the title and content of a post.
type UpdatePost struct {
	PostID  int64
	Title   string
	Content string
}

func (c UpdatePost) CommandName() string {
	return "blog.update_post"
}

// UpdatePostResult contains the updated post.
type UpdatePostResult struct {
	Post     *model.Post
	OldTitle string
}

// UpdatePostHandler handles the UpdatePost command.
type UpdatePostHandler interface {
	Handle(ctx context.Context, cmd UpdatePost) (UpdatePostResult, error)
}
