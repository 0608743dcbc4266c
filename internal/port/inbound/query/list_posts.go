package query

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// ListPosts retrieves every post.
type ListPosts struct{}

func (q ListPosts) QueryName() string {
	return "blog.list_posts"
}

// ListPostsResult contains the posts.
type ListPostsResult struct {
	Posts     []*model.Post
	FromCache bool
}

// ListPostsHandler handles the ListPosts query.
type ListPostsHandler interface {
	Handle(ctx context.Context, qry ListPosts) (ListPostsResult, error)
}
