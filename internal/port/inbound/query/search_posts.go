package query

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

// SearchPosts finds posts whose titles contain words of the search text.
type SearchPosts struct {
	Search string
}

func (q SearchPosts) QueryName() string {
	return "blog.search_posts"
}

// SearchPostsResult contains the matching posts in ascending ID order.
type SearchPostsResult struct {
	Posts []*model.Post
}

// SearchPostsHandler handles the SearchPosts query.
type SearchPostsHandler interface {
	Handle(ctx context.Context, qry SearchPosts) (SearchPostsResult, error)
}
