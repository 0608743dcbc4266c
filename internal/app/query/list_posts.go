package query

import (
	"context"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/query"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// listPostsHandler implements query.ListPostsHandler.
type listPostsHandler struct {
	postRepo  repository.PostRepository
	postCache service.PostCache
}

// NewListPostsHandler creates a new ListPostsHandler.
func NewListPostsHandler(
	postRepo repository.PostRepository,
	postCache service.PostCache,
) query.ListPostsHandler {
	return &listPostsHandler{
		postRepo:  postRepo,
		postCache: postCache,
	}
}

func (h *listPostsHandler) Handle(ctx context.Context, qry query.ListPosts) (query.ListPostsResult, error) {
	// Try cache first
	if posts, found := h.postCache.GetAll(ctx); found {
		return query.ListPostsResult{Posts: posts, FromCache: true}, nil
	}

	// Fallback to repository
	posts, err := h.postRepo.FindAll(ctx)
	if err != nil {
		return query.ListPostsResult{}, err
	}

	// Populate cache
	h.postCache.SetAll(ctx, posts)

	return query.ListPostsResult{Posts: posts}, nil
}

var _ query.Handler[query.ListPosts, query.ListPostsResult] = (*listPostsHandler)(nil)
