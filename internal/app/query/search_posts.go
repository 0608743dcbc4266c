package query

import (
	"context"
	"strings"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/query"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// searchPostsHandler implements query.SearchPostsHandler.
type searchPostsHandler struct {
	postRepo repository.PostRepository
	index    service.SearchIndex
}

// NewSearchPostsHandler creates a new SearchPostsHandler.
func NewSearchPostsHandler(
	postRepo repository.PostRepository,
	index service.SearchIndex,
) query.SearchPostsHandler {
	return &searchPostsHandler{
		postRepo: postRepo,
		index:    index,
	}
}

func (h *searchPostsHandler) Handle(ctx context.Context, qry query.SearchPosts) (query.SearchPostsResult, error) {
	if strings.TrimSpace(qry.Search) == "" {
		return query.SearchPostsResult{}, domainerror.ErrSearchQueryRequired
	}

	ids, err := h.index.Search(ctx, qry.Search)
	if err != nil {
		return query.SearchPostsResult{}, err
	}
	if len(ids) == 0 {
		return query.SearchPostsResult{Posts: []*model.Post{}}, nil
	}

	// Ids of posts deleted behind the index's back are dropped here.
	posts, err := h.postRepo.FindByIDs(ctx, ids)
	if err != nil {
		return query.SearchPostsResult{}, err
	}

	return query.SearchPostsResult{Posts: posts}, nil
}

var _ query.Handler[query.SearchPosts, query.SearchPostsResult] = (*searchPostsHandler)(nil)
