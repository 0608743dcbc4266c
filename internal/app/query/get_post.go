package query

import (
	"context"
	"errors"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/query"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// getPostHandler implements query.GetPostHandler.
type getPostHandler struct {
	postRepo  repository.PostRepository
	postCache service.PostCache
}

// NewGetPostHandler creates a new GetPostHandler.
func NewGetPostHandler(
	postRepo repository.PostRepository,
	postCache service.PostCache,
) query.GetPostHandler {
	return &getPostHandler{
		postRepo:  postRepo,
		postCache: postCache,
	}
}

func (h *getPostHandler) Handle(ctx context.Context, qry query.GetPost) (query.GetPostResult, error) {
	if qry.PostID <= 0 {
		return query.GetPostResult{}, domainerror.ErrPostIDRequired
	}

	// Try cache first
	if post, found := h.postCache.GetOne(ctx, qry.PostID); found {
		return query.GetPostResult{Post: post, FromCache: true}, nil
	}

	// Fallback to repository
	post, err := h.postRepo.FindByID(ctx, qry.PostID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return query.GetPostResult{}, domainerror.ErrPostNotFound
		}
		return query.GetPostResult{}, err
	}

	// Populate cache
	h.postCache.SetOne(ctx, qry.PostID, post)

	return query.GetPostResult{Post: post}, nil
}

var _ query.Handler[query.GetPost, query.GetPostResult] = (*getPostHandler)(nil)
