package command

import (
	"context"
	"errors"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/event"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// deletePostHandler implements command.DeletePostHandler.
type deletePostHandler struct {
	postRepo  repository.PostRepository
	postCache service.PostCache
	index     service.SearchIndex
	locker    service.Locker
	publisher messaging.EventPublisher
}

// NewDeletePostHandler creates a new DeletePostHandler.
func NewDeletePostHandler(
	postRepo repository.PostRepository,
	postCache service.PostCache,
	index service.SearchIndex,
	locker service.Locker,
	publisher messaging.EventPublisher,
) command.DeletePostHandler {
	return &deletePostHandler{
		postRepo:  postRepo,
		postCache: postCache,
		index:     index,
		locker:    locker,
		publisher: publisher,
	}
}

func (h *deletePostHandler) Handle(ctx context.Context, cmd command.DeletePost) (command.DeletePostResult, error) {
	if cmd.PostID <= 0 {
		return command.DeletePostResult{}, domainerror.ErrPostIDRequired
	}

	// Shares the edit lock so a concurrent edit cannot re-index a deleted post.
	err := h.locker.WithLock(ctx, PostUpdateLockName(cmd.PostID), func(ctx context.Context) error {
		post, err := h.postRepo.FindByID(ctx, cmd.PostID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domainerror.ErrPostNotFound
			}
			return err
		}

		deleted, err := h.postRepo.Delete(ctx, cmd.PostID)
		if err != nil {
			return err
		}
		if !deleted {
			return domainerror.ErrPostNotFound
		}

		h.postCache.Invalidate(ctx, types.Some(cmd.PostID))
		// Logged by the index.
		_ = h.index.Remove(ctx, cmd.PostID, post.Title())
		return nil
	})
	if err != nil {
		return command.DeletePostResult{}, err
	}

	_ = h.publisher.Publish(ctx, event.NewPostDeleted(cmd.PostID))

	return command.DeletePostResult{}, nil
}

var _ command.Handler[command.DeletePost, command.DeletePostResult] = (*deletePostHandler)(nil)
