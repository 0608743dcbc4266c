package command

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/event"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

const postUpdateLockPrefix = "post:update:"

// PostUpdateLockName returns the lock that serializes edits and deletes of a post.
func PostUpdateLockName(postID int64) string {
	return postUpdateLockPrefix + strconv.FormatInt(postID, 10)
}

// updatePostHandler implements command.UpdatePostHandler.
type updatePostHandler struct {
	postRepo  repository.PostRepository
	postCache service.PostCache
	index     service.SearchIndex
	locker    service.Locker
	publisher messaging.EventPublisher
}

// NewUpdatePostHandler creates a new UpdatePostHandler.
func NewUpdatePostHandler(
	postRepo repository.PostRepository,
	postCache service.PostCache,
	index service.SearchIndex,
	locker service.Locker,
	publisher messaging.EventPublisher,
) command.UpdatePostHandler {
	return &updatePostHandler{
		postRepo:  postRepo,
		postCache: postCache,
		index:     index,
		locker:    locker,
		publisher: publisher,
	}
}

func (h *updatePostHandler) Handle(ctx context.Context, cmd command.UpdatePost) (command.UpdatePostResult, error) {
	if cmd.PostID <= 0 {
		return command.UpdatePostResult{}, domainerror.ErrPostIDRequired
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return command.UpdatePostResult{}, domainerror.ErrPostTitleRequired
	}

	var result command.UpdatePostResult

	// The read of the old title, the write and the index swap must not
	// interleave with another edit of the same post.
	err := h.locker.WithLock(ctx, PostUpdateLockName(cmd.PostID), func(ctx context.Context) error {
		current, err := h.postRepo.FindByID(ctx, cmd.PostID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domainerror.ErrPostNotFound
			}
			return err
		}

		updated, err := h.postRepo.Update(ctx, cmd.PostID, repository.PostUpdate{
			Title:   cmd.Title,
			Content: cmd.Content,
		})
		if err != nil {
			return err
		}
		if !updated {
			return domainerror.ErrPostNotFound
		}

		h.postCache.Invalidate(ctx, types.Some(cmd.PostID))

		// Index failures are logged by the index; the edit itself is committed.
		_ = h.index.Remove(ctx, cmd.PostID, current.Title())
		_ = h.index.Add(ctx, cmd.PostID, cmd.Title)

		result = command.UpdatePostResult{
			Post:     model.ReconstructPost(cmd.PostID, cmd.Title, cmd.Content, current.CreatedAt()),
			OldTitle: current.Title(),
		}
		return nil
	})
	if err != nil {
		return command.UpdatePostResult{}, err
	}

	_ = h.publisher.Publish(ctx, event.NewPostUpdated(cmd.PostID, result.OldTitle, cmd.Title))

	return result, nil
}

var _ command.Handler[command.UpdatePost, command.UpdatePostResult] = (*updatePostHandler)(nil)
