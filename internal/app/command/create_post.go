package command

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	"github.com/0xsj/overwatch-blog/internal/domain/event"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/repository"
)

// createPostHandler implements command.CreatePostHandler.
type createPostHandler struct {
	postRepo  repository.PostRepository
	postCache service.PostCache
	index     service.SearchIndex
	publisher messaging.EventPublisher
}

// NewCreatePostHandler creates a new CreatePostHandler.
func NewCreatePostHandler(
	postRepo repository.PostRepository,
	postCache service.PostCache,
	index service.SearchIndex,
	publisher messaging.EventPublisher,
) command.CreatePostHandler {
	return &createPostHandler{
		postRepo:  postRepo,
		postCache: postCache,
		index:     index,
		publisher: publisher,
	}
}

func (h *createPostHandler) Handle(ctx context.Context, cmd command.CreatePost) (command.CreatePostResult, error) {
	post, err := model.NewPost(cmd.Title, cmd.Content)
	if err != nil {
		return command.CreatePostResult{}, err
	}

	id, err := h.postRepo.Create(ctx, post)
	if err != nil {
		return command.CreatePostResult{}, err
	}

	// The new post only shows up in the list view.
	h.postCache.Invalidate(ctx, types.None[int64]())

	// Index failures are logged by the index; the post itself is committed.
	_ = h.index.Add(ctx, id, post.Title())

	_ = h.publisher.Publish(ctx, event.NewPostCreated(id, post.Title()))

	return command.CreatePostResult{PostID: id}, nil
}

var _ command.Handler[command.CreatePost, command.CreatePostResult] = (*createPostHandler)(nil)
