package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/command"
	"github.com/0xsj/overwatch-blog/internal/port/inbound/query"
)

// Handler implements BlogServiceServer.
type Handler struct {
	// Command handlers
	createPostHandler command.CreatePostHandler
	updatePostHandler command.UpdatePostHandler
	deletePostHandler command.DeletePostHandler
	loginHandler      command.LoginHandler

	// Query handlers
	listPostsHandler   query.ListPostsHandler
	getPostHandler     query.GetPostHandler
	searchPostsHandler query.SearchPostsHandler

	sessions service.SessionManager
}

// HandlerConfig holds all the handlers needed by the gRPC handler.
type HandlerConfig struct {
	CreatePostHandler  command.CreatePostHandler
	UpdatePostHandler  command.UpdatePostHandler
	DeletePostHandler  command.DeletePostHandler
	LoginHandler       command.LoginHandler
	ListPostsHandler   query.ListPostsHandler
	GetPostHandler     query.GetPostHandler
	SearchPostsHandler query.SearchPostsHandler
	Sessions           service.SessionManager
}

// NewHandler creates a new gRPC handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		createPostHandler:  cfg.CreatePostHandler,
		updatePostHandler:  cfg.UpdatePostHandler,
		deletePostHandler:  cfg.DeletePostHandler,
		loginHandler:       cfg.LoginHandler,
		listPostsHandler:   cfg.ListPostsHandler,
		getPostHandler:     cfg.GetPostHandler,
		searchPostsHandler: cfg.SearchPostsHandler,
		sessions:           cfg.Sessions,
	}
}

// Posts

func (h *Handler) ListPosts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := h.listPostsHandler.Handle(ctx, query.ListPosts{})
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"posts":      toPostValues(result.Posts),
		"from_cache": result.FromCache,
	})
}

func (h *Handler) GetPost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	postID, ok := int64Field(req, "post_id")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid post_id")
	}

	result, err := h.getPostHandler.Handle(ctx, query.GetPost{PostID: postID})
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"post":       toPostValue(result.Post),
		"from_cache": result.FromCache,
	})
}

func (h *Handler) SearchPosts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := h.searchPostsHandler.Handle(ctx, query.SearchPosts{
		Search: stringField(req, "search"),
	})
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"posts": toPostValues(result.Posts),
	})
}

func (h *Handler) CreatePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cmd := command.CreatePost{
		Title:   stringField(req, "title"),
		Content: stringField(req, "content"),
	}

	result, err := h.createPostHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"post_id": result.PostID,
	})
}

func (h *Handler) UpdatePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	postID, ok := int64Field(req, "post_id")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid post_id")
	}

	cmd := command.UpdatePost{
		PostID:  postID,
		Title:   stringField(req, "title"),
		Content: stringField(req, "content"),
	}

	result, err := h.updatePostHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"post":      toPostValue(result.Post),
		"old_title": result.OldTitle,
	})
}

func (h *Handler) DeletePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	postID, ok := int64Field(req, "post_id")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "invalid post_id")
	}

	if _, err := h.deletePostHandler.Handle(ctx, command.DeletePost{PostID: postID}); err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{})
}

// Sessions

func (h *Handler) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := h.loginHandler.Handle(ctx, command.Login{
		Email:    stringField(req, "email"),
		Password: stringField(req, "password"),
	})
	if err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{
		"token":      result.Token,
		"subject_id": result.SubjectID,
	})
}

func (h *Handler) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, toGRPCError(domainerror.ErrUnauthenticated)
	}

	if err := h.sessions.InvalidateSession(ctx, session.SubjectID()); err != nil {
		return nil, toGRPCError(err)
	}

	return newResponse(map[string]any{})
}

func (h *Handler) Profile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, toGRPCError(domainerror.ErrUnauthenticated)
	}

	return newResponse(map[string]any{
		"session": toSessionValue(session),
	})
}

func (h *Handler) RefreshSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, toGRPCError(domainerror.ErrUnauthenticated)
	}

	return newResponse(map[string]any{
		"refreshed": h.sessions.RefreshSession(ctx, session.SubjectID()),
	})
}

// newResponse encodes fields as a Struct.
func newResponse(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return resp, nil
}

var _ BlogServiceServer = (*Handler)(nil)
