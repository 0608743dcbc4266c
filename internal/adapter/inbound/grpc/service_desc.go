package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// BlogServiceName is the fully-qualified gRPC service name.
const BlogServiceName = "blog.v1.BlogService"

// Method names
const (
	MethodListPosts      = "ListPosts"
	MethodGetPost        = "GetPost"
	MethodSearchPosts    = "SearchPosts"
	MethodCreatePost     = "CreatePost"
	MethodUpdatePost     = "UpdatePost"
	MethodDeletePost     = "DeletePost"
	MethodLogin          = "Login"
	MethodLogout         = "Logout"
	MethodProfile        = "Profile"
	MethodRefreshSession = "RefreshSession"
)

// FullMethod returns the "/service/method" path used by interceptors.
func FullMethod(method string) string {
	return "/" + BlogServiceName + "/" + method
}

// BlogServiceServer is the server API for the blog service.
// Requests and responses are google.protobuf.Struct messages so the service
// needs no generated code.
type BlogServiceServer interface {
	ListPosts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchPosts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Profile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(BlogServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// BlogService_ServiceDesc is the grpc.ServiceDesc for BlogService.
var BlogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BlogServiceName,
	HandlerType: (*BlogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodListPosts, Handler: unaryHandler(MethodListPosts, BlogServiceServer.ListPosts)},
		{MethodName: MethodGetPost, Handler: unaryHandler(MethodGetPost, BlogServiceServer.GetPost)},
		{MethodName: MethodSearchPosts, Handler: unaryHandler(MethodSearchPosts, BlogServiceServer.SearchPosts)},
		{MethodName: MethodCreatePost, Handler: unaryHandler(MethodCreatePost, BlogServiceServer.CreatePost)},
		{MethodName: MethodUpdatePost, Handler: unaryHandler(MethodUpdatePost, BlogServiceServer.UpdatePost)},
		{MethodName: MethodDeletePost, Handler: unaryHandler(MethodDeletePost, BlogServiceServer.DeletePost)},
		{MethodName: MethodLogin, Handler: unaryHandler(MethodLogin, BlogServiceServer.Login)},
		{MethodName: MethodLogout, Handler: unaryHandler(MethodLogout, BlogServiceServer.Logout)},
		{MethodName: MethodProfile, Handler: unaryHandler(MethodProfile, BlogServiceServer.Profile)},
		{MethodName: MethodRefreshSession, Handler: unaryHandler(MethodRefreshSession, BlogServiceServer.RefreshSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blog/v1/blog.proto",
}

// unaryHandler adapts a BlogServiceServer method to a grpc.MethodHandler.
func unaryHandler(method string, call unaryMethod) grpc.MethodHandler {
	fullMethod := FullMethod(method)

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BlogServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BlogServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
