package roommate

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "roommate.v1.RoommateService"

	RoommateService_SubmitSearch_FullMethodName   = "/roommate.v1.RoommateService/SubmitSearch"
	RoommateService_WithdrawSearch_FullMethodName = "/roommate.v1.RoommateService/WithdrawSearch"
	RoommateService_GetFeed_FullMethodName        = "/roommate.v1.RoommateService/GetFeed"
	RoommateService_GetMatches_FullMethodName     = "/roommate.v1.RoommateService/GetMatches"
	RoommateService_CountMatches_FullMethodName   = "/roommate.v1.RoommateService/CountMatches"
)

// RoommateServiceClient is the client API for RoommateService. Every call
// uses the JSON codec.
type RoommateServiceClient interface {
	SubmitSearch(ctx context.Context, in *SubmitSearchRequest, opts ...grpc.CallOption) (*SubmitSearchResponse, error)
	WithdrawSearch(ctx context.Context, in *WithdrawSearchRequest, opts ...grpc.CallOption) (*WithdrawSearchResponse, error)
	GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error)
	GetMatches(ctx context.Context, in *GetMatchesRequest, opts ...grpc.CallOption) (*GetMatchesResponse, error)
	CountMatches(ctx context.Context, in *CountMatchesRequest, opts ...grpc.CallOption) (*CountMatchesResponse, error)
}

type roommateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRoommateServiceClient(cc grpc.ClientConnInterface) RoommateServiceClient {
	return &roommateServiceClient{cc}
}

func (c *roommateServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *roommateServiceClient) SubmitSearch(ctx context.Context, in *SubmitSearchRequest, opts ...grpc.CallOption) (*SubmitSearchResponse, error) {
	out := new(SubmitSearchResponse)
	if err := c.invoke(ctx, RoommateService_SubmitSearch_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roommateServiceClient) WithdrawSearch(ctx context.Context, in *WithdrawSearchRequest, opts ...grpc.CallOption) (*WithdrawSearchResponse, error) {
	out := new(WithdrawSearchResponse)
	if err := c.invoke(ctx, RoommateService_WithdrawSearch_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roommateServiceClient) GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error) {
	out := new(GetFeedResponse)
	if err := c.invoke(ctx, RoommateService_GetFeed_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roommateServiceClient) GetMatches(ctx context.Context, in *GetMatchesRequest, opts ...grpc.CallOption) (*GetMatchesResponse, error) {
	out := new(GetMatchesResponse)
	if err := c.invoke(ctx, RoommateService_GetMatches_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roommateServiceClient) CountMatches(ctx context.Context, in *CountMatchesRequest, opts ...grpc.CallOption) (*CountMatchesResponse, error) {
	out := new(CountMatchesResponse)
	if err := c.invoke(ctx, RoommateService_CountMatches_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// RoommateServiceServer is the server API for RoommateService.
type RoommateServiceServer interface {
	SubmitSearch(context.Context, *SubmitSearchRequest) (*SubmitSearchResponse, error)
	WithdrawSearch(context.Context, *WithdrawSearchRequest) (*WithdrawSearchResponse, error)
	GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error)
	GetMatches(context.Context, *GetMatchesRequest) (*GetMatchesResponse, error)
	CountMatches(context.Context, *CountMatchesRequest) (*CountMatchesResponse, error)
}

// UnimplementedRoommateServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedRoommateServiceServer struct{}

func (UnimplementedRoommateServiceServer) SubmitSearch(context.Context, *SubmitSearchRequest) (*SubmitSearchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitSearch not implemented")
}
func (UnimplementedRoommateServiceServer) WithdrawSearch(context.Context, *WithdrawSearchRequest) (*WithdrawSearchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method WithdrawSearch not implemented")
}
func (UnimplementedRoommateServiceServer) GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetFeed not implemented")
}
func (UnimplementedRoommateServiceServer) GetMatches(context.Context, *GetMatchesRequest) (*GetMatchesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMatches not implemented")
}
func (UnimplementedRoommateServiceServer) CountMatches(context.Context, *CountMatchesRequest) (*CountMatchesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CountMatches not implemented")
}

func RegisterRoommateServiceServer(s grpc.ServiceRegistrar, srv RoommateServiceServer) {
	s.RegisterService(&RoommateService_ServiceDesc, srv)
}

// unaryHandler adapts a typed method into a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(RoommateServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RoommateServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RoommateServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RoommateService_ServiceDesc is the grpc.ServiceDesc for RoommateService.
var RoommateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoommateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SubmitSearch",
			Handler:    unaryHandler(RoommateService_SubmitSearch_FullMethodName, RoommateServiceServer.SubmitSearch),
		},
		{
			MethodName: "WithdrawSearch",
			Handler:    unaryHandler(RoommateService_WithdrawSearch_FullMethodName, RoommateServiceServer.WithdrawSearch),
		},
		{
			MethodName: "GetFeed",
			Handler:    unaryHandler(RoommateService_GetFeed_FullMethodName, RoommateServiceServer.GetFeed),
		},
		{
			MethodName: "GetMatches",
			Handler:    unaryHandler(RoommateService_GetMatches_FullMethodName, RoommateServiceServer.GetMatches),
		},
		{
			MethodName: "CountMatches",
			Handler:    unaryHandler(RoommateService_CountMatches_FullMethodName, RoommateServiceServer.CountMatches),
		},
	},
	Streams: []grpc.StreamDesc{},
}
