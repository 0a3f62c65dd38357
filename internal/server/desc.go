package server

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "menuscan.v1.MenuService"

// MenuServiceServer is the server API for the menu service.
type MenuServiceServer interface {
	ParseReceipt(context.Context, *ParseReceiptRequest) (*ParseReceiptResponse, error)
	ExportMenuItems(context.Context, *ParseReceiptRequest) (*ExportMenuItemsResponse, error)
	SearchMenuItems(context.Context, *SearchMenuItemsRequest) (*SearchMenuItemsResponse, error)
	LookupSynonym(context.Context, *LookupSynonymRequest) (*LookupSynonymResponse, error)
	MapSynonym(context.Context, *MapSynonymRequest) (*MapSynonymResponse, error)
	DeleteSynonym(context.Context, *DeleteSynonymRequest) (*DeleteSynonymResponse, error)
}

// MenuServiceDesc describes the menu service for grpc.Server.RegisterService.
var MenuServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MenuServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ParseReceipt", Handler: unary("ParseReceipt", MenuServiceServer.ParseReceipt)},
		{MethodName: "ExportMenuItems", Handler: unary("ExportMenuItems", MenuServiceServer.ExportMenuItems)},
		{MethodName: "SearchMenuItems", Handler: unary("SearchMenuItems", MenuServiceServer.SearchMenuItems)},
		{MethodName: "LookupSynonym", Handler: unary("LookupSynonym", MenuServiceServer.LookupSynonym)},
		{MethodName: "MapSynonym", Handler: unary("MapSynonym", MenuServiceServer.MapSynonym)},
		{MethodName: "DeleteSynonym", Handler: unary("DeleteSynonym", MenuServiceServer.DeleteSynonym)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "menuscan/v1/menu.json",
}

// RegisterMenuServiceServer registers srv on s.
func RegisterMenuServiceServer(s grpc.ServiceRegistrar, srv MenuServiceServer) {
	s.RegisterService(&MenuServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unary adapts a typed method into a grpc.MethodHandler, running the server interceptor chain.
func unary[Req, Resp any](method string, call func(MenuServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MenuServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MenuServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MenuClient calls the menu service over a connection, always using the JSON codec.
type MenuClient struct {
	cc grpc.ClientConnInterface
}

func NewMenuClient(cc grpc.ClientConnInterface) *MenuClient {
	return &MenuClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *MenuClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MenuClient) ParseReceipt(ctx context.Context, in *ParseReceiptRequest, opts ...grpc.CallOption) (*ParseReceiptResponse, error) {
	return invoke[ParseReceiptResponse](ctx, c, "ParseReceipt", in, opts)
}

func (c *MenuClient) ExportMenuItems(ctx context.Context, in *ParseReceiptRequest, opts ...grpc.CallOption) (*ExportMenuItemsResponse, error) {
	return invoke[ExportMenuItemsResponse](ctx, c, "ExportMenuItems", in, opts)
}

func (c *MenuClient) SearchMenuItems(ctx context.Context, in *SearchMenuItemsRequest, opts ...grpc.CallOption) (*SearchMenuItemsResponse, error) {
	return invoke[SearchMenuItemsResponse](ctx, c, "SearchMenuItems", in, opts)
}

func (c *MenuClient) LookupSynonym(ctx context.Context, in *LookupSynonymRequest, opts ...grpc.CallOption) (*LookupSynonymResponse, error) {
	return invoke[LookupSynonymResponse](ctx, c, "LookupSynonym", in, opts)
}

func (c *MenuClient) MapSynonym(ctx context.Context, in *MapSynonymRequest, opts ...grpc.CallOption) (*MapSynonymResponse, error) {
	return invoke[MapSynonymResponse](ctx, c, "MapSynonym", in, opts)
}

func (c *MenuClient) DeleteSynonym(ctx context.Context, in *DeleteSynonymRequest, opts ...grpc.CallOption) (*DeleteSynonymResponse, error) {
	return invoke[DeleteSynonymResponse](ctx, c, "DeleteSynonym", in, opts)
}
