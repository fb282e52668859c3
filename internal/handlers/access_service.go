package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AccessServiceName is the fully-qualified gRPC service name
const AccessServiceName = "erpr.v1.AccessService"

// Full method names of AccessService
const (
	AccessServiceEvaluateMethod        = "/" + AccessServiceName + "/Evaluate"
	AccessServiceListPermissionsMethod = "/" + AccessServiceName + "/ListPermissions"
	AccessServiceSavePermissionsMethod = "/" + AccessServiceName + "/SavePermissions"
	AccessServiceCheckNavigationMethod = "/" + AccessServiceName + "/CheckNavigation"
)

// AccessServiceServer is the server API of AccessService.
// Messages are google.protobuf.Struct values; see AccessHandler for their fields.
type AccessServiceServer interface {
	Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SavePermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CheckNavigation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type accessCall func(AccessServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call accessCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccessServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AccessServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AccessServiceDesc describes AccessService for grpc.Server.RegisterService
var AccessServiceDesc = grpc.ServiceDesc{
	ServiceName: AccessServiceName,
	HandlerType: (*AccessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Evaluate",
			Handler:    unaryHandler(AccessServiceEvaluateMethod, AccessServiceServer.Evaluate),
		},
		{
			MethodName: "ListPermissions",
			Handler:    unaryHandler(AccessServiceListPermissionsMethod, AccessServiceServer.ListPermissions),
		},
		{
			MethodName: "SavePermissions",
			Handler:    unaryHandler(AccessServiceSavePermissionsMethod, AccessServiceServer.SavePermissions),
		},
		{
			MethodName: "CheckNavigation",
			Handler:    unaryHandler(AccessServiceCheckNavigationMethod, AccessServiceServer.CheckNavigation),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "erpr/v1/access.proto",
}

// RegisterAccessServiceServer registers srv on s
func RegisterAccessServiceServer(s grpc.ServiceRegistrar, srv AccessServiceServer) {
	s.RegisterService(&AccessServiceDesc, srv)
}

// AccessServiceClient calls AccessService
type AccessServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccessServiceClient creates a client on cc
func NewAccessServiceClient(cc grpc.ClientConnInterface) *AccessServiceClient {
	return &AccessServiceClient{cc: cc}
}

func (c *AccessServiceClient) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluate calls AccessService.Evaluate
func (c *AccessServiceClient) Evaluate(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AccessServiceEvaluateMethod, req, opts...)
}

// ListPermissions calls AccessService.ListPermissions
func (c *AccessServiceClient) ListPermissions(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AccessServiceListPermissionsMethod, req, opts...)
}

// SavePermissions calls AccessService.SavePermissions
func (c *AccessServiceClient) SavePermissions(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AccessServiceSavePermissionsMethod, req, opts...)
}

// CheckNavigation calls AccessService.CheckNavigation
func (c *AccessServiceClient) CheckNavigation(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AccessServiceCheckNavigationMethod, req, opts...)
}
