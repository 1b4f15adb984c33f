package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Сервис описан вручную поверх well-known типов protobuf, поэтому отдельный .proto не нужен.
// Товар передаётся как google.protobuf.Struct, uint64-поля кодируются десятичной строкой.
const (
	ProductRegistryServiceName = "supplychain.v1.ProductRegistry"

	ProductRegistry_AddProduct_FullMethodName    = "/supplychain.v1.ProductRegistry/AddProduct"
	ProductRegistry_GetProduct_FullMethodName    = "/supplychain.v1.ProductRegistry/GetProduct"
	ProductRegistry_ListProducts_FullMethodName  = "/supplychain.v1.ProductRegistry/ListProducts"
	ProductRegistry_UpdateProduct_FullMethodName = "/supplychain.v1.ProductRegistry/UpdateProduct"
	ProductRegistry_DeleteProduct_FullMethodName = "/supplychain.v1.ProductRegistry/DeleteProduct"
)

type ProductRegistryServer interface {
	AddProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
	ListProducts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *wrapperspb.UInt64Value) (*structpb.Struct, error)
}

func RegisterProductRegistryServer(s grpc.ServiceRegistrar, srv ProductRegistryServer) {
	s.RegisterService(&ProductRegistry_ServiceDesc, srv)
}

var ProductRegistry_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductRegistryServiceName,
	HandlerType: (*ProductRegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddProduct",
			Handler:    unaryHandler(ProductRegistry_AddProduct_FullMethodName, ProductRegistryServer.AddProduct),
		},
		{
			MethodName: "GetProduct",
			Handler:    unaryHandler(ProductRegistry_GetProduct_FullMethodName, ProductRegistryServer.GetProduct),
		},
		{
			MethodName: "ListProducts",
			Handler:    unaryHandler(ProductRegistry_ListProducts_FullMethodName, ProductRegistryServer.ListProducts),
		},
		{
			MethodName: "UpdateProduct",
			Handler:    unaryHandler(ProductRegistry_UpdateProduct_FullMethodName, ProductRegistryServer.UpdateProduct),
		},
		{
			MethodName: "DeleteProduct",
			Handler:    unaryHandler(ProductRegistry_DeleteProduct_FullMethodName, ProductRegistryServer.DeleteProduct),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "supplychain/v1/product_registry.proto",
}

// unaryHandler повторяет то, что генерирует protoc-gen-go-grpc для каждого unary-метода.
func unaryHandler[Req any, Res any](
	fullMethod string,
	call func(ProductRegistryServer, context.Context, *Req) (Res, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductRegistryServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductRegistryServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ProductRegistryClient клиент сервиса реестра.
type ProductRegistryClient struct {
	cc grpc.ClientConnInterface
}

func NewProductRegistryClient(cc grpc.ClientConnInterface) *ProductRegistryClient {
	return &ProductRegistryClient{cc: cc}
}

func (c *ProductRegistryClient) AddProduct(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProductRegistry_AddProduct_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductRegistryClient) GetProduct(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProductRegistry_GetProduct_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductRegistryClient) ListProducts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ProductRegistry_ListProducts_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductRegistryClient) UpdateProduct(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProductRegistry_UpdateProduct_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductRegistryClient) DeleteProduct(ctx context.Context, in *wrapperspb.UInt64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ProductRegistry_DeleteProduct_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
