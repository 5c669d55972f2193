package shared

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// the service messages are protobuf well-known types, so the service is declared by hand

const (
	serviceName       = "cloudwatchlogs.InputPlugin"
	transactionMethod = "/" + serviceName + "/Transaction"
	readTaskMethod    = "/" + serviceName + "/ReadTask"

	fieldTaskSource = "task_source"
	fieldTaskIndex  = "task_index"
)

// inputPluginGRPCServer is the server API of the service
type inputPluginGRPCServer interface {
	Transaction(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	ReadTask(*structpb.Struct, grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*inputPluginGRPCServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Transaction",
			Handler:    transactionHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ReadTask",
			Handler:       readTaskHandler,
			ServerStreams: true,
		},
	},
	Metadata: "input_plugin.proto",
}

func transactionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(inputPluginGRPCServer).Transaction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: transactionMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(inputPluginGRPCServer).Transaction(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func readTaskHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(inputPluginGRPCServer).ReadTask(in, stream)
}
