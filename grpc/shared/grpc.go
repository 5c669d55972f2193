package shared

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/turbot/cloudwatch-logs-input/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// InputPluginClient is the host side of the service: it talks to the plugin over GRPC.
type InputPluginClient struct {
	conn grpc.ClientConnInterface
}

func NewInputPluginClient(conn grpc.ClientConnInterface) *InputPluginClient {
	return &InputPluginClient{conn: conn}
}

// Transaction sends the HCL config to the plugin and returns the serialised task source
func (c *InputPluginClient) Transaction(ctx context.Context, configHcl []byte) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, transactionMethod, wrapperspb.Bytes(configHcl), out); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

// ReadTask streams the chunks of one task, calling fn for each.
// It returns nil once the task reaches end of data.
func (c *InputPluginClient) ReadTask(ctx context.Context, taskSource []byte, taskIndex int, fn func([]byte) error) error {
	req, err := structpb.NewStruct(map[string]any{
		fieldTaskSource: string(taskSource),
		fieldTaskIndex:  taskIndex,
	})
	if err != nil {
		return fmt.Errorf("failed to build ReadTask request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], readTaskMethod)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(req); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		chunk := new(wrapperspb.BytesValue)
		err := stream.RecvMsg(chunk)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(chunk.GetValue()); err != nil {
			return err
		}
	}
}

// InputPluginServerWrapper is the gRPC server that InputPluginClient talks to.
type InputPluginServerWrapper struct {
	// This is the real implementation
	Impl InputPluginServer
}

func (s *InputPluginServerWrapper) Transaction(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	taskSource, err := s.Impl.Transaction(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(taskSource), nil
}

func (s *InputPluginServerWrapper) ReadTask(req *structpb.Struct, stream grpc.ServerStream) error {
	fields := req.GetFields()
	taskSource, ok := fields[fieldTaskSource]
	if !ok {
		return status.Errorf(codes.InvalidArgument, "%s is required", fieldTaskSource)
	}
	taskIndex, ok := fields[fieldTaskIndex]
	if !ok {
		return status.Errorf(codes.InvalidArgument, "%s is required", fieldTaskIndex)
	}

	send := func(chunk []byte) error {
		return stream.SendMsg(wrapperspb.Bytes(chunk))
	}
	err := s.Impl.ReadTask(stream.Context(), []byte(taskSource.GetStringValue()), int(taskIndex.GetNumberValue()), send)
	if err != nil {
		return toStatus(err)
	}
	return nil
}

// configuration errors are the caller's fault
func toStatus(err error) error {
	if config.IsConfigError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Unknown, err.Error())
}
