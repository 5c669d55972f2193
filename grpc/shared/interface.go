package shared

import (
	"context"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
)

// Handshake is a common handshake that is shared by plugin and host.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CLOUDWATCH_LOGS_INPUT_PLUGIN",
	MagicCookieValue: "cloudwatch logs input plugin",
}

// InputPluginServer is the interface that we're exposing as a plugin.
type InputPluginServer interface {
	// Transaction sets up a job from its HCL config and returns the serialised task source
	Transaction(ctx context.Context, configHcl []byte) ([]byte, error)
	// ReadTask reads all chunks of one task, calling send for each in order
	ReadTask(ctx context.Context, taskSource []byte, taskIndex int, send func([]byte) error) error
}

// InputGRPCPlugin is the implementation of plugin.GRPCPlugin so we can serve/consume this.
type InputGRPCPlugin struct {
	// GRPCPlugin must still implement the Plugin interface
	plugin.Plugin
	// Concrete implementation - only set on the plugin side
	Impl InputPluginServer
}

func (p *InputGRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, s *grpc.Server) error {
	s.RegisterService(&serviceDesc, &InputPluginServerWrapper{Impl: p.Impl})
	return nil
}

func (p *InputGRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return NewInputPluginClient(c), nil
}
