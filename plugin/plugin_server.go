package plugin

import (
	"context"

	"github.com/turbot/cloudwatch-logs-input/config"
	"github.com/turbot/cloudwatch-logs-input/grpc/shared"
)

// the filename reported in HCL diagnostics
const configFilename = "config.hcl"

// PluginServer maps between the GRPC interface and the InputPlugin
type PluginServer struct {
	impl *InputPlugin
}

var _ shared.InputPluginServer = PluginServer{}

func NewPluginServer(impl *InputPlugin) PluginServer {
	return PluginServer{impl: impl}
}

func (s PluginServer) Transaction(ctx context.Context, configHcl []byte) ([]byte, error) {
	c, err := config.Parse(configHcl, configFilename)
	if err != nil {
		return nil, err
	}
	taskSource, err := s.impl.Transaction(ctx, c)
	if err != nil {
		return nil, err
	}
	return taskSource.Marshal()
}

func (s PluginServer) ReadTask(ctx context.Context, taskSourceJSON []byte, taskIndex int, send func([]byte) error) error {
	taskSource, err := UnmarshalTaskSource(taskSourceJSON)
	if err != nil {
		return err
	}
	_, err = s.impl.RunTask(ctx, taskSource, taskIndex, send)
	return err
}
