package grpc

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/turbot/cloudwatch-logs-input/grpc/shared"
)

// PluginClient is the client object used by hosts of the plugin
type PluginClient struct {
	*shared.InputPluginClient
	Name   string
	Client *plugin.Client
}

func NewPluginClient(client *plugin.Client, pluginName string) (*PluginClient, error) {
	// connect via GRPC
	rpcClient, err := client.Client()
	if err != nil {
		return nil, err
	}

	// request the plugin
	raw, err := rpcClient.Dispense(pluginName)
	if err != nil {
		return nil, err
	}
	inputClient, ok := raw.(*shared.InputPluginClient)
	if !ok {
		return nil, fmt.Errorf("plugin %s returned unexpected client type %T", pluginName, raw)
	}
	return &PluginClient{
		InputPluginClient: inputClient,
		Name:              pluginName,
		Client:            client,
	}, nil
}

// NewPluginClientFromCmd launches the plugin binary and connects to it
func NewPluginClientFromCmd(cmd *exec.Cmd, pluginName string) (*PluginClient, error) {
	pluginMap := map[string]plugin.Plugin{
		pluginName: &shared.InputGRPCPlugin{},
	}
	// discard logging from the client - the plugin writes its own logs to stderr
	logger := hclog.New(&hclog.LoggerOptions{Name: "plugin", Output: io.Discard})

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  shared.Handshake,
		Plugins:          pluginMap,
		Cmd:              cmd,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Logger:           logger,
	})
	res, err := NewPluginClient(client, pluginName)
	if err != nil {
		client.Kill()
		return nil, err
	}
	return res, nil
}

// Exited returned whether the underlying client has exited, i.e. the plugin has terminated
func (c *PluginClient) Exited() bool {
	return c.Client.Exited()
}

// Kill stops the plugin process
func (c *PluginClient) Kill() {
	c.Client.Kill()
}
