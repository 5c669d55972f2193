package plugin

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/turbot/cloudwatch-logs-input/grpc/shared"
	"github.com/turbot/cloudwatch-logs-input/logging"
	"github.com/turbot/go-kit/helpers"
	"google.golang.org/grpc"
)

// ServeOpts are the configurations to serve a plugin.
type ServeOpts struct {
	Plugin *InputPlugin
}

const PluginStartupFailureMessage = "Plugin startup failed: "

// Serve creates and starts the GRPC server which serves the plugin.
// It is called from the main function of the plugin binary.
func Serve(opts *ServeOpts) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%s%s", PluginStartupFailureMessage, helpers.ToError(r).Error())
			// write to stdout so the host can extract the error message
			fmt.Println(msg)
		}
	}()

	p := opts.Plugin
	if p == nil {
		p = NewInputPlugin()
	}

	logging.Initialize(p.Identifier())
	slog.Info("Serve")

	if _, found := os.LookupEnv("CLOUDWATCH_LOGS_PPROF"); found {
		setupPprof()
	}

	pluginMap := map[string]plugin.Plugin{
		p.Identifier(): &shared.InputGRPCPlugin{Impl: NewPluginServer(p)},
	}
	plugin.Serve(&plugin.ServeConfig{
		Plugins:         pluginMap,
		GRPCServer:      newGRPCServer,
		HandshakeConfig: shared.Handshake,
		// disable server logging
		Logger: hclog.New(&hclog.LoggerOptions{Level: hclog.Off}),
	})
}

func newGRPCServer(options []grpc.ServerOption) *grpc.Server {
	return grpc.NewServer(options...)
}

func setupPprof() {
	go func() {
		listener, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			slog.Error("Error starting pprof", "error", err)
			return
		}
		slog.Info("pprof listening", "url", fmt.Sprintf("http://localhost:%d/debug/pprof/", listener.Addr().(*net.TCPAddr).Port))
		if err := http.Serve(listener, nil); err != nil {
			slog.Error("Error starting pprof", "error", err)
		}
	}()
}
