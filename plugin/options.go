package plugin

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/turbot/cloudwatch-logs-input/aws_connection"
	"github.com/turbot/cloudwatch-logs-input/config"
	"github.com/turbot/cloudwatch-logs-input/rate_limiter"
)

// LogsClient is the subset of the CloudWatch Logs API used by the plugin
type LogsClient interface {
	cloudwatchlogs.DescribeLogStreamsAPIClient
	cloudwatchlogs.GetLogEventsAPIClient
}

// ClientFactory builds a LogsClient for a job config
type ClientFactory func(ctx context.Context, c *config.Config) (LogsClient, error)

func newAwsLogsClient(ctx context.Context, c *config.Config) (LogsClient, error) {
	client, err := aws_connection.NewLogsClient(ctx, c)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// InputPluginOption is a function that can be used to configure an InputPlugin
type InputPluginOption func(*InputPlugin)

func WithClientFactory(f ClientFactory) InputPluginOption {
	return func(p *InputPlugin) {
		p.clientFactory = f
	}
}

// WithEnumeratePacing overrides the pacing between DescribeLogStreams pages
func WithEnumeratePacing(d rate_limiter.Definition) InputPluginOption {
	return func(p *InputPlugin) {
		p.enumeratePacing = d
	}
}

// WithPollPacing overrides the pacing applied before each task poll
func WithPollPacing(d rate_limiter.Definition) InputPluginOption {
	return func(p *InputPlugin) {
		p.pollPacing = d
	}
}
