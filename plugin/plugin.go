package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/turbot/cloudwatch-logs-input/aws_connection"
	"github.com/turbot/cloudwatch-logs-input/config"
	"github.com/turbot/cloudwatch-logs-input/log_stream"
	"github.com/turbot/cloudwatch-logs-input/rate_limiter"
	"github.com/turbot/cloudwatch-logs-input/time_window"
)

const PluginName = "cloudwatch_logs"

// InputPlugin implements the host contract: Transaction discovers the tasks of a job,
// Open returns the input of a single task
type InputPlugin struct {
	clientFactory   ClientFactory
	enumeratePacing rate_limiter.Definition
	pollPacing      rate_limiter.Definition
}

func NewInputPlugin(opts ...InputPluginOption) *InputPlugin {
	p := &InputPlugin{
		clientFactory:   newAwsLogsClient,
		enumeratePacing: rate_limiter.DescribeLogStreams,
		pollPacing:      rate_limiter.GetLogEvents,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *InputPlugin) Identifier() string {
	return PluginName
}

// Transaction sets up a job: it resolves the time window and credentials (failing with a
// configuration error before any remote call) then enumerates the log streams of the log group.
func (p *InputPlugin) Transaction(ctx context.Context, c *config.Config) (*TaskSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	window, err := time_window.New(c.StartTime, c.EndTime, c.TimeZone)
	if err != nil {
		return nil, err
	}
	if _, err := aws_connection.AuthMethodFromConfig(c); err != nil {
		return nil, err
	}

	client, err := p.clientFactory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create CloudWatch Logs client: %w", err)
	}

	enumerator := log_stream.NewEnumerator(client, c.LogGroupName,
		log_stream.WithLogStreamPrefix(c.LogStreamPrefix),
		log_stream.WithEnumerateLimiter(rate_limiter.NewAPILimiter(p.enumeratePacing)))
	streams, err := enumerator.Enumerate(ctx)
	if err != nil {
		return nil, err
	}

	taskSource := &TaskSource{
		Config:     c,
		Window:     window,
		LogStreams: streams,
	}
	slog.Info("Transaction", "config", c.String(), "window", window.String(), "tasks", taskSource.TaskCount())
	return taskSource, nil
}

// Open returns the input for task taskIndex. The caller must Close it.
func (p *InputPlugin) Open(ctx context.Context, taskSource *TaskSource, taskIndex int) (*TaskInput, error) {
	if taskIndex < 0 || taskIndex >= taskSource.TaskCount() {
		return nil, fmt.Errorf("task index %d out of range: task count is %d", taskIndex, taskSource.TaskCount())
	}
	client, err := p.clientFactory(ctx, taskSource.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create CloudWatch Logs client: %w", err)
	}

	descriptor := taskSource.LogStreams[taskIndex]
	slog.Debug("Open", "task", taskIndex, "log_stream", descriptor.String())

	reader := log_stream.NewReader(client, descriptor, taskSource.Window, taskSource.Config.EventLimit())
	return newTaskInput(taskIndex, reader, rate_limiter.NewAPILimiter(p.pollPacing)), nil
}

// RunTask opens task taskIndex and passes each chunk to fn until end of data.
// The input is always closed; it is aborted if reading or fn fails, and committed otherwise.
func (p *InputPlugin) RunTask(ctx context.Context, taskSource *TaskSource, taskIndex int, fn func([]byte) error) (report TaskReport, err error) {
	input, err := p.Open(ctx, taskSource, taskIndex)
	if err != nil {
		return TaskReport{}, err
	}
	defer func() {
		if err != nil {
			input.Abort()
		}
		if closeErr := input.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for {
		chunk, err := input.NextChunk(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return input.Commit(), err
		}
		if err := fn(chunk); err != nil {
			return input.Commit(), err
		}
	}
	return input.Commit(), nil
}

// Cleanup is called by the host once all tasks have finished. There is nothing to release.
func (p *InputPlugin) Cleanup(_ context.Context, taskSource *TaskSource, reports []TaskReport) {
	var chunks int
	var bytes int64
	for _, r := range reports {
		chunks += r.Chunks
		bytes += r.Bytes
	}
	slog.Info("Cleanup", "tasks", taskSource.TaskCount(), "reports", len(reports), "chunks", chunks, "bytes", bytes)
}
