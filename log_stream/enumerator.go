package log_stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/turbot/cloudwatch-logs-input/rate_limiter"
	typehelpers "github.com/turbot/go-kit/types"
)

// Enumerator discovers the log streams of a single log group
type Enumerator struct {
	client       cloudwatchlogs.DescribeLogStreamsAPIClient
	logGroupName string
	// optional stream name prefix
	prefix  *string
	limiter *rate_limiter.APILimiter
}

type EnumeratorOption func(*Enumerator)

// WithLogStreamPrefix only enumerates streams whose name starts with prefix
func WithLogStreamPrefix(prefix string) EnumeratorOption {
	return func(e *Enumerator) {
		if prefix != "" {
			e.prefix = aws.String(prefix)
		}
	}
}

// WithEnumerateLimiter overrides the pacing applied between DescribeLogStreams calls
func WithEnumerateLimiter(l *rate_limiter.APILimiter) EnumeratorOption {
	return func(e *Enumerator) {
		e.limiter = l
	}
}

func NewEnumerator(client cloudwatchlogs.DescribeLogStreamsAPIClient, logGroupName string, opts ...EnumeratorOption) *Enumerator {
	e := &Enumerator{
		client:       client,
		logGroupName: logGroupName,
		limiter:      rate_limiter.NewAPILimiter(rate_limiter.DescribeLogStreams),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enumerate pages through DescribeLogStreams and returns one descriptor per distinct stream, in the order
// the service returned them.
//
// Enumeration stops when a page is empty, or when the first stream of a page has already been seen
// (the service has wrapped round to data it already returned).
func (e *Enumerator) Enumerate(ctx context.Context) ([]Descriptor, error) {
	slog.Debug("Enumerate - start", "log_group", e.logGroupName)

	descriptors := []Descriptor{}
	seen := make(map[string]struct{})
	var nextToken *string

	for page := 1; ; page++ {
		e.limiter.WaitBestEffort(ctx)

		output, err := e.client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName:        aws.String(e.logGroupName),
			LogStreamNamePrefix: e.prefix,
			NextToken:           nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe log streams of log group %s: %w", e.logGroupName, err)
		}
		slog.Debug("Enumerate - fetched log streams", "log_group", e.logGroupName, "page", page, "count", len(output.LogStreams))

		if len(output.LogStreams) == 0 {
			break
		}
		if len(descriptors) > 0 {
			if _, ok := seen[typehelpers.SafeString(output.LogStreams[0].LogStreamName)]; ok {
				break
			}
		}

		for _, logStream := range output.LogStreams {
			name := typehelpers.SafeString(logStream.LogStreamName)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			descriptors = append(descriptors, NewDescriptor(e.logGroupName, name))
		}
		nextToken = output.NextToken
	}

	slog.Info("Enumerate - log streams discovered", "log_group", e.logGroupName, "count", len(descriptors))
	return descriptors, nil
}
