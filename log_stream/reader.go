package log_stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cloudwatch_types "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/turbot/cloudwatch-logs-input/time_window"
	typehelpers "github.com/turbot/go-kit/types"
)

// Reader reads the events of a single log stream forwards from the head, one page per call.
// A Reader is owned by one task and must not be used concurrently.
type Reader struct {
	client     cloudwatchlogs.GetLogEventsAPIClient
	descriptor Descriptor
	window     time_window.Window
	limit      int32

	// the forward token returned by the previous call - nil before the first call
	nextToken *string
	done      bool
}

func NewReader(client cloudwatchlogs.GetLogEventsAPIClient, descriptor Descriptor, window time_window.Window, limit int32) *Reader {
	return &Reader{
		client:     client,
		descriptor: descriptor,
		window:     window,
		limit:      limit,
	}
}

// FetchNext returns the messages of the next page of events, joined by newlines.
// It returns io.EOF once the service returns an empty page; every later call also returns io.EOF.
func (r *Reader) FetchNext(ctx context.Context) ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	input := &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(r.descriptor.LogGroupName),
		LogStreamName: aws.String(r.descriptor.LogStreamName),
		StartTime:     aws.Int64(r.window.StartMillis),
		EndTime:       aws.Int64(r.window.EndMillis),
		Limit:         aws.Int32(r.limit),
		StartFromHead: aws.Bool(true),
		NextToken:     r.nextToken,
	}

	output, err := r.client.GetLogEvents(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get log events of log stream %s: %w", r.descriptor, err)
	}
	slog.Debug("FetchNext", "log_stream", r.descriptor.String(), "events", len(output.Events))

	if len(output.Events) == 0 {
		r.done = true
		return nil, io.EOF
	}

	r.nextToken = output.NextForwardToken
	return []byte(JoinMessages(output.Events)), nil
}

// NextToken returns the current forward token
func (r *Reader) NextToken() *string {
	return r.nextToken
}

func (r *Reader) Descriptor() Descriptor {
	return r.descriptor
}

// JoinMessages joins the event messages with a newline between each pair.
// There is no separator before the first message or after the last.
func JoinMessages(events []cloudwatch_types.OutputLogEvent) string {
	var sb strings.Builder
	for i, event := range events {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(typehelpers.SafeString(event.Message))
	}
	return sb.String()
}
