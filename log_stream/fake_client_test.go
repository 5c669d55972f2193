package log_stream

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cloudwatch_types "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// fakeDescribeClient returns its pages in order, regardless of the token passed,
// then empty pages once they are exhausted
type fakeDescribeClient struct {
	pages [][]string
	err   error
	calls []*cloudwatchlogs.DescribeLogStreamsInput

	// when each call was received
	callTimes []time.Time
}

func (f *fakeDescribeClient) DescribeLogStreams(_ context.Context, in *cloudwatchlogs.DescribeLogStreamsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	f.calls = append(f.calls, in)
	f.callTimes = append(f.callTimes, time.Now())
	if f.err != nil {
		return nil, f.err
	}
	idx := len(f.calls) - 1
	if idx >= len(f.pages) {
		return &cloudwatchlogs.DescribeLogStreamsOutput{}, nil
	}
	out := &cloudwatchlogs.DescribeLogStreamsOutput{
		NextToken: aws.String(tokenForPage(idx + 1)),
	}
	for _, name := range f.pages[idx] {
		out.LogStreams = append(out.LogStreams, cloudwatch_types.LogStream{LogStreamName: aws.String(name)})
	}
	return out, nil
}

// fakeEventsClient returns one page of messages per call
type fakeEventsClient struct {
	pages [][]string
	err   error
	calls []*cloudwatchlogs.GetLogEventsInput
}

func (f *fakeEventsClient) GetLogEvents(_ context.Context, in *cloudwatchlogs.GetLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	idx := len(f.calls) - 1
	out := &cloudwatchlogs.GetLogEventsOutput{
		NextForwardToken:  aws.String(tokenForPage(idx + 1)),
		NextBackwardToken: aws.String("b/" + tokenForPage(idx+1)),
	}
	if idx >= len(f.pages) {
		return out, nil
	}
	for i, msg := range f.pages[idx] {
		out.Events = append(out.Events, cloudwatch_types.OutputLogEvent{
			Message:   aws.String(msg),
			Timestamp: aws.Int64(int64(1000*idx + i)),
		})
	}
	return out, nil
}

func tokenForPage(page int) string {
	return "token-" + string(rune('0'+page))
}
