package log_stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbot/cloudwatch-logs-input/rate_limiter"
)

func TestEnumerator_Enumerate(t *testing.T) {
	tests := []struct {
		name      string
		pages     [][]string
		want      []string
		wantCalls int
	}{
		{
			name:      "empty log group",
			pages:     nil,
			want:      []string{},
			wantCalls: 1,
		},
		{
			name:      "pages then wrap around",
			pages:     [][]string{{"A", "B"}, {"C"}, {"A"}},
			want:      []string{"A", "B", "C"},
			wantCalls: 3,
		},
		{
			name:      "same leading stream on consecutive pages",
			pages:     [][]string{{"A", "B"}, {"A", "B"}, {"C"}},
			want:      []string{"A", "B"},
			wantCalls: 2,
		},
		{
			name:      "duplicates within later pages are dropped",
			pages:     [][]string{{"A", "B"}, {"C", "B", "D"}, {"A", "C"}},
			want:      []string{"A", "B", "C", "D"},
			wantCalls: 3,
		},
		{
			name:      "exhausted without wrap around",
			pages:     [][]string{{"A"}, {"B"}},
			want:      []string{"A", "B"},
			wantCalls: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeDescribeClient{pages: tt.pages}
			e := NewEnumerator(client, "group", WithEnumerateLimiter(rate_limiter.Unlimited("test")))

			got, err := e.Enumerate(context.Background())
			require.NoError(t, err)

			var names []string
			for _, d := range got {
				assert.Equal(t, "group", d.LogGroupName)
				names = append(names, d.LogStreamName)
			}
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, names)
			}
			assert.Len(t, client.calls, tt.wantCalls)
		})
	}
}

func TestEnumerator_FollowsTokens(t *testing.T) {
	client := &fakeDescribeClient{pages: [][]string{{"A"}, {"B"}, {"A"}}}
	e := NewEnumerator(client, "group",
		WithLogStreamPrefix("prefix-"),
		WithEnumerateLimiter(rate_limiter.Unlimited("test")))

	_, err := e.Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, client.calls, 3)

	assert.Nil(t, client.calls[0].NextToken)
	assert.Equal(t, tokenForPage(1), aws.ToString(client.calls[1].NextToken))
	assert.Equal(t, tokenForPage(2), aws.ToString(client.calls[2].NextToken))
	for _, call := range client.calls {
		assert.Equal(t, "group", aws.ToString(call.LogGroupName))
		assert.Equal(t, "prefix-", aws.ToString(call.LogStreamNamePrefix))
	}
}

func TestEnumerator_NoPrefix(t *testing.T) {
	client := &fakeDescribeClient{}
	_, err := NewEnumerator(client, "group", WithLogStreamPrefix(""), WithEnumerateLimiter(rate_limiter.Unlimited("test"))).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, client.calls[0].LogStreamNamePrefix)
}

func TestEnumerator_Error(t *testing.T) {
	remoteErr := errors.New("ThrottlingException")
	client := &fakeDescribeClient{err: remoteErr}

	got, err := NewEnumerator(client, "group", WithEnumerateLimiter(rate_limiter.Unlimited("test"))).Enumerate(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, remoteErr)
	assert.Len(t, client.calls, 1)
}

func TestEnumerator_PacesEveryCall(t *testing.T) {
	client := &fakeDescribeClient{pages: [][]string{{"A"}, {"B"}, {"C"}}}
	// default pacing
	e := NewEnumerator(client, "group")

	got, err := e.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
	require.Len(t, client.callTimes, 4)

	// allow for the clock read in the fake trailing the limiter's own
	minGap := rate_limiter.DescribeLogStreams.Interval - 10*time.Millisecond
	for i := 1; i < len(client.callTimes); i++ {
		gap := client.callTimes[i].Sub(client.callTimes[i-1])
		assert.GreaterOrEqual(t, gap, minGap, "gap before call %d", i+1)
	}
}
