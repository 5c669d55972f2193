package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/turbot/cloudwatch-logs-input/log_stream"
	"github.com/turbot/cloudwatch-logs-input/rate_limiter"
)

// ErrClosed is returned by [TaskInput.NextChunk] after the input has been closed or aborted
var ErrClosed = errors.New("task input is closed")

// TaskReport summarises a committed task
type TaskReport struct {
	TaskIndex int                   `json:"task_index"`
	LogStream log_stream.Descriptor `json:"log_stream"`
	Chunks    int                   `json:"chunks"`
	Bytes     int64                 `json:"bytes"`
	// true if the stream was read to the end
	Completed bool `json:"completed"`
}

// TaskInput is the per-task handle returned by [InputPlugin.Open].
// It is used by a single caller, sequentially, from open to close.
type TaskInput struct {
	taskIndex int
	reader    *log_stream.Reader
	limiter   *rate_limiter.APILimiter

	chunks int
	bytes  int64
	eof    bool
	closed bool
}

func newTaskInput(taskIndex int, reader *log_stream.Reader, limiter *rate_limiter.APILimiter) *TaskInput {
	return &TaskInput{
		taskIndex: taskIndex,
		reader:    reader,
		limiter:   limiter,
	}
}

// NextChunk returns the next chunk of newline separated messages, or io.EOF at end of data
func (i *TaskInput) NextChunk(ctx context.Context) ([]byte, error) {
	if i.closed {
		return nil, ErrClosed
	}
	if i.eof {
		return nil, io.EOF
	}

	i.limiter.WaitBestEffort(ctx)

	chunk, err := i.reader.FetchNext(ctx)
	if errors.Is(err, io.EOF) {
		slog.Debug("NextChunk - end of data", "task", i.taskIndex, "log_stream", i.reader.Descriptor().String(), "chunks", i.chunks)
		i.eof = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	i.chunks++
	i.bytes += int64(len(chunk))
	return chunk, nil
}

func (i *TaskInput) Commit() TaskReport {
	return TaskReport{
		TaskIndex: i.taskIndex,
		LogStream: i.reader.Descriptor(),
		Chunks:    i.chunks,
		Bytes:     i.bytes,
		Completed: i.eof,
	}
}

func (i *TaskInput) Abort() {
	if i.closed {
		return
	}
	slog.Warn("task aborted", "task", i.taskIndex, "log_stream", i.reader.Descriptor().String(), "chunks", i.chunks)
	i.closed = true
}

// Close releases the input - it is safe to call more than once
func (i *TaskInput) Close() error {
	i.closed = true
	return nil
}
