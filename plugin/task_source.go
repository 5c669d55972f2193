package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/turbot/cloudwatch-logs-input/config"
	"github.com/turbot/cloudwatch-logs-input/log_stream"
	"github.com/turbot/cloudwatch-logs-input/time_window"
)

// TaskSource is the job state handed by the host to every task: the resolved config,
// the time window computed at setup, and one log stream per task
type TaskSource struct {
	Config     *config.Config          `json:"config"`
	Window     time_window.Window      `json:"window"`
	LogStreams []log_stream.Descriptor `json:"log_streams"`
}

// TaskCount returns the number of tasks of the job - zero for an empty log group
func (t *TaskSource) TaskCount() int {
	return len(t.LogStreams)
}

func (t *TaskSource) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// UnmarshalTaskSource decodes a task source and validates its config
func UnmarshalTaskSource(data []byte) (*TaskSource, error) {
	var t TaskSource
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task source: %w", err)
	}
	if t.Config == nil {
		return nil, config.NewError("", "task source has no config")
	}
	t.Config.SetDefaults()
	if err := t.Config.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
