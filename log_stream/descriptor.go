package log_stream

// Descriptor identifies a single log stream. Each descriptor becomes one task.
type Descriptor struct {
	LogGroupName  string `json:"log_group_name"`
	LogStreamName string `json:"log_stream_name"`
}

func NewDescriptor(logGroupName, logStreamName string) Descriptor {
	return Descriptor{
		LogGroupName:  logGroupName,
		LogStreamName: logStreamName,
	}
}

func (d Descriptor) String() string {
	return d.LogGroupName + "/" + d.LogStreamName
}
