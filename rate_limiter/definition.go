package rate_limiter

import (
	"fmt"
	"time"
)

type Definition struct {
	// the limiter name
	Name string
	// the minimum time between two calls
	Interval time.Duration
	// the number of calls which may be made back to back before pacing applies
	BucketSize int
}

var (
	// DescribeLogStreams paces log stream enumeration: the first page is requested at once,
	// each later page at least 200ms after the previous one
	DescribeLogStreams = Definition{
		Name:       "describe_log_streams",
		Interval:   200 * time.Millisecond,
		BucketSize: 1,
	}
	// GetLogEvents paces the polls of a task: the first poll is made at once, each later poll
	// at least 400ms after the previous one. No delay is added before the first poll, as it
	// is already preceded by enumeration and task fan-out.
	GetLogEvents = Definition{
		Name:       "get_log_events",
		Interval:   400 * time.Millisecond,
		BucketSize: 1,
	}
)

func (d *Definition) String() string {
	return fmt.Sprintf("%s Interval: %s, Burst: %d", d.Name, d.Interval, d.BucketSize)
}

func (d *Definition) Validate() []string {
	var validationErrors []string
	if d.Name == "" {
		validationErrors = append(validationErrors, "rate limiter definition must specify a name")
	}
	if d.Interval < 0 {
		validationErrors = append(validationErrors, "rate limiter interval must not be negative")
	}
	if d.Interval > 0 && d.BucketSize < 1 {
		validationErrors = append(validationErrors, "rate limiter bucket size must be at least 1")
	}
	return validationErrors
}
