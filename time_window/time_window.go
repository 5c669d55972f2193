package time_window

import (
	"fmt"
	"log/slog"
	"time"
	// embed zone data so timezone names resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"github.com/turbot/cloudwatch-logs-input/config"
)

// Layout is the expected format of start_time and end_time
const Layout = "2006-01-02 15:04:05"

// Window is the collection time range, expressed as milliseconds after Jan 1, 1970 00:00:00 UTC.
// It is computed once at job setup and shared by every task.
type Window struct {
	StartMillis int64 `json:"start_time_unix"`
	EndMillis   int64 `json:"end_time_unix"`
}

// New resolves the start and end strings in the given timezone
func New(start, end, timezone string) (Window, error) {
	startMillis, err := ParseInstant(start, timezone)
	if err != nil {
		return Window{}, withField(err, "start_time")
	}
	endMillis, err := ParseInstant(end, timezone)
	if err != nil {
		return Window{}, withField(err, "end_time")
	}
	if startMillis > endMillis {
		return Window{}, config.NewError("start_time", "start_time %q must not be after end_time %q", start, end)
	}
	return Window{StartMillis: startMillis, EndMillis: endMillis}, nil
}

// ParseInstant converts a date-time string in the named IANA timezone to milliseconds since the epoch.
// Only Layout is accepted: a value carrying its own offset would ignore the timezone.
func ParseInstant(value, timezone string) (int64, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return 0, config.NewError("timezone", "unrecognized timezone %q", timezone)
	}

	t, err := time.ParseInLocation(Layout, value, loc)
	if err != nil {
		return 0, config.NewError("", "invalid date %q: expected format %q", value, Layout)
	}

	millis := t.UnixMilli()
	slog.Debug("ParseInstant", "value", value, "timezone", timezone, "millis", millis)
	return millis, nil
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s", time.UnixMilli(w.StartMillis).UTC().Format(time.RFC3339), time.UnixMilli(w.EndMillis).UTC().Format(time.RFC3339))
}

// set the field of a config error which does not already name one
func withField(err error, field string) error {
	if configErr, ok := err.(*config.Error); ok && configErr.Field == "" {
		configErr.Field = field
	}
	return err
}
