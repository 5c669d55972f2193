package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/pipe-fittings/constants"
	"github.com/turbot/pipe-fittings/sanitize"
)

const EnvLogLevel = "CLOUDWATCH_LOGS_LOG_LEVEL"

func Initialize(pluginName string) {
	slog.SetDefault(pluginLogger(pluginName, os.Stderr))
}

// pluginLogger returns a JSON logger which sanitizes log entries
func pluginLogger(pluginName string, w io.Writer) *slog.Logger {
	level := getLogLevel()
	if level == constants.LogLevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: sanitizeAttr,
	}
	pluginLongName := fmt.Sprintf("cloudwatch-logs-input-%s", pluginName)
	return slog.New(slog.NewJSONHandler(w, handlerOptions)).With("source", pluginLongName)
}

func sanitizeAttr(_ []string, a slog.Attr) slog.Attr {
	value := a.Value.Any()
	// errors marshal to an empty object, so sanitize their message instead
	if err, ok := value.(error); ok {
		value = err.Error()
	}
	return slog.Attr{
		Key:   a.Key,
		Value: slog.AnyValue(sanitize.Instance.SanitizeKeyValue(a.Key, value)),
	}
}

func getLogLevel() slog.Leveler {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return constants.LogLevelOff
	}
}
