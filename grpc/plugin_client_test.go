package grpc

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPluginClientFromCmd_LaunchFailure(t *testing.T) {
	tests := []struct {
		name string
		cmd  *exec.Cmd
	}{
		{
			name: "missing binary",
			cmd:  exec.Command(filepath.Join(t.TempDir(), "cloudwatch-logs-input")),
		},
		{
			name: "exits without handshake",
			cmd:  exec.Command("sh", "-c", "exit 1"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewPluginClientFromCmd(tt.cmd, "cloudwatch_logs")
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}
