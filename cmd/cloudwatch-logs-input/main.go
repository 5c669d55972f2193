package main

import (
	"github.com/turbot/cloudwatch-logs-input/plugin"
)

func main() {
	plugin.Serve(&plugin.ServeOpts{
		Plugin: plugin.NewInputPlugin(),
	})
}
