package main

import (
	"os"

	"github.com/rcliao/qa-keywords/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
