package main

import (
	"os"

	"github.com/cloudmigrate/drive2blob/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
