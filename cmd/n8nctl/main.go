package main

import (
	"os"

	"github.com/Priyo13o4/n8n-cli-toolkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
