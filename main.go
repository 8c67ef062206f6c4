package main

import (
	"os"

	"github.td.teradata.com/sandbox/term-lessons/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.ReportError(err)
		os.Exit(1)
	}
}
