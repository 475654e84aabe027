package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/machq/cmd"
	"github.com/oakwood-commons/machq/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
