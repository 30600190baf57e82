package main

import (
	"fmt"
	"os"

	"quiz-hub/internal/logger"
)

func main() {
	defer logger.Sync()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
