package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

func debugLog(format string, a ...any) {
	if Debug {
		fmt.Fprintf(os.Stderr, "[confluence-export] %s", fmt.Sprintf(format, a...))
	}
}

// debugLogger is handed to the library packages, which log per-page problems through it.
func debugLogger() *log.Logger {
	if Debug {
		return log.New(os.Stderr, "[confluence-export] ", 0)
	}
	return log.New(io.Discard, "", 0)
}
