package apitest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/mimic/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "apitest_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the API exercise tool.
func ShowHelp() {
	os.Stdout.WriteString(`Mimic API Exercise Tool
=======================

A concurrent tool for exercising the mimic echo API end to end.

Usage:
  go run cmd/api-test/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -items int
        Number of items to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated items (default: generated_items_TIMESTAMP.json)
  -log string
        Log file for run output (default: apitest_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Exercise with default settings
  go run cmd/api-test/main.go

  # Exercise with custom parameters
  go run cmd/api-test/main.go -items 5000 -workers 16 -url http://localhost:8000

  # Exercise with verbose output
  go run cmd/api-test/main.go -verbose -items 1000

  # Exercise with custom log file
  go run cmd/api-test/main.go -items 5000 -log my_run.log
`)
}
