package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/mimic/internal/apitest"
)

// Default configuration constants.
const (
	defaultNumItems   = 1000
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		numItems   = flag.Int("items", defaultNumItems, "Number of items to generate and submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated items (default: generated_items_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: apitest_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		apitest.ShowHelp()
		return
	}

	// Setup logging
	if err := apitest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &apitest.Config{
		BaseURL:    *baseURL,
		NumItems:   *numItems,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the exercise
	if err := apitest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Exercise failed: " + err.Error() + "\n")
		return
	}
}
