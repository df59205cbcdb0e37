package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, url, body)
}

func (c *HTTPClient) send(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitCreates submits item creations concurrently using worker pools
func submitCreates(ctx context.Context, config *Config, items []Item, stats *Stats) ([]string, error) {
	log.Printf("📤 Creating %d items with %d workers...", len(items), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/items"

	// Counters for statistics
	var (
		echoed    int64
		failed    int64
		submitted int64
	)

	ids := make([]string, len(items))

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	type createJob struct {
		index int
		item  Item
	}
	jobChan := make(chan createJob, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					id, ok := submitSingleCreate(ctx, client, url, job.item)

					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&echoed, 1)
						ids[job.index] = id
					} else {
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&echoed)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d created (echoed: %d, failed: %d)",
								total, len(items), succ, fail)
						} else {
							fmt.Printf("\r📤 Created: %d/%d (echoed: %d, failed: %d)",
								total, len(items), succ, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send items to workers
	go func() {
		defer close(jobChan)
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			case jobChan <- createJob{index: i, item: item}:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.CreatesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.CreatesEchoed = int(atomic.LoadInt64(&echoed))
	stats.CreatesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Item creation completed:
   Echoed: %d
   Failed: %d
`, stats.CreatesEchoed, stats.CreatesFailed)

	return ids, nil
}

// submitSingleCreate submits a single item creation and returns the
// synthesized id and whether the echo matched the submitted payload.
func submitSingleCreate(ctx context.Context, client *HTTPClient, url string, item Item) (string, bool) {
	resp, err := client.Post(ctx, url, item)
	if err != nil {
		return "", false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "", false
	}

	if resp.StatusCode != StatusOK {
		return "", false
	}

	var echo ItemResponse
	if err := unmarshalJSON(body, &echo); err != nil {
		return "", false
	}
	if !verifyItemEcho(item, echo) || echo.ItemID == "" {
		return "", false
	}
	return echo.ItemID, true
}
