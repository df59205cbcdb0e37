package apitest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/mimic/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete API exercise.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting mimic API exercise",
		logger.String("baseURL", config.BaseURL),
		logger.Int("items", config.NumItems),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate item payloads
	items, err := generateItems(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("item generation failed: %w", err)
	}

	// Step 3: Create items concurrently
	ids, err := submitCreates(ctx, config, items, stats)
	if err != nil {
		return fmt.Errorf("item creation failed: %w", err)
	}

	// Step 4: Fetch items and verify the pagination echo
	if err := fetchItems(ctx, config, ids, stats); err != nil {
		return fmt.Errorf("item fetch failed: %w", err)
	}

	// Step 5: Update items twice to exercise replay flagging
	if err := updateItems(ctx, config, ids, items, stats); err != nil {
		return fmt.Errorf("item update failed: %w", err)
	}

	// Step 6: Probe validation rejections
	if err := probeRejections(ctx, config, stats); err != nil {
		return fmt.Errorf("rejection probing failed: %w", err)
	}

	// Step 7: Wait for the journal to drain
	logger.Get().Info(ctx, "waiting for the request journal to drain")
	time.Sleep(JournalDrainDelay)

	// Step 8: Verify journal and stats surfaces
	if err := verifyObservability(ctx, config, stats); err != nil {
		return fmt.Errorf("observability verification failed: %w", err)
	}

	// Step 9: Save generated items to file
	if err := saveItemsToFile(ctx, config, items); err != nil {
		logger.Get().Warn(ctx, "failed to save items to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "exercise completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/health"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := unmarshalJSON(body, &health); err != nil || health.Status != "healthy" {
		return fmt.Errorf("unexpected health response: %s", string(body))
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchItems fetches each created item and checks the pagination echo.
func fetchItems(ctx context.Context, config *Config, ids []string, stats *Stats) error {
	logger.Get().Info(ctx, "fetching items", logger.Int("count", len(ids)))

	client := newHTTPClient(config.Timeout)

	for i, id := range ids {
		if id == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Alternate between default and explicit pagination.
		url := config.BaseURL + "/items/" + id
		wantSkip, wantLimit := 0, 10
		if i%2 == 1 {
			wantSkip, wantLimit = i%7, 1+i%100
			url += "?skip=" + strconv.Itoa(wantSkip) + "&limit=" + strconv.Itoa(wantLimit)
		}

		stats.FetchesSubmitted++
		resp, err := client.Get(ctx, url)
		if err != nil {
			stats.FetchesFailed++
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != StatusOK {
			stats.FetchesFailed++
			continue
		}

		var echo GetItemResponse
		if err := unmarshalJSON(body, &echo); err != nil || !verifyGetEcho(id, wantSkip, wantLimit, echo) {
			stats.FetchesFailed++
			continue
		}
		stats.FetchesEchoed++
	}

	logger.Get().Info(ctx, "item fetches completed",
		logger.Int("echoed", stats.FetchesEchoed),
		logger.Int("failed", stats.FetchesFailed))
	return nil
}

// updateItems sends every update twice with an identical payload. The
// service must answer both identically; the second pass only shows up as
// a replay flag in the journal.
func updateItems(ctx context.Context, config *Config, ids []string, items []Item, stats *Stats) error {
	logger.Get().Info(ctx, "updating items", logger.Int("count", len(ids)))

	client := newHTTPClient(config.Timeout)

	for i, id := range ids {
		if id == "" || i >= len(items) {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		url := config.BaseURL + "/items/" + id
		updated := Item{Name: items[i].Name + " (updated)", Description: items[i].Description}

		var firstBody []byte
		for attempt := 0; attempt < 2; attempt++ {
			stats.UpdatesSubmitted++
			resp, err := client.Put(ctx, url, updated)
			if err != nil {
				stats.UpdatesFailed++
				continue
			}
			body, err := readResponseBody(resp)
			if err != nil || resp.StatusCode != StatusOK {
				stats.UpdatesFailed++
				continue
			}

			var echo ItemResponse
			if err := unmarshalJSON(body, &echo); err != nil || !verifyItemEcho(updated, echo) || echo.ItemID != id {
				stats.UpdatesFailed++
				continue
			}
			stats.UpdatesEchoed++

			if attempt == 0 {
				firstBody = body
			} else if string(firstBody) == string(body) {
				stats.ReplaysObserved++
			}
		}
	}

	logger.Get().Info(ctx, "item updates completed",
		logger.Int("echoed", stats.UpdatesEchoed),
		logger.Int("replays", stats.ReplaysObserved),
		logger.Int("failed", stats.UpdatesFailed))
	return nil
}

// probeRejections sends requests that must fail validation and checks
// that the service rejects them with 422.
func probeRejections(ctx context.Context, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "probing validation rejections")

	client := newHTTPClient(config.Timeout)

	type probe struct {
		name string
		run  func() (int, error)
	}

	checks := []probe{
		{
			name: "limit above maximum",
			run: func() (int, error) {
				resp, err := client.Get(ctx, config.BaseURL+"/items/1?limit=150")
				if err != nil {
					return 0, err
				}
				_, _ = readResponseBody(resp)
				return resp.StatusCode, nil
			},
		},
		{
			name: "negative skip",
			run: func() (int, error) {
				resp, err := client.Get(ctx, config.BaseURL+"/items/1?skip=-1")
				if err != nil {
					return 0, err
				}
				_, _ = readResponseBody(resp)
				return resp.StatusCode, nil
			},
		},
		{
			name: "missing name",
			run: func() (int, error) {
				resp, err := client.Post(ctx, config.BaseURL+"/items", map[string]string{"description": "nameless"})
				if err != nil {
					return 0, err
				}
				_, _ = readResponseBody(resp)
				return resp.StatusCode, nil
			},
		},
	}

	for _, p := range checks {
		status, err := p.run()
		if err != nil || status != StatusUnprocessableEntity {
			stats.ProbesFailed++
			logger.Get().Warn(ctx, "rejection probe did not reject",
				logger.String("probe", p.name), logger.Int("status", status), logger.Error(err))
			continue
		}
		stats.ProbesRejected++
	}

	logger.Get().Info(ctx, "rejection probing completed",
		logger.Int("rejected", stats.ProbesRejected),
		logger.Int("failed", stats.ProbesFailed))
	return nil
}

// verifyObservability fetches /history and /stats and sanity-checks them.
func verifyObservability(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/history?limit=50")
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil || resp.StatusCode != StatusOK {
		return fmt.Errorf("history fetch failed with status: %d", resp.StatusCode)
	}

	var records []HistoryRecord
	if err := unmarshalJSON(body, &records); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}
	stats.HistoryRecords = len(records)
	if err := verifyHistory(records); err != nil {
		logger.Get().Warn(ctx, "history verification warning", logger.Error(err))
	} else {
		logger.Get().Info(ctx, "history verified", logger.Int("records", len(records)))
	}

	resp, err = client.Get(ctx, config.BaseURL+"/stats")
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	body, err = readResponseBody(resp)
	if err != nil || resp.StatusCode != StatusOK {
		return fmt.Errorf("stats fetch failed with status: %d", resp.StatusCode)
	}

	var snapshot map[string]interface{}
	if err := unmarshalJSON(body, &snapshot); err != nil {
		return fmt.Errorf("failed to parse stats: %w", err)
	}
	logger.Get().Info(ctx, "service stats snapshot", logger.Any("stats", snapshot))
	return nil
}

// saveItemsToFile saves the generated items to a JSON file.
func saveItemsToFile(ctx context.Context, config *Config, items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("no items to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_items_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write items to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, item := range items {
		jsonData, err := marshalJSON(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write item %d: %w", i, err)
		}

		// Add comma except for last item
		if i < len(items)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "items saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	totalSubmitted := stats.CreatesSubmitted + stats.FetchesSubmitted + stats.UpdatesSubmitted
	totalEchoed := stats.CreatesEchoed + stats.FetchesEchoed + stats.UpdatesEchoed

	if totalSubmitted > 0 {
		successRate = float64(totalEchoed) / float64(totalSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(totalSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("itemsGenerated", stats.ItemsGenerated),
		logger.Int("createsEchoed", stats.CreatesEchoed),
		logger.Int("createsFailed", stats.CreatesFailed),
		logger.Int("fetchesEchoed", stats.FetchesEchoed),
		logger.Int("fetchesFailed", stats.FetchesFailed),
		logger.Int("updatesEchoed", stats.UpdatesEchoed),
		logger.Int("updatesFailed", stats.UpdatesFailed),
		logger.Int("replaysObserved", stats.ReplaysObserved),
		logger.Int("probesRejected", stats.ProbesRejected),
		logger.Int("probesFailed", stats.ProbesFailed),
		logger.Int("historyRecords", stats.HistoryRecords),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
