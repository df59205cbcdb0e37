package apitest

import "time"

// Config holds configuration for the API exercise run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumItems   int           // Number of items to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated items
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Item represents an item payload to be submitted
type Item struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ItemResponse represents the echo returned by the service
type ItemResponse struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Message     string  `json:"message"`
}

// GetItemResponse represents the echo returned for item fetches
type GetItemResponse struct {
	ItemID  string `json:"item_id"`
	Skip    int    `json:"skip"`
	Limit   int    `json:"limit"`
	Message string `json:"message"`
}

// ErrorResponse represents a rejection returned by the service
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HistoryRecord mirrors the journal records returned by /history
type HistoryRecord struct {
	Method     string    `json:"method"`
	Route      string    `json:"route"`
	ItemID     string    `json:"item_id,omitempty"`
	Status     int       `json:"status"`
	Repeat     bool      `json:"repeat"`
	ReceivedAt time.Time `json:"received_at"`
}

// Stats holds run statistics
type Stats struct {
	ItemsGenerated   int
	CreatesSubmitted int
	CreatesEchoed    int
	CreatesFailed    int
	FetchesSubmitted int
	FetchesEchoed    int
	FetchesFailed    int
	UpdatesSubmitted int
	UpdatesEchoed    int
	UpdatesFailed    int
	ReplaysObserved  int
	ProbesRejected   int
	ProbesFailed     int
	HistoryRecords   int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
