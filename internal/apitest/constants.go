package apitest

import "time"

// HTTP status code constants.
const (
	StatusOK                  = 200
	StatusUnprocessableEntity = 422
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	JournalDrainDelay    = 2 * time.Second
	PercentageMultiplier = 100
)
