package apitest

import "fmt"

// verifyItemEcho checks that an item echo mirrors the submitted payload.
func verifyItemEcho(sent Item, echo ItemResponse) bool {
	if echo.Name != sent.Name {
		return false
	}
	if sent.Description == nil {
		return echo.Description == nil
	}
	return echo.Description != nil && *echo.Description == *sent.Description
}

// verifyGetEcho checks that a fetch echo mirrors the request parameters.
func verifyGetEcho(id string, skip, limit int, echo GetItemResponse) bool {
	return echo.ItemID == id && echo.Skip == skip && echo.Limit == limit
}

// verifyHistory sanity-checks the journal records returned by /history.
func verifyHistory(records []HistoryRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("empty history")
	}

	// Records must be ordered newest first.
	for i := 1; i < len(records); i++ {
		if records[i].ReceivedAt.After(records[i-1].ReceivedAt) {
			return fmt.Errorf("history not ordered newest first: record %d is newer than record %d", i, i-1)
		}
	}

	// Every record must carry a method, route and status.
	for i, rec := range records {
		if rec.Method == "" || rec.Route == "" || rec.Status == 0 {
			return fmt.Errorf("incomplete history record at index %d", i)
		}
	}

	return nil
}
