// Package model contains domain models passed between layers.
package model

import "time"

// Item represents the payload accepted by the write endpoints.
// Description is nullable to match the documented request schema.
type Item struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// RequestRecord is one row of the request journal. The journal exists so
// test suites can assert what the service actually received.
type RequestRecord struct {
	Method     string    `json:"method"`
	Route      string    `json:"route"`   // normalized route, e.g. "/items/{item_id}"
	ItemID     string    `json:"item_id"` // empty for routes without an item id
	Status     int       `json:"status"`
	Repeat     bool      `json:"repeat"` // true when an identical write was seen before
	ReceivedAt time.Time `json:"received_at"`
}
