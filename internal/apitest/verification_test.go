package apitest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okian/mimic/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestVerifyItemEcho(t *testing.T) {
	desc := "a description"
	other := "another description"

	cases := []struct {
		name string
		sent Item
		echo ItemResponse
		want bool
	}{
		{"matching without description", Item{Name: "a"}, ItemResponse{Name: "a"}, true},
		{"matching with description", Item{Name: "a", Description: &desc}, ItemResponse{Name: "a", Description: &desc}, true},
		{"name mismatch", Item{Name: "a"}, ItemResponse{Name: "b"}, false},
		{"description dropped", Item{Name: "a", Description: &desc}, ItemResponse{Name: "a"}, false},
		{"description invented", Item{Name: "a"}, ItemResponse{Name: "a", Description: &desc}, false},
		{"description mismatch", Item{Name: "a", Description: &desc}, ItemResponse{Name: "a", Description: &other}, false},
	}

	for _, tc := range cases {
		if got := verifyItemEcho(tc.sent, tc.echo); got != tc.want {
			t.Errorf("%s: verifyItemEcho = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestVerifyGetEcho(t *testing.T) {
	echo := GetItemResponse{ItemID: "42", Skip: 5, Limit: 20}

	if !verifyGetEcho("42", 5, 20, echo) {
		t.Error("expected matching fetch echo to verify")
	}
	if verifyGetEcho("43", 5, 20, echo) {
		t.Error("expected id mismatch to fail")
	}
	if verifyGetEcho("42", 0, 20, echo) {
		t.Error("expected skip mismatch to fail")
	}
	if verifyGetEcho("42", 5, 10, echo) {
		t.Error("expected limit mismatch to fail")
	}
}

func TestVerifyHistory(t *testing.T) {
	now := time.Now()

	if err := verifyHistory(nil); err == nil {
		t.Error("expected empty history to fail verification")
	}

	ordered := []HistoryRecord{
		{Method: "PUT", Route: "/items/{item_id}", Status: 200, ReceivedAt: now},
		{Method: "POST", Route: "/items", Status: 200, ReceivedAt: now.Add(-time.Second)},
	}
	if err := verifyHistory(ordered); err != nil {
		t.Errorf("expected ordered history to verify, got %v", err)
	}

	unordered := []HistoryRecord{
		{Method: "POST", Route: "/items", Status: 200, ReceivedAt: now.Add(-time.Second)},
		{Method: "PUT", Route: "/items/{item_id}", Status: 200, ReceivedAt: now},
	}
	if err := verifyHistory(unordered); err == nil {
		t.Error("expected unordered history to fail verification")
	}

	incomplete := []HistoryRecord{
		{Method: "", Route: "/items", Status: 200, ReceivedAt: now},
	}
	if err := verifyHistory(incomplete); err == nil {
		t.Error("expected incomplete record to fail verification")
	}
}

func TestGenerateItems(t *testing.T) {
	cfg := &Config{NumItems: 50, Workers: 4}
	stats := &Stats{}

	items, err := generateItems(context.Background(), cfg, stats)
	if err != nil {
		t.Fatalf("generateItems failed: %v", err)
	}
	if len(items) != 50 {
		t.Fatalf("expected 50 items, got %d", len(items))
	}
	if stats.ItemsGenerated != 50 {
		t.Errorf("expected stats to record 50 generated items, got %d", stats.ItemsGenerated)
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.Name == "" {
			t.Errorf("item %d has an empty name", i)
		}
		if seen[item.Name] {
			t.Errorf("item %d has a duplicate name: %s", i, item.Name)
		}
		seen[item.Name] = true
	}
}
