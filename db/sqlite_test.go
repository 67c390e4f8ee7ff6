package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"estateprice/estimate"
)

func TestHistoryStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	estimates := []*estimate.Estimate{
		{
			Query:           estimate.Query{Location: "whitefield", Area: 1200, Bedrooms: 3, Bathrooms: 2},
			Price:           8_500_000,
			Formatted:       "Estimated Price is: Rs. 85.00 Lakhs",
			MatchedLocation: "Whitefield",
			LocationFound:   true,
			CreatedAt:       time.Now(),
		},
		{
			Query:     estimate.Query{Location: "Atlantis", Area: 900, Bedrooms: 2, Bathrooms: 1},
			Price:     4_000_000,
			Formatted: "Estimated Price is: Rs. 40.00 Lakhs",
			CreatedAt: time.Now(),
		},
	}
	for _, e := range estimates {
		if err := store.RecordEstimate(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	records, err := store.RecentPredictions(ctx, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Location != "Atlantis" || records[0].LocationFound {
		t.Fatalf("expected newest record first, got %+v", records[0])
	}
	if records[1].MatchedLocation != "Whitefield" || !records[1].LocationFound || records[1].Bedrooms != 3 {
		t.Fatalf("unexpected record: %+v", records[1])
	}

	limited, err := store.RecentPredictions(ctx, 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
