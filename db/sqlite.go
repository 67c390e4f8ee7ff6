package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"estateprice/estimate"
)

// PredictionRecord is one row of the prediction history.
type PredictionRecord struct {
	ID              int64     `json:"id"`
	Location        string    `json:"location"`
	MatchedLocation string    `json:"matched_location,omitempty"`
	LocationFound   bool      `json:"location_found"`
	Area            float64   `json:"total_sqft"`
	Bedrooms        int       `json:"bhk"`
	Bathrooms       int       `json:"bath"`
	Price           float64   `json:"price"`
	Formatted       string    `json:"estimated_price"`
	CreatedAt       time.Time `json:"created_at"`
}

// HistoryStore appends estimates to a SQLite table. It implements
// estimate.Recorder.
type HistoryStore struct {
	database *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*HistoryStore, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway
	database.SetMaxOpenConns(1)

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        location TEXT NOT NULL,
        matched_location TEXT,
        location_found INTEGER NOT NULL,
        total_sqft REAL NOT NULL,
        bhk INTEGER NOT NULL,
        bath INTEGER NOT NULL,
        price REAL NOT NULL,
        formatted TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &HistoryStore{database: database}, nil
}

func (h *HistoryStore) RecordEstimate(ctx context.Context, e *estimate.Estimate) error {
	_, err := h.database.ExecContext(ctx, `
        INSERT INTO predictions (location, matched_location, location_found, total_sqft, bhk, bath, price, formatted, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Query.Location, e.MatchedLocation, e.LocationFound, e.Query.Area, e.Query.Bedrooms, e.Query.Bathrooms,
		e.Price, e.Formatted, e.CreatedAt.UTC())
	return err
}

// RecentPredictions returns up to limit rows, newest first.
func (h *HistoryStore) RecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.database.QueryContext(ctx, `
        SELECT id, location, COALESCE(matched_location, ''), location_found, total_sqft, bhk, bath, price, formatted, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var r PredictionRecord
		if err := rows.Scan(&r.ID, &r.Location, &r.MatchedLocation, &r.LocationFound, &r.Area, &r.Bedrooms, &r.Bathrooms, &r.Price, &r.Formatted, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (h *HistoryStore) Close() error {
	return h.database.Close()
}
