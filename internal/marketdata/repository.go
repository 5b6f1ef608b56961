package marketdata

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository stores daily adjusted closes in history.db.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new price repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or replaces price points for a ticker.
func (r *Repository) Upsert(ticker string, points []PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (ticker, date, adj_close, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET
			adj_close = excluded.adj_close,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range points {
		if _, err := stmt.Exec(ticker, p.Date, p.AdjClose, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert price %s %s: %w", ticker, p.Date, err)
		}
	}

	return tx.Commit()
}

// GetRange returns price points for a ticker between startDate and endDate
// (inclusive), ascending by date.
func (r *Repository) GetRange(ticker, startDate, endDate string) ([]PricePoint, error) {
	rows, err := r.db.Query(`
		SELECT date, adj_close FROM daily_prices
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Date, &p.AdjClose); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// LatestDate returns the most recent stored date for a ticker, or "" when
// no prices are stored.
func (r *Repository) LatestDate(ticker string) (string, error) {
	var date sql.NullString
	err := r.db.QueryRow(
		"SELECT MAX(date) FROM daily_prices WHERE ticker = ?", ticker,
	).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("failed to query latest date for %s: %w", ticker, err)
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

// Count returns the number of stored observations for a ticker.
func (r *Repository) Count(ticker string) (int, error) {
	var n int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM daily_prices WHERE ticker = ?", ticker,
	).Scan(&n)
	return n, err
}
