package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ETTyler/Arb-Finder/internal/arb"
)

// Entry is a journaled opportunity with its stake breakdown.
type Entry struct {
	ID           string      `json:"id"`
	ScanID       string      `json:"scan_id"`
	MatchName    string      `json:"match_name"`
	League       string      `json:"league"`
	CommenceTime time.Time   `json:"match_start_time"`
	HoursToStart float64     `json:"hours_to_start"`
	TotalImplied float64     `json:"total_implied_odds"`
	TotalStake   int         `json:"total_stake"`
	MinProfit    float64     `json:"min_profit"`
	MaxProfit    float64     `json:"max_profit"`
	DetectedAt   time.Time   `json:"detected_at"`
	Stakes       []arb.Stake `json:"stakes"`
}

// DB records detected opportunities. It stores the scanner's output,
// not bookmaker odds history.
type DB struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS opportunities (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL,
		match_name TEXT NOT NULL,
		league TEXT NOT NULL,
		commence_time INTEGER NOT NULL,
		hours_to_start REAL NOT NULL,
		total_implied REAL NOT NULL,
		total_stake INTEGER NOT NULL,
		min_profit REAL NOT NULL,
		max_profit REAL NOT NULL,
		detected_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stakes (
		opportunity_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		bookmaker TEXT NOT NULL,
		price REAL NOT NULL,
		stake INTEGER NOT NULL,
		profit REAL NOT NULL,
		FOREIGN KEY (opportunity_id) REFERENCES opportunities(id)
	);

	CREATE INDEX IF NOT EXISTS idx_opportunities_scan ON opportunities(scan_id);
	CREATE INDEX IF NOT EXISTS idx_opportunities_detected ON opportunities(detected_at);
	CREATE INDEX IF NOT EXISTS idx_stakes_opportunity ON stakes(opportunity_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// Record journals an opportunity under the given scan and returns its id.
func (d *DB) Record(scanID string, opp arb.Opportunity) (string, error) {
	id := uuid.New().String()

	tx, err := d.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO opportunities (id, scan_id, match_name, league, commence_time, hours_to_start, total_implied, total_stake, min_profit, max_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, scanID, opp.Name, opp.League, opp.CommenceTime.Unix(), opp.HoursToStart,
		opp.TotalImplied, opp.Allocation.TotalStake, opp.Allocation.MinProfit(), opp.Allocation.MaxProfit())
	if err != nil {
		return "", fmt.Errorf("inserting opportunity: %w", err)
	}

	for _, s := range opp.Allocation.Stakes {
		_, err = tx.Exec(`
			INSERT INTO stakes (opportunity_id, outcome, bookmaker, price, stake, profit)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, s.Outcome, s.Bookmaker, s.Price, s.Stake, s.Profit)
		if err != nil {
			return "", fmt.Errorf("inserting stake: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	return id, nil
}

// Recent returns the most recently detected opportunities, newest first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	rows, err := d.db.Query(`
		SELECT id, scan_id, match_name, league, commence_time, hours_to_start, total_implied, total_stake, min_profit, max_profit, detected_at
		FROM opportunities
		ORDER BY detected_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var commence int64
		err := rows.Scan(&e.ID, &e.ScanID, &e.MatchName, &e.League, &commence,
			&e.HoursToStart, &e.TotalImplied, &e.TotalStake, &e.MinProfit, &e.MaxProfit, &e.DetectedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		e.CommenceTime = time.Unix(commence, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating opportunities: %w", err)
	}

	for i := range entries {
		stakes, err := d.stakesFor(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Stakes = stakes
	}

	return entries, nil
}

func (d *DB) stakesFor(opportunityID string) ([]arb.Stake, error) {
	rows, err := d.db.Query(`
		SELECT outcome, bookmaker, price, stake, profit
		FROM stakes WHERE opportunity_id = ?
	`, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("querying stakes: %w", err)
	}
	defer rows.Close()

	var stakes []arb.Stake
	for rows.Next() {
		var s arb.Stake
		if err := rows.Scan(&s.Outcome, &s.Bookmaker, &s.Price, &s.Stake, &s.Profit); err != nil {
			return nil, fmt.Errorf("scanning stake: %w", err)
		}
		stakes = append(stakes, s)
	}
	return stakes, rows.Err()
}
