// Package persistence provides the SQLite ledger a host keeps of narrated
// events, resolved contracts and run metadata. It is an audit trail, not an
// agent save format.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tamaverse/internal/agents"
	"github.com/talgya/tamaverse/internal/contracts"
)

// DB wraps a SQLite connection for the ledger.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single writer keeps SQLite from reporting busy under WAL.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		ts INTEGER NOT NULL,
		type TEXT NOT NULL,
		location TEXT NOT NULL,
		description TEXT NOT NULL,
		significance INTEGER NOT NULL,
		participants_json TEXT NOT NULL,
		impact_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		tier INTEGER NOT NULL,
		status TEXT NOT NULL,
		assigned_tama_id TEXT NOT NULL,
		payout INTEGER NOT NULL,
		posted_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		body_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
	CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type eventRow struct {
	ID           string `db:"id"`
	TS           int64  `db:"ts"`
	Type         string `db:"type"`
	Location     string `db:"location"`
	Description  string `db:"description"`
	Significance int    `db:"significance"`
	Participants string `db:"participants_json"`
	Impact       string `db:"impact_json"`
}

func (r eventRow) event() (agents.AutonomousEvent, error) {
	ev := agents.AutonomousEvent{
		ID:           r.ID,
		Timestamp:    time.Unix(0, r.TS).UTC(),
		Type:         agents.EventType(r.Type),
		Location:     r.Location,
		Description:  r.Description,
		Significance: r.Significance,
	}
	if err := json.Unmarshal([]byte(r.Participants), &ev.Participants); err != nil {
		return ev, fmt.Errorf("event %s participants: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Impact), &ev.Impact); err != nil {
		return ev, fmt.Errorf("event %s impact: %w", r.ID, err)
	}
	return ev, nil
}

// SaveEvents appends events. Events already stored are skipped.
func (db *DB) SaveEvents(events []agents.AutonomousEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO events
		(id, ts, type, location, description, significance, participants_json, impact_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		participants, _ := json.Marshal(e.Participants)
		impact, _ := json.Marshal(e.Impact)
		_, err := stmt.Exec(
			e.ID, e.Timestamp.UnixNano(), string(e.Type), e.Location, e.Description,
			e.Significance, string(participants), string(impact),
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]agents.AutonomousEvent, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		`SELECT id, ts, type, location, description, significance, participants_json, impact_json
		 FROM events ORDER BY seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return decodeEvents(rows)
}

// EventsFor returns the most recent N events an agent took part in, newest first.
func (db *DB) EventsFor(id agents.AgentID, limit int) ([]agents.AutonomousEvent, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		`SELECT id, ts, type, location, description, significance, participants_json, impact_json
		 FROM events
		 WHERE EXISTS (SELECT 1 FROM json_each(events.participants_json) WHERE value = ?)
		 ORDER BY seq DESC LIMIT ?`,
		string(id), limit,
	)
	if err != nil {
		return nil, err
	}
	return decodeEvents(rows)
}

func decodeEvents(rows []eventRow) ([]agents.AutonomousEvent, error) {
	out := make([]agents.AutonomousEvent, 0, len(rows))
	for _, r := range rows {
		ev, err := r.event()
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// EventCounts tallies stored events by type.
func (db *DB) EventCounts() (map[agents.EventType]int, error) {
	var rows []struct {
		Type  string `db:"type"`
		Count int    `db:"n"`
	}
	if err := db.conn.Select(&rows, "SELECT type, COUNT(*) AS n FROM events GROUP BY type"); err != nil {
		return nil, err
	}
	out := make(map[agents.EventType]int, len(rows))
	for _, r := range rows {
		out[agents.EventType(r.Type)] = r.Count
	}
	return out, nil
}

// SaveContracts upserts contract snapshots.
func (db *DB) SaveContracts(list []contracts.Contract) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range list {
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode contract %s: %w", c.ID, err)
		}
		var ended int64
		if !c.EndTime.IsZero() {
			ended = c.EndTime.UnixNano()
		}
		_, err = tx.Exec(`INSERT INTO contracts
			(id, title, category, tier, status, assigned_tama_id, payout, posted_at, ended_at, body_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				assigned_tama_id = excluded.assigned_tama_id,
				payout = excluded.payout,
				ended_at = excluded.ended_at,
				body_json = excluded.body_json`,
			c.ID, c.Title, string(c.Category), int(c.Tier), string(c.Status),
			string(c.AssignedTamaID), c.Payout, c.TimePosted.UnixNano(), ended, string(body),
		)
		if err != nil {
			return fmt.Errorf("upsert contract %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Contracts loads stored contracts in posting order. An empty status loads all.
func (db *DB) Contracts(status contracts.Status) ([]contracts.Contract, error) {
	var bodies []string
	var err error
	if status == "" {
		err = db.conn.Select(&bodies, "SELECT body_json FROM contracts ORDER BY posted_at, id")
	} else {
		err = db.conn.Select(&bodies, "SELECT body_json FROM contracts WHERE status = ? ORDER BY posted_at, id", string(status))
	}
	if err != nil {
		return nil, err
	}
	out := make([]contracts.Contract, 0, len(bodies))
	for _, b := range bodies {
		var c contracts.Contract
		if err := json.Unmarshal([]byte(b), &c); err != nil {
			return nil, fmt.Errorf("decode contract: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Earnings sums payouts per agent over completed contracts.
func (db *DB) Earnings() (map[agents.AgentID]int, error) {
	var rows []struct {
		Agent string `db:"assigned_tama_id"`
		Total int    `db:"total"`
	}
	err := db.conn.Select(&rows,
		"SELECT assigned_tama_id, SUM(payout) AS total FROM contracts WHERE status = ? GROUP BY assigned_tama_id",
		string(contracts.StatusCompleted),
	)
	if err != nil {
		return nil, err
	}
	out := make(map[agents.AgentID]int, len(rows))
	for _, r := range rows {
		out[agents.AgentID(r.Agent)] = r.Total
	}
	return out, nil
}

// SaveMeta stores a key-value pair in ledger metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM ledger_meta WHERE key = ?", key)
	return value, err
}

// Checkpoint records a tick's events and the contracts that changed in one
// call, plus the last tick time.
func (db *DB) Checkpoint(now time.Time, events []agents.AutonomousEvent, changed []contracts.Contract) error {
	if err := db.SaveEvents(events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveContracts(changed); err != nil {
		return fmt.Errorf("save contracts: %w", err)
	}
	if err := db.SaveMeta("last_tick", now.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	slog.Debug("ledger checkpoint", "events", len(events), "contracts", len(changed))
	return nil
}
