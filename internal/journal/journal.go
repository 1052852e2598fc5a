// Package journal keeps a SQLite record of finished pursuits.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"PursuitOverhaul/internal/game"
	"PursuitOverhaul/internal/tier"
)

const schema = `
CREATE TABLE IF NOT EXISTS pursuits (
	id            TEXT PRIMARY KEY,
	session       INTEGER NOT NULL,
	started       REAL NOT NULL,
	ended         REAL NOT NULL,
	escalation    REAL NOT NULL,
	max_level     INTEGER NOT NULL,
	vehicles_json TEXT NOT NULL,
	recorded_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS pursuits_recorded ON pursuits(recorded_at);
`

// Pursuit is one journal row.
type Pursuit struct {
	ID         string
	Session    game.SessionID
	Started    float64
	Ended      float64
	Escalation float64
	MaxLevel   tier.Level
	Vehicles   map[string]int
	RecordedAt time.Time
}

// Journal stores pursuit summaries. It implements game.Observer.
type Journal struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

// Open opens or creates the journal database at path.
func Open(path string, log *slog.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Journal{db: db, log: log, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores one summary and returns its row id.
func (j *Journal) Record(ctx context.Context, sum game.SessionSummary) (string, error) {
	vehicles := sum.Vehicles
	if vehicles == nil {
		vehicles = map[string]int{}
	}
	vehiclesJSON, err := json.Marshal(vehicles)
	if err != nil {
		return "", fmt.Errorf("marshal vehicles: %w", err)
	}
	id := uuid.New().String()
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO pursuits (id, session, started, ended, escalation, max_level, vehicles_json, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, int64(sum.Session), sum.Started, sum.Ended, sum.Escalation, int(sum.MaxLevel),
		string(vehiclesJSON), j.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert pursuit: %w", err)
	}
	return id, nil
}

// SessionEnded records sum, logging failures.
func (j *Journal) SessionEnded(sum game.SessionSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := j.Record(ctx, sum); err != nil {
		j.log.Error("journal record failed", "session", sum.Session, "err", err)
	}
}

// Recent returns up to n pursuits, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Pursuit, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session, started, ended, escalation, max_level, vehicles_json, recorded_at
		 FROM pursuits ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query pursuits: %w", err)
	}
	defer rows.Close()

	var out []Pursuit
	for rows.Next() {
		var (
			p            Pursuit
			session      int64
			level        int
			vehiclesJSON string
			recordedAt   string
		)
		if err := rows.Scan(&p.ID, &session, &p.Started, &p.Ended, &p.Escalation, &level, &vehiclesJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan pursuit: %w", err)
		}
		p.Session = game.SessionID(session)
		p.MaxLevel = tier.Level(level)
		if err := json.Unmarshal([]byte(vehiclesJSON), &p.Vehicles); err != nil {
			return nil, fmt.Errorf("unmarshal vehicles: %w", err)
		}
		if p.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
