package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists posted updates to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			price        REAL,
			change       REAL,
			ema9         REAL,
			ema21        REAL,
			vwap         REAL,
			spike_ratio  REAL,
			spike_volume REAL,
			call_volume  REAL,
			put_volume   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_ts ON price_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_price_symbol ON price_snapshots(symbol)`,

		`CREATE TABLE IF NOT EXISTS news_posts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			news_id   TEXT NOT NULL,
			title     TEXT,
			url       TEXT,
			tickers   TEXT,
			source    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_ts ON news_posts(timestamp)`,

		`CREATE TABLE IF NOT EXISTS flow_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			call_volume REAL,
			put_volume  REAL,
			contracts   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_flow_ts ON flow_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPrice(evt *PriceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO price_snapshots
		(timestamp, symbol, price, change, ema9, ema21, vwap,
		 spike_ratio, spike_volume, call_volume, put_volume)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Price, evt.Change,
		evt.EMA9, evt.EMA21, evt.VWAP,
		evt.SpikeRatio, evt.SpikeVolume, evt.CallVolume, evt.PutVolume,
	)
	return err
}

func (r *SQLiteRecorder) RecordNews(evt *NewsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO news_posts
		(timestamp, news_id, title, url, tickers, source)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.NewsID, evt.Title, evt.URL,
		strings.Join(evt.Tickers, ","), evt.Source,
	)
	return err
}

func (r *SQLiteRecorder) RecordFlow(evt *FlowEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO flow_snapshots
		(timestamp, symbol, call_volume, put_volume, contracts)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.CallVolume, evt.PutVolume, evt.Contracts,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
