package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hauler/internal"
)

type DB struct {
	conn *sqlx.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS inbox (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT NOT NULL DEFAULT '',
  sender TEXT NOT NULL DEFAULT '',
  receivedAt TEXT NOT NULL DEFAULT '',
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS extractions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  inboxId INTEGER NOT NULL,
  source TEXT NOT NULL,
  confidence REAL NOT NULL,
  parsedJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(inboxId) REFERENCES inbox(id)
);
CREATE INDEX IF NOT EXISTS idx_extractions_inbox ON extractions(inboxId);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  inboxId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS aliases (
  kind TEXT NOT NULL,
  alias TEXT NOT NULL,
  canonical TEXT NOT NULL,
  source TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY(kind, alias)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// GetKV returns nil when the key is absent.
func (d *DB) GetKV(key string) (*string, error) {
	var value string
	err := d.conn.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) SetKV(key, value string) error {
	return setKV(d.conn, key, value)
}

func setKV(ex sqlx.Execer, key, value string) error {
	_, err := ex.Exec(`
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) DeleteKV(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(d.conn.Rebind(query), args...)
	return err
}

func (d *DB) UpsertInbox(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.InboxRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO inbox (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.InboxRow{}, err
	}

	row, err := d.GetInboxByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.InboxRow{}, err
	}
	if row == nil {
		return internal.InboxRow{}, errors.New("failed to upsert inbox message")
	}
	return *row, nil
}

const inboxColumns = `id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef`

func (d *DB) GetInboxByProviderMessageID(provider, messageID string) (*internal.InboxRow, error) {
	var row internal.InboxRow
	err := d.conn.Get(&row, `SELECT `+inboxColumns+` FROM inbox WHERE provider = ? AND messageId = ?`, provider, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetInboxByID(id int) (*internal.InboxRow, error) {
	var row internal.InboxRow
	err := d.conn.Get(&row, `SELECT `+inboxColumns+` FROM inbox WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListInboxByStatus(status string, limit int) ([]internal.InboxRow, error) {
	var out []internal.InboxRow
	err := d.conn.Select(&out, `SELECT `+inboxColumns+` FROM inbox WHERE status = ? ORDER BY receivedAt ASC, id ASC LIMIT ?`, status, limit)
	return out, err
}

func (d *DB) UpdateInboxStatus(inboxID int, status string) error {
	return updateInboxStatus(d.conn, inboxID, status)
}

func updateInboxStatus(ex sqlx.Execer, inboxID int, status string) error {
	res, err := ex.Exec(`UPDATE inbox SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, inboxID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("inbox message not found: id=%d", inboxID)
	}
	return nil
}

func (d *DB) ClearInboxExtractions(inboxID int) error {
	_, err := d.conn.Exec(`DELETE FROM extractions WHERE inboxId = ?`, inboxID)
	return err
}

type Extraction struct {
	ID         int     `db:"id"`
	InboxID    int     `db:"inboxId"`
	Source     string  `db:"source"`
	Confidence float64 `db:"confidence"`
	ParsedJSON string  `db:"parsedJson"`
}

func (d *DB) InsertExtraction(inboxID int, source string, confidence float64, parsed internal.ParsedMission) (int64, error) {
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return 0, err
	}
	result, err := d.conn.Exec(`
INSERT INTO extractions (inboxId, source, confidence, parsedJson) VALUES (?, ?, ?, ?)
`, inboxID, source, confidence, string(parsedJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) ListExtractions(inboxID int) ([]Extraction, error) {
	var out []Extraction
	err := d.conn.Select(&out, `SELECT id, inboxId, source, confidence, parsedJson FROM extractions WHERE inboxId = ? ORDER BY id ASC`, inboxID)
	return out, err
}

// InsertRun records one processing pass. inboxID 0 stores NULL.
func (d *DB) InsertRun(traceID string, inboxID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	var ref *int
	if inboxID > 0 {
		ref = &inboxID
	}
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, inboxId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, ref, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) CountRuns() (int, error) {
	var n int
	err := d.conn.Get(&n, `SELECT COUNT(*) FROM runs`)
	return n, err
}

func (d *DB) UpsertAliases(records []internal.AliasRecord) error {
	tx, err := d.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Preparex(`
INSERT INTO aliases (kind, alias, canonical, source) VALUES (?, ?, ?, ?)
ON CONFLICT(kind, alias) DO UPDATE SET
  canonical=excluded.canonical,
  source=excluded.source,
  updatedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(string(rec.Kind), rec.Alias, rec.Canonical, rec.Source); err != nil {
			return fmt.Errorf("upsert alias %s/%s: %w", rec.Kind, rec.Alias, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListAliases() ([]internal.AliasRecord, error) {
	var out []internal.AliasRecord
	err := d.conn.Select(&out, `SELECT kind, alias, canonical, source FROM aliases ORDER BY kind, alias`)
	return out, err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.Get(&value, `SELECT value FROM metadata WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) MustInboxByProviderMessageID(provider, messageID string) (internal.InboxRow, error) {
	row, err := d.GetInboxByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.InboxRow{}, err
	}
	if row == nil {
		return internal.InboxRow{}, fmt.Errorf("inbox message not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}
