package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DB is the durable key-value store backing the index persistence cache.
// Exactly one named entry is expected in practice, but the schema does not
// care. Read anomalies degrade to cache misses; nothing here crashes the
// host on bad data.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
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
CREATE TABLE IF NOT EXISTS index_cache (
  key TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// Get returns the payload stored under key, or found=false on a miss. A
// scan failure is logged and reported as a miss rather than an error so a
// corrupt row never blocks a rebuild.
func (d *DB) Get(key string) ([]byte, bool, error) {
	var payload []byte
	err := d.conn.QueryRow(`SELECT payload FROM index_cache WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("index cache read failed, treating as miss")
		return nil, false, nil
	}
	return payload, true, nil
}

func (d *DB) Put(key string, value []byte) error {
	_, err := d.conn.Exec(`
INSERT INTO index_cache (key, payload) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) Delete(key string) error {
	_, err := d.conn.Exec(`DELETE FROM index_cache WHERE key = ?`, key)
	return err
}
