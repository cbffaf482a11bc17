// log_storage.go implements SQLite-based persistent audit logging.
//
// Separated from log.go to isolate database concerns. log.go provides the
// fluent API for building entries, this file handles persistence.
//
// Errors during logging are reported to stderr and otherwise ignored. A tool
// call must still succeed when its audit entry cannot be written.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db     *sql.DB
	bridge string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, bridge, source, action, target, request_id,
		                 success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, nilIfEmpty(l.bridge), e.Source, e.Action,
		nilIfEmpty(e.Target), nilIfEmpty(e.RequestID),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "principal-md: audit log write failed: %v\n", err)
	}
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Containers without a home directory still get a log.
		return filepath.Join(".principal-md", "log", "audit.db")
	}
	return filepath.Join(home, ".principal-md", "log", "audit.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// Digest returns a short blake2b digest of s, used to identify a document in
// the log without storing its content.
func Digest(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the log table if it doesn't exist.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			start      INTEGER NOT NULL,
			end        INTEGER NOT NULL,
			bridge     TEXT,
			source     TEXT NOT NULL,
			action     TEXT NOT NULL,
			target     TEXT,
			request_id TEXT,
			success    INTEGER NOT NULL,
			error      TEXT,
			detail     TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_source ON log(source);
		CREATE INDEX IF NOT EXISTS idx_log_request ON log(request_id);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings so they are stored as NULL.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
