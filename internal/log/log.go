// Package log provides audit logging for principal-md tool calls.
// Entries are stored in ~/.principal-md/log/audit.db and record which tool
// was called, which bridge it was relayed to and how the bridge answered.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("mcp:showMarkdownContent", "show").
//		RequestID(id).
//		Target(title).
//		Detail("content_digest", log.Digest(content)).
//		Write(err)
//
// The source parameter follows the format "mcp:{tool}" for tool calls and
// "cli:{command}" for CLI commands that talk to the bridge.
//
// Markdown content is never written to the log; use [Digest] when an entry
// needs to identify a document.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source    string // e.g., "mcp:openMarkdownFile", "cli:check"
	Action    string // verb: show, open, info, health
	Target    string // document title or file path, if any
	RequestID string // X-Request-Id sent to the bridge

	// Timing, unix milliseconds
	Start int64 // when Event() was called
	End   int64 // when Write() was called

	Success bool           // whether the bridge call succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional call-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the call originated:
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:showMarkdownContent")
//   - CLI commands: "cli:{command}" (e.g., "cli:check")
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().UnixMilli(),
		},
	}
}

// Target sets what the call acted on: a document title or a file path.
func (b *Builder) Target(target string) *Builder {
	b.entry.Target = target
	return b
}

// RequestID sets the correlation ID sent to the bridge.
func (b *Builder) RequestID(id string) *Builder {
	b.entry.RequestID = id
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().UnixMilli()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}
	// Tool calls run concurrently; one connection serialises writes and the
	// busy timeout covers other processes sharing the file.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetBridge records the bridge URL on subsequent entries.
func SetBridge(url string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.bridge = url
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
