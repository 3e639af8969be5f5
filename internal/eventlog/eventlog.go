// Package eventlog records gesture events into a SQLite database so replays
// and live sessions can be inspected afterwards.
package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/phanxgames/pressable"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
create table if not exists events(
	id integer primary key autoincrement,
	session text not null,
	type text not null,
	pressed bool not null,
	ts_ns integer not null,
	local_x real not null,
	local_y real not null,
	page_x real not null,
	page_y real not null,
	recorded datetime not null default (datetime('now'))
);
create index if not exists events_session on events(session);
`

// Store is a SQLite-backed event recorder.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	// Every pooled connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create event log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores one event under session.
func (s *Store) Record(session string, e pressable.Event) error {
	_, err := s.db.Exec(`insert into events(session, type, pressed, ts_ns, local_x, local_y, page_x, page_y)
	    values(?, ?, ?, ?, ?, ?, ?, ?)`,
		session, e.Type.String(), e.Pressed, int64(e.Timestamp), e.LocalX, e.LocalY, e.PageX, e.PageY)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Type, err)
	}
	return nil
}

// Sink returns an EventSink that records every event under session. Write
// errors go to onErr, which may be nil.
func (s *Store) Sink(session string, onErr func(error)) pressable.EventSink {
	return pressable.SinkFunc(func(e pressable.Event) {
		if err := s.Record(session, e); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

// Counts returns the number of recorded events per type across all sessions.
func (s *Store) Counts() (map[pressable.EventType]int, error) {
	rows, err := s.db.Query(`select type, count(*) from events group by type`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[pressable.EventType]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("count events: %w", err)
		}
		t, err := pressable.ParseEventType(name)
		if err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// Sessions returns the distinct session names in first-recorded order.
func (s *Store) Sessions() ([]string, error) {
	rows, err := s.db.Query(`select session from events group by session order by min(id)`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Events returns the events recorded under session in insertion order.
func (s *Store) Events(session string) ([]pressable.Event, error) {
	rows, err := s.db.Query(`select type, pressed, ts_ns, local_x, local_y, page_x, page_y
	    from events where session = ? order by id`, session)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []pressable.Event
	for rows.Next() {
		var (
			name string
			e    pressable.Event
			ts   int64
		)
		if err := rows.Scan(&name, &e.Pressed, &ts, &e.LocalX, &e.LocalY, &e.PageX, &e.PageY); err != nil {
			return nil, fmt.Errorf("query events: %w", err)
		}
		t, err := pressable.ParseEventType(name)
		if err != nil {
			return nil, err
		}
		e.Type = t
		e.Timestamp = time.Duration(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
