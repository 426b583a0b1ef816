// Package plugin tracks the portal's installable plugins and their
// install state. State is persisted in SQLite so it survives restarts;
// install and uninstall fire events to registered listeners, which the
// container manager uses to invalidate its type-lookup cache.
package plugin

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the named plugin has never been registered.
var ErrNotFound = errors.New("plugin not found")

// Plugin describes one installable plugin.
type Plugin struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Installed   bool   `json:"installed"`
	UpdatedAt   int64  `json:"updated_at,omitempty"` // unix timestamp of last state change
}

// Service manages plugin records and install state.
type Service struct {
	db *sql.DB

	mu        sync.RWMutex
	listeners []Listener
}

// Open opens (creating if needed) the plugin state database at path.
func Open(path string) (*Service, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open plugin store: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Service{db: db}, nil
}

// Close releases the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}

// Subscribe registers a listener for install state events.
func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Service) notify(e Event) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.HandlePluginEvent(e)
	}
}

// Register records plugin metadata without changing install state.
// Registering an already-known plugin updates version and description.
func (s *Service) Register(p Plugin) error {
	_, err := s.db.Exec(`
		INSERT INTO plugins (name, version, description, installed, updated_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT(name) DO UPDATE SET version = excluded.version, description = excluded.description`,
		p.Name, p.Version, p.Description, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("register plugin %q: %w", p.Name, err)
	}
	return nil
}

// Get returns a plugin by name.
func (s *Service) Get(name string) (*Plugin, error) {
	row := s.db.QueryRow(
		`SELECT name, version, description, installed, updated_at FROM plugins WHERE name = ?`, name)

	var p Plugin
	var installed int
	err := row.Scan(&p.Name, &p.Version, &p.Description, &installed, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get plugin %q: %w", name, err)
	}
	p.Installed = installed != 0
	return &p, nil
}

// List returns all known plugins ordered by name.
func (s *Service) List() ([]Plugin, error) {
	rows, err := s.db.Query(
		`SELECT name, version, description, installed, updated_at FROM plugins ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list plugins: %w", err)
	}
	defer rows.Close()

	var out []Plugin
	for rows.Next() {
		var p Plugin
		var installed int
		if err := rows.Scan(&p.Name, &p.Version, &p.Description, &installed, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Installed = installed != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// Installed reports whether the named plugin exists and is installed.
// Unknown plugins are reported as not installed.
func (s *Service) Installed(name string) bool {
	p, err := s.Get(name)
	return err == nil && p.Installed
}

// Install marks the plugin installed, registering it first if unknown.
// The installed event fires only when the state actually changes, so
// repeated installs are idempotent and do not churn listener caches.
func (s *Service) Install(name string) error {
	return s.setInstalled(name, true)
}

// Uninstall marks the plugin as not installed. Uninstalling an unknown
// plugin is an error; uninstalling an already-uninstalled one is a no-op.
func (s *Service) Uninstall(name string) error {
	if _, err := s.Get(name); err != nil {
		return err
	}
	return s.setInstalled(name, false)
}

func (s *Service) setInstalled(name string, installed bool) error {
	p, err := s.Get(name)
	if errors.Is(err, ErrNotFound) {
		if !installed {
			return err
		}
		if err := s.Register(Plugin{Name: name}); err != nil {
			return err
		}
		p = &Plugin{Name: name}
	} else if err != nil {
		return err
	}

	if p.Installed == installed {
		return nil
	}

	now := time.Now().Unix()
	val := 0
	if installed {
		val = 1
	}
	if _, err := s.db.Exec(
		`UPDATE plugins SET installed = ?, updated_at = ? WHERE name = ?`, val, now, name); err != nil {
		return fmt.Errorf("update plugin %q: %w", name, err)
	}

	p.Installed = installed
	p.UpdatedAt = now
	evt := EventUninstalled
	if installed {
		evt = EventInstalled
	}
	s.notify(Event{Type: evt, Plugin: *p})
	return nil
}
