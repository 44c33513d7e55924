// Package storage provides persistent storage for parsed sector file
// catalogues.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"scopepack/internal/sector"
)

// Waypoint is one stored navdata point: an airport, VOR, NDB or fix.
type Waypoint struct {
	ID         int64
	SectorFile string
	Kind       string
	Ident      string
	Lat        float64
	Lon        float64
	Frequency  string
}

// MapRecord summarises one stored line group, region group or label
// group.
type MapRecord struct {
	ID         int64
	SectorFile string
	ItemType   string
	Name       string
	Items      int
}

// ErrorRecord is one stored parse error.
type ErrorRecord struct {
	ID         int64
	SectorFile string
	Line       int
	Kind       string
	Text       string
}

// DB wraps a SQLite database connection for sector catalogue storage.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sector_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		name TEXT,
		default_callsign TEXT,
		default_airport TEXT,
		centre_lat REAL,
		centre_lon REAL,
		loaded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS waypoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sector_file TEXT NOT NULL,
		kind TEXT NOT NULL,
		ident TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		frequency TEXT
	);

	CREATE TABLE IF NOT EXISTS maps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sector_file TEXT NOT NULL,
		item_type TEXT NOT NULL,
		name TEXT NOT NULL,
		items INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS parse_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sector_file TEXT NOT NULL,
		line INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_waypoints_ident ON waypoints(ident);
	CREATE INDEX IF NOT EXISTS idx_waypoints_kind ON waypoints(kind);
	CREATE INDEX IF NOT EXISTS idx_waypoints_sector ON waypoints(sector_file);
	CREATE INDEX IF NOT EXISTS idx_maps_sector ON maps(sector_file);
	CREATE INDEX IF NOT EXISTS idx_errors_sector ON parse_errors(sector_file);
	`

	_, err := db.Exec(schema)
	return err
}

// StoreSector replaces the stored catalogue for one sector file with the
// contents of a freshly parsed model.
func (d *DB) StoreSector(path string, sct *sector.Sector) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"waypoints", "maps", "parse_errors"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE sector_file = ?", table), path); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM sector_files WHERE path = ?", path); err != nil {
		return fmt.Errorf("clear sector file: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO sector_files (path, name, default_callsign, default_airport, centre_lat, centre_lon, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, path, sct.Info.Name, sct.Info.DefaultCallsign, sct.Info.DefaultAirport,
		sct.Info.CentreLat, sct.Info.CentreLon, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert sector file: %w", err)
	}

	insertWaypoint, err := tx.Prepare(`
		INSERT INTO waypoints (sector_file, kind, ident, lat, lon, frequency)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare waypoint insert: %w", err)
	}
	defer func() { _ = insertWaypoint.Close() }()

	for _, a := range sct.Airports {
		if _, err := insertWaypoint.Exec(path, "airport", a.Identifier, a.Position.Lat, a.Position.Lon, a.TowerFrequency); err != nil {
			return fmt.Errorf("insert airport %s: %w", a.Identifier, err)
		}
	}
	for _, v := range sct.VORs {
		if _, err := insertWaypoint.Exec(path, "vor", v.Identifier, v.Position.Lat, v.Position.Lon, v.Frequency); err != nil {
			return fmt.Errorf("insert vor %s: %w", v.Identifier, err)
		}
	}
	for _, n := range sct.NDBs {
		if _, err := insertWaypoint.Exec(path, "ndb", n.Identifier, n.Position.Lat, n.Position.Lon, n.Frequency); err != nil {
			return fmt.Errorf("insert ndb %s: %w", n.Identifier, err)
		}
	}
	for _, f := range sct.Fixes {
		if _, err := insertWaypoint.Exec(path, "fix", f.Identifier, f.Position.Lat, f.Position.Lon, ""); err != nil {
			return fmt.Errorf("insert fix %s: %w", f.Identifier, err)
		}
	}

	insertMap, err := tx.Prepare(`
		INSERT INTO maps (sector_file, item_type, name, items) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare map insert: %w", err)
	}
	defer func() { _ = insertMap.Close() }()

	lineGroups := []struct {
		itemType string
		groups   []sector.LineGroup
	}{
		{"geo", sct.Geo},
		{"artccBoundary", sct.ARTCC},
		{"artccLowBoundary", sct.ARTCCLow},
		{"artccHighBoundary", sct.ARTCCHigh},
		{"lowAirways", sct.LowAirways},
		{"highAirways", sct.HighAirways},
		{"sids", sct.SIDs},
		{"stars", sct.STARs},
	}
	for _, set := range lineGroups {
		for _, g := range set.groups {
			if _, err := insertMap.Exec(path, set.itemType, g.Name, len(g.Lines)); err != nil {
				return fmt.Errorf("insert map %s: %w", g.Name, err)
			}
		}
	}
	for _, g := range sct.Regions {
		if _, err := insertMap.Exec(path, "region", g.Name, len(g.Regions)); err != nil {
			return fmt.Errorf("insert region group %s: %w", g.Name, err)
		}
	}
	for _, g := range sct.Labels {
		if _, err := insertMap.Exec(path, "label", g.Name, len(g.Labels)); err != nil {
			return fmt.Errorf("insert label group %s: %w", g.Name, err)
		}
	}

	for _, e := range sct.Errors {
		if _, err := tx.Exec(`
			INSERT INTO parse_errors (sector_file, line, kind, text) VALUES (?, ?, ?, ?)
		`, path, e.Line, e.Kind.String(), e.Text); err != nil {
			return fmt.Errorf("insert parse error: %w", err)
		}
	}

	return tx.Commit()
}

// QueryParams contains filtering options for querying waypoints.
type QueryParams struct {
	SectorFile string // Filter by sector file path (exact match).
	Kind       string // Filter by waypoint kind (exact match).
	Ident      string // Filter by identifier (LIKE match).
	Limit      int    // Max results (default 100).
	Offset     int    // Pagination offset.
}

// Waypoints retrieves stored waypoints matching the given parameters.
func (d *DB) Waypoints(p QueryParams) ([]Waypoint, error) {
	var conditions []string
	var args []interface{}

	if p.SectorFile != "" {
		conditions = append(conditions, "sector_file = ?")
		args = append(args, p.SectorFile)
	}
	if p.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, p.Kind)
	}
	if p.Ident != "" {
		conditions = append(conditions, "ident LIKE ?")
		args = append(args, "%"+p.Ident+"%")
	}

	query := "SELECT id, sector_file, kind, ident, lat, lon, frequency FROM waypoints"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ident"

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query waypoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var waypoints []Waypoint
	for rows.Next() {
		var w Waypoint
		var freq sql.NullString
		if err := rows.Scan(&w.ID, &w.SectorFile, &w.Kind, &w.Ident, &w.Lat, &w.Lon, &freq); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if freq.Valid {
			w.Frequency = freq.String
		}
		waypoints = append(waypoints, w)
	}
	return waypoints, rows.Err()
}

// Maps retrieves the stored map summaries for one sector file.
func (d *DB) Maps(sectorFile string) ([]MapRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, sector_file, item_type, name, items FROM maps
		WHERE sector_file = ? ORDER BY item_type, name
	`, sectorFile)
	if err != nil {
		return nil, fmt.Errorf("query maps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []MapRecord
	for rows.Next() {
		var r MapRecord
		if err := rows.Scan(&r.ID, &r.SectorFile, &r.ItemType, &r.Name, &r.Items); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Errors retrieves the stored parse errors for one sector file.
func (d *DB) Errors(sectorFile string) ([]ErrorRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, sector_file, line, kind, text FROM parse_errors
		WHERE sector_file = ? ORDER BY line
	`, sectorFile)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ErrorRecord
	for rows.Next() {
		var r ErrorRecord
		var text sql.NullString
		if err := rows.Scan(&r.ID, &r.SectorFile, &r.Line, &r.Kind, &text); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if text.Valid {
			r.Text = text.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats returns aggregate statistics about the stored catalogue.
type Stats struct {
	SectorFiles    int
	TotalWaypoints int
	ByKind         map[string]int
	TotalErrors    int
	ErrorsByKind   map[string]int
}

// GetStats returns statistics about the stored catalogue.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		ByKind:       make(map[string]int),
		ErrorsByKind: make(map[string]int),
	}

	row := d.db.QueryRow("SELECT COUNT(*) FROM sector_files")
	if err := row.Scan(&stats.SectorFiles); err != nil {
		return nil, err
	}

	row = d.db.QueryRow("SELECT COUNT(*) FROM waypoints")
	if err := row.Scan(&stats.TotalWaypoints); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT kind, COUNT(*) FROM waypoints GROUP BY kind")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ByKind[kind] = count
	}
	_ = rows.Close()

	row = d.db.QueryRow("SELECT COUNT(*) FROM parse_errors")
	if err := row.Scan(&stats.TotalErrors); err != nil {
		return nil, err
	}

	rows, err = d.db.Query("SELECT kind, COUNT(*) FROM parse_errors GROUP BY kind ORDER BY COUNT(*) DESC")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stats.ErrorsByKind[kind] = count
	}
	_ = rows.Close()

	return stats, nil
}
