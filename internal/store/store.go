package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// datasetTable holds the imported tree CSV.
const datasetTable = "trees"

// ErrNoDataset is returned when the dataset has not been imported yet.
var ErrNoDataset = errors.New("dataset not imported")

// Store keeps the published tree dataset in DuckDB for the dataset page.
type Store struct {
	DB      *sql.DB
	DataDir string
}

// Page is one window of dataset rows rendered as strings.
type Page struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Offset  int        `json:"offset"`
	Limit   int        `json:"limit"`
	Total   int        `json:"total"`
}

// ImportInfo describes the last dataset import.
type ImportInfo struct {
	Source     string
	ModTime    time.Time
	ImportedAt time.Time
}

// New opens (or creates) a DuckDB database in the given data directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "nfi-dash.duckdb")
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	s := &Store{DB: db, DataDir: dataDir}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) migrate() error {
	_, err := s.DB.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// ImportDataset loads the CSV at csvPath into the dataset table. It returns
// false without touching the table when the same file, unmodified, was
// imported before.
func (s *Store) ImportDataset(csvPath string) (bool, error) {
	abs, err := filepath.Abs(csvPath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return false, fmt.Errorf("dataset file: %w", err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	has, err := s.HasDataset()
	if err != nil {
		return false, err
	}
	// Unreadable metadata falls through to a full reload, which rewrites it.
	if prev, err := s.LastImport(); err == nil && has {
		if prev.Source == abs && prev.ModTime.Format(time.RFC3339Nano) == modTime {
			return false, nil
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s', header = true)",
		datasetTable, strings.ReplaceAll(abs, "'", "''"))
	if _, err := tx.Exec(stmt); err != nil {
		return false, fmt.Errorf("reading csv: %w", err)
	}

	meta := map[string]string{
		"dataset_source":      abs,
		"dataset_mtime":       modTime,
		"dataset_imported_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

// LastImport returns the metadata of the last successful import.
func (s *Store) LastImport() (*ImportInfo, error) {
	vals := make(map[string]string)
	rows, err := s.DB.Query("SELECT key, value FROM meta WHERE key LIKE 'dataset_%'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		vals[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if vals["dataset_source"] == "" {
		return nil, ErrNoDataset
	}

	info := &ImportInfo{Source: vals["dataset_source"]}
	if info.ModTime, err = time.Parse(time.RFC3339Nano, vals["dataset_mtime"]); err != nil {
		return nil, fmt.Errorf("dataset_mtime: %w", err)
	}
	if info.ImportedAt, err = time.Parse(time.RFC3339Nano, vals["dataset_imported_at"]); err != nil {
		return nil, fmt.Errorf("dataset_imported_at: %w", err)
	}
	return info, nil
}

// ForgetImport drops the import metadata so the next import reloads the
// file unconditionally.
func (s *Store) ForgetImport() error {
	_, err := s.DB.Exec("DELETE FROM meta WHERE key LIKE 'dataset_%'")
	return err
}

// HasDataset reports whether the dataset table exists.
func (s *Store) HasDataset() (bool, error) {
	var n int
	err := s.DB.QueryRow("SELECT count(*) FROM information_schema.tables WHERE table_name = ?", datasetTable).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking dataset table: %w", err)
	}
	return n > 0, nil
}

// RowCount returns the number of imported dataset rows.
func (s *Store) RowCount() (int, error) {
	has, err := s.HasDataset()
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, ErrNoDataset
	}
	var n int
	err = s.DB.QueryRow("SELECT count(*) FROM " + datasetTable).Scan(&n)
	return n, err
}

// Columns returns the dataset column names in file order.
func (s *Store) Columns() ([]string, error) {
	has, err := s.HasDataset()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNoDataset
	}
	rows, err := s.DB.Query(`SELECT column_name FROM information_schema.columns
		WHERE table_name = ? ORDER BY ordinal_position`, datasetTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// MissingColumns returns the documented columns absent from the import.
func (s *Store) MissingColumns(documented []string) ([]string, error) {
	cols, err := s.Columns()
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[strings.ToLower(c)] = true
	}
	var missing []string
	for _, d := range documented {
		if !have[strings.ToLower(d)] {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

// Preview returns up to limit rows starting at offset, in file order.
func (s *Store) Preview(limit, offset int) (*Page, error) {
	total, err := s.RowCount()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.DB.Query(fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", datasetTable), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	page := &Page{Columns: cols, Offset: offset, Limit: limit, Total: total}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
