package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

// validIdentifier matches valid SQL identifiers (table/column names).
// Only allows alphanumeric and underscore, must start with letter or
// underscore. This prevents SQL injection via identifier interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB is a read-only SQLite data source.
type DB struct {
	db *sql.DB
}

// OpenDB opens a SQLite database at the given path.
//
// The connection is configured with a 5-second busy timeout for lock
// contention and a single connection, since the source only reads.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Column returns one table column as a group of elements, in rowid
// order.
//
// Security: table and column names are validated against a whitelist
// pattern because identifiers cannot be parameterized.
func (d *DB) Column(ctx context.Context, table, column string) ([]any, error) {
	if err := checkIdentifiers(table, column); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", column, table)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query column: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Mapping returns a key-column to value-column mapping. Duplicate keys
// are an error.
func (d *DB) Mapping(ctx context.Context, table, keyColumn, valueColumn string) (map[any]any, error) {
	if err := checkIdentifiers(table, keyColumn, valueColumn); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s", keyColumn, valueColumn, table)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query mapping: %w", err)
	}
	defer rows.Close()

	out := make(map[any]any)
	for rows.Next() {
		var k, v any
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("duplicate key %v in column %q", k, keyColumn)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// DistinctColumn returns the distinct values of one column, useful as
// the data side of a set-membership validation.
func (d *DB) DistinctColumn(ctx context.Context, table, column string) ([]any, error) {
	if err := checkIdentifiers(table, column); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s", column, table)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query distinct column: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !validIdentifier.MatchString(name) {
			return fmt.Errorf("invalid identifier %q: must match pattern %s", name, validIdentifier.String())
		}
	}
	return nil
}
