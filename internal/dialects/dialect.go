// Package dialects provides database-specific SQL for the record store on
// PostgreSQL, MySQL, and SQLite: identifier quoting, placeholders, and
// column types for table creation.
package dialects

import (
	"strings"
)

// ColumnType is a portable column type.
type ColumnType int

// Portable column types.
const (
	// Key is a short string primary key (UUIDs).
	Key ColumnType = iota
	// ShortText is a bounded string (kinds, names).
	ShortText
	// Text is unbounded text.
	Text
	// BigInt is a 64-bit integer.
	BigInt
)

// Column describes a table column.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Dialect defines database-specific behaviors.
type Dialect interface {
	QuoteIdentifier(string) string
	Placeholder(int) string
	ColumnType(ColumnType) string
}

var dialects = make(map[string]Dialect)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	dialects[name] = d
}

// LookupDialect retrieves a registered dialect by driver name.
func LookupDialect(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// CreateTableSQL builds a CREATE TABLE IF NOT EXISTS statement. The first
// column is the primary key.
func CreateTableSQL(d Dialect, table string, columns []Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		def := d.QuoteIdentifier(col.Name) + " " + d.ColumnType(col.Type)
		switch {
		case i == 0:
			def += " PRIMARY KEY"
		case !col.Nullable:
			def += " NOT NULL"
		}
		defs[i] = def
	}
	return "CREATE TABLE IF NOT EXISTS " + d.QuoteIdentifier(table) +
		" (" + strings.Join(defs, ", ") + ")"
}

// InsertSQL builds an INSERT statement with one placeholder per column.
func InsertSQL(d Dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	holders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = d.QuoteIdentifier(col)
		holders[i] = d.Placeholder(i + 1)
	}
	return "INSERT INTO " + d.QuoteIdentifier(table) +
		" (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(holders, ", ") + ")"
}
