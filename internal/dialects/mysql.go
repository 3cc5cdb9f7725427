package dialects

import (
	"strings"
)

// MySQLDialect implements MySQL-specific SQL dialect.
type MySQLDialect struct{}

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (d *MySQLDialect) QuoteIdentifier(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder(_ int) string {
	return "?"
}

// ColumnType maps portable column types to MySQL types.
// TEXT columns cannot be keys in MySQL, so keys and short text use VARCHAR.
func (d *MySQLDialect) ColumnType(t ColumnType) string {
	switch t {
	case Key:
		return "VARCHAR(36)"
	case ShortText:
		return "VARCHAR(255)"
	case BigInt:
		return "BIGINT"
	default:
		return "TEXT"
	}
}

func init() {
	RegisterDialect("mysql", &MySQLDialect{})
}
