package dialects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDialect(t *testing.T) {
	for _, name := range []string{"postgres", "postgresql", "pgx", "mysql", "sqlite", "sqlite3"} {
		d, ok := LookupDialect(name)
		assert.True(t, ok, name)
		assert.NotNil(t, d, name)
	}

	_, ok := LookupDialect("oracle")
	assert.False(t, ok)
}

func mustDialect(t *testing.T, name string) Dialect {
	t.Helper()
	d, ok := LookupDialect(name)
	require.True(t, ok, name)
	return d
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"call_records"`, mustDialect(t, "postgres").QuoteIdentifier("call_records"))
	assert.Equal(t, `"a""b"`, mustDialect(t, "sqlite").QuoteIdentifier(`a"b`))
	assert.Equal(t, "`a``b`", mustDialect(t, "mysql").QuoteIdentifier("a`b"))
}

func TestCreateTableSQL(t *testing.T) {
	columns := []Column{
		{Name: "id", Type: Key},
		{Name: "kind", Type: ShortText},
		{Name: "elapsed_us", Type: BigInt, Nullable: true},
	}

	tests := []struct {
		driver string
		want   string
	}{
		{
			driver: "postgres",
			want: `CREATE TABLE IF NOT EXISTS "t" ("id" VARCHAR(36) PRIMARY KEY, ` +
				`"kind" VARCHAR(255) NOT NULL, "elapsed_us" BIGINT)`,
		},
		{
			driver: "mysql",
			want: "CREATE TABLE IF NOT EXISTS `t` (`id` VARCHAR(36) PRIMARY KEY, " +
				"`kind` VARCHAR(255) NOT NULL, `elapsed_us` BIGINT)",
		},
		{
			driver: "sqlite",
			want: `CREATE TABLE IF NOT EXISTS "t" ("id" TEXT PRIMARY KEY, ` +
				`"kind" TEXT NOT NULL, "elapsed_us" INTEGER)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, ok := LookupDialect(tt.driver)
			require.True(t, ok)
			assert.Equal(t, tt.want, CreateTableSQL(d, "t", columns))
		})
	}
}

func TestInsertSQL(t *testing.T) {
	cols := []string{"id", "kind", "func_name"}

	assert.Equal(t,
		`INSERT INTO "t" ("id", "kind", "func_name") VALUES ($1, $2, $3)`,
		InsertSQL(mustDialect(t, "postgres"), "t", cols))
	assert.Equal(t,
		"INSERT INTO `t` (`id`, `kind`, `func_name`) VALUES (?, ?, ?)",
		InsertSQL(mustDialect(t, "mysql"), "t", cols))
}
