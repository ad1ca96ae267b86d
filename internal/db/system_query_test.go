package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialTableStatement(t *testing.T) {
	tests := []struct {
		name    string
		table   TableRef
		dialect DriverType
		want    string
	}{
		{"plain", TableRef{Name: "users"}, Postgres, `SELECT * FROM "users" LIMIT 1000;`},
		{"digits and underscore", TableRef{Name: "my_table_1"}, Postgres, `SELECT * FROM "my_table_1" LIMIT 1000;`},
		{"qualified", TableRef{Schema: "public", Name: "users"}, Postgres, `SELECT * FROM "public"."users" LIMIT 1000;`},
		{"mysql", TableRef{Schema: "shop", Name: "orders"}, MySQL, "SELECT * FROM `shop`.`orders` LIMIT 1000;"},
		{"sqlite", TableRef{Name: "_t"}, SQLite, `SELECT * FROM "_t" LIMIT 1000;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := InitialTableTag(tt.table)
			req, err := SystemQuery(tag, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Statement)
			assert.Equal(t, tag, req.Tag)
			assert.Empty(t, req.Params)
		})
	}
}

func TestInitialTableRejectsUnsafeIdentifiers(t *testing.T) {
	for _, table := range []TableRef{
		{Name: "users; DROP TABLE x"},
		{Name: ""},
		{Name: "1users"},
		{Name: `us"ers`},
		{Name: strings.Repeat("a", 129)},
		{Schema: "pub lic", Name: "users"},
	} {
		_, err := SystemQuery(InitialTableTag(table), Postgres)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "table %q", table)
	}
}

func TestIdentifierLengthBoundary(t *testing.T) {
	assert.NoError(t, ValidateIdentifier(strings.Repeat("a", 128)))
	assert.Error(t, ValidateIdentifier(strings.Repeat("a", 129)))
}

func TestQuoteIdentifierDoublesQuotes(t *testing.T) {
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`, Postgres))
	assert.Equal(t, "`a``b`", QuoteIdentifier("a`b", MySQL))
}

func TestTableStructureBindsLiterals(t *testing.T) {
	req, err := SystemQuery(TableStructureTag(TableRef{Schema: "public", Name: "users"}), Postgres)
	require.NoError(t, err)
	assert.Equal(t, []any{"public", "users"}, req.Params)
	assert.Contains(t, req.Statement, "$1")
	assert.NotContains(t, req.Statement, "users")

	req, err = SystemQuery(TableStructureTag(TableRef{Name: "users"}), Postgres)
	require.NoError(t, err)
	assert.Equal(t, []any{"public", "users"}, req.Params)

	req, err = SystemQuery(TableStructureTag(TableRef{Name: "orders"}), MySQL)
	require.NoError(t, err)
	assert.Equal(t, []any{"orders"}, req.Params)
	assert.Contains(t, req.Statement, "DATABASE()")

	_, err = SystemQuery(TableStructureTag(TableRef{Name: "x y"}), Postgres)
	assert.Error(t, err)
}

func TestListTablesPerDialect(t *testing.T) {
	for _, d := range []DriverType{Postgres, MySQL, SQLite} {
		req, err := SystemQuery(ListTablesTag(), d)
		require.NoError(t, err)
		assert.Contains(t, req.Statement, "table_name")
	}
}

func TestSystemQueryRejectsUserTag(t *testing.T) {
	_, err := SystemQuery(UserTag(), Postgres)
	assert.Error(t, err)
}

func TestQueryTagUserFacing(t *testing.T) {
	assert.True(t, UserTag().IsUserFacing())
	assert.True(t, InitialTableTag(TableRef{Name: "a"}).IsUserFacing())
	assert.False(t, ListTablesTag().IsUserFacing())
	assert.False(t, TableStructureTag(TableRef{Name: "a"}).IsUserFacing())
	assert.Equal(t, "InitialTable(public.users)", InitialTableTag(TableRef{Schema: "public", Name: "users"}).String())
}
