package db

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxIdentifierLen = 128
	initialRowLimit  = 1000
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name is safe to embed in a statement.
func ValidateIdentifier(name string) error {
	switch {
	case name == "":
		return &ValidationError{Identifier: name, Reason: "empty"}
	case len(name) > maxIdentifierLen:
		return &ValidationError{Identifier: name, Reason: fmt.Sprintf("longer than %d characters", maxIdentifierLen)}
	case !identifierPattern.MatchString(name):
		return &ValidationError{Identifier: name, Reason: "must match [A-Za-z_][A-Za-z0-9_]*"}
	}
	return nil
}

// QuoteIdentifier quotes a validated name for the dialect.
func QuoteIdentifier(name string, dialect DriverType) string {
	q := `"`
	if dialect == MySQL {
		q = "`"
	}
	return q + strings.ReplaceAll(name, q, q+q) + q
}

func quoteTable(t TableRef, dialect DriverType) (string, error) {
	if t.Schema != "" {
		if err := ValidateIdentifier(t.Schema); err != nil {
			return "", err
		}
	}
	if err := ValidateIdentifier(t.Name); err != nil {
		return "", err
	}
	if t.Schema == "" {
		return QuoteIdentifier(t.Name, dialect), nil
	}
	return QuoteIdentifier(t.Schema, dialect) + "." + QuoteIdentifier(t.Name, dialect), nil
}

// SystemQuery builds the statement for a non-user tag. Identifiers are
// validated and quoted; literal values are returned as params.
func SystemQuery(tag QueryTag, dialect DriverType) (QueryRequest, error) {
	switch tag.Kind {
	case TagListTables:
		return QueryRequest{Tag: tag, Statement: listTablesQuery(dialect)}, nil

	case TagInitialTable:
		quoted, err := quoteTable(tag.Table, dialect)
		if err != nil {
			return QueryRequest{}, err
		}
		stmt := fmt.Sprintf("SELECT * FROM %s LIMIT %d;", quoted, initialRowLimit)
		return QueryRequest{Tag: tag, Statement: stmt}, nil

	case TagTableStructure:
		if _, err := quoteTable(tag.Table, dialect); err != nil {
			return QueryRequest{}, err
		}
		return structureQuery(tag, dialect), nil

	default:
		return QueryRequest{}, fmt.Errorf("no system query for tag %s", tag)
	}
}

func listTablesQuery(dialect DriverType) string {
	switch dialect {
	case MySQL:
		return `SELECT table_schema, table_name FROM information_schema.tables
WHERE table_schema NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
ORDER BY table_schema, table_name ASC;`
	case SQLite:
		return `SELECT 'main' AS table_schema, name AS table_name FROM sqlite_master
WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
ORDER BY name ASC;`
	default:
		return `SELECT table_schema, table_name FROM information_schema.tables
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name ASC;`
	}
}

func structureQuery(tag QueryTag, dialect DriverType) QueryRequest {
	schema := tag.Table.Schema
	switch dialect {
	case SQLite:
		return QueryRequest{
			Tag: tag,
			Statement: `SELECT p.name AS column_name, p.type AS data_type,
CASE WHEN p."notnull" = 1 THEN 'NO' ELSE 'YES' END AS is_nullable,
p.dflt_value AS column_default,
(SELECT f."table" || '(' || f."to" || ')' FROM pragma_foreign_key_list(?) f WHERE f."from" = p.name) AS foreign_key
FROM pragma_table_info(?) p ORDER BY p.cid;`,
			Params: []any{tag.Table.Name, tag.Table.Name},
		}
	case MySQL:
		if schema == "" {
			return QueryRequest{
				Tag:       tag,
				Statement: mysqlStructure("DATABASE()"),
				Params:    []any{tag.Table.Name},
			}
		}
		return QueryRequest{
			Tag:       tag,
			Statement: mysqlStructure("?"),
			Params:    []any{schema, tag.Table.Name},
		}
	default:
		if schema == "" {
			schema = "public"
		}
		return QueryRequest{
			Tag: tag,
			Statement: `SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
CASE WHEN fk.foreign_table IS NOT NULL
     THEN fk.foreign_table || '(' || fk.foreign_column || ')'
END AS foreign_key
FROM information_schema.columns c
LEFT JOIN (
    SELECT kcu.table_schema, kcu.table_name, kcu.column_name,
           ccu.table_name AS foreign_table, ccu.column_name AS foreign_column
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
      ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
    JOIN information_schema.constraint_column_usage ccu
      ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
    WHERE tc.constraint_type = 'FOREIGN KEY'
) fk ON fk.table_schema = c.table_schema AND fk.table_name = c.table_name AND fk.column_name = c.column_name
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position;`,
			Params: []any{schema, tag.Table.Name},
		}
	}
}

func mysqlStructure(schemaExpr string) string {
	return `SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
CASE WHEN k.referenced_table_name IS NOT NULL
     THEN CONCAT(k.referenced_table_name, '(', k.referenced_column_name, ')')
END AS foreign_key
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage k
  ON k.table_schema = c.table_schema AND k.table_name = c.table_name
 AND k.column_name = c.column_name AND k.referenced_table_name IS NOT NULL
WHERE c.table_schema = ` + schemaExpr + ` AND c.table_name = ?
ORDER BY c.ordinal_position;`
}
