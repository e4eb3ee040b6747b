package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/jackc/pgx/v5"
)

// Columns returns all destination columns in table order: fixed columns
// first, then one column per catalog indicator.
func Columns(cat *catalog.Catalog) []string {
	return append(record.FixedColumns(), cat.Columns()...)
}

// LoadColumns returns fixed columns followed by the indicator columns of
// a wide table, in catalog order. Columns unknown to the catalog are
// ignored, the caller is expected to reject them beforehand.
func LoadColumns(cat *catalog.Catalog, present []string) []string {
	res := record.FixedColumns()
	for _, v := range cat.Columns() {
		if slices.Contains(present, v) {
			res = append(res, v)
		}
	}
	return res
}

// KeyColumns returns the primary key of the destination table.
func KeyColumns() []string {
	return []string{record.ColEntityCode, record.ColYear}
}

// Ident quotes a table or column name. A dot separates the schema from
// the table name.
func Ident(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// Identifier converts a table name into a pgx.Identifier for CopyFrom.
func Identifier(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// StagingName returns the name of the staging table for a destination
// table. Temporary tables live in their own schema, so a schema prefix is
// dropped.
func StagingName(table string) string {
	parts := strings.Split(table, ".")
	return parts[len(parts)-1] + "_staging"
}

// CreateTableSQL creates the destination table if it does not exist yet.
func CreateTableSQL(table string, cat *catalog.Catalog) string {
	defs := []string{
		fmt.Sprintf("  %s TEXT", Ident(record.ColEntityName)),
		fmt.Sprintf("  %s VARCHAR(3) NOT NULL", Ident(record.ColEntityCode)),
		fmt.Sprintf("  %s INTEGER NOT NULL", Ident(record.ColYear)),
	}
	for _, v := range cat.Columns() {
		defs = append(defs, fmt.Sprintf("  %s DOUBLE PRECISION", Ident(v)))
	}
	defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", identList(KeyColumns())))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		Ident(table), strings.Join(defs, ",\n"))
}

// DropStagingSQL removes a leftover staging table of the current session.
func DropStagingSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", Ident(StagingName(table)))
}

// CreateStagingSQL creates an empty temporary copy of the destination
// table. It is dropped automatically when the transaction ends.
func CreateStagingSQL(table string) string {
	return fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING ALL) ON COMMIT DROP",
		Ident(StagingName(table)), Ident(table),
	)
}

// MergeSQL moves staging rows into the destination table. Existing keys
// get every listed non-key column overwritten with the staging value.
func MergeSQL(table string, columns []string) string {
	keys := KeyColumns()
	var set []string
	for _, v := range columns {
		if slices.Contains(keys, v) {
			continue
		}
		col := Ident(v)
		set = append(set, fmt.Sprintf("  %s = EXCLUDED.%s", col, col))
	}

	cols := identList(columns)
	q := fmt.Sprintf("INSERT INTO %s (%s)\nSELECT %s FROM %s\nON CONFLICT (%s)",
		Ident(table), cols, cols, Ident(StagingName(table)), identList(keys))
	if len(set) == 0 {
		return q + " DO NOTHING"
	}
	return q + " DO UPDATE SET\n" + strings.Join(set, ",\n")
}

func identList(names []string) string {
	res := make([]string, len(names))
	for i, v := range names {
		res[i] = Ident(v)
	}
	return strings.Join(res, ", ")
}
