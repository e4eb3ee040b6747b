// Package record defines long-form and wide-form representations of
// indicator observations.
package record

import (
	"database/sql"
)

// Names of the fixed columns of the wide table.
const (
	ColEntityName = "entity_name"
	ColEntityCode = "entity_code"
	ColYear       = "year"
)

// FixedColumns returns the fixed columns in the order they appear in the
// wide table and in the destination table.
func FixedColumns() []string {
	return []string{ColEntityName, ColEntityCode, ColYear}
}

// IDValue is a nested identifier-value pair used by the remote API.
type IDValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// RawEntry is one observation as the remote API returns it. Entries are
// written to the raw artifact without changes.
type RawEntry struct {
	Indicator       IDValue `json:"indicator"`
	Country         IDValue `json:"country"`
	CountryISO3Code string  `json:"countryiso3code"`
	Date            string  `json:"date"`

	// Value is usually a number or null. It is kept untyped so that
	// unexpected values reach the transformation step, where they are
	// coerced to null.
	Value any `json:"value"`

	Unit      string `json:"unit"`
	ObsStatus string `json:"obs_status"`
	Decimal   int    `json:"decimal"`
}

// IndicatorRecord is a long-form observation: one row per entity,
// indicator and year.
type IndicatorRecord struct {
	EntityCode    string
	EntityName    sql.NullString
	Year          sql.NullInt64
	IndicatorCode string
	IndicatorName sql.NullString
	Value         sql.NullFloat64
}

// WideRow is a wide-form observation, one row per entity and year.
type WideRow struct {
	EntityName sql.NullString `json:"entity_name"`
	EntityCode string         `json:"entity_code"`
	Year       sql.NullInt64  `json:"year"`

	// Values keeps indicator values by column name. A missing key means
	// there was no observation.
	Values map[string]sql.NullFloat64 `json:"values"`
}

// Value returns the value of an indicator column. Missing observations
// are returned as null.
func (r WideRow) Value(column string) sql.NullFloat64 {
	if r.Values == nil {
		return sql.NullFloat64{}
	}
	return r.Values[column]
}

// WideTable is a set of wide rows together with the list of indicator
// columns they have.
type WideTable struct {
	// Columns are indicator columns in output order. Fixed columns are not
	// included.
	Columns []string  `json:"columns"`
	Rows    []WideRow `json:"rows"`
}

// Len returns the number of rows.
func (t *WideTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty is true when the table has no rows.
func (t *WideTable) IsEmpty() bool {
	return t.Len() == 0
}

// AllColumns returns fixed columns followed by indicator columns.
func (t *WideTable) AllColumns() []string {
	res := FixedColumns()
	if t == nil {
		return res
	}
	return append(res, t.Columns...)
}
