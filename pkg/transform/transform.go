// Package transform reshapes raw long-form observations into a wide table
// with one row per entity and year.
//
// This package has no I/O dependencies.
package transform

import (
	"cmp"
	"database/sql"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/gnlib"
)

// Transform converts raw entries to a wide table. Empty input produces an
// empty table.
func Transform(entries []record.RawEntry, cat *catalog.Catalog) *record.WideTable {
	return Pivot(ToRecords(entries, cat), cat)
}

// ToRecords flattens raw entries into long-form records. Indicator names
// are resolved through the catalog, year and value are coerced to numbers.
// Values that cannot be coerced become null.
func ToRecords(
	entries []record.RawEntry,
	cat *catalog.Catalog,
) []record.IndicatorRecord {
	res := make([]record.IndicatorRecord, 0, len(entries))
	for _, v := range entries {
		rec := record.IndicatorRecord{
			EntityCode:    strings.TrimSpace(v.CountryISO3Code),
			EntityName:    toNullString(v.Country.Value),
			Year:          toNullInt(v.Date),
			IndicatorCode: v.Indicator.ID,
			IndicatorName: toNullString(cat.IndicatorName(v.Indicator.ID)),
			Value:         toNullFloat(v.Value),
		}
		res = append(res, rec)
	}
	return res
}

type rowKey struct {
	code string
	year sql.NullInt64
}

// Pivot groups long-form records by entity code and year and spreads
// indicators into columns.
//
// When several records share entity, year and indicator, the last one in
// input order wins, even if its value is null. The entity name of a row is
// the last non-null name seen for it. Rows are sorted by entity code and
// year, rows without a year go first. Columns follow catalog order,
// indicators unknown to the catalog keep their raw code and go last in
// lexical order.
func Pivot(
	records []record.IndicatorRecord,
	cat *catalog.Catalog,
) *record.WideTable {
	res := &record.WideTable{
		Columns: []string{},
		Rows:    []record.WideRow{},
	}

	rows := make(map[rowKey]*record.WideRow)
	var keys []rowKey
	codes := make(map[string]struct{})

	for _, rec := range records {
		k := rowKey{code: rec.EntityCode, year: rec.Year}
		if !k.year.Valid {
			k.year = sql.NullInt64{}
		}
		row, ok := rows[k]
		if !ok {
			row = &record.WideRow{
				EntityCode: rec.EntityCode,
				Year:       k.year,
				Values:     make(map[string]sql.NullFloat64),
			}
			rows[k] = row
			keys = append(keys, k)
		}
		if rec.EntityName.Valid {
			row.EntityName = rec.EntityName
		}
		row.Values[cat.ColumnName(rec.IndicatorCode)] = rec.Value
		codes[rec.IndicatorCode] = struct{}{}
	}

	res.Columns = columns(codes, cat)

	slices.SortFunc(keys, compareKeys)
	for _, k := range keys {
		res.Rows = append(res.Rows, *rows[k])
	}
	return res
}

func columns(codes map[string]struct{}, cat *catalog.Catalog) []string {
	res := make([]string, 0, len(codes))
	for _, v := range cat.Indicators {
		if _, ok := codes[v.Code]; ok {
			res = append(res, cat.ColumnName(v.Code))
			delete(codes, v.Code)
		}
	}

	var unknown []string
	for k := range codes {
		unknown = append(unknown, k)
	}
	slices.Sort(unknown)
	return append(res, unknown...)
}

func compareKeys(a, b rowKey) int {
	if c := cmp.Compare(a.code, b.code); c != 0 {
		return c
	}
	switch {
	case a.year.Valid == b.year.Valid:
		return cmp.Compare(a.year.Int64, b.year.Int64)
	case !a.year.Valid:
		return -1
	default:
		return 1
	}
}

func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(gnlib.FixUtf8(s))
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullInt(s string) sql.NullInt64 {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}

func toNullFloat(v any) sql.NullFloat64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return sql.NullFloat64{}
		}
	default:
		return sql.NullFloat64{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
