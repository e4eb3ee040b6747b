// Package validate checks a wide table against a declarative schema and
// reports all violations at once.
//
// This package has no I/O dependencies.
package validate

import (
	"fmt"
	"regexp"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/record"
)

// ColumnType is the logical type of a wide-table column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInt
	TypeFloat
)

func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	}
	return "unknown"
}

// Check is a named predicate applied to non-null values of a column.
type Check struct {
	// Name is used in violation reports, for example "ge(0)".
	Name string
	// Fn returns true if value passes the check. The value is string for
	// text columns, int64 for integer columns and float64 for float
	// columns.
	Fn func(v any) bool
}

// ColumnSpec describes the contract of one column.
type ColumnSpec struct {
	Name     string
	Type     ColumnType
	Nullable bool
	// Required columns must be present in the table. Optional columns can
	// be missing, for example when an indicator had no observations.
	Required bool
	Checks   []Check
}

// Schema is the contract of a wide table.
type Schema struct {
	Columns []ColumnSpec
	// UniqueKey lists columns that together have to be unique across rows.
	UniqueKey []string
	// Strict rejects columns that are not declared in Columns.
	Strict bool
}

// NewSchema builds the wide-table schema from the catalog and the accepted
// inclusive year range.
func NewSchema(cat *catalog.Catalog, yearStart, yearEnd int) *Schema {
	res := &Schema{
		Columns: []ColumnSpec{
			{
				Name:     record.ColEntityName,
				Type:     TypeText,
				Required: true,
			},
			{
				Name:     record.ColEntityCode,
				Type:     TypeText,
				Required: true,
				Checks:   []Check{StrMatches(`^[A-Z]{3}$`)},
			},
			{
				Name:     record.ColYear,
				Type:     TypeInt,
				Required: true,
				Checks: []Check{
					GE(float64(yearStart)),
					LE(float64(yearEnd)),
				},
			},
		},
		UniqueKey: []string{record.ColEntityCode, record.ColYear},
		Strict:    true,
	}

	for _, v := range cat.Indicators {
		col := ColumnSpec{
			Name:     v.Column,
			Type:     TypeFloat,
			Nullable: true,
		}
		if !v.AllowNegative {
			col.Checks = []Check{GE(0)}
		}
		res.Columns = append(res.Columns, col)
	}
	return res
}

// Column returns the definition of a column by name.
func (s *Schema) Column(name string) (ColumnSpec, bool) {
	for _, v := range s.Columns {
		if v.Name == name {
			return v, true
		}
	}
	return ColumnSpec{}, false
}

// StrMatches checks text values against a regular expression.
func StrMatches(pattern string) Check {
	re := regexp.MustCompile(pattern)
	return Check{
		Name: fmt.Sprintf("str_matches(%s)", pattern),
		Fn: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
	}
}

// GE checks that a numeric value is greater than or equal to min.
func GE(min float64) Check {
	return Check{
		Name: fmt.Sprintf("ge(%g)", min),
		Fn: func(v any) bool {
			f, ok := toFloat(v)
			return ok && f >= min
		},
	}
}

// LE checks that a numeric value is less than or equal to max.
func LE(max float64) Check {
	return Check{
		Name: fmt.Sprintf("le(%g)", max),
		Fn: func(v any) bool {
			f, ok := toFloat(v)
			return ok && f <= max
		},
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}
