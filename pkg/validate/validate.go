package validate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/agrietl/pkg/record"
)

// Violation is a single failed check. Row is the index of the offending
// row, or -1 for table-level checks.
type Violation struct {
	Row    int
	Column string
	Check  string
	Value  string
}

func (v Violation) String() string {
	if v.Row < 0 {
		return fmt.Sprintf("table: column '%s' failed %s (%s)",
			v.Column, v.Check, v.Value)
	}
	return fmt.Sprintf("row %d: column '%s' failed %s (value: %s)",
		v.Row, v.Column, v.Check, v.Value)
}

// Validate checks every row and column of the table against the schema.
// All violations are collected before returning. On success the input
// table is returned unchanged, an empty table results in EmptyInputError.
func Validate(
	table *record.WideTable,
	schema *Schema,
) (*record.WideTable, error) {
	if table.IsEmpty() {
		return nil, EmptyInputError()
	}

	present := presentColumns(table)

	var res []Violation
	res = append(res, checkColumns(present, schema)...)
	res = append(res, checkValues(table, present, schema)...)
	res = append(res, checkUnique(table, schema)...)

	if len(res) > 0 {
		sortViolations(res)
		return nil, SchemaError(res)
	}
	return table, nil
}

// presentColumns collects declared columns of the table together with
// columns that only appear in row values.
func presentColumns(table *record.WideTable) map[string]struct{} {
	res := make(map[string]struct{})
	for _, v := range table.AllColumns() {
		res[v] = struct{}{}
	}
	for _, row := range table.Rows {
		for k := range row.Values {
			res[k] = struct{}{}
		}
	}
	return res
}

// checkColumns finds missing, unexpected or mistyped columns.
func checkColumns(present map[string]struct{}, schema *Schema) []Violation {
	var res []Violation
	for _, col := range schema.Columns {
		if _, ok := present[col.Name]; !ok && col.Required {
			res = append(res, Violation{
				Row:    -1,
				Column: col.Name,
				Check:  "column_in_dataframe",
				Value:  "missing",
			})
		}
	}

	for name := range present {
		col, ok := schema.Column(name)
		if !ok {
			if schema.Strict {
				res = append(res, Violation{
					Row:    -1,
					Column: name,
					Check:  "column_in_schema",
					Value:  "unexpected column",
				})
			}
			continue
		}
		if actual := columnType(name); actual != col.Type {
			res = append(res, Violation{
				Row:    -1,
				Column: name,
				Check:  fmt.Sprintf("dtype(%s)", col.Type),
				Value:  actual.String(),
			})
		}
	}
	return res
}

// checkValues applies nullability and value checks to every cell of
// declared columns.
func checkValues(
	table *record.WideTable,
	present map[string]struct{},
	schema *Schema,
) []Violation {
	var res []Violation
	for i, row := range table.Rows {
		for _, col := range schema.Columns {
			if _, ok := present[col.Name]; !ok {
				continue
			}
			v := cellValue(row, col.Name)
			if v == nil {
				if !col.Nullable {
					res = append(res, Violation{
						Row:    i,
						Column: col.Name,
						Check:  "not_nullable",
						Value:  "null",
					})
				}
				continue
			}
			for _, chk := range col.Checks {
				if !chk.Fn(v) {
					res = append(res, Violation{
						Row:    i,
						Column: col.Name,
						Check:  chk.Name,
						Value:  fmt.Sprintf("%v", v),
					})
				}
			}
		}
	}
	return res
}

// checkUnique reports every row that shares the unique key with another
// row.
func checkUnique(table *record.WideTable, schema *Schema) []Violation {
	if len(schema.UniqueKey) == 0 {
		return nil
	}

	groups := make(map[string][]int)
	var keys []string
	for i, row := range table.Rows {
		parts := make([]string, len(schema.UniqueKey))
		for j, col := range schema.UniqueKey {
			parts[j] = fmt.Sprintf("%v", cellValue(row, col))
		}
		k := strings.Join(parts, ",")
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}

	var res []Violation
	column := strings.Join(schema.UniqueKey, ",")
	for _, k := range keys {
		rows := groups[k]
		if len(rows) < 2 {
			continue
		}
		for _, i := range rows {
			res = append(res, Violation{
				Row:    i,
				Column: column,
				Check:  "unique",
				Value:  k,
			})
		}
	}
	return res
}

// cellValue returns nil for null cells, string for text, int64 for the
// year and float64 for indicators.
func cellValue(row record.WideRow, column string) any {
	switch column {
	case record.ColEntityName:
		if !row.EntityName.Valid {
			return nil
		}
		return row.EntityName.String
	case record.ColEntityCode:
		if row.EntityCode == "" {
			return nil
		}
		return row.EntityCode
	case record.ColYear:
		if !row.Year.Valid {
			return nil
		}
		return row.Year.Int64
	}
	v := row.Value(column)
	if !v.Valid {
		return nil
	}
	return v.Float64
}

// columnType returns the type a column has in a wide table.
func columnType(column string) ColumnType {
	switch column {
	case record.ColEntityName, record.ColEntityCode:
		return TypeText
	case record.ColYear:
		return TypeInt
	}
	return TypeFloat
}

func sortViolations(vs []Violation) {
	slices.SortStableFunc(vs, func(a, b Violation) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Column, b.Column); c != 0 {
			return c
		}
		return cmp.Compare(a.Check, b.Check)
	})
}

// Summary counts violations per column and check, for logging.
func Summary(vs []Violation) []string {
	type key struct{ column, check string }
	counts := make(map[key]int)
	var keys []key
	for _, v := range vs {
		k := key{v.Column, v.Check}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}

	res := make([]string, len(keys))
	for i, k := range keys {
		res[i] = fmt.Sprintf("%s: %s failed %d times", k.column, k.check, counts[k])
	}
	slices.Sort(res)
	return res
}
