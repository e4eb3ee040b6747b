package validate_test

import (
	"database/sql"
	"testing"

	"github.com/gnames/agrietl/pkg/catalog"
	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/agrietl/pkg/record"
	"github.com/gnames/agrietl/pkg/validate"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func row(code string, year int64, values map[string]sql.NullFloat64) record.WideRow {
	return record.WideRow{
		EntityName: sql.NullString{String: "Name of " + code, Valid: true},
		EntityCode: code,
		Year:       sql.NullInt64{Int64: year, Valid: true},
		Values:     values,
	}
}

func validTable() *record.WideTable {
	return &record.WideTable{
		Columns: []string{"food_production_idx", "population_growth_annual_pct"},
		Rows: []record.WideRow{
			row("GHA", 2020, map[string]sql.NullFloat64{
				"food_production_idx":          num(90),
				"population_growth_annual_pct": num(2.1),
			}),
			row("NGA", 2020, map[string]sql.NullFloat64{
				"food_production_idx": num(100),
			}),
		},
	}
}

func schema() *validate.Schema {
	return validate.NewSchema(catalog.Default(), 1999, 2022)
}

func TestNewSchema(t *testing.T) {
	s := schema()
	assert.True(t, s.Strict)
	assert.Equal(t, []string{"entity_code", "year"}, s.UniqueKey)
	require.Len(t, s.Columns, 14)

	year, ok := s.Column("year")
	require.True(t, ok)
	assert.Equal(t, validate.TypeInt, year.Type)
	assert.False(t, year.Nullable)
	assert.True(t, year.Required)
	require.Len(t, year.Checks, 2)
	assert.Equal(t, "ge(1999)", year.Checks[0].Name)
	assert.Equal(t, "le(2022)", year.Checks[1].Name)

	growth, ok := s.Column("population_growth_annual_pct")
	require.True(t, ok)
	assert.True(t, growth.Nullable)
	assert.False(t, growth.Required)
	assert.Empty(t, growth.Checks)

	cereal, ok := s.Column("cereal_yield_kg_per_hectare")
	require.True(t, ok)
	assert.Equal(t, validate.TypeFloat, cereal.Type)
	require.Len(t, cereal.Checks, 1)
	assert.Equal(t, "ge(0)", cereal.Checks[0].Name)
}

func TestValidateSuccess(t *testing.T) {
	table := validTable()
	res, err := validate.Validate(table, schema())
	require.NoError(t, err)
	assert.Same(t, table, res, "input is returned unchanged")
}

func TestValidateMissingIndicatorColumn(t *testing.T) {
	table := validTable()
	table.Columns = []string{"food_production_idx"}
	for i := range table.Rows {
		delete(table.Rows[i].Values, "population_growth_annual_pct")
	}

	_, err := validate.Validate(table, schema())
	assert.NoError(t, err)
}

func TestValidateEmpty(t *testing.T) {
	for _, table := range []*record.WideTable{nil, {}} {
		_, err := validate.Validate(table, schema())
		require.Error(t, err)
		assert.True(t, validate.IsEmptyInput(err))
		assert.Nil(t, validate.Violations(err))

		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.ValidateEmptyInputError, gnErr.Code)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		modify func(tbl *record.WideTable)
		exp    []validate.Violation
	}{
		{
			name: "year below range",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[1].Year.Int64 = 1998
			},
			exp: []validate.Violation{
				{Row: 1, Column: "year", Check: "ge(1999)", Value: "1998"},
			},
		},
		{
			name: "year above range",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[0].Year.Int64 = 2023
			},
			exp: []validate.Violation{
				{Row: 0, Column: "year", Check: "le(2022)", Value: "2023"},
			},
		},
		{
			name: "null year",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[0].Year = sql.NullInt64{}
			},
			exp: []validate.Violation{
				{Row: 0, Column: "year", Check: "not_nullable", Value: "null"},
			},
		},
		{
			name: "bad entity code",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[0].EntityCode = "Gh1"
			},
			exp: []validate.Violation{
				{
					Row:    0,
					Column: "entity_code",
					Check:  "str_matches(^[A-Z]{3}$)",
					Value:  "Gh1",
				},
			},
		},
		{
			name: "null entity name and code",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[1].EntityName = sql.NullString{}
				tbl.Rows[1].EntityCode = ""
			},
			exp: []validate.Violation{
				{Row: 1, Column: "entity_code", Check: "not_nullable", Value: "null"},
				{Row: 1, Column: "entity_name", Check: "not_nullable", Value: "null"},
			},
		},
		{
			name: "negative non-negative indicator",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[1].Values["food_production_idx"] = num(-5)
			},
			exp: []validate.Violation{
				{Row: 1, Column: "food_production_idx", Check: "ge(0)", Value: "-5"},
			},
		},
		{
			name: "negative population growth is accepted",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[0].Values["population_growth_annual_pct"] = num(-0.7)
			},
		},
		{
			name: "unexpected column",
			modify: func(tbl *record.WideTable) {
				tbl.Columns = append(tbl.Columns, "XX.UNKNOWN")
				tbl.Rows[0].Values["XX.UNKNOWN"] = num(1)
			},
			exp: []validate.Violation{
				{
					Row:    -1,
					Column: "XX.UNKNOWN",
					Check:  "column_in_schema",
					Value:  "unexpected column",
				},
			},
		},
		{
			name: "value of undeclared column",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[1].Values["extra"] = num(1)
			},
			exp: []validate.Violation{
				{
					Row:    -1,
					Column: "extra",
					Check:  "column_in_schema",
					Value:  "unexpected column",
				},
			},
		},
		{
			name: "duplicate key",
			modify: func(tbl *record.WideTable) {
				tbl.Rows[1].EntityCode = "GHA"
			},
			exp: []validate.Violation{
				{Row: 0, Column: "entity_code,year", Check: "unique", Value: "GHA,2020"},
				{Row: 1, Column: "entity_code,year", Check: "unique", Value: "GHA,2020"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := validTable()
			tt.modify(table)
			res, err := validate.Validate(table, schema())
			if len(tt.exp) == 0 {
				require.NoError(t, err)
				assert.Same(t, table, res)
				return
			}
			require.Error(t, err)
			assert.Nil(t, res)
			assert.False(t, validate.IsEmptyInput(err))
			assert.Equal(t, tt.exp, validate.Violations(err))
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	table := validTable()
	table.Rows[0].Year.Int64 = 1900
	table.Rows[0].Values["food_production_idx"] = num(-1)
	table.Rows[1].EntityCode = "ng"
	table.Columns = append(table.Columns, "bogus")

	_, err := validate.Validate(table, schema())
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.ValidateSchemaError, gnErr.Code)
	assert.Equal(t, 4, gnErr.Vars[0])

	vs := validate.Violations(err)
	require.Len(t, vs, 4)
	assert.Equal(t, -1, vs[0].Row)
	assert.Equal(t, "bogus", vs[0].Column)
	assert.Equal(t, "food_production_idx", vs[1].Column)
	assert.Equal(t, "year", vs[2].Column)
	assert.Equal(t, "entity_code", vs[3].Column)
}

func TestSummary(t *testing.T) {
	vs := []validate.Violation{
		{Row: 0, Column: "year", Check: "le(2022)"},
		{Row: 1, Column: "year", Check: "le(2022)"},
		{Row: 1, Column: "entity_code", Check: "not_nullable"},
	}
	assert.Equal(t,
		[]string{
			"entity_code: not_nullable failed 1 times",
			"year: le(2022) failed 2 times",
		},
		validate.Summary(vs),
	)
}
