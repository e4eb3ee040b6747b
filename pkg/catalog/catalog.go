// Package catalog describes which countries and indicators the pipeline
// works with.
//
// The catalog is plain data. Extraction uses it to build requests, the
// transformation uses it to name wide-form columns, validation derives
// per-column predicates from it, and the loader generates table DDL from it.
// Adding an indicator requires a change here only.
package catalog

import (
	"fmt"
	"regexp"
)

var (
	entityCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)
	columnRe     = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Entity is a country taking part in the analysis.
type Entity struct {
	// Code is ISO 3166-1 alpha-3 code of the country.
	Code string `yaml:"code"`
	// Name is a display name of the country.
	Name string `yaml:"name"`
}

// Indicator is a statistical series provided by the remote API.
type Indicator struct {
	// Code is the identifier of the series at the remote API
	// (e.g. AG.YLD.CREL.KG).
	Code string `yaml:"code"`

	// Name is a human-readable description of the series.
	Name string `yaml:"name"`

	// Column is the name of the wide-form and database column that keeps
	// values of the series.
	Column string `yaml:"column"`

	// AllowNegative is true for series that can legitimately have
	// negative values (e.g. annual growth). Other series are required to
	// be non-negative.
	AllowNegative bool `yaml:"allow_negative,omitempty"`
}

// Catalog is the complete set of entities and indicators.
type Catalog struct {
	Entities   []Entity    `yaml:"entities"`
	Indicators []Indicator `yaml:"indicators"`
}

// EntityCodes returns codes of all entities in catalog order.
func (c *Catalog) EntityCodes() []string {
	res := make([]string, len(c.Entities))
	for i, v := range c.Entities {
		res[i] = v.Code
	}
	return res
}

// Indicator finds indicator by its remote code.
func (c *Catalog) Indicator(code string) (Indicator, bool) {
	for _, v := range c.Indicators {
		if v.Code == code {
			return v, true
		}
	}
	return Indicator{}, false
}

// IndicatorName returns the display name of an indicator, or an empty
// string if the code is not in the catalog.
func (c *Catalog) IndicatorName(code string) string {
	if ind, ok := c.Indicator(code); ok {
		return ind.Name
	}
	return ""
}

// ColumnName returns the output column for an indicator code. Codes that
// are not in the catalog keep their raw code as a column name.
func (c *Catalog) ColumnName(code string) string {
	if ind, ok := c.Indicator(code); ok && ind.Column != "" {
		return ind.Column
	}
	return code
}

// Columns returns indicator column names in catalog order.
func (c *Catalog) Columns() []string {
	res := make([]string, len(c.Indicators))
	for i, v := range c.Indicators {
		res[i] = v.Column
	}
	return res
}

// ColumnIndicator finds an indicator by its output column name.
func (c *Catalog) ColumnIndicator(column string) (Indicator, bool) {
	for _, v := range c.Indicators {
		if v.Column == column {
			return v, true
		}
	}
	return Indicator{}, false
}

// IsKnownColumn is true if the column belongs to one of the catalog
// indicators.
func (c *Catalog) IsKnownColumn(column string) bool {
	_, ok := c.ColumnIndicator(column)
	return ok
}

// Validate checks that the catalog can be used to build requests, schemas
// and table DDL.
func (c *Catalog) Validate() error {
	if len(c.Entities) == 0 {
		return fmt.Errorf("catalog has no entities")
	}
	if len(c.Indicators) == 0 {
		return fmt.Errorf("catalog has no indicators")
	}

	entities := make(map[string]struct{})
	for i, v := range c.Entities {
		if !entityCodeRe.MatchString(v.Code) {
			return fmt.Errorf("entity %d: code '%s' must be 3 capital letters",
				i+1, v.Code)
		}
		if _, ok := entities[v.Code]; ok {
			return fmt.Errorf("entity %d: duplicate code '%s'", i+1, v.Code)
		}
		entities[v.Code] = struct{}{}
	}

	codes := make(map[string]struct{})
	columns := make(map[string]struct{})
	for i, v := range c.Indicators {
		if v.Code == "" {
			return fmt.Errorf("indicator %d: code is required", i+1)
		}
		if _, ok := codes[v.Code]; ok {
			return fmt.Errorf("indicator %d: duplicate code '%s'", i+1, v.Code)
		}
		codes[v.Code] = struct{}{}

		if !columnRe.MatchString(v.Column) {
			return fmt.Errorf(
				"indicator %s: column '%s' is not a valid identifier",
				v.Code, v.Column,
			)
		}
		if isFixedColumn(v.Column) {
			return fmt.Errorf(
				"indicator %s: column '%s' clashes with a fixed column",
				v.Code, v.Column,
			)
		}
		if _, ok := columns[v.Column]; ok {
			return fmt.Errorf("indicator %s: duplicate column '%s'",
				v.Code, v.Column)
		}
		columns[v.Column] = struct{}{}
	}
	return nil
}

func isFixedColumn(s string) bool {
	switch s {
	case "entity_name", "entity_code", "year":
		return true
	}
	return false
}
