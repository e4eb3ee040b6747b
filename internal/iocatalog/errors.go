package iocatalog

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

func CatalogReadError(path string, err error) error {
	msg := "Cannot read catalog file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.CatalogReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read catalog %s: %w", path, err),
	}
}

func CatalogInvalidError(path string, err error) error {
	msg := `Catalog <em>%s</em> is not valid

<em>How to fix:</em>
  1. Check country codes are ISO 3166-1 alpha-3 (e.g. NGA)
  2. Make sure indicator codes and columns are unique
  3. Remove the file to restore the default catalog`
	vars := []any{path}
	return &gn.Error{
		Code: errcode.CatalogInvalidError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid catalog %s: %w", path, err),
	}
}
