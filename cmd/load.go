/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"github.com/gnames/agrietl/internal/iostage"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command.
func getLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Merge validated data into PostgreSQL",
		Long: `Copy the validated table into a temporary staging table and merge
it into the destination table by (entity_code, year) in one transaction.
Existing rows are updated, new rows are inserted. On failure the
destination table is not changed.

Intermediate files are removed after a successful load.

Examples:
  agrietl load
  agrietl load -t analytics.agri_metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := iostage.New(cfg, cat).Load(cmd.Context())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}
