// Package schema generates SQL for the wide destination table and its
// staging copy, and provides GORM models for bookkeeping tables.
package schema

import "time"

// RunLog records one successful load into the destination table.
type RunLog struct {
	// ID is a random UUID of the load.
	ID string `gorm:"type:uuid;primaryKey"`

	// Destination is the name of the table the rows were merged into.
	Destination string `gorm:"type:varchar(255);not null;index"`

	// RowsLoaded is the number of wide rows merged.
	RowsLoaded int64 `gorm:"not null"`

	// Indicators is a comma-separated list of the indicator columns that
	// were present in the load.
	Indicators string `gorm:"type:text"`

	// StartedAt is the time the load transaction began.
	StartedAt time.Time `gorm:"not null"`

	// FinishedAt is the time just before commit.
	FinishedAt time.Time `gorm:"not null"`
}

// TableName overrides the default GORM table name.
func (RunLog) TableName() string {
	return "etl_runs"
}

// RunLogInsertSQL inserts a RunLog row with positional arguments id,
// destination, rows_loaded, indicators, started_at, finished_at.
func RunLogInsertSQL() string {
	return `INSERT INTO etl_runs
  (id, destination, rows_loaded, indicators, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6)`
}
