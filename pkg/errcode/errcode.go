package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Catalog errors
	CatalogReadError
	CatalogInvalidError

	// Extract errors
	ExtractNoDataError
	ExtractCancelledError

	// Artifact errors
	ArtifactReadError
	ArtifactWriteError

	// Validate errors
	ValidateEmptyInputError
	ValidateSchemaError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateTableError
	SchemaMigrateError

	// Load errors
	LoadUnknownColumnError
	LoadTransactionError
	LoadStagingError
	LoadCopyError
	LoadMergeError
	LoadRunLogError
	LoadCommitError

	// Orchestration errors
	DAGTaskFailedError
	AlertSendError
	ScheduleError
)
