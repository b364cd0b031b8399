// Package importer loads a participant roster from CSV and submits it to
// the bulk import endpoint of a running service.
package importer

import (
	"errors"
	"time"
)

// Defaults used by the CLI.
const (
	DefaultBaseURL   = "http://localhost:9080"
	DefaultTimeout   = 30 * time.Second
	DefaultChunkSize = 500
)

// Sentinel kinds for importer errors.
var (
	ErrParse     = errors.New("csv parse failed")
	ErrUnhealthy = errors.New("service unhealthy")
	ErrRejected  = errors.New("import rejected")
)

// Config holds one import run's settings.
type Config struct {
	BaseURL   string        // Base URL of the service
	File      string        // CSV file to read
	Token     string        // Bearer token sent with the import, optional
	Timeout   time.Duration // HTTP request timeout
	ChunkSize int           // Rows per import request
	DryRun    bool          // Parse and validate only
}

// Result summarizes an import run.
type Result struct {
	Rows       int           // Rows read from the file
	Submitted  int           // Rows sent after local de-duplication
	Imported   int           // Rows the service wrote
	Duplicates int           // Rows dropped as duplicates, locally or by the service
	Requests   int           // Import requests made
	Duration   time.Duration // Wall time of the run
}
