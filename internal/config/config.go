// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers file and environment values on top of the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "runtime"

// Store drivers understood by the service.
const (
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
	StoreMongo    = "mongo"
)

// MaxImportBatchSize is the largest batch a single store write may carry.
const MaxImportBatchSize = 25

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CORSAllowOrigin is echoed in Access-Control-Allow-Origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin"`

	// RequireToken rejects writes that carry no readable bearer token.
	RequireToken bool `koanf:"require_token"`

	// StoreDriver selects the record store: memory, dynamodb or mongo.
	StoreDriver string `koanf:"store_driver"`

	// AWSRegion and DynamoDBEndpoint configure the DynamoDB client.
	// An empty endpoint uses the regional default.
	AWSRegion        string `koanf:"aws_region"`
	DynamoDBEndpoint string `koanf:"dynamodb_endpoint"`

	// MongoURI and MongoDatabase configure the MongoDB client.
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`

	// Table names.
	TableParticipants string `koanf:"table_participants"`
	TableAssessments  string `koanf:"table_assessments"`
	TableAuditLog     string `koanf:"table_audit_log"`
	TableNotes        string `koanf:"table_notes"`
	TableOrgUnits     string `koanf:"table_org_units"`

	// ImportBatchSize bounds each bulk import write (1..25).
	ImportBatchSize int `koanf:"import_batch_size"`

	// RenameWorkers sets the concurrency of the org unit rename fan-out.
	RenameWorkers int `koanf:"rename_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		CORSAllowOrigin:   "*",
		StoreDriver:       StoreMemory,
		AWSRegion:         "us-east-1",
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "mindset",
		TableParticipants: "mindset-users",
		TableAssessments:  "mindset-assessments",
		TableAuditLog:     "mindset-audit-log",
		TableNotes:        "mindset-notes",
		TableOrgUnits:     "mindset-vbus",
		ImportBatchSize:   MaxImportBatchSize,
		RenameWorkers:     runtime.NumCPU(),
	}
}
