package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"

	"github.com/okian/mindset-tracker/internal/importer"
	"github.com/okian/mindset-tracker/pkg/logger"
)

func main() {
	fs := flag.NewFlagSet("mindset-import", flag.ExitOnError)
	var (
		baseURL   = fs.String("url", importer.DefaultBaseURL, "Base URL of the service")
		file      = fs.String("file", "", "CSV roster: email,name,vbu,track,aiMaturityLevel")
		token     = fs.String("token", "", "Bearer token sent with the import")
		timeout   = fs.Duration("timeout", importer.DefaultTimeout, "HTTP request timeout")
		chunkSize = fs.Int("chunk", importer.DefaultChunkSize, "Rows per import request")
		dryRun    = fs.Bool("dry-run", false, "Parse and validate the file without importing")
		logLevel  = fs.String("log-level", "info", "Log level: debug, info, warn, error")
		_         = fs.String("config", "", "Config file (optional)")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix("MINDSET_IMPORT"),
	); err != nil {
		fmt.Fprintln(os.Stderr, "failed to parse flags:", err)
		os.Exit(2)
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		fs.Usage()
		os.Exit(2)
	}

	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("import")
	if err := logger.SetLevelString(*logLevel); err != nil {
		log.Warn(context.Background(), "invalid log level; using info", logger.String("log_level", *logLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := importer.Run(ctx, &importer.Config{
		BaseURL:   *baseURL,
		File:      *file,
		Token:     *token,
		Timeout:   *timeout,
		ChunkSize: *chunkSize,
		DryRun:    *dryRun,
	}, log)
	if err != nil {
		log.Error(ctx, "import failed",
			logger.Int("imported", res.Imported),
			logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	fmt.Printf("rows=%d submitted=%d imported=%d duplicates=%d requests=%d duration=%s\n",
		res.Rows, res.Submitted, res.Imported, res.Duplicates, res.Requests, res.Duration)
}
