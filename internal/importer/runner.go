package importer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	service "github.com/okian/mindset-tracker/internal/app"
	"github.com/okian/mindset-tracker/internal/domain/dedupe"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// Run reads cfg.File and imports it chunk by chunk. Duplicate emails are
// dropped before sending so the first occurrence wins across chunks too.
// A rejected chunk stops the run; earlier chunks stay imported and are
// counted in the result.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (Result, error) {
	start := time.Now()

	f, err := os.Open(cfg.File)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", cfg.File, err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return Result{}, err
	}
	unique, dropped := dedupe.FirstWins(rows,
		func(in service.ParticipantInput) string { return in.Email },
		dedupe.WithNormalizer(func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }),
	)

	res := Result{Rows: len(rows), Submitted: len(unique), Duplicates: dropped}
	log.Info(ctx, "roster parsed",
		logger.String("file", cfg.File),
		logger.Int("rows", res.Rows),
		logger.Int("duplicates", dropped))

	if cfg.DryRun || len(unique) == 0 {
		res.Duration = time.Since(start)
		return res, nil
	}

	client := NewClient(cfg.BaseURL, cfg.Token, cfg.Timeout)
	if err := client.CheckHealth(ctx); err != nil {
		return res, err
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	for lo := 0; lo < len(unique); lo += size {
		hi := min(lo+size, len(unique))
		out, err := client.Import(ctx, unique[lo:hi])
		res.Requests++
		if err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("rows %d-%d: %w", lo+1, hi, err)
		}
		res.Imported += out.Imported
		res.Duplicates += out.Duplicates
		log.Debug(ctx, "chunk imported",
			logger.Int("from", lo+1),
			logger.Int("to", hi),
			logger.Int("imported", out.Imported))
	}

	res.Duration = time.Since(start)
	log.Info(ctx, "import completed",
		logger.Int("imported", res.Imported),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("requests", res.Requests),
		logger.String("duration", res.Duration.String()))
	return res, nil
}
