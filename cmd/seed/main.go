// Command seed loads an RVU reference release from a CSV export into the
// reference.rvu_codes table. Expected columns: hcpcs, description,
// status_code, work_rvu. Rows with an existing hcpcs are updated in place; a
// header row is detected and skipped.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/domain/rvucode"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/logger"
)

func main() {
	var (
		path    = flag.String("file", "", "path to the RVU reference CSV")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall import timeout")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -file <rvu-codes.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *path, *timeout); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger, path string, timeout time.Duration) error {
	codes, err := readCodes(path)
	if err != nil {
		return err
	}
	log.Info("parsed reference csv", zap.Int("codes", len(codes)), zap.String("file", path))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repo := repository.NewRVUCodeRepository(db, log)
	start := time.Now()
	if err := repo.UpsertBatch(ctx, codes); err != nil {
		return err
	}

	log.Info("reference table seeded",
		zap.Int("codes", len(codes)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func readCodes(path string) ([]rvucode.ReferenceCode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	r.TrimLeadingSpace = true

	var codes []rvucode.ReferenceCode
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line++

		hcpcs := strings.ToUpper(strings.TrimSpace(record[0]))
		if line == 1 && strings.EqualFold(hcpcs, "hcpcs") {
			continue
		}
		if hcpcs == "" {
			continue
		}

		workRvu, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid work_rvu %q: %w", line, record[3], err)
		}

		codes = append(codes, rvucode.ReferenceCode{
			Hcpcs:       hcpcs,
			Description: strings.TrimSpace(record[1]),
			StatusCode:  strings.ToUpper(strings.TrimSpace(record[2])),
			WorkRvu:     workRvu,
		})
	}

	if len(codes) == 0 {
		return nil, fmt.Errorf("no reference codes found in %s", path)
	}
	return codes, nil
}
