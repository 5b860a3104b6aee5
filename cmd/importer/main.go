package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/apexcoatings/backoffice/internal/database"
	"github.com/apexcoatings/backoffice/internal/importer"
	"github.com/apexcoatings/backoffice/pkg/config"
	"github.com/apexcoatings/backoffice/pkg/util"
)

// Synchronous CSV import against the configured database, for operators who
// would rather watch it run than go through the API and the worker.
func main() {
	file := flag.String("file", "", "path to the CSV export to import")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file <jobs.csv>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("failed to open file", "file", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	result, err := importer.New(db, logger).ImportJobs(context.Background(), f)
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	for _, rowErr := range result.Errors {
		logger.Warn("skipped row", "line", rowErr.Line, "error", rowErr.Err)
	}
	logger.Info("import complete",
		"file", *file,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
}
