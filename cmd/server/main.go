package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"fleet-allocation-service/internal/adapters/keyindex"
	"fleet-allocation-service/internal/adapters/notify"
	paceadapters "fleet-allocation-service/internal/adapters/pace"
	"fleet-allocation-service/internal/adapters/repositories"
	"fleet-allocation-service/internal/adapters/tabular"
	"fleet-allocation-service/internal/api"
	"fleet-allocation-service/internal/config"
	"fleet-allocation-service/internal/platform/db"
	"fleet-allocation-service/internal/ports"
	"fleet-allocation-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, Redis, XLSX uploads)
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database, store, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer database.Close()

	mapping, err := cfg.CategoryMapping()
	if err != nil {
		logger.Fatal("load category mapping", zap.Error(err))
	}
	mapper, err := services.NewCategoryMapper(mapping)
	if err != nil {
		// Unknown category in the mapping table: fatal before any run.
		logger.Fatal("validate category mapping", zap.Error(err))
	}

	index := openKeyIndex(cfg, logger)

	engine := &services.AppendEngine{Store: store, Index: index, Log: logger}
	roster := repositories.NewSQLRosterSource(database)
	uploads := tabular.NewXLSXSource(cfg.DatasetDir)

	runner := &services.AllocationRunner{
		Tabular:  uploads,
		Roster:   roster,
		Mapper:   mapper,
		Engine:   engine,
		Sentinel: cfg.OperationalSentinel,
		Log:      logger,
	}

	submissions := paceadapters.NewSQLSubmissionSource(database, logger)

	// Authoritative driver submissions first; the imported pace sheet, when
	// configured, is the fallback of last resort.
	sources := []ports.PaceSource{submissions}
	if cfg.PaceDataset != "" {
		sources = append(sources, &paceadapters.SheetPaceSource{
			Source:    uploads,
			DatasetID: cfg.PaceDataset,
			Table:     cfg.PaceTable,
			Log:       logger,
		})
	}

	aggregator := &services.PaceAggregator{Sources: sources, Log: logger}
	tracker := &services.PaceTracker{Store: store, Recorder: submissions, Log: logger}

	router := api.NewRouter(api.Deps{
		Log:              logger,
		Roster:           roster,
		Store:            store,
		Notifier:         notify.NewZapNotifier(logger),
		Runner:           runner,
		Tracker:          tracker,
		Aggregator:       aggregator,
		RoutesTable:      cfg.RoutesTable,
		AssignmentsTable: cfg.AssignmentsTable,
		DefaultDataset:   cfg.DefaultDataset,
		DefaultPartner:   cfg.PartnerFilter,
	})

	logger.Info("server listening", zap.String("port", cfg.ServerPort))
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Fatal("server stopped", zap.Error(srv.ListenAndServe()))
}

// openStorage picks Postgres when DATABASE_URL is set, local SQLite
// otherwise. SQLite also gets schema init and roster seeding for local runs.
func openStorage(cfg *config.Config, logger *zap.Logger) (*sql.DB, ports.HistoryStore, error) {
	if cfg.DatabaseURL != "" {
		database, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres history store")
		return database, repositories.NewSQLHistoryStore(database), nil
	}

	database, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite database %q: %w", cfg.DBPath, err)
	}
	if err := database.Ping(); err != nil {
		return nil, nil, fmt.Errorf("verify sqlite connection to %q: %w", cfg.DBPath, err)
	}

	if err := repositories.InitSchema(database); err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(cfg.SeedPath); err == nil {
		if err := repositories.SeedRosterFromJSON(database, cfg.SeedPath); err != nil {
			return nil, nil, err
		}
	}

	logger.Info("using sqlite history store", zap.String("path", cfg.DBPath))
	return database, repositories.NewSqliteHistoryStore(database), nil
}

func openKeyIndex(cfg *config.Config, logger *zap.Logger) ports.KeyIndex {
	if cfg.RedisAddr == "" {
		return keyindex.NewMemoryKeyIndex()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("using redis key index", zap.String("addr", cfg.RedisAddr))
	return keyindex.NewRedisKeyIndex(client, "")
}

func initLogger(debug bool) *zap.Logger {
	var zcfg zap.Config
	if debug {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
	}

	logger, _ := zcfg.Build()
	return logger
}
