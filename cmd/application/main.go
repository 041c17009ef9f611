package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"gopointsync_api/config"
	"gopointsync_api/internal/boxberry"
	"gopointsync_api/internal/costimport"
	"gopointsync_api/internal/reconcile"
	"gopointsync_api/internal/storage"
	"gopointsync_api/internal/yandexmarket"
	"gopointsync_api/metrics"
	"gopointsync_api/migrations"
	"gopointsync_api/pkg/dbconnect/postgres"
	"gopointsync_api/pkg/logger"
	"gopointsync_api/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	forceUpdate := flag.Bool("force-update", false, "Force updates all outlets with data from Boxberry. Default: false")
	refreshRegions := flag.Bool("refresh-regions", false, "Refresh the region id cache before reconciling. Default: false")
	loadCosts := flag.String("load-costs", "", "Load delivery cost overrides from a CSV file before reconciling")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("can not load config %s: %v", *configPath, err)
	}
	// Единственный фатальный выход: дальнейшие сбои логируются и не меняют
	// код выхода.
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	zlog := logger.New(cfg.LogFileName)
	defer zlog.Sync()

	// База может быть описана и в YAML, и переменными окружения.
	if !cfg.Postgres.Configured() {
		if env := config.GetPostgresConfig(); env.Configured() {
			cfg.Postgres = *env
		}
	}

	var (
		db    *sql.DB
		dbErr error
	)
	if cfg.Postgres.Configured() {
		db, dbErr = postgres.NewPgConnector(&cfg.Postgres).Connect()
		if dbErr == nil {
			dbErr = migrations.RunAll(db)
		}
		if dbErr == nil {
			defer db.Close()
		} else if db != nil {
			db.Close()
			db = nil
		}
	}
	regions, costs, costWriter := repositoriesFor(db, dbErr, zlog)

	if *loadCosts != "" {
		file, err := os.Open(*loadCosts)
		if err != nil {
			zlog.Errorf("Can not open cost overrides file %s: %v", *loadCosts, err)
		} else {
			if _, err := costimport.NewLoader(costWriter, zlog).Load(file); err != nil {
				zlog.Errorf("Can not load cost overrides: %v", err)
			}
			file.Close()
		}
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.MetricsHandler())
			if err := http.ListenAndServe(cfg.MetricsAddr, middleware.PrometheusMiddleware(mux)); err != nil {
				zlog.Warnf("metrics endpoint stopped: %v", err)
			}
		}()
	}

	bxbClient := boxberry.NewClient(cfg.Boxberry.Token, "", cfg.Sync.Attempts, zlog)
	ymClient := yandexmarket.NewClient(
		cfg.YandexMarket.Token,
		cfg.YandexMarket.ClientID,
		cfg.YandexMarket.CampaignID,
		"",
		cfg.Sync.Attempts,
		zlog,
	)

	service := reconcile.NewService(bxbClient, ymClient, regions, costs, cfg, zlog)

	ctx := context.Background()

	if *refreshRegions {
		if err := service.RefreshRegionCache(ctx); err != nil {
			zlog.Errorf("Region cache refresh failed: %v", err)
		}
	}

	stats, err := service.Run(ctx, *forceUpdate)
	if err != nil {
		zlog.Errorf("Reconciliation aborted: %v", err)
		return
	}
	zlog.Infof("Run finished: removed %d, updated %d, added %d, skipped %d",
		stats.Removed, stats.Updated, stats.Added, stats.Skipped)
}

// repositoriesFor выбирает хранилище. Недоступность базы не фатальна:
// падаем на память с потерей кеша между прогонами, сам прогон от базы не
// зависит.
func repositoriesFor(db *sql.DB, dbErr error, zlog *zap.SugaredLogger) (
	storage.RegionRepository,
	storage.CostOverrideRepository,
	costimport.OverrideWriter,
) {
	if dbErr != nil {
		zlog.Errorf("Postgres is unavailable, region cache will not survive this run: %v", dbErr)
	} else if db == nil {
		zlog.Warn("Postgres is not configured, region cache will not survive this run")
	}
	if db == nil {
		memCosts := storage.NewCostOverrideRepositoryMem()
		return storage.NewRegionRepositoryMem(), memCosts, memCosts
	}
	pgCosts := storage.NewCostOverrideRepositoryPg(db)
	return storage.NewRegionRepositoryPg(db), pgCosts, pgCosts
}
