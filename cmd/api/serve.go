package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"estack-backend/internal/adapter/repository/sqlstore"
	"estack-backend/internal/config"
	"estack-backend/internal/infrastructure/backup"
	"estack-backend/internal/infrastructure/cache"
	"estack-backend/internal/infrastructure/db"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store := backupStore(cfg)
	if store != nil {
		restored, err := backup.DownloadFile(ctx, store, cfg.DBPath)
		if err != nil {
			return err
		}
		if restored {
			log.Printf("backup: restored %s from %s", cfg.DBPath, cfg.DropboxPath)
		} else {
			log.Printf("backup: no remote copy at %s, starting fresh", cfg.DropboxPath)
		}
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.DBDebug)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := sqlstore.Migrate(gdb); err != nil {
		_ = sqlDB.Close()
		return err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = sqlDB.Close()
			return err
		}
		defer rdb.Close()
	}

	e := newServer(cfg, gdb, rdb, newGateway(cfg))

	bgCtx, cancelBg := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if store != nil && cfg.BackupInterval() > 0 {
		r := &backup.Runner{
			Store:    store,
			Path:     cfg.DBPath,
			Interval: cfg.BackupInterval(),
			Snapshot: backup.VacuumInto(gdb),
		}
		wg.Add(1)
		go func() { defer wg.Done(); r.Run(bgCtx) }()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	cancelBg()
	wg.Wait()

	if err := sqlDB.Close(); err != nil {
		log.Printf("close db: %v", err)
	}
	if store != nil {
		if err := backup.UploadFile(shutdownCtx, store, cfg.DBPath); err != nil {
			log.Printf("backup: final upload failed: %v", err)
		} else {
			log.Printf("backup: uploaded %s to %s", cfg.DBPath, cfg.DropboxPath)
		}
	}
	return runErr
}

// backupStore returns the Dropbox store when backups apply: a token is set
// and the database is a local sqlite file.
func backupStore(cfg *config.Config) backup.Store {
	if !cfg.BackupEnabled() {
		return nil
	}
	if cfg.DBDriver != config.DriverSQLite {
		log.Printf("backup: DROPBOX_TOKEN ignored for driver %s", cfg.DBDriver)
		return nil
	}
	return backup.NewDropboxStore(cfg.DropboxToken, cfg.DropboxPath)
}
