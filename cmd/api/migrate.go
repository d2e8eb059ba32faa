package main

import (
	"log"

	"estack-backend/internal/adapter/repository/sqlstore"
	"estack-backend/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.DBDebug)
			if err != nil {
				return err
			}
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := sqlstore.Migrate(gdb); err != nil {
				return err
			}
			log.Printf("migrate: schema up to date (%s)", cfg.DBDriver)
			return nil
		},
	}
}
