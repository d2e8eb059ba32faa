package main

import (
	"errors"
	"fmt"
	"os"

	"estack-backend/internal/infrastructure/backup"
	"estack-backend/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the sqlite database file to or from Dropbox",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "upload",
		Short: "Upload DB_PATH to DROPBOX_PATH, overwriting the remote copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := backupStore(cfg)
			if store == nil {
				return errors.New("backup: DROPBOX_TOKEN and DB_DRIVER=sqlite are required")
			}
			// a running server may be writing; upload a snapshot, not the live file
			if _, err := os.Stat(cfg.DBPath); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), false)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := backup.UploadSnapshot(cmd.Context(), store, backup.VacuumInto(gdb), cfg.DBPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to %s\n", cfg.DBPath, cfg.DropboxPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Replace DB_PATH with the copy stored at DROPBOX_PATH",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := backupStore(cfg)
			if store == nil {
				return errors.New("backup: DROPBOX_TOKEN and DB_DRIVER=sqlite are required")
			}
			ok, err := backup.DownloadFile(cmd.Context(), store, cfg.DBPath)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "no backup at %s\n", cfg.DropboxPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s from %s\n", cfg.DBPath, cfg.DropboxPath)
			return nil
		},
	})
	return cmd
}
