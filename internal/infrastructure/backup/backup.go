package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Store.Download when no backup exists yet.
var ErrNotFound = errors.New("backup: remote file not found")

// Store keeps a single remote copy of the database file.
type Store interface {
	Upload(ctx context.Context, r io.Reader) error
	Download(ctx context.Context) (io.ReadCloser, error)
}

// UploadFile copies the local file at path to the store.
func UploadFile(ctx context.Context, s Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", path, err)
	}
	defer f.Close()
	if err := s.Upload(ctx, f); err != nil {
		return fmt.Errorf("backup: upload %s: %w", path, err)
	}
	return nil
}

// Snapshotter writes a consistent copy of the live database to dst, an
// empty file.
type Snapshotter func(ctx context.Context, dst string) error

// VacuumInto snapshots a sqlite database with VACUUM INTO, which reads inside
// a single transaction and so never sees a half-applied write.
func VacuumInto(db *gorm.DB) Snapshotter {
	return func(ctx context.Context, dst string) error {
		return db.WithContext(ctx).Exec("VACUUM INTO ?", dst).Error
	}
}

// UploadSnapshot snapshots the database into a temp file next to path and
// uploads that copy. The temp file is always removed.
func UploadSnapshot(ctx context.Context, s Store, snap Snapshotter, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.snap")
	if err != nil {
		return fmt.Errorf("backup: temp file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := snap(ctx, name); err != nil {
		return fmt.Errorf("backup: snapshot %s: %w", path, err)
	}
	return UploadFile(ctx, s, name)
}

// DownloadFile replaces the local file at path with the stored copy. It
// reports false, and leaves path untouched, when the store holds nothing.
func DownloadFile(ctx context.Context, s Store, path string) (bool, error) {
	rc, err := s.Download(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("backup: download: %w", err)
	}
	defer rc.Close()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("backup: temp file: %w", err)
	}
	// removes nothing once the rename succeeded
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return false, fmt.Errorf("backup: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("backup: replace %s: %w", path, err)
	}
	return true, nil
}

// Runner uploads the database at Path every Interval until its context ends.
// With a Snapshot set it uploads a snapshot instead of the live file.
type Runner struct {
	Store    Store
	Path     string
	Interval time.Duration
	Snapshot Snapshotter
}

func (r *Runner) upload(ctx context.Context) error {
	if r.Snapshot != nil {
		return UploadSnapshot(ctx, r.Store, r.Snapshot, r.Path)
	}
	return UploadFile(ctx, r.Store, r.Path)
}

func (r *Runner) Run(ctx context.Context) {
	if r.Interval <= 0 {
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.upload(ctx); err != nil {
				log.Printf("backup: periodic upload failed: %v", err)
				continue
			}
			log.Printf("backup: uploaded %s", r.Path)
		}
	}
}
