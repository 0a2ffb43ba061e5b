package main

import (
	"clinic/cmd/internal/config"
	"clinic/cmd/internal/domain/storage"
	"clinic/cmd/internal/domain/storage/repository"
	"clinic/cmd/internal/service"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/log"
)

func runExport(out string) error {
	cfg, err := config.LoadStorage()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(db) }()

	exporter := service.NewExportService(
		repository.NewUserRepository(db),
		repository.NewAppointmentRepository(db),
		repository.NewMedicalRecordRepository(db),
	)

	if err := writeFileAtomic(out, exporter.Export); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	log.Infof("database exported to %s", out)
	return nil
}

// writeFileAtomic writes into a temp file next to path and renames it into
// place once write succeeds. On failure path is left as it was.
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
